package formatex

import (
	"time"

	"github.com/formatex/formatex-go/internal/apierror"
)

// APIError represents an error response from the FormaTex API.
type APIError = apierror.APIError

// IsAuthError reports whether err indicates an invalid or missing API key (401).
func IsAuthError(err error) bool {
	return apierror.IsAuthError(err)
}

// IsPlanLimit reports whether err indicates a plan limit was exceeded or the
// feature is not available on the caller's plan (403).
func IsPlanLimit(err error) bool {
	return apierror.IsPlanLimit(err)
}

// IsNotFound reports whether err indicates a resource was not found (404),
// such as an unknown or already-deleted job.
func IsNotFound(err error) bool {
	return apierror.IsNotFound(err)
}

// IsCompileError reports whether err indicates the document failed to
// compile (422). Use CompileLog to read the compiler output.
func IsCompileError(err error) bool {
	return apierror.IsCompileError(err)
}

// IsRateLimited reports whether err indicates too many requests (429).
// Use RetryAfter to read the server-suggested backoff.
func IsRateLimited(err error) bool {
	return apierror.IsRateLimited(err)
}

// CompileLog returns the compiler log attached to a compilation failure,
// or "" when err carries none.
func CompileLog(err error) string {
	return apierror.CompileLog(err)
}

// RetryAfter returns the backoff attached to a rate-limit error,
// or zero when err carries none.
func RetryAfter(err error) time.Duration {
	return apierror.RetryAfter(err)
}
