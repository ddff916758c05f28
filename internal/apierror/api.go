// ABOUTME: API error type for FormaTex API failures.
// ABOUTME: Provides structured error information and helper functions.

package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError represents an error response from the FormaTex API.
type APIError struct {
	StatusCode int
	Message    string

	// Log holds the compiler output for compilation failures (422).
	Log string

	// RetryAfter is the server-suggested backoff for rate limiting (429).
	// Zero when the server did not send a Retry-After header.
	RetryAfter time.Duration

	// Body is the decoded error response, when the server sent JSON.
	Body map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("formatex: %s (status %d)", e.Message, e.StatusCode)
}

// IsAuthError reports whether err indicates an invalid or missing API key (401).
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsPlanLimit reports whether err indicates a plan limit was exceeded or the
// feature is not available on the caller's plan (403).
func IsPlanLimit(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsNotFound reports whether err indicates a resource was not found (404).
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsCompileError reports whether err indicates the document failed to
// compile (422). The compiler log is available via CompileLog.
func IsCompileError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// IsRateLimited reports whether err indicates too many requests (429).
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// CompileLog returns the compiler log attached to a compilation failure,
// or "" when err is not a compilation failure.
func CompileLog(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Log
	}
	return ""
}

// RetryAfter returns the server-suggested backoff attached to a rate-limit
// error, or zero when err carries none.
func RetryAfter(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}
