// ABOUTME: Defines functional options for configuring the SDK client and operations.
// ABOUTME: Follows the functional options pattern used by AWS, Google Cloud, and Stripe Go SDKs.

package formatex

import (
	"log/slog"
	"net/http"
	"time"
)

// options holds the configuration for a Client.
type options struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	insecure   bool
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithAPIKey sets the API key.
// Overrides FORMATEX_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithBaseURL sets the FormaTex server URL.
// Overrides FORMATEX_BASE_URL environment variable.
// Default: https://api.formatex.com.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
// Use this to configure timeouts, TLS, or proxies.
// When a custom client is provided, WithTimeout is ignored;
// configure the timeout directly on the provided client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a structured logger for debug output.
// If not set, the SDK is silent.
func WithLogger(handler slog.Handler) Option {
	return func(o *options) {
		if handler != nil {
			o.logger = slog.New(handler)
		}
	}
}

// WithInsecure allows HTTP connections (not recommended for production).
// Overrides FORMATEX_INSECURE environment variable.
func WithInsecure() Option {
	return func(o *options) {
		o.insecure = true
	}
}

// WithTimeout sets the default timeout for API operations.
// Default: 120 seconds, the service's compile ceiling.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// compileOptions holds the configuration for a compile call.
type compileOptions struct {
	engine  string
	timeout int
	runs    int
	files   []FileEntry
	smart   bool
}

// CompileOption configures a compile call.
type CompileOption func(*compileOptions)

// WithEngine selects the compiler backend
// (pdflatex, xelatex, lualatex, latexmk).
// Default: pdflatex. Ignored by smart compilation.
func WithEngine(engine string) CompileOption {
	return func(o *compileOptions) {
		o.engine = engine
	}
}

// WithCompileTimeout sets the maximum compile time in seconds.
// The ceiling is plan-limited; the server default applies when unset.
func WithCompileTimeout(seconds int) CompileOption {
	return func(o *compileOptions) {
		o.timeout = seconds
	}
}

// WithRuns sets the number of compiler passes (1-5).
func WithRuns(n int) CompileOption {
	return func(o *compileOptions) {
		o.runs = n
	}
}

// WithFiles attaches companion files (images, .bib, included .tex)
// to the compilation.
func WithFiles(files ...FileEntry) CompileOption {
	return func(o *compileOptions) {
		o.files = append(o.files, files...)
	}
}

// WithSmart switches CompileToFile to smart compilation.
func WithSmart() CompileOption {
	return func(o *compileOptions) {
		o.smart = true
	}
}

// waitOptions holds the configuration for a WaitForJob call.
type waitOptions struct {
	interval time.Duration
	timeout  time.Duration
}

// WaitOption configures a WaitForJob call.
type WaitOption func(*waitOptions)

// WithPollInterval sets the delay between status checks.
// Default: 2 seconds.
func WithPollInterval(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.interval = d
	}
}

// WithWaitTimeout sets how long WaitForJob keeps polling before giving up.
// Default: 120 seconds. A context deadline, when earlier, wins.
func WithWaitTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.timeout = d
	}
}
