// ABOUTME: Package formatex provides a Go SDK for the FormaTex API.
// ABOUTME: This is the main package containing the Client and result types.

// Package formatex provides a Go SDK for the FormaTex LaTeX-to-PDF
// compilation service.
//
// # Quick Start
//
// Create a client and compile a document:
//
//	client, err := formatex.NewClient()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Compile(ctx, `\documentclass{article}
//	\begin{document}Hello\end{document}`)
//	if err != nil {
//	    if formatex.IsCompileError(err) {
//	        log.Fatal(formatex.CompileLog(err))
//	    }
//	    log.Fatal(err)
//	}
//
//	os.WriteFile("out.pdf", result.PDF, 0o644)
//
// # Configuration
//
// The client reads configuration from environment variables by default:
//
//   - FORMATEX_API_KEY: API key (required)
//   - FORMATEX_BASE_URL: server URL (optional)
//   - FORMATEX_INSECURE: allow HTTP connections (optional)
//
// Configuration can also be provided explicitly:
//
//	client, err := formatex.NewClient(
//	    formatex.WithAPIKey("fx_your_api_key"),
//	    formatex.WithBaseURL("https://api.formatex.com"),
//	)
//
// # Error Handling
//
// All API errors are returned as typed errors that can be inspected:
//
//	if formatex.IsAuthError(err) {
//	    // Handle 401 - invalid API key
//	}
//	if formatex.IsPlanLimit(err) {
//	    // Handle 403 - plan limit exceeded
//	}
//	if formatex.IsRateLimited(err) {
//	    backoff := formatex.RetryAfter(err)
//	    // Handle 429
//	}
//
// # Asynchronous Compilation
//
// Large documents can be compiled asynchronously:
//
//	job, err := client.SubmitCompile(ctx, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := client.WaitForJob(ctx, job.ID)
//
// # Thread Safety
//
// The Client is safe for concurrent use after construction.
// Result values are plain data and never modified by the SDK.
package formatex
