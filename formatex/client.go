// ABOUTME: Main SDK client for the FormaTex LaTeX-to-PDF API.
// ABOUTME: Provides NewClient constructor and the synchronous operations.

package formatex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/formatex/formatex-go/internal/transport"
)

// DefaultBaseURL is the production FormaTex API endpoint.
const DefaultBaseURL = "https://api.formatex.com"

// defaultEngine is used when a compile call does not select one.
const defaultEngine = "pdflatex"

// Client is the FormaTex SDK client.
// It is safe for concurrent use after construction.
type Client struct {
	transport *transport.Client
	opts      options
}

// NewClient creates a new FormaTex client with the given options.
// Values not provided explicitly are read from environment variables:
//   - FORMATEX_API_KEY: API key (required)
//   - FORMATEX_BASE_URL: server URL (optional, defaults to the production API)
//   - FORMATEX_INSECURE: allow HTTP (optional, default false)
func NewClient(clientOpts ...Option) (*Client, error) {
	opts := options{}

	// Apply provided options first (they take precedence over env vars)
	for _, opt := range clientOpts {
		opt(&opts)
	}

	// Fill in missing values from environment variables
	if opts.apiKey == "" {
		opts.apiKey = os.Getenv("FORMATEX_API_KEY")
	}
	if opts.baseURL == "" {
		opts.baseURL = os.Getenv("FORMATEX_BASE_URL")
	}
	if !opts.insecure {
		if v := os.Getenv("FORMATEX_INSECURE"); v == "true" || v == "1" {
			opts.insecure = true
		}
	}

	if opts.apiKey == "" {
		return nil, fmt.Errorf("formatex: API key is required (set FORMATEX_API_KEY or use WithAPIKey)")
	}
	if opts.baseURL == "" {
		opts.baseURL = DefaultBaseURL
	}

	parsedURL, err := url.Parse(opts.baseURL)
	if err != nil {
		return nil, fmt.Errorf("formatex: invalid base URL: %w", err)
	}

	// Enforce HTTPS unless insecure mode is enabled
	if !opts.insecure && parsedURL.Scheme == "http" {
		return nil, fmt.Errorf("formatex: HTTP is not allowed (use HTTPS or enable insecure mode with WithInsecure)")
	}

	// Normalize scheme if missing
	if parsedURL.Scheme == "" {
		parsedURL.Scheme = "https"
		opts.baseURL = parsedURL.String()
	}

	transportClient, err := transport.New(transport.Config{
		BaseURL:    opts.baseURL,
		APIKey:     opts.apiKey,
		HTTPClient: opts.httpClient,
		Logger:     opts.logger,
		Timeout:    opts.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("formatex: failed to create transport: %w", err)
	}

	return &Client{
		transport: transportClient,
		opts:      opts,
	}, nil
}

// BaseURL returns the configured FormaTex server URL.
func (c *Client) BaseURL() string {
	return c.opts.baseURL
}

// IsInsecure returns whether insecure (HTTP) connections are allowed.
func (c *Client) IsInsecure() bool {
	return c.opts.insecure
}

// compileRequest is the request body shared by the compile endpoints.
type compileRequest struct {
	Latex   string      `json:"latex"`
	Engine  string      `json:"engine"`
	Timeout int         `json:"timeout,omitempty"`
	Runs    int         `json:"runs,omitempty"`
	Files   []FileEntry `json:"files,omitempty"`
}

func buildCompileRequest(latex string, o *compileOptions) compileRequest {
	engine := o.engine
	if engine == "" {
		engine = defaultEngine
	}
	return compileRequest{
		Latex:   latex,
		Engine:  engine,
		Timeout: o.timeout,
		Runs:    o.runs,
		Files:   o.files,
	}
}

// Compile compiles LaTeX source to PDF.
func (c *Client) Compile(ctx context.Context, latex string, opts ...CompileOption) (*CompileResult, error) {
	if latex == "" {
		return nil, fmt.Errorf("formatex: latex source is required")
	}

	o := &compileOptions{}
	for _, opt := range opts {
		opt(o)
	}

	req := buildCompileRequest(latex, o)

	var resp compileResponse
	if err := c.transport.Post(ctx, "/api/v1/compile", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	result, err := resp.toResult()
	if err != nil {
		return nil, err
	}
	if result.Engine == "" {
		result.Engine = req.Engine
	}
	return result, nil
}

// CompileSmart compiles with engine auto-detection and automatic fixes.
// The result's Analysis field describes the detected engine.
func (c *Client) CompileSmart(ctx context.Context, latex string, opts ...CompileOption) (*CompileResult, error) {
	if latex == "" {
		return nil, fmt.Errorf("formatex: latex source is required")
	}

	o := &compileOptions{}
	for _, opt := range opts {
		opt(o)
	}
	o.engine = "auto"

	req := buildCompileRequest(latex, o)

	var resp compileResponse
	if err := c.transport.Post(ctx, "/api/v1/compile/smart", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	result, err := resp.toResult()
	if err != nil {
		return nil, err
	}
	if result.Engine == "" {
		result.Engine = "auto"
	}
	return result, nil
}

// CompileToFile compiles and writes the PDF to path.
// With WithSmart, smart compilation is used instead of the basic endpoint.
func (c *Client) CompileToFile(ctx context.Context, latex, path string, opts ...CompileOption) (*CompileResult, error) {
	o := &compileOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var result *CompileResult
	var err error
	if o.smart {
		result, err = c.CompileSmart(ctx, latex, opts...)
	} else {
		result, err = c.Compile(ctx, latex, opts...)
	}
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, result.PDF, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return result, nil
}

// CheckSyntax validates LaTeX syntax without compiling.
// Syntax checks are free and do not count against the compilation quota.
func (c *Client) CheckSyntax(ctx context.Context, latex string) (*SyntaxResult, error) {
	if latex == "" {
		return nil, fmt.Errorf("formatex: latex source is required")
	}

	req := struct {
		Latex string `json:"latex"`
	}{Latex: latex}

	var resp struct {
		Valid    bool          `json:"valid"`
		Errors   []SyntaxIssue `json:"errors"`
		Warnings []SyntaxIssue `json:"warnings"`
	}

	if err := c.transport.Post(ctx, "/api/v1/compile/check", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to check syntax: %w", err)
	}

	return &SyntaxResult{
		Valid:    resp.Valid,
		Errors:   resp.Errors,
		Warnings: resp.Warnings,
	}, nil
}

// Lint runs the linter over LaTeX source and returns its diagnostics.
func (c *Client) Lint(ctx context.Context, latex string) (*LintResult, error) {
	if latex == "" {
		return nil, fmt.Errorf("formatex: latex source is required")
	}

	req := struct {
		Latex string `json:"latex"`
	}{Latex: latex}

	var resp struct {
		Diagnostics []LintDiagnostic `json:"diagnostics"`
		Duration    int64            `json:"duration"`
	}

	if err := c.transport.Post(ctx, "/api/v1/lint", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to lint: %w", err)
	}

	diags := resp.Diagnostics
	if diags == nil {
		diags = []LintDiagnostic{}
	}

	return &LintResult{
		Diagnostics: diags,
		Duration:    millis(resp.Duration),
	}, nil
}

// Convert converts LaTeX source to DOCX.
func (c *Client) Convert(ctx context.Context, latex string, files ...FileEntry) (*ConvertResult, error) {
	if latex == "" {
		return nil, fmt.Errorf("formatex: latex source is required")
	}

	req := struct {
		Latex string      `json:"latex"`
		Files []FileEntry `json:"files,omitempty"`
	}{Latex: latex, Files: files}

	docx, err := c.transport.PostRaw(ctx, "/api/v1/convert", req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert: %w", err)
	}

	return &ConvertResult{
		DOCX:      docx,
		SizeBytes: int64(len(docx)),
	}, nil
}

// ConvertToFile converts and writes the DOCX to path.
func (c *Client) ConvertToFile(ctx context.Context, latex, path string, files ...FileEntry) (*ConvertResult, error) {
	result, err := c.Convert(ctx, latex, files...)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, result.DOCX, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write docx: %w", err)
	}
	return result, nil
}

// Usage returns the current billing period's compilation usage.
func (c *Client) Usage(ctx context.Context) (*UsageStats, error) {
	var raw json.RawMessage
	if err := c.transport.Get(ctx, "/api/v1/usage", &raw); err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	var resp usageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode usage: %w", err)
	}

	var rawMap map[string]any
	if err := json.Unmarshal(raw, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to decode usage: %w", err)
	}

	return resp.toStats(rawMap), nil
}

// ListEngines returns the compiler backends the service offers.
func (c *Client) ListEngines(ctx context.Context) ([]Engine, error) {
	var resp struct {
		Engines []Engine `json:"engines"`
	}

	if err := c.transport.Get(ctx, "/api/v1/engines", &resp); err != nil {
		return nil, fmt.Errorf("failed to list engines: %w", err)
	}

	if resp.Engines == nil {
		return []Engine{}, nil
	}
	return resp.Engines, nil
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.transport.Get(ctx, "/api/v1/health", nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
