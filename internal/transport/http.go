// ABOUTME: HTTP transport layer for the FormaTex API.
// ABOUTME: Handles auth header injection, JSON/binary payloads, and error mapping.

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/formatex/formatex-go/internal/apierror"
)

// defaultTimeout matches the service's maximum compile time, so a slow
// compilation is not cut off client-side before the server gives up.
const defaultTimeout = 120 * time.Second

// Client handles HTTP communication with the FormaTex API.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config holds configuration for creating a transport Client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Timeout    time.Duration
}

// errorResponse represents the FormaTex API error format.
type errorResponse struct {
	Error string `json:"error"`
	Log   string `json:"log"`
}

// New creates a new transport Client.
func New(cfg Config) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// Get performs a GET request and decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decode(body, result)
}

// GetRaw performs a GET request and returns the raw response bytes
// (e.g. a PDF download).
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body and decodes the JSON
// response into result.
func (c *Client) Post(ctx context.Context, path string, reqBody, result any) error {
	body, err := c.do(ctx, http.MethodPost, path, reqBody)
	if err != nil {
		return err
	}
	return decode(body, result)
}

// PostRaw performs a POST request with a JSON body and returns the raw
// response bytes (e.g. a DOCX conversion).
func (c *Client) PostRaw(ctx context.Context, path string, reqBody any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, reqBody)
}

// Delete performs a DELETE request. A 204 or empty response body is not an
// error; a JSON body, if present, is decoded into result.
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	body, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return decode(body, result)
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqURL := c.baseURL.JoinPath(path)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	if c.logger != nil {
		c.logger.Debug("request",
			"method", method,
			"url", reqURL.String(),
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("response",
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.parseError(resp, respBody)
	}

	return respBody, nil
}

func decode(body []byte, result any) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) parseError(resp *http.Response, body []byte) error {
	apiErr := &apierror.APIError{
		StatusCode: resp.StatusCode,
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
		apiErr.Log = errResp.Log

		var raw map[string]any
		if json.Unmarshal(body, &raw) == nil {
			apiErr.Body = raw
		}
	} else {
		// Not the documented error shape; keep a trimmed excerpt.
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		apiErr.Message = msg
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if secs, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil {
			apiErr.RetryAfter = time.Duration(secs * float64(time.Second))
		}
	}

	return apiErr
}
