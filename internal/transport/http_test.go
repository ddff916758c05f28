// ABOUTME: Tests for HTTP transport layer.
// ABOUTME: Uses httptest.Server to verify request/response handling.

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/formatex/formatex-go/internal/apierror"
)

func TestClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/usage" {
			t.Errorf("path = %s, want /api/v1/usage", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "fx_test_key" {
			t.Errorf("expected X-API-Key header, got %s", r.Header.Get("X-API-Key"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"plan": "developer"})
	}))
	defer server.Close()

	client, err := New(Config{
		BaseURL: server.URL,
		APIKey:  "fx_test_key",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var result map[string]string
	err = client.Get(context.Background(), "/api/v1/usage", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if result["plan"] != "developer" {
		t.Errorf("result = %v, want plan=developer", result)
	}
}

func TestClient_Post_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["latex"] != `\documentclass{article}` {
			t.Errorf("body.latex = %s", body["latex"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"valid": true})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var result map[string]bool
	body := map[string]string{"latex": `\documentclass{article}`}
	err = client.Post(context.Background(), "/api/v1/compile/check", body, &result)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	if !result["valid"] {
		t.Errorf("result = %v, want valid=true", result)
	}
}

func TestClient_GetRaw_ReturnsBytes(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake-content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := client.GetRaw(context.Background(), "/api/v1/jobs/j1/pdf")
	if err != nil {
		t.Fatalf("GetRaw() error = %v", err)
	}

	if string(got) != string(pdf) {
		t.Errorf("GetRaw() = %q, want %q", got, pdf)
	}
}

func TestClient_PostRaw_ReturnsBytes(t *testing.T) {
	docx := []byte("PK\x03\x04fake-docx")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(docx)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := client.PostRaw(context.Background(), "/api/v1/convert", map[string]string{"latex": "x"})
	if err != nil {
		t.Fatalf("PostRaw() error = %v", err)
	}

	if string(got) != string(docx) {
		t.Errorf("PostRaw() = %q, want %q", got, docx)
	}
}

func TestClient_Delete_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = client.Delete(context.Background(), "/api/v1/jobs/j1", nil)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestClient_Error_CompileFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "compilation failed",
			"log":   "! Undefined control sequence.",
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = client.Post(context.Background(), "/api/v1/compile", nil, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !apierror.IsCompileError(err) {
		t.Errorf("expected IsCompileError, got %v", err)
	}

	apiErr, ok := err.(*apierror.APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "compilation failed" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Log != "! Undefined control sequence." {
		t.Errorf("Log = %q", apiErr.Log)
	}
	if apiErr.Body["error"] != "compilation failed" {
		t.Errorf("Body = %v", apiErr.Body)
	}
}

func TestClient_Error_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid API key"})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, APIKey: "bad-key"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = client.Get(context.Background(), "/api/v1/usage", nil)
	if !apierror.IsAuthError(err) {
		t.Errorf("expected IsAuthError, got %v", err)
	}
}

func TestClient_Error_RateLimited_RetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = client.Post(context.Background(), "/api/v1/compile", nil, nil)
	if !apierror.IsRateLimited(err) {
		t.Fatalf("expected IsRateLimited, got %v", err)
	}

	if got := apierror.RetryAfter(err); got != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", got)
	}
}

func TestClient_Error_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = client.Get(context.Background(), "/api/v1/usage", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	apiErr, ok := err.(*apierror.APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
	}
	if apiErr.Message != "<html>Bad Gateway</html>" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err = client.Get(ctx, "/api/v1/usage", nil)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(Config{BaseURL: "://invalid"})
	if err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.httpClient.Timeout != 120*time.Second {
		t.Errorf("timeout = %v, want 120s", client.httpClient.Timeout)
	}
}

func TestNew_CustomTimeout(t *testing.T) {
	client, err := New(Config{
		BaseURL: "http://localhost",
		Timeout: 60 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.httpClient.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", client.httpClient.Timeout)
	}
}

func TestClient_NoAuthHeader_WhenNoKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-API-Key"); key != "" {
			t.Errorf("expected no X-API-Key header, got %s", key)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = client.Get(context.Background(), "/api/v1/health", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
}
