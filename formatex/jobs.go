// ABOUTME: Asynchronous compilation jobs: submit, poll, fetch artifacts, delete.
// ABOUTME: WaitForJob provides the blocking poll loop.

package formatex

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultWaitTimeout  = 120 * time.Second
)

// SubmitCompile submits an asynchronous compilation and returns its job
// handle. The PDF is fetched later via WaitForJob or JobPDF.
func (c *Client) SubmitCompile(ctx context.Context, latex string, opts ...CompileOption) (*Job, error) {
	if latex == "" {
		return nil, fmt.Errorf("formatex: latex source is required")
	}

	o := &compileOptions{}
	for _, opt := range opts {
		opt(o)
	}

	req := buildCompileRequest(latex, o)

	var resp struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}

	if err := c.transport.Post(ctx, "/api/v1/compile/async", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit job: %w", err)
	}

	return &Job{
		ID:    resp.JobID,
		State: JobState(resp.Status),
	}, nil
}

// GetJob returns the current status of an asynchronous job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*JobStatus, error) {
	if jobID == "" {
		return nil, fmt.Errorf("formatex: job ID is required")
	}

	var resp jobResponse
	if err := c.transport.Get(ctx, "/api/v1/jobs/"+jobID, &resp); err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return resp.toStatus(), nil
}

// JobPDF downloads the compiled PDF of a completed job.
// Downloading deletes the job's files server-side, including its log.
func (c *Client) JobPDF(ctx context.Context, jobID string) ([]byte, error) {
	if jobID == "" {
		return nil, fmt.Errorf("formatex: job ID is required")
	}

	pdf, err := c.transport.GetRaw(ctx, "/api/v1/jobs/"+jobID+"/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to download pdf: %w", err)
	}
	return pdf, nil
}

// JobLog returns the compiler log of a finished job.
func (c *Client) JobLog(ctx context.Context, jobID string) (string, error) {
	if jobID == "" {
		return "", fmt.Errorf("formatex: job ID is required")
	}

	var resp struct {
		Log string `json:"log"`
	}

	if err := c.transport.Get(ctx, "/api/v1/jobs/"+jobID+"/log", &resp); err != nil {
		return "", fmt.Errorf("failed to get job log: %w", err)
	}
	return resp.Log, nil
}

// DeleteJob removes an asynchronous job and its files from the server.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("formatex: job ID is required")
	}

	if err := c.transport.Delete(ctx, "/api/v1/jobs/"+jobID, nil); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// WaitForJob polls an asynchronous job until it finishes, then downloads
// the PDF and returns a CompileResult. A failed job surfaces as an
// *APIError for which IsCompileError reports true, carrying the job's log.
func (c *Client) WaitForJob(ctx context.Context, jobID string, opts ...WaitOption) (*CompileResult, error) {
	o := &waitOptions{
		interval: defaultPollInterval,
		timeout:  defaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	deadline := time.Now().Add(o.timeout)

	for {
		status, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch status.State {
		case JobCompleted:
			pdf, err := c.JobPDF(ctx, jobID)
			if err != nil {
				return nil, err
			}
			return &CompileResult{
				PDF:       pdf,
				Duration:  status.Duration,
				SizeBytes: int64(len(pdf)),
				JobID:     jobID,
				Log:       status.Log,
			}, nil

		case JobFailed:
			msg := status.Err
			if msg == "" {
				msg = "compilation failed"
			}
			return nil, &APIError{
				StatusCode: http.StatusUnprocessableEntity,
				Message:    msg,
				Log:        status.Log,
			}
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("formatex: job %s did not complete within %s", jobID, o.timeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(o.interval):
		}
	}
}
