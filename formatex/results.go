// ABOUTME: Result value objects returned by the FormaTex SDK.
// ABOUTME: Includes the private wire structs that map API responses onto them.

package formatex

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// CompileResult is the outcome of a successful compilation.
type CompileResult struct {
	// PDF holds the compiled document.
	PDF []byte

	// Engine is the compiler backend that produced the document.
	Engine string

	// Duration is the server-side compile time.
	Duration time.Duration

	// SizeBytes is the PDF size as reported by the server.
	SizeBytes int64

	// JobID identifies the compilation on the server, when assigned.
	JobID string

	// Log is the compiler output.
	Log string

	// Analysis describes the engine auto-detection. Present only for
	// smart compilation.
	Analysis *EngineAnalysis
}

// EngineAnalysis describes how smart compilation chose an engine.
type EngineAnalysis struct {
	DetectedEngine string `json:"detected"`
	Reason         string `json:"reason"`
}

// SyntaxResult is the outcome of a syntax check.
type SyntaxResult struct {
	Valid    bool
	Errors   []SyntaxIssue
	Warnings []SyntaxIssue
}

// SyntaxIssue is a single problem found by the syntax checker.
type SyntaxIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// LintDiagnostic is a single finding from the linter.
type LintDiagnostic struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Code     string `json:"code"`
}

// LintResult is the outcome of a lint run.
type LintResult struct {
	Diagnostics []LintDiagnostic
	Duration    time.Duration
}

// ErrorCount returns the number of error-severity diagnostics.
func (r *LintResult) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == "error" {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity diagnostics.
func (r *LintResult) WarningCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == "warning" {
			n++
		}
	}
	return n
}

// Valid reports whether the document has no error-severity diagnostics.
func (r *LintResult) Valid() bool {
	return r.ErrorCount() == 0
}

// ConvertResult is the outcome of a DOCX conversion.
type ConvertResult struct {
	DOCX      []byte
	SizeBytes int64
}

// UsageStats describes the current billing period's compilation usage.
type UsageStats struct {
	Plan              string
	CompilationsUsed  int
	CompilationsLimit int
	Overage           int
	PeriodStart       string
	PeriodEnd         string

	// Raw is the undecoded usage response, for fields the typed view
	// does not carry.
	Raw map[string]any
}

// Engine describes a compiler backend offered by the service.
type Engine struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// UnmarshalJSON accepts both wire forms of an engine entry: a bare name
// string (current API) and an object with name/available fields.
func (e *Engine) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		e.Name = name
		e.Available = true
		return nil
	}

	type engineObject Engine
	var obj engineObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid engine entry: %w", err)
	}
	*e = Engine(obj)
	return nil
}

// JobState is the lifecycle state of an asynchronous compilation job.
type JobState string

// Job states reported by the API.
const (
	JobPending    JobState = "pending"
	JobQueued     JobState = "queued"
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobFailed     JobState = "failed"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is the handle returned when an asynchronous compilation is submitted.
type Job struct {
	ID    string
	State JobState
}

// JobStatus is a point-in-time view of an asynchronous job.
type JobStatus struct {
	JobID   string
	State   JobState
	Success bool

	// Log, Duration and Err are populated once the job has finished.
	Log      string
	Duration time.Duration
	Err      string
}

// --- wire structs ---

type compileResponse struct {
	PDF       string          `json:"pdf"`
	Engine    string          `json:"engine"`
	Duration  int64           `json:"duration"`
	SizeBytes int64           `json:"sizeBytes"`
	JobID     string          `json:"jobId"`
	Log       string          `json:"log"`
	Analysis  *EngineAnalysis `json:"analysis"`
}

func (r *compileResponse) toResult() (*CompileResult, error) {
	pdf, err := base64.StdEncoding.DecodeString(r.PDF)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pdf payload: %w", err)
	}

	return &CompileResult{
		PDF:       pdf,
		Engine:    r.Engine,
		Duration:  millis(r.Duration),
		SizeBytes: r.SizeBytes,
		JobID:     r.JobID,
		Log:       r.Log,
		Analysis:  r.Analysis,
	}, nil
}

type jobResponse struct {
	ID     string `json:"id"`
	JobID  string `json:"jobId"`
	Status string `json:"status"`
	Result *struct {
		Success  bool   `json:"success"`
		Log      string `json:"log"`
		Duration int64  `json:"duration"`
		Error    string `json:"error"`
	} `json:"result"`
}

func (r *jobResponse) toStatus() *JobStatus {
	id := r.ID
	if id == "" {
		id = r.JobID
	}

	st := &JobStatus{
		JobID: id,
		State: JobState(r.Status),
	}

	if r.Result != nil {
		st.Success = r.Result.Success
		st.Log = r.Result.Log
		st.Duration = millis(r.Result.Duration)
		st.Err = r.Result.Error
	}

	return st
}

// usageResponse accepts both the current nested usage shape and the legacy
// flat one.
type usageResponse struct {
	Plan string `json:"plan"`

	Compilations *struct {
		Used    int `json:"used"`
		Limit   int `json:"limit"`
		Overage int `json:"overage"`
	} `json:"compilations"`
	Period *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`

	CompilationsUsed  int    `json:"compilationsUsed"`
	CompilationsLimit int    `json:"compilationsLimit"`
	PeriodStart       string `json:"periodStart"`
	PeriodEnd         string `json:"periodEnd"`
}

func (r *usageResponse) toStats(raw map[string]any) *UsageStats {
	stats := &UsageStats{
		Plan:              r.Plan,
		CompilationsUsed:  r.CompilationsUsed,
		CompilationsLimit: r.CompilationsLimit,
		PeriodStart:       r.PeriodStart,
		PeriodEnd:         r.PeriodEnd,
		Raw:               raw,
	}

	if r.Compilations != nil {
		stats.CompilationsUsed = r.Compilations.Used
		stats.CompilationsLimit = r.Compilations.Limit
		stats.Overage = r.Compilations.Overage
	}
	if r.Period != nil {
		stats.PeriodStart = r.Period.Start
		stats.PeriodEnd = r.Period.End
	}

	return stats
}

// millis converts a server duration in milliseconds.
func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
