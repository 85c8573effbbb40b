// Package format turns judge verdicts into the small closed set of
// user-facing states. Raw execution-service status ids never leave it.
package format

import (
	"github.com/google/uuid"

	"github.com/codedaily/judge/internal/domain"
)

// Status is the public judge state.
type Status string

const (
	StatusAccepted    Status = "accepted"
	StatusWrongAnswer Status = "wrong_answer"
	StatusError       Status = "error"
	StatusRunning     Status = "running"
)

// Mode selects how a verdict is presented.
type Mode string

const (
	ModeRun    Mode = "run"
	ModeSubmit Mode = "submit"
)

// TestCaseResult is the public view of one test-case outcome.
type TestCaseResult struct {
	Passed   bool   `json:"passed"`
	Input    string `json:"input"`
	Output   string `json:"output"`
	Expected string `json:"expected"`
	Runtime  int    `json:"runtime"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// Result is what the UI receives for a run, a submit or an in-flight job.
type Result struct {
	Status          Status           `json:"status"`
	Runtime         int              `json:"runtime"`
	TestCaseResults []TestCaseResult `json:"testCaseResults"`
	Message         string           `json:"message,omitempty"`
	SubmissionID    *uuid.UUID       `json:"submissionId,omitempty"`
	Done            int              `json:"done,omitempty"`
	Total           int              `json:"total,omitempty"`
}

// IsFinal reports whether the result is no longer in flight.
func (r *Result) IsFinal() bool {
	return r != nil && r.Status != StatusRunning
}

// FormatStatus maps the execution-service taxonomy onto the public states.
func FormatStatus(code domain.StatusCode) Status {
	switch code {
	case domain.StatusQueued, domain.StatusProcessing:
		return StatusRunning
	case domain.StatusAccepted:
		return StatusAccepted
	case domain.StatusWrongAnswer:
		return StatusWrongAnswer
	default:
		return StatusError
	}
}

// FormatResult maps a persisted overall result onto the public states.
func FormatResult(r domain.SubmissionResult) Status {
	switch r {
	case domain.ResultAccepted:
		return StatusAccepted
	case domain.ResultWrongAnswer:
		return StatusWrongAnswer
	default:
		return StatusError
	}
}

// FormatVerdict shapes a finished verdict for display.
func FormatVerdict(v *domain.SubmissionVerdict, mode Mode) *Result {
	if v == nil {
		return Error("no verdict produced")
	}

	res := &Result{
		Status:          FormatResult(v.OverallResult),
		Runtime:         v.TotalRuntimeMs,
		TestCaseResults: testCaseResults(v.Outcomes),
		Message:         v.Message,
	}
	if mode == ModeRun && v.OverallResult != domain.ResultError {
		res.Status = worstOutcomeStatus(v.Outcomes)
	}
	return res
}

// Running builds an in-flight snapshot. Snapshots are never persisted.
func Running(done, total int, partial []domain.TestCaseOutcome) *Result {
	runtime := 0
	for _, o := range partial {
		runtime += o.RuntimeMs
	}
	return &Result{
		Status:          StatusRunning,
		Runtime:         runtime,
		TestCaseResults: testCaseResults(partial),
		Done:            done,
		Total:           total,
	}
}

// Error builds a single failed result carrying msg as output, the way the
// problem page shows whole-action failures.
func Error(msg string) *Result {
	return &Result{
		Status:  StatusError,
		Message: msg,
		TestCaseResults: []TestCaseResult{{
			Passed: false,
			Output: msg,
		}},
	}
}

// Describe returns the human-readable status text.
func Describe(code domain.StatusCode) string {
	return code.String()
}

func testCaseResults(outcomes []domain.TestCaseOutcome) []TestCaseResult {
	out := make([]TestCaseResult, 0, len(outcomes))
	for _, o := range outcomes {
		tc := TestCaseResult{
			Passed:   o.Passed,
			Input:    o.Input,
			Output:   o.ActualOutput,
			Expected: o.Expected,
			Runtime:  o.RuntimeMs,
		}
		if o.Kind == domain.TestCaseHidden {
			tc.Hidden = true
			tc.Input = ""
			tc.Expected = ""
		}
		out = append(out, tc)
	}
	return out
}

// worstOutcomeStatus ranks error over wrong_answer over accepted.
func worstOutcomeStatus(outcomes []domain.TestCaseOutcome) Status {
	worst := StatusAccepted
	for _, o := range outcomes {
		s := StatusError
		if o.Err == nil {
			s = FormatStatus(o.Status)
		}
		switch {
		case s == StatusError || s == StatusRunning:
			return StatusError
		case s == StatusWrongAnswer:
			worst = StatusWrongAnswer
		}
	}
	return worst
}
