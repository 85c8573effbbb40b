package domain

import (
	"time"

	"github.com/google/uuid"
)

// TestCaseKind distinguishes sample cases (shown before submission) from
// hidden cases (evaluated only at submit time).
type TestCaseKind string

const (
	TestCaseSample TestCaseKind = "SAMPLE"
	TestCaseHidden TestCaseKind = "HIDDEN"
)

// TestCase belongs to a problem.
type TestCase struct {
	ID             string       `json:"id"`
	ProblemID      string       `json:"problem_id"`
	Kind           TestCaseKind `json:"kind"`
	Input          string       `json:"input"`
	ExpectedOutput string       `json:"expected_output"`
	Order          int          `json:"order"`
}

// TestCaseOutcome is the derived result of running one test case.
type TestCaseOutcome struct {
	TestCaseID   string
	Kind         TestCaseKind
	Input        string
	Expected     string
	Passed       bool
	ActualOutput string
	RuntimeMs    int
	MemoryKB     int
	// Status is zero when the execution never produced a result.
	Status StatusCode
	// Err holds the transport or polling failure, if any.
	Err error
}

// SubmissionResult is the persisted overall result.
type SubmissionResult string

const (
	ResultAccepted    SubmissionResult = "ACCEPTED"
	ResultWrongAnswer SubmissionResult = "WRONG_ANSWER"
	ResultError       SubmissionResult = "ERROR"
)

// Scores awarded per verdict. There is no partial credit.
const (
	ScoreAccepted = 100
	ScoreRejected = 0
)

// SubmissionVerdict aggregates all outcomes of one run or submit action.
type SubmissionVerdict struct {
	OverallResult  SubmissionResult
	Score          int
	TotalRuntimeMs int
	MaxMemoryKB    int
	Outcomes       []TestCaseOutcome
	// Message carries the suite-level failure for ERROR verdicts.
	Message string
}

// Accepted reports whether the verdict is ACCEPTED.
func (v *SubmissionVerdict) Accepted() bool {
	return v != nil && v.OverallResult == ResultAccepted
}

// Submission is one append-only row of the submission log.
type Submission struct {
	ID          uuid.UUID        `json:"id"`
	UserID      string           `json:"user_id"`
	ProblemID   string           `json:"problem_id"`
	Language    Language         `json:"language"`
	Code        string           `json:"code"`
	Result      SubmissionResult `json:"result"`
	Score       int              `json:"score"`
	RuntimeMs   int              `json:"runtime_ms"`
	MemoryKB    int              `json:"memory_kb"`
	Output      string           `json:"output"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// SubmissionFilter narrows a submission history listing.
type SubmissionFilter struct {
	UserID    string
	ProblemID string
	Result    SubmissionResult
	Page      int
	Limit     int
}

// StreakState is the per-user daily streak.
type StreakState struct {
	UserID          string     `json:"user_id"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastSuccessDate *time.Time `json:"last_success_date,omitempty"`
}

// UTCDay truncates t to midnight UTC.
func UTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SubmissionPage is one page of a user's submission history.
type SubmissionPage struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	Pages       int          `json:"pages"`
}
