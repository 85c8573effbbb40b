package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
)

// ExecutionClient talks to the external sandboxed execution service.
// Implementations must be safe for concurrent use.
type ExecutionClient interface {
	// Submit queues one execution and returns its handle.
	Submit(ctx context.Context, req *domain.ExecutionRequest) (domain.ExecutionHandle, error)

	// FetchResult retrieves the current state of an execution. It never caches.
	FetchResult(ctx context.Context, handle domain.ExecutionHandle) (*domain.ExecutionResult, error)
}

// ProblemRepository reads the test cases that belong to a problem.
type ProblemRepository interface {
	// GetTestCases returns all test cases of a problem ordered by their order field.
	// Returns domain.ErrProblemNotFound when the problem does not exist.
	GetTestCases(ctx context.Context, problemID string) ([]domain.TestCase, error)
}

// SubmissionRepository is the append-only submission log.
type SubmissionRepository interface {
	// Create inserts a new submission. Existing rows are never updated.
	Create(ctx context.Context, sub *domain.Submission) error

	// ListByUser returns a page of submissions and the total matching count.
	ListByUser(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, int, error)
}

// StreakRepository owns the per-user streak state.
type StreakRepository interface {
	// Advance records a streak event for (userID, day) at most once. It returns
	// false without mutating anything when an event for that day already exists.
	Advance(ctx context.Context, userID string, day time.Time) (bool, error)

	// Get returns the streak state of a user.
	Get(ctx context.Context, userID string) (*domain.StreakState, error)
}

// IdempotencyStore defines the interface for distributed deduplication locks.
type IdempotencyStore interface {
	// AcquireLock attempts to acquire an exclusive processing lock for a job.
	// Returns true if the lock was acquired (first time), false if already locked (duplicate).
	AcquireLock(ctx context.Context, jobID uuid.UUID) (bool, error)

	// ReleaseLock releases the processing lock with a TTL for eventual cleanup.
	ReleaseLock(ctx context.Context, jobID uuid.UUID) error
}

// JobSnapshot is the latest state of an async judge job and the user who
// queued it.
type JobSnapshot struct {
	UserID string         `json:"user_id"`
	Result *format.Result `json:"result"`
}

// SnapshotStore keeps the latest formatted state of an async judge job.
// Snapshots are ephemeral and expire.
type SnapshotStore interface {
	Save(ctx context.Context, jobID uuid.UUID, snap *JobSnapshot) error
	Get(ctx context.Context, jobID uuid.UUID) (*JobSnapshot, error)
}
