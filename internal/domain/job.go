package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunRequest asks for the sample test cases of a problem to be executed.
type RunRequest struct {
	UserID    string
	ProblemID string
	Language  Language `json:"language" binding:"required"`
	Code      string   `json:"code" binding:"required"`
}

// SubmitRequest asks for the full test suite of a problem to be judged.
type SubmitRequest struct {
	UserID    string
	ProblemID string
	Language  Language `json:"language" binding:"required"`
	Code      string   `json:"code" binding:"required"`
}

// JudgeJob is a submit action queued for the judge worker.
type JudgeJob struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    string    `json:"user_id"`
	ProblemID string    `json:"problem_id"`
	Language  Language  `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// JudgeJobMessage wraps a queued job with its broker acknowledgement callbacks.
type JudgeJobMessage struct {
	Job  *JudgeJob
	Ack  func() error
	Nack func(requeue bool) error
}

// EnqueueResponse is returned after a judge job was queued.
type EnqueueResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}
