package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/publisher"
	"github.com/codedaily/judge/internal/repository"
)

// EnqueueJudgeJobUsecase queues a submit action for the judge worker instead
// of judging it inside the request.
type EnqueueJudgeJobUsecase struct {
	problems  repository.ProblemRepository
	publisher publisher.Publisher
	snapshots repository.SnapshotStore
	logger    *zap.Logger
}

// NewEnqueueJudgeJobUsecase creates a new EnqueueJudgeJobUsecase.
func NewEnqueueJudgeJobUsecase(problems repository.ProblemRepository, pub publisher.Publisher, snapshots repository.SnapshotStore, logger *zap.Logger) *EnqueueJudgeJobUsecase {
	return &EnqueueJudgeJobUsecase{
		problems:  problems,
		publisher: pub,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Execute validates the request, stores an initial running snapshot and
// publishes the job.
func (uc *EnqueueJudgeJobUsecase) Execute(ctx context.Context, req *domain.SubmitRequest) (*domain.EnqueueResponse, error) {
	if req.UserID == "" {
		return nil, domain.ErrMissingUser
	}
	lang, err := validateCode(req.Language, req.Code)
	if err != nil {
		return nil, err
	}

	cases, err := uc.problems.GetTestCases(ctx, req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("enqueue: load test cases: %w", err)
	}

	jobID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate UUIDv7: %w", err)
	}

	job := &domain.JudgeJob{
		JobID:     jobID,
		UserID:    req.UserID,
		ProblemID: req.ProblemID,
		Language:  lang,
		Code:      req.Code,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.snapshots.Save(ctx, jobID, &repository.JobSnapshot{
		UserID: req.UserID,
		Result: format.Running(0, len(cases), nil),
	}); err != nil {
		uc.logger.Error("Failed to store initial snapshot", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil, fmt.Errorf("enqueue: initial snapshot: %w", err)
	}

	if err := uc.publisher.Publish(ctx, job); err != nil {
		uc.logger.Error("Failed to publish judge job", zap.String("job_id", jobID.String()), zap.Error(err))
		_ = uc.snapshots.Save(ctx, jobID, &repository.JobSnapshot{
			UserID: req.UserID,
			Result: format.Error(domain.ErrPublishFailed.Error()),
		})
		return nil, domain.ErrPublishFailed
	}

	uc.logger.Info("Judge job queued",
		zap.String("job_id", jobID.String()),
		zap.String("user_id", req.UserID),
		zap.String("problem_id", req.ProblemID),
		zap.String("language", string(lang)),
	)

	return &domain.EnqueueResponse{
		JobID:  jobID,
		Status: string(format.StatusRunning),
	}, nil
}
