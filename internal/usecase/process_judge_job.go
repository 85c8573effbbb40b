package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/repository"
	"github.com/codedaily/judge/internal/verdict"
)

// ProcessJudgeJobUsecase runs a queued judge job on the worker side.
type ProcessJudgeJobUsecase struct {
	idempotent repository.IdempotencyStore
	snapshots  repository.SnapshotStore
	submit     *SubmitCodeUsecase
	logger     *zap.Logger
}

// NewProcessJudgeJobUsecase creates a new ProcessJudgeJobUsecase.
func NewProcessJudgeJobUsecase(
	idempotent repository.IdempotencyStore,
	snapshots repository.SnapshotStore,
	submit *SubmitCodeUsecase,
	logger *zap.Logger,
) *ProcessJudgeJobUsecase {
	return &ProcessJudgeJobUsecase{
		idempotent: idempotent,
		snapshots:  snapshots,
		submit:     submit,
		logger:     logger,
	}
}

// Execute processes a single job: idempotency check, judge with live
// snapshots, store the final snapshot. Returns (isDuplicate, error).
func (uc *ProcessJudgeJobUsecase) Execute(ctx context.Context, job *domain.JudgeJob) (bool, error) {
	jobID := job.JobID.String()

	acquired, err := uc.idempotent.AcquireLock(ctx, job.JobID)
	if err != nil {
		uc.logger.Error("Failed to acquire idempotency lock", zap.Error(err), zap.String("job_id", jobID))
		return false, err
	}
	if !acquired {
		uc.logger.Info("Duplicate judge job detected, skipping", zap.String("job_id", jobID))
		return true, nil
	}
	defer func() { _ = uc.idempotent.ReleaseLock(ctx, job.JobID) }()

	save := func(res *format.Result) error {
		return uc.snapshots.Save(ctx, job.JobID, &repository.JobSnapshot{UserID: job.UserID, Result: res})
	}

	progress := func(done, total int, partial []domain.TestCaseOutcome) {
		if err := save(format.Running(done, total, partial)); err != nil {
			uc.logger.Warn("Failed to store progress snapshot", zap.Error(err), zap.String("job_id", jobID))
		}
	}

	res, err := uc.submit.Execute(ctx, &domain.SubmitRequest{
		UserID:    job.UserID,
		ProblemID: job.ProblemID,
		Language:  job.Language,
		Code:      job.Code,
	}, verdict.WithProgress(progress))
	if err != nil {
		uc.logger.Error("Judge job failed", zap.Error(err), zap.String("job_id", jobID))
		if saveErr := save(format.Error(err.Error())); saveErr != nil {
			uc.logger.Warn("Failed to store error snapshot", zap.Error(saveErr), zap.String("job_id", jobID))
		}
		return false, err
	}

	if err := save(res); err != nil {
		uc.logger.Error("Failed to store final snapshot", zap.Error(err), zap.String("job_id", jobID))
		return false, err
	}

	uc.logger.Info("Judge job finished",
		zap.String("job_id", jobID),
		zap.String("status", string(res.Status)),
		zap.Int("runtime_ms", res.Runtime),
	)
	return false, nil
}
