package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/metrics"
	"github.com/codedaily/judge/internal/repository"
)

// RecordSubmissionUsecase appends judged submissions to the log and advances
// the daily streak of users who got one accepted.
type RecordSubmissionUsecase struct {
	submissions repository.SubmissionRepository
	streaks     repository.StreakRepository
	now         func() time.Time
	logger      *zap.Logger
}

// RecorderOption customizes a RecordSubmissionUsecase.
type RecorderOption func(*RecordSubmissionUsecase)

// WithClock overrides the wall clock used for SubmittedAt and the streak day.
func WithClock(now func() time.Time) RecorderOption {
	return func(uc *RecordSubmissionUsecase) { uc.now = now }
}

// NewRecordSubmissionUsecase creates a new RecordSubmissionUsecase.
func NewRecordSubmissionUsecase(subs repository.SubmissionRepository, streaks repository.StreakRepository, logger *zap.Logger, opts ...RecorderOption) *RecordSubmissionUsecase {
	uc := &RecordSubmissionUsecase{
		submissions: subs,
		streaks:     streaks,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Record stores a new submission for the verdict. A storage failure is
// returned as domain.ErrPersistenceFailure; a streak failure is only logged.
func (uc *RecordSubmissionUsecase) Record(ctx context.Context, userID, problemID string, language domain.Language, code string, v *domain.SubmissionVerdict) (*domain.Submission, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate UUIDv7: %w", err)
	}
	now := uc.now().UTC()

	sub := &domain.Submission{
		ID:          id,
		UserID:      userID,
		ProblemID:   problemID,
		Language:    language,
		Code:        code,
		Result:      v.OverallResult,
		Score:       v.Score,
		RuntimeMs:   v.TotalRuntimeMs,
		MemoryKB:    v.MaxMemoryKB,
		Output:      joinOutput(v),
		SubmittedAt: now,
	}

	if err := uc.submissions.Create(ctx, sub); err != nil {
		metrics.RecorderFailures.WithLabelValues("submission").Inc()
		uc.logger.Error("Failed to save submission",
			zap.String("submission_id", id.String()),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}

	if v.Accepted() {
		uc.advanceStreak(ctx, userID, domain.UTCDay(now))
	}

	uc.logger.Info("Submission recorded",
		zap.String("submission_id", id.String()),
		zap.String("user_id", userID),
		zap.String("problem_id", problemID),
		zap.String("result", string(sub.Result)),
	)
	return sub, nil
}

func (uc *RecordSubmissionUsecase) advanceStreak(ctx context.Context, userID string, today time.Time) {
	advanced, err := uc.streaks.Advance(ctx, userID, today)
	if err != nil {
		metrics.RecorderFailures.WithLabelValues("streak").Inc()
		uc.logger.Warn("Failed to update streak",
			zap.String("user_id", userID),
			zap.Time("day", today),
			zap.Error(err),
		)
		return
	}
	if advanced {
		metrics.StreakAdvances.Inc()
		uc.logger.Debug("Streak advanced", zap.String("user_id", userID))
	}
}

// joinOutput concatenates per-case outputs; verdicts without outcomes carry
// their failure message instead.
func joinOutput(v *domain.SubmissionVerdict) string {
	if len(v.Outcomes) == 0 {
		return v.Message
	}
	parts := make([]string, len(v.Outcomes))
	for i, o := range v.Outcomes {
		parts[i] = o.ActualOutput
	}
	return strings.Join(parts, "\n")
}
