package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/repository"
)

// GetJudgeJobUsecase returns the latest snapshot of an async judge job.
type GetJudgeJobUsecase struct {
	snapshots repository.SnapshotStore
}

// NewGetJudgeJobUsecase creates a new GetJudgeJobUsecase.
func NewGetJudgeJobUsecase(snapshots repository.SnapshotStore) *GetJudgeJobUsecase {
	return &GetJudgeJobUsecase{snapshots: snapshots}
}

// Execute returns domain.ErrJobNotFound for unknown or expired jobs, and for
// jobs queued by another user.
func (uc *GetJudgeJobUsecase) Execute(ctx context.Context, jobID uuid.UUID, userID string) (*format.Result, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	snap, err := uc.snapshots.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if snap.UserID != userID {
		return nil, domain.ErrJobNotFound
	}
	return snap.Result, nil
}
