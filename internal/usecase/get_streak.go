package usecase

import (
	"context"
	"fmt"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/repository"
)

// GetStreakUsecase reads a user's daily streak.
type GetStreakUsecase struct {
	streaks repository.StreakRepository
}

// NewGetStreakUsecase creates a new GetStreakUsecase.
func NewGetStreakUsecase(streaks repository.StreakRepository) *GetStreakUsecase {
	return &GetStreakUsecase{streaks: streaks}
}

// Execute returns the streak state of userID.
func (uc *GetStreakUsecase) Execute(ctx context.Context, userID string) (*domain.StreakState, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	st, err := uc.streaks.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}
	return st, nil
}
