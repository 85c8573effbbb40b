package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxPage          = 100000
)

// ListSubmissionsUsecase pages through a user's submission history.
type ListSubmissionsUsecase struct {
	submissions repository.SubmissionRepository
	logger      *zap.Logger
}

// NewListSubmissionsUsecase creates a new ListSubmissionsUsecase.
func NewListSubmissionsUsecase(subs repository.SubmissionRepository, logger *zap.Logger) *ListSubmissionsUsecase {
	return &ListSubmissionsUsecase{submissions: subs, logger: logger}
}

// Execute returns one page of submissions, newest first.
func (uc *ListSubmissionsUsecase) Execute(ctx context.Context, filter domain.SubmissionFilter) (*domain.SubmissionPage, error) {
	if filter.UserID == "" {
		return nil, domain.ErrMissingUser
	}
	if strings.EqualFold(string(filter.Result), "all") {
		filter.Result = ""
	}
	switch filter.Result {
	case "", domain.ResultAccepted, domain.ResultWrongAnswer, domain.ResultError:
	default:
		return nil, fmt.Errorf("unknown result filter %q: %w", filter.Result, domain.ErrInvalidFilter)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	// Keeps the row offset well inside int range.
	if filter.Page > maxPage {
		filter.Page = maxPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	subs, total, err := uc.submissions.ListByUser(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list submissions", zap.String("user_id", filter.UserID), zap.Error(err))
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []domain.Submission{}
	}

	return &domain.SubmissionPage{
		Submissions: subs,
		Total:       total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		Pages:       (total + filter.Limit - 1) / filter.Limit,
	}, nil
}
