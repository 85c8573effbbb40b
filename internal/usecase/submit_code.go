package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/metrics"
	"github.com/codedaily/judge/internal/repository"
	"github.com/codedaily/judge/internal/verdict"
)

// SubmitCodeUsecase judges code against every test case of a problem and
// records the verdict.
type SubmitCodeUsecase struct {
	problems repository.ProblemRepository
	runner   SuiteRunner
	recorder *RecordSubmissionUsecase
	logger   *zap.Logger
}

// NewSubmitCodeUsecase creates a new SubmitCodeUsecase.
func NewSubmitCodeUsecase(problems repository.ProblemRepository, runner SuiteRunner, recorder *RecordSubmissionUsecase, logger *zap.Logger) *SubmitCodeUsecase {
	return &SubmitCodeUsecase{
		problems: problems,
		runner:   runner,
		recorder: recorder,
		logger:   logger,
	}
}

// Execute judges the request, persists the submission and returns the
// formatted result carrying the new submission id. opts are forwarded to the
// suite runner.
func (uc *SubmitCodeUsecase) Execute(ctx context.Context, req *domain.SubmitRequest, opts ...verdict.RunOption) (*format.Result, error) {
	if req.UserID == "" {
		return nil, domain.ErrMissingUser
	}
	lang, err := validateCode(req.Language, req.Code)
	if err != nil {
		return nil, err
	}

	cases, err := uc.problems.GetTestCases(ctx, req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("submit: load test cases: %w", err)
	}

	start := time.Now()
	v, err := uc.judge(ctx, req, lang, cases, opts)
	if err != nil {
		return nil, err
	}

	sub, err := uc.recorder.Record(ctx, req.UserID, req.ProblemID, lang, req.Code, v)
	if err != nil {
		return nil, err
	}

	metrics.JudgeDuration.WithLabelValues(string(format.ModeSubmit)).Observe(time.Since(start).Seconds())
	res := format.FormatVerdict(v, format.ModeSubmit)
	metrics.VerdictsTotal.WithLabelValues(string(format.ModeSubmit), string(res.Status)).Inc()
	res.SubmissionID = &sub.ID
	return res, nil
}

// judge runs the suite. Suite-level failures other than cancellation become
// an ERROR verdict so they are still recorded.
func (uc *SubmitCodeUsecase) judge(ctx context.Context, req *domain.SubmitRequest, lang domain.Language, cases []domain.TestCase, opts []verdict.RunOption) (*domain.SubmissionVerdict, error) {
	if len(cases) == 0 {
		uc.logger.Warn("Problem has no test cases", zap.String("problem_id", req.ProblemID))
		return verdict.ErrorVerdict(domain.ErrNoTestCases.Error()), nil
	}

	v, err := uc.runner.RunTestSuite(ctx, req.Code, lang, cases, opts...)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("submit: %w", err)
	}
	uc.logger.Error("Test suite failed",
		zap.String("problem_id", req.ProblemID),
		zap.Error(err),
	)
	return verdict.ErrorVerdict(err.Error()), nil
}
