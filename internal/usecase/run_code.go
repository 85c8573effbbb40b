package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/metrics"
	"github.com/codedaily/judge/internal/repository"
)

// RunCodeUsecase executes code against the sample test cases of a problem.
// Nothing is persisted and the streak is never touched.
type RunCodeUsecase struct {
	problems    repository.ProblemRepository
	runner      SuiteRunner
	sampleLimit int
	logger      *zap.Logger
}

// NewRunCodeUsecase creates a new RunCodeUsecase. sampleLimit caps how many
// sample cases are executed; zero runs all of them.
func NewRunCodeUsecase(problems repository.ProblemRepository, runner SuiteRunner, sampleLimit int, logger *zap.Logger) *RunCodeUsecase {
	return &RunCodeUsecase{
		problems:    problems,
		runner:      runner,
		sampleLimit: sampleLimit,
		logger:      logger,
	}
}

// Execute runs the request and returns the formatted result.
func (uc *RunCodeUsecase) Execute(ctx context.Context, req *domain.RunRequest) (*format.Result, error) {
	if req.UserID == "" {
		return nil, domain.ErrMissingUser
	}
	lang, err := validateCode(req.Language, req.Code)
	if err != nil {
		return nil, err
	}

	cases, err := uc.problems.GetTestCases(ctx, req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("run: load test cases: %w", err)
	}

	samples := uc.selectSamples(cases)
	start := time.Now()

	v, err := uc.runner.RunTestSuite(ctx, req.Code, lang, samples)
	if err != nil {
		uc.logger.Warn("Run failed",
			zap.String("problem_id", req.ProblemID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("run: %w", err)
	}

	metrics.JudgeDuration.WithLabelValues(string(format.ModeRun)).Observe(time.Since(start).Seconds())
	res := format.FormatVerdict(v, format.ModeRun)
	metrics.VerdictsTotal.WithLabelValues(string(format.ModeRun), string(res.Status)).Inc()

	uc.logger.Info("Code run finished",
		zap.String("user_id", req.UserID),
		zap.String("problem_id", req.ProblemID),
		zap.String("language", string(lang)),
		zap.String("status", string(res.Status)),
	)
	return res, nil
}

// selectSamples keeps the sample cases in order up to the configured limit.
// A problem without samples is run once with empty input and expected output.
func (uc *RunCodeUsecase) selectSamples(cases []domain.TestCase) []domain.TestCase {
	var samples []domain.TestCase
	for _, tc := range cases {
		if tc.Kind != domain.TestCaseSample {
			continue
		}
		samples = append(samples, tc)
		if uc.sampleLimit > 0 && len(samples) == uc.sampleLimit {
			break
		}
	}
	if len(samples) == 0 {
		samples = []domain.TestCase{{Kind: domain.TestCaseSample}}
	}
	return samples
}
