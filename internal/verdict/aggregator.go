// Package verdict runs a problem's test suite against one piece of code and
// folds the per-test-case outcomes into a single verdict.
package verdict

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/metrics"
	"github.com/codedaily/judge/internal/repository"
)

// Waiter blocks until an execution reaches a terminal status.
type Waiter interface {
	WaitForCompletion(ctx context.Context, handle domain.ExecutionHandle) (*domain.ExecutionResult, error)
}

// ProgressFunc observes a suite while it runs. partial holds the outcomes
// finished so far, ordered by test-case order.
type ProgressFunc func(done, total int, partial []domain.TestCaseOutcome)

// Aggregator executes test suites through the execution service.
type Aggregator struct {
	client      repository.ExecutionClient
	waiter      Waiter
	concurrency int
	logger      *zap.Logger
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds how many test cases of one suite run at the same
// time. Values below 2 keep execution sequential.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// NewAggregator creates an Aggregator.
func NewAggregator(client repository.ExecutionClient, waiter Waiter, logger *zap.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		client:      client,
		waiter:      waiter,
		concurrency: 1,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type runConfig struct {
	progress ProgressFunc
}

// RunOption customizes a single RunTestSuite call.
type RunOption func(*runConfig)

// WithProgress registers an observer for in-flight outcomes.
func WithProgress(fn ProgressFunc) RunOption {
	return func(c *runConfig) { c.progress = fn }
}

// RunTestSuite runs code against every test case and returns the verdict.
//
// A failure of a single test case (transport error, poll timeout) becomes a
// failed outcome and the remaining cases still run. Only suite-level problems
// (unsupported language, no test cases, cancelled context) are returned as
// errors.
func (a *Aggregator) RunTestSuite(ctx context.Context, code string, language domain.Language, testCases []domain.TestCase, opts ...RunOption) (*domain.SubmissionVerdict, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	info, ok := domain.LookupLanguage(language)
	if !ok {
		return nil, fmt.Errorf("verdict: language %q: %w", language, domain.ErrInvalidLanguage)
	}
	if len(testCases) == 0 {
		return nil, fmt.Errorf("verdict: %w", domain.ErrNoTestCases)
	}

	cases := append([]domain.TestCase(nil), testCases...)
	sort.SliceStable(cases, func(i, j int) bool { return cases[i].Order < cases[j].Order })

	outcomes := make([]domain.TestCaseOutcome, len(cases))
	tracker := newProgressTracker(len(cases), cfg.progress)

	workers := a.concurrency
	if workers > len(cases) {
		workers = len(cases)
	}

	if workers <= 1 {
		for i := range cases {
			outcomes[i] = a.runOne(ctx, code, info, cases[i])
			tracker.record(i, outcomes[i])
		}
	} else {
		indexes := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					outcomes[i] = a.runOne(ctx, code, info, cases[i])
					tracker.record(i, outcomes[i])
				}
			}()
		}
		for i := range cases {
			indexes <- i
		}
		close(indexes)
		wg.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verdict: suite abandoned: %w", err)
	}

	v := Summarize(outcomes)
	a.logger.Info("Test suite finished",
		zap.String("language", string(info.Name)),
		zap.Int("test_cases", len(outcomes)),
		zap.String("result", string(v.OverallResult)),
		zap.Int("runtime_ms", v.TotalRuntimeMs),
	)
	return v, nil
}

// Summarize folds ordered outcomes into a verdict.
func Summarize(outcomes []domain.TestCaseOutcome) *domain.SubmissionVerdict {
	v := &domain.SubmissionVerdict{
		OverallResult: domain.ResultAccepted,
		Score:         domain.ScoreAccepted,
		Outcomes:      outcomes,
	}
	for _, o := range outcomes {
		v.TotalRuntimeMs += o.RuntimeMs
		if o.MemoryKB > v.MaxMemoryKB {
			v.MaxMemoryKB = o.MemoryKB
		}
		if !o.Passed {
			v.OverallResult = domain.ResultWrongAnswer
			v.Score = domain.ScoreRejected
		}
	}
	return v
}

// ErrorVerdict is the verdict of a suite that could not run at all.
func ErrorVerdict(msg string) *domain.SubmissionVerdict {
	return &domain.SubmissionVerdict{
		OverallResult: domain.ResultError,
		Score:         domain.ScoreRejected,
		Message:       msg,
	}
}

func (a *Aggregator) runOne(ctx context.Context, code string, info domain.LanguageInfo, tc domain.TestCase) domain.TestCaseOutcome {
	outcome := domain.TestCaseOutcome{
		TestCaseID: tc.ID,
		Kind:       tc.Kind,
		Input:      tc.Input,
		Expected:   tc.ExpectedOutput,
	}

	result, err := a.execute(ctx, &domain.ExecutionRequest{
		LanguageID:     info.ID,
		SourceCode:     code,
		Stdin:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
	})
	if err != nil {
		a.logger.Warn("Test case execution failed",
			zap.String("test_case_id", tc.ID),
			zap.Error(err),
		)
		outcome.Err = err
		outcome.ActualOutput = err.Error()
		metrics.ExecutionsTotal.WithLabelValues(string(info.Name), string(format.StatusError)).Inc()
		return outcome
	}

	outcome.Status = result.Status
	outcome.Passed = result.Status == domain.StatusAccepted
	outcome.ActualOutput = actualOutput(result)
	outcome.RuntimeMs = result.TimeMs
	outcome.MemoryKB = result.MemoryKB
	metrics.ExecutionsTotal.WithLabelValues(string(info.Name), string(format.FormatStatus(result.Status))).Inc()
	return outcome
}

func (a *Aggregator) execute(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	handle, err := a.client.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	return a.waiter.WaitForCompletion(ctx, handle)
}

// actualOutput prefers stdout and falls back to whatever diagnostic the
// execution service produced.
func actualOutput(r *domain.ExecutionResult) string {
	for _, s := range []string{r.Stdout, r.CompileOutput, r.Stderr, r.Message} {
		if s != "" {
			return s
		}
	}
	return ""
}

// progressTracker reports the finished outcomes in test-case order.
type progressTracker struct {
	mu       sync.Mutex
	fn       ProgressFunc
	total    int
	finished []bool
	outcomes []domain.TestCaseOutcome
	done     int
}

func newProgressTracker(total int, fn ProgressFunc) *progressTracker {
	return &progressTracker{
		fn:       fn,
		total:    total,
		finished: make([]bool, total),
		outcomes: make([]domain.TestCaseOutcome, total),
	}
}

func (p *progressTracker) record(i int, o domain.TestCaseOutcome) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished[i] = true
	p.outcomes[i] = o
	p.done++

	partial := make([]domain.TestCaseOutcome, 0, p.done)
	for j, ok := range p.finished {
		if ok {
			partial = append(partial, p.outcomes[j])
		}
	}
	p.fn(p.done, p.total, partial)
}
