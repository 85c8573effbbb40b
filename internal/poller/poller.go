// Package poller waits for an execution to reach a terminal state.
package poller

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/metrics"
	"github.com/codedaily/judge/internal/repository"
)

const (
	DefaultMaxAttempts = 30
	DefaultInterval    = time.Second
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// TimerSleep is the production Sleeper. It parks the goroutine on a timer.
func TimerSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type state int

const (
	stateFetch state = iota
	stateWait
	stateDone
	stateTimedOut
	stateFailed
)

// Poller repeatedly fetches an execution result at a fixed interval.
type Poller struct {
	client      repository.ExecutionClient
	maxAttempts int
	interval    time.Duration
	sleep       Sleeper
	logger      *zap.Logger
}

// Option customizes a Poller.
type Option func(*Poller)

// WithSleeper replaces the timer-based wait, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(p *Poller) { p.sleep = s }
}

// New creates a Poller. Non-positive limits fall back to the defaults.
func New(client repository.ExecutionClient, maxAttempts int, interval time.Duration, logger *zap.Logger, opts ...Option) *Poller {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		client:      client,
		maxAttempts: maxAttempts,
		interval:    interval,
		sleep:       TimerSleep,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WaitForCompletion fetches the result of handle until it is terminal.
// It makes at most maxAttempts fetches and sleeps the fixed interval between
// non-terminal ones. Fetch errors end the wait immediately; exhausting the
// attempts yields domain.ErrPollTimeout. Cancelling ctx abandons the wait.
func (p *Poller) WaitForCompletion(ctx context.Context, handle domain.ExecutionHandle) (*domain.ExecutionResult, error) {
	var (
		st       = stateFetch
		attempts int
		result   *domain.ExecutionResult
		err      error
	)

	for {
		switch st {
		case stateFetch:
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
				st = stateFailed
				continue
			}
			attempts++
			result, err = p.client.FetchResult(ctx, handle)
			switch {
			case err != nil:
				st = stateFailed
			case result.Status.IsTerminal():
				st = stateDone
			case attempts >= p.maxAttempts:
				st = stateTimedOut
			default:
				st = stateWait
			}

		case stateWait:
			if err = p.sleep(ctx, p.interval); err != nil {
				st = stateFailed
				continue
			}
			st = stateFetch

		case stateDone:
			metrics.PollAttempts.Observe(float64(attempts))
			return result, nil

		case stateTimedOut:
			metrics.PollAttempts.Observe(float64(attempts))
			p.logger.Warn("Execution did not finish within polling budget",
				zap.String("token", string(handle)),
				zap.Int("attempts", attempts),
			)
			return nil, fmt.Errorf("poll %s: %w", handle, domain.ErrPollTimeout)

		case stateFailed:
			metrics.PollAttempts.Observe(float64(attempts))
			return nil, fmt.Errorf("poll %s: %w", handle, err)
		}
	}
}
