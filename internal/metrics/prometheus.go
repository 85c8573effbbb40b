package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExecutionsTotal counts finished test-case executions by language and public status.
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_executions_total",
			Help: "Total number of test-case executions",
		},
		[]string{"language", "status"},
	)

	// PollAttempts tracks how many fetches an execution needed before it settled.
	PollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "judge_poll_attempts",
			Help:    "Number of result fetches per execution",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 30},
		},
	)

	// VerdictsTotal counts judge actions by mode (run/submit) and overall result.
	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_verdicts_total",
			Help: "Total number of judge verdicts",
		},
		[]string{"mode", "result"},
	)

	// JudgeDuration tracks the wall time of a whole run or submit action in seconds.
	JudgeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "judge_duration_seconds",
			Help:    "Duration of judge actions in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
		},
		[]string{"mode"},
	)

	// StreakAdvances counts streak increments.
	StreakAdvances = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "judge_streak_advances_total",
			Help: "Total number of daily streak advances",
		},
	)

	// RecorderFailures counts persistence failures by step (submission, streak).
	RecorderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_recorder_failures_total",
			Help: "Total number of submission recorder failures",
		},
		[]string{"step"},
	)

	// WorkersActive tracks the number of judge workers currently processing a job.
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "judge_workers_active",
			Help: "Number of currently active judge worker goroutines",
		},
	)

	// JobsProcessed counts async judge jobs handled by the worker pool by outcome.
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_jobs_processed_total",
			Help: "Total number of async judge jobs processed",
		},
		[]string{"outcome"},
	)
)
