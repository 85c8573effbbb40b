package pool

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/metrics"
)

// Processor handles one judge job. It reports duplicates separately from failures.
type Processor interface {
	Execute(ctx context.Context, job *domain.JudgeJob) (bool, error)
}

// WorkerPool manages a fixed-size pool of goroutines that process judge jobs.
type WorkerPool struct {
	size      int
	jobs      <-chan *domain.JudgeJobMessage
	processor Processor
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewWorkerPool creates a new fixed-size worker pool.
func NewWorkerPool(size int, jobs <-chan *domain.JudgeJobMessage, processor Processor, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:      size,
		jobs:      jobs,
		processor: processor,
		logger:    logger,
	}
}

// Start launches all worker goroutines. Call Stop to wait for them to finish.
func (p *WorkerPool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", zap.Int("pool_size", p.size))

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop waits for all workers to finish their current jobs and exit.
func (p *WorkerPool) Stop() {
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Worker shutting down", zap.Int("worker_id", id))
			return
		case msg, ok := <-p.jobs:
			if !ok {
				p.logger.Debug("Job channel closed", zap.Int("worker_id", id))
				return
			}
			p.handle(ctx, id, msg)
		}
	}
}

// handle processes one message and settles it. A panic in the processor is
// recovered per message so the worker keeps serving the queue.
func (p *WorkerPool) handle(ctx context.Context, id int, msg *domain.JudgeJobMessage) {
	job := msg.Job
	jobID := job.JobID.String()

	metrics.WorkersActive.Inc()
	start := time.Now()
	defer func() {
		metrics.WorkersActive.Dec()
		if r := recover(); r != nil {
			p.logger.Error("Worker panic recovered",
				zap.Int("worker_id", id),
				zap.String("job_id", jobID),
				zap.Any("panic", r),
			)
			metrics.JobsProcessed.WithLabelValues("panic").Inc()
			p.settle(msg, false)
		}
	}()

	p.logger.Info("Worker processing judge job",
		zap.Int("worker_id", id),
		zap.String("job_id", jobID),
		zap.String("language", string(job.Language)),
	)

	// In-flight jobs run to completion on shutdown.
	isDuplicate, err := p.processor.Execute(context.WithoutCancel(ctx), job)
	switch {
	case err != nil:
		p.logger.Error("Judge job failed",
			zap.Int("worker_id", id),
			zap.String("job_id", jobID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		// Deterministic failures would loop forever if requeued; they go to the DLQ.
		metrics.JobsProcessed.WithLabelValues("failed").Inc()
		p.settle(msg, false)
	case isDuplicate:
		metrics.JobsProcessed.WithLabelValues("duplicate").Inc()
		p.settle(msg, true)
	default:
		metrics.JobsProcessed.WithLabelValues("done").Inc()
		p.settle(msg, true)
	}
}

func (p *WorkerPool) settle(msg *domain.JudgeJobMessage, ack bool) {
	var err error
	if ack {
		err = msg.Ack()
	} else {
		err = msg.Nack(false)
	}
	if err != nil {
		p.logger.Error("Failed to settle message",
			zap.String("job_id", msg.Job.JobID.String()),
			zap.Bool("ack", ack),
			zap.Error(err),
		)
	}
}
