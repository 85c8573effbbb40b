package pool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/pool"
)

type fakeProcessor struct {
	calls atomic.Int32
	fn    func(job *domain.JudgeJob) (bool, error)
}

func (f *fakeProcessor) Execute(ctx context.Context, job *domain.JudgeJob) (bool, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(job)
	}
	return false, nil
}

func newTestPool(t *testing.T, size int, proc pool.Processor) (chan *domain.JudgeJobMessage, *pool.WorkerPool, context.CancelFunc) {
	t.Helper()
	ch := make(chan *domain.JudgeJobMessage, 16)
	ctx, cancel := context.WithCancel(context.Background())
	wp := pool.NewWorkerPool(size, ch, proc, zap.NewNop())
	wp.Start(ctx)
	return ch, wp, cancel
}

func sendJob(ch chan<- *domain.JudgeJobMessage, acked, nacked *atomic.Int32) {
	ch <- &domain.JudgeJobMessage{
		Job: &domain.JudgeJob{
			JobID:     uuid.New(),
			UserID:    "u1",
			ProblemID: "p1",
			Language:  domain.LangPython,
			Code:      "print('test')",
		},
		Ack: func() error {
			acked.Add(1)
			return nil
		},
		Nack: func(requeue bool) error {
			nacked.Add(1)
			return nil
		},
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPool_ProcessAndAck(t *testing.T) {
	proc := &fakeProcessor{}
	ch, wp, cancel := newTestPool(t, 2, proc)

	var acked, nacked atomic.Int32
	for i := 0; i < 5; i++ {
		sendJob(ch, &acked, &nacked)
	}
	waitFor(t, func() bool { return acked.Load() == 5 })

	cancel()
	wp.Stop()

	if acked.Load() != 5 {
		t.Errorf("expected 5 ACKs, got %d", acked.Load())
	}
	if nacked.Load() != 0 {
		t.Errorf("expected 0 NACKs, got %d", nacked.Load())
	}
}

func TestPool_NacksOnFailure(t *testing.T) {
	proc := &fakeProcessor{fn: func(job *domain.JudgeJob) (bool, error) {
		return false, errors.New("judge0 down")
	}}
	ch, wp, cancel := newTestPool(t, 1, proc)

	var acked, nacked atomic.Int32
	sendJob(ch, &acked, &nacked)
	sendJob(ch, &acked, &nacked)
	waitFor(t, func() bool { return nacked.Load() == 2 })

	cancel()
	wp.Stop()

	if nacked.Load() != 2 || acked.Load() != 0 {
		t.Errorf("expected 2 NACKs and 0 ACKs, got %d/%d", nacked.Load(), acked.Load())
	}
}

func TestPool_AcksDuplicates(t *testing.T) {
	proc := &fakeProcessor{fn: func(job *domain.JudgeJob) (bool, error) { return true, nil }}
	ch, wp, cancel := newTestPool(t, 1, proc)

	var acked, nacked atomic.Int32
	sendJob(ch, &acked, &nacked)
	waitFor(t, func() bool { return acked.Load() == 1 })

	cancel()
	wp.Stop()

	if acked.Load() != 1 || nacked.Load() != 0 {
		t.Errorf("expected duplicate to be ACKed, got ack=%d nack=%d", acked.Load(), nacked.Load())
	}
}

func TestPool_SurvivesPanic(t *testing.T) {
	var n atomic.Int32
	proc := &fakeProcessor{fn: func(job *domain.JudgeJob) (bool, error) {
		if n.Add(1) == 1 {
			panic("boom")
		}
		return false, nil
	}}
	ch, wp, cancel := newTestPool(t, 1, proc)

	var acked, nacked atomic.Int32
	sendJob(ch, &acked, &nacked)
	sendJob(ch, &acked, &nacked)
	waitFor(t, func() bool { return acked.Load() == 1 && nacked.Load() == 1 })

	cancel()
	wp.Stop()

	if nacked.Load() != 1 || acked.Load() != 1 {
		t.Errorf("expected panic NACK then ACK, got nack=%d ack=%d", nacked.Load(), acked.Load())
	}
}

func TestPool_StopsWhenChannelCloses(t *testing.T) {
	proc := &fakeProcessor{}
	ch, wp, cancel := newTestPool(t, 3, proc)
	defer cancel()

	close(ch)

	done := make(chan struct{})
	go func() {
		wp.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after channel close")
	}
}
