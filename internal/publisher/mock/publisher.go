package mock

import (
	"context"
	"sync"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/publisher"
)

var _ publisher.Publisher = (*Publisher)(nil)

// Publisher records published judge jobs.
type Publisher struct {
	mu        sync.Mutex
	Published []*domain.JudgeJob
	PublishFn func(ctx context.Context, job *domain.JudgeJob) error
	Closed    bool
}

// NewPublisher creates a new mock publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

func (m *Publisher) Publish(ctx context.Context, job *domain.JudgeJob) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, job)
	return nil
}

func (m *Publisher) Close() error {
	m.Closed = true
	return nil
}
