package amqp

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	amqplib "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/publisher"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxReconnectDelay  = 30 * time.Second
	baseReconnectDelay = 1 * time.Second
)

// Consumer reads judge jobs from RabbitMQ and hands them to the worker pool
// wrapped with manual Ack/Nack callbacks.
type Consumer struct {
	url      string
	prefetch int
	conn     *amqplib.Connection
	channel  *amqplib.Channel
	logger   *zap.Logger
	jobs     chan<- *domain.JudgeJobMessage

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
}

// NewConsumer dials the broker. prefetch bounds unacknowledged deliveries and
// should match the worker pool size.
func NewConsumer(url string, prefetch int, jobs chan<- *domain.JudgeJobMessage, logger *zap.Logger) (*Consumer, error) {
	if prefetch < 1 {
		prefetch = 1
	}
	c := &Consumer{
		url:      url,
		prefetch: prefetch,
		logger:   logger,
		jobs:     jobs,
		closeCh:  make(chan struct{}),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Consumer) connect() error {
	conn, err := amqplib.Dial(c.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("amqp qos: %w", err)
	}

	if err := publisher.DeclareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("amqp topology: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()
	return nil
}

// Start consumes until ctx is cancelled, reconnecting with exponential backoff.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		err := c.consume(ctx)
		if err == nil {
			return nil
		}

		select {
		case <-c.closeCh:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		c.logger.Warn("AMQP consumer lost connection, reconnecting", zap.Error(err))

		for attempt := 0; ; attempt++ {
			delay := time.Duration(math.Min(
				float64(baseReconnectDelay)*math.Pow(2, float64(attempt)),
				float64(maxReconnectDelay),
			))
			select {
			case <-c.closeCh:
				return nil
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}

			if err := c.connect(); err != nil {
				c.logger.Error("Reconnect failed", zap.Int("attempt", attempt+1), zap.Error(err))
				continue
			}
			c.logger.Info("Reconnected to RabbitMQ")
			break
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return fmt.Errorf("channel is nil")
	}

	deliveries, err := ch.Consume(
		publisher.QueueName,
		"",    // auto-generated consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}

	c.logger.Info("AMQP consumer started", zap.String("queue", publisher.QueueName))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("AMQP consumer stopping (context cancelled)")
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			msg, err := decodeDelivery(ch, delivery)
			if err != nil {
				c.logger.Error("Dropping malformed judge job",
					zap.Error(err),
					zap.String("message_id", delivery.MessageId),
				)
				_ = delivery.Nack(false, false)
				continue
			}

			select {
			case c.jobs <- msg:
			case <-ctx.Done():
				_ = delivery.Nack(false, true)
				return nil
			}
		}
	}
}

// acknowledger is the subset of *amqplib.Channel used for settling deliveries.
type acknowledger interface {
	Ack(tag uint64, multiple bool) error
	Nack(tag uint64, multiple, requeue bool) error
}

func decodeDelivery(ch acknowledger, d amqplib.Delivery) (*domain.JudgeJobMessage, error) {
	var job domain.JudgeJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		return nil, fmt.Errorf("unmarshal judge job: %w", err)
	}
	if job.JobID == uuid.Nil {
		return nil, fmt.Errorf("judge job without id")
	}

	tag := d.DeliveryTag
	return &domain.JudgeJobMessage{
		Job:  &job,
		Ack:  func() error { return ch.Ack(tag, false) },
		Nack: func(requeue bool) error { return ch.Nack(tag, false, requeue) },
	}, nil
}

// Close shuts the consumer down.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.closeCh)

	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
