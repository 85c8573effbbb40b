package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/codedaily/judge/internal/repository"
)

var _ repository.IdempotencyStore = (*redisIdempotency)(nil)

const (
	lockKeyPrefix = "judge:lock:"
	lockTTL       = 10 * time.Minute
	// doneTTL keeps a finished job's key around long enough to swallow
	// redeliveries of the same message.
	doneTTL = time.Hour
)

type redisIdempotency struct {
	client goredis.UniversalClient
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store using SETNX.
func NewRedisIdempotencyStore(client goredis.UniversalClient) repository.IdempotencyStore {
	return &redisIdempotency{client: client}
}

// AcquireLock uses SETNX to atomically claim a judge job.
func (r *redisIdempotency) AcquireLock(ctx context.Context, jobID uuid.UUID) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKeyPrefix+jobID.String(), time.Now().Unix(), lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis: acquire lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock re-arms the key with doneTTL instead of deleting it.
func (r *redisIdempotency) ReleaseLock(ctx context.Context, jobID uuid.UUID) error {
	if err := r.client.Expire(ctx, lockKeyPrefix+jobID.String(), doneTTL).Err(); err != nil {
		return fmt.Errorf("redis: release lock: %w", err)
	}
	return nil
}
