package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/repository"
)

var _ repository.SnapshotStore = (*redisSnapshots)(nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	snapshotKeyPrefix  = "judge:job:"
	DefaultSnapshotTTL = 30 * time.Minute
)

type redisSnapshots struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a snapshot store whose entries expire after ttl.
func NewRedisSnapshotStore(client goredis.UniversalClient, ttl time.Duration) repository.SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &redisSnapshots{client: client, ttl: ttl}
}

func (r *redisSnapshots) Save(ctx context.Context, jobID uuid.UUID, snap *repository.JobSnapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKeyPrefix+jobID.String(), body, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save snapshot: %w", err)
	}
	return nil
}

func (r *redisSnapshots) Get(ctx context.Context, jobID uuid.UUID) (*repository.JobSnapshot, error) {
	body, err := r.client.Get(ctx, snapshotKeyPrefix+jobID.String()).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get snapshot: %w", err)
	}

	var snap repository.JobSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("redis: decode snapshot: %w", err)
	}
	if snap.Result == nil {
		return nil, fmt.Errorf("redis: snapshot %s has no result", jobID)
	}
	return &snap, nil
}
