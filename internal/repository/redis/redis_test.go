package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/repository"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, goredis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestIdempotency_AcquireOnce(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRedisIdempotencyStore(client)
	ctx := context.Background()
	jobID := uuid.New()

	ok, err := store.AcquireLock(ctx, jobID)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = store.AcquireLock(ctx, jobID)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail, got ok=%v err=%v", ok, err)
	}

	if err := store.ReleaseLock(ctx, jobID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL(lockKeyPrefix + jobID.String()); ttl != doneTTL {
		t.Errorf("expected done TTL %v, got %v", doneTTL, ttl)
	}

	mr.FastForward(doneTTL + time.Second)
	ok, err = store.AcquireLock(ctx, jobID)
	if err != nil || !ok {
		t.Fatalf("expected acquire after expiry, got ok=%v err=%v", ok, err)
	}
}

func TestIdempotency_RedisDown(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRedisIdempotencyStore(client)
	mr.Close()

	if _, err := store.AcquireLock(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
}

func TestSnapshots_SaveGet(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRedisSnapshotStore(client, time.Minute)
	ctx := context.Background()
	jobID := uuid.New()
	subID := uuid.New()

	in := &format.Result{
		Status:  format.StatusWrongAnswer,
		Runtime: 42,
		TestCaseResults: []format.TestCaseResult{
			{Passed: true, Input: "1", Output: "1", Expected: "1", Runtime: 20},
			{Passed: false, Output: "0", Runtime: 22, Hidden: true},
		},
		SubmissionID: &subID,
	}
	if err := store.Save(ctx, jobID, &repository.JobSnapshot{UserID: "user-1", Result: in}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL(snapshotKeyPrefix + jobID.String()); ttl != time.Minute {
		t.Errorf("expected 1m TTL, got %v", ttl)
	}

	snap, err := store.Get(ctx, jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %q", snap.UserID)
	}
	out := snap.Result
	if out.Status != in.Status || out.Runtime != 42 || len(out.TestCaseResults) != 2 {
		t.Errorf("unexpected snapshot %+v", out)
	}
	if out.SubmissionID == nil || *out.SubmissionID != subID {
		t.Errorf("expected submission id %s, got %v", subID, out.SubmissionID)
	}
	if !out.TestCaseResults[1].Hidden {
		t.Error("expected hidden flag to survive")
	}
}

func TestSnapshots_Expire(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRedisSnapshotStore(client, 0)
	ctx := context.Background()
	jobID := uuid.New()

	if err := store.Save(ctx, jobID, &repository.JobSnapshot{UserID: "user-1", Result: format.Running(0, 3, nil)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(DefaultSnapshotTTL + time.Second)

	if _, err := store.Get(ctx, jobID); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
