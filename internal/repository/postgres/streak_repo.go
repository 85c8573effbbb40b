package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/repository"
)

var _ repository.StreakRepository = (*pgStreakRepo)(nil)

type pgStreakRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresStreakRepository creates a PostgreSQL-backed streak repository.
func NewPostgresStreakRepository(pool *pgxpool.Pool) repository.StreakRepository {
	return &pgStreakRepo{pool: pool}
}

// Advance claims (userID, day) in streak_events and bumps the counters only
// if the claim succeeded. Both writes commit together.
func (r *pgStreakRepo) Advance(ctx context.Context, userID string, day time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("postgres: begin streak tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`INSERT INTO streak_events (user_id, event_date) VALUES ($1, $2)
		 ON CONFLICT (user_id, event_date) DO NOTHING`,
		userID, domain.UTCDay(day),
	)
	if err != nil {
		return false, fmt.Errorf("postgres: insert streak event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, current_streak, longest_streak, streak_last_success, last_seen)
		VALUES ($1, 1, 1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			current_streak      = users.current_streak + 1,
			longest_streak      = GREATEST(users.longest_streak, users.current_streak + 1),
			streak_last_success = EXCLUDED.streak_last_success,
			last_seen           = EXCLUDED.last_seen`,
		userID, domain.UTCDay(day), time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("postgres: update streak: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("postgres: commit streak tx: %w", err)
	}
	return true, nil
}

func (r *pgStreakRepo) Get(ctx context.Context, userID string) (*domain.StreakState, error) {
	st := &domain.StreakState{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`SELECT current_streak, longest_streak, streak_last_success FROM users WHERE id = $1`,
		userID,
	).Scan(&st.CurrentStreak, &st.LongestStreak, &st.LastSuccessDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get streak: %w", err)
	}
	return st, nil
}
