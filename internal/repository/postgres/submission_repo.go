package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/repository"
)

var _ repository.SubmissionRepository = (*pgSubmissionRepo)(nil)

type pgSubmissionRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresSubmissionRepository creates a PostgreSQL-backed submission log.
func NewPostgresSubmissionRepository(pool *pgxpool.Pool) repository.SubmissionRepository {
	return &pgSubmissionRepo{pool: pool}
}

func (r *pgSubmissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	query := `
		INSERT INTO submissions (id, user_id, problem_id, language, code, result, score, runtime_ms, memory_kb, output, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.Language, sub.Code,
		sub.Result, sub.Score, sub.RuntimeMs, sub.MemoryKB, sub.Output, sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create submission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepo) ListByUser(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, int, error) {
	where := `WHERE user_id = $1
		  AND ($2 = '' OR problem_id = $2)
		  AND ($3 = '' OR result = $3)`
	args := []any{filter.UserID, filter.ProblemID, string(filter.Result)}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count submissions: %w", err)
	}

	query := `
		SELECT id, user_id, problem_id, language, code, result, score, runtime_ms, memory_kb, output, submitted_at
		FROM submissions ` + where + `
		ORDER BY submitted_at DESC, id DESC
		LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, query, append(args, filter.Limit, (filter.Page-1)*filter.Limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: list submissions: %w", err)
	}

	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Submission, error) {
		var s domain.Submission
		err := row.Scan(&s.ID, &s.UserID, &s.ProblemID, &s.Language, &s.Code,
			&s.Result, &s.Score, &s.RuntimeMs, &s.MemoryKB, &s.Output, &s.SubmittedAt)
		return s, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: scan submissions: %w", err)
	}
	return subs, total, nil
}
