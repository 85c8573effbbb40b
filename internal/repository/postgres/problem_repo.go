package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/repository"
)

var _ repository.ProblemRepository = (*pgProblemRepo)(nil)

type pgProblemRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresProblemRepository creates a PostgreSQL-backed problem repository.
func NewPostgresProblemRepository(pool *pgxpool.Pool) repository.ProblemRepository {
	return &pgProblemRepo{pool: pool}
}

func (r *pgProblemRepo) GetTestCases(ctx context.Context, problemID string) ([]domain.TestCase, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM problems WHERE id = $1)`, problemID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("postgres: lookup problem: %w", err)
	}
	if !exists {
		return nil, domain.ErrProblemNotFound
	}

	query := `
		SELECT id, problem_id, kind, input, expected_output, sort_order
		FROM test_cases
		WHERE problem_id = $1
		ORDER BY sort_order, id`

	rows, err := r.pool.Query(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("postgres: get test cases: %w", err)
	}

	cases, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TestCase, error) {
		var tc domain.TestCase
		err := row.Scan(&tc.ID, &tc.ProblemID, &tc.Kind, &tc.Input, &tc.ExpectedOutput, &tc.Order)
		return tc, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan test cases: %w", err)
	}
	return cases, nil
}
