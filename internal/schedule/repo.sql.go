package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository resolves week ending windows from the reference table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a schedule repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FutureWeeks returns up to n week endings on or after from, ascending by date.
func (r *Repository) FutureWeeks(ctx context.Context, from time.Time, n int) ([]WeekEnding, error) {
	const query = `
SELECT id, week_ending
FROM week_endings
WHERE week_ending >= $1
ORDER BY week_ending ASC
LIMIT $2`
	return r.queryWeeks(ctx, query, from, n)
}

// HistoricalWeeks returns up to n week endings on or before from, descending
// by date. Callers reverse via Chronological before labeling.
func (r *Repository) HistoricalWeeks(ctx context.Context, from time.Time, n int) ([]WeekEnding, error) {
	const query = `
SELECT id, week_ending
FROM week_endings
WHERE week_ending <= $1
ORDER BY week_ending DESC
LIMIT $2`
	return r.queryWeeks(ctx, query, from, n)
}

func (r *Repository) queryWeeks(ctx context.Context, query string, from time.Time, n int) ([]WeekEnding, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("schedule repo not initialised")
	}
	if n <= 0 {
		return []WeekEnding{}, nil
	}
	rows, err := r.pool.Query(ctx, query, from, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := make([]WeekEnding, 0, n)
	for rows.Next() {
		var w WeekEnding
		if err := rows.Scan(&w.ID, &w.Date); err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}
