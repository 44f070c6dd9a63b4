package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewplan/crewplan/internal/shared"
)

// Repository provides PostgreSQL backed user lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get fetches a single user profile by id.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	if r == nil || r.pool == nil {
		return User{}, fmt.Errorf("users repo not initialised")
	}
	const query = `
SELECT id, email, name, is_active, created_at, updated_at
FROM users
WHERE id = $1`
	var u User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// GetMany fetches the profiles for a set of user ids, keyed by id. Missing
// ids are simply absent from the result.
func (r *Repository) GetMany(ctx context.Context, ids []int64) (map[int64]User, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("users repo not initialised")
	}
	if len(ids) == 0 {
		return map[int64]User{}, nil
	}
	const query = `
SELECT id, email, name, is_active, created_at, updated_at
FROM users
WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]User, len(ids))
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result[u.ID] = u
	}
	return result, rows.Err()
}

// ManagedUserIDs returns the ids of users reporting to the given manager.
func (r *Repository) ManagedUserIDs(ctx context.Context, managerID int64) ([]int64, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("users repo not initialised")
	}
	const query = `
SELECT um.user_id
FROM user_managers um
JOIN users u ON u.id = um.user_id
WHERE um.manager_id = $1 AND u.is_active
ORDER BY um.user_id`
	rows, err := r.pool.Query(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsManagerOf reports whether a manager relationship row exists for (target, manager).
func (r *Repository) IsManagerOf(ctx context.Context, targetUserID, managerID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, fmt.Errorf("users repo not initialised")
	}
	const query = `
SELECT EXISTS (
  SELECT 1 FROM user_managers WHERE user_id = $1 AND manager_id = $2
)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, targetUserID, managerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ManagerIDs lists every user that manages at least one other user.
func (r *Repository) ManagerIDs(ctx context.Context) ([]int64, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("users repo not initialised")
	}
	const query = `SELECT DISTINCT manager_id FROM user_managers ORDER BY manager_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
