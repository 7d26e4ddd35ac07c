package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/classroom-auth/internal/model"
)

// querier is the part of *pgxpool.Pool the repository needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ model.Scope = (*SessionRepository)(nil)

// SessionRepository is a durable session scope backed by the session_values table.
type SessionRepository struct {
	db querier
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func (r *SessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM session_values WHERE key = $1`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get session value: %w", err)
	}

	return value, true, nil
}

func (r *SessionRepository) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO session_values (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set session value: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM session_values WHERE key = $1`

	if _, err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}
