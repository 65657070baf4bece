package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"simple_forum/internal/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

var _ SessionRepo = (*SessionRepository)(nil)

const (
	// One row per user: saving a new session replaces the previous one.
	upsertSessionSQL = `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			id=excluded.id,
			created_at=excluded.created_at,
			expires_at=excluded.expires_at
	`
	selectSessionSQL = `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?`
	deleteSessionSQL = `DELETE FROM sessions WHERE id = ?`
)

func (r *SessionRepository) Save(ctx context.Context, s models.Session) error {
	_, err := r.db.ExecContext(ctx, upsertSessionSQL, s.ID, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("save session for user %q: %w", s.UserID, err)
	}
	return nil
}

// Get returns (nil, nil) for an unknown token.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, selectSessionSQL, id).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return &s, nil
}

// Delete removes the session; deleting an unknown token is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
