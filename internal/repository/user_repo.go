package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"simple_forum/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Identity interface at compile time.
var _ Identity = (*UserRepository)(nil)

const (
	insertUserSQL     = `INSERT INTO users (id, name, password_hash, created_at) VALUES (?, ?, ?, ?)`
	selectUserByIDSQL = `SELECT id, name, password_hash, created_at FROM users WHERE id = ?`

	updateUserSQL           = `UPDATE users SET name = ?, password_hash = ? WHERE id = ?`
	renamePostsAuthorSQL    = `UPDATE posts SET author = ? WHERE author_id = ?`
	renameCommentsAuthorSQL = `UPDATE comments SET author = ? WHERE author_id = ?`
)

// Create inserts a new user. A primary key collision yields ErrDuplicateID.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Name, u.PasswordHash, created.UTC()); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", u.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert user %q: %w", u.ID, err)
	}
	return nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", id, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// UpdateProfile writes the new name and hash, then fans the name out to posts
// and comments. Any failure rolls back all three statements.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, passwordHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin profile update %q: %w", id, err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, updateUserSQL, name, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update user %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update user %q: %w", id, sql.ErrNoRows)
	}

	if _, err := tx.ExecContext(ctx, renamePostsAuthorSQL, name, id); err != nil {
		return fmt.Errorf("rename post author %q: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, renameCommentsAuthorSQL, name, id); err != nil {
		return fmt.Errorf("rename comment author %q: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit profile update %q: %w", id, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
