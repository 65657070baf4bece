package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"simple_forum/internal/models"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ PostRepo = (*PostRepository)(nil)

const (
	postColumns = `id, title, content, author_id, author, created_at`

	insertPostSQL        = `INSERT INTO posts (title, content, author_id, author, created_at) VALUES (?, ?, ?, ?, ?)`
	selectPostByIDSQL    = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	selectPostPageSQL    = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	selectPostsByUserSQL = `SELECT ` + postColumns + ` FROM posts WHERE author_id = ? ORDER BY created_at DESC, id DESC`
	countPostsSQL        = `SELECT COUNT(*) FROM posts`
)

// Create inserts the post; created_at is always assigned here, in UTC.
func (r *PostRepository) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, insertPostSQL, p.Title, p.Content, p.AuthorID, p.Author, p.CreatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post by %q: %w", p.AuthorID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, fmt.Errorf("get last insert id for post by %q: %w", p.AuthorID, err)
	}
	p.ID = int(lastID)
	return p, nil
}

// GetByID returns (nil, nil) if the post does not exist.
func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPostByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	return &p, nil
}

// List returns a window of posts, newest first.
func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPostPageSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return collectPosts(rows)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPostsByUserSQL, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by %q: %w", authorID, err)
	}
	return collectPosts(rows)
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countPostsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.Author, &p.CreatedAt); err != nil {
		return models.Post{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	out := make([]models.Post, 0, 8)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
