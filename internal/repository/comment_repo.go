package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"simple_forum/internal/models"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

var _ CommentRepo = (*CommentRepository)(nil)

const (
	insertCommentSQL = `INSERT INTO comments (post_id, author_id, author, content, created_at) VALUES (?, ?, ?, ?, ?)`

	selectCommentsByPostSQL = `
		SELECT id, post_id, author_id, author, content, created_at
		FROM comments WHERE post_id = ?
		ORDER BY created_at ASC, id ASC
	`
)

func (r *CommentRepository) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	c.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, insertCommentSQL, c.PostID, c.AuthorID, c.Author, c.Content, c.CreatedAt)
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment on post %d: %w", c.PostID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Comment{}, fmt.Errorf("get last insert id for comment on post %d: %w", c.PostID, err)
	}
	c.ID = int(lastID)
	return c, nil
}

// ListByPost returns comments oldest first. An unknown post yields an empty slice.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, selectCommentsByPostSQL, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	defer rows.Close()

	out := make([]models.Comment, 0, 16)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
