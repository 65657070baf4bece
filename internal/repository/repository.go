package repository

import (
	"context"
	"database/sql"
	"errors"

	"simple_forum/internal/models"
)

// ErrDuplicateID is returned when a row with the same primary key already exists.
var ErrDuplicateID = errors.New("duplicate id")

// Identity persists user records. Lookups return (nil, nil) on a miss.
type Identity interface {
	Create(ctx context.Context, u models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdateProfile renames the user and rewrites the author name on all of
	// their posts and comments in a single transaction.
	UpdateProfile(ctx context.Context, id, name, passwordHash string) error
}

type SessionRepo interface {
	Save(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type PostRepo interface {
	Create(ctx context.Context, p models.Post) (models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	Count(ctx context.Context) (int, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c models.Comment) (models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]models.Comment, error)
}

type Repository struct {
	Users    Identity
	Sessions SessionRepo
	Posts    PostRepo
	Comments CommentRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Sessions: NewSessionRepository(db),
		Posts:    NewPostRepository(db),
		Comments: NewCommentRepository(db),
	}
}
