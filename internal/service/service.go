package service

import (
	"context"
	"time"

	"simple_forum/internal/models"
	"simple_forum/internal/repository"
)

// Identity covers registration, login and profile edits.
type Identity interface {
	Register(ctx context.Context, name, id, password string) (*models.User, error)
	Authenticate(ctx context.Context, id, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, token, name, password string) (*models.User, error)
}

// Sessions maps a session token back to its user. Unknown, expired and
// revoked tokens resolve to (nil, nil).
type Sessions interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
	Revoke(ctx context.Context, token string) error
}

// Content exposes the post feed and comment threads.
type Content interface {
	ListPosts(ctx context.Context, page int) (models.PostPage, error)
	ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error)
	CreatePost(ctx context.Context, author *models.User, title, content string) (models.Post, error)
	GetPost(ctx context.Context, id int) (*models.Post, error)
	ListComments(ctx context.Context, postID int) ([]models.Comment, error)
	AddComment(ctx context.Context, postID int, author *models.User, content string) (models.Comment, error)
}

// Tokens issues and verifies API bearer tokens bound to a session id.
type Tokens interface {
	IssueToken(sessionID string) (string, error)
	ParseToken(accessToken string) (string, error)
}

type Service struct {
	Identity
	Sessions
	Content
	Tokens
}

// Options carries the tunables NewService needs from config.
type Options struct {
	SessionTTL time.Duration
	TokenTTL   time.Duration
	JWTSecret  string
	PageSize   int
}

const (
	defaultSessionTTL = 24 * time.Hour
	defaultTokenTTL   = time.Hour
	defaultPageSize   = 5
)

func (o Options) withDefaults() Options {
	if o.SessionTTL <= 0 {
		o.SessionTTL = defaultSessionTTL
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = defaultTokenTTL
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	return o
}

func NewService(repos *repository.Repository, opts Options) *Service {
	opts = opts.withDefaults()
	sessions := NewSessionService(repos.Sessions, repos.Users)
	return &Service{
		Identity: NewIdentityService(repos.Users, repos.Sessions, sessions, opts.SessionTTL),
		Sessions: sessions,
		Content:  NewContentService(repos.Posts, repos.Comments, opts.PageSize),
		Tokens:   NewTokenService(opts.JWTSecret, opts.TokenTTL),
	}
}
