package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"simple_forum/internal/models"
	"simple_forum/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

type IdentityService struct {
	users      repository.Identity
	sessions   repository.SessionRepo
	resolver   Sessions
	sessionTTL time.Duration
	now        func() time.Time
}

func NewIdentityService(users repository.Identity, sessions repository.SessionRepo, resolver Sessions, sessionTTL time.Duration) *IdentityService {
	return &IdentityService{
		users:      users,
		sessions:   sessions,
		resolver:   resolver,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Register creates the user and signs them in. The returned user carries
// the new session id.
func (s *IdentityService) Register(ctx context.Context, name, id, password string) (*models.User, error) {
	name, id = strings.TrimSpace(name), strings.TrimSpace(id)
	if name == "" || id == "" {
		return nil, fmt.Errorf("%w: name and id are required", ErrInvalidInput)
	}

	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateIdentity
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := models.User{ID: id, Name: name, PasswordHash: hash, CreatedAt: s.now().UTC()}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	sess, err := issueSession(ctx, s.sessions, u.ID, s.now().UTC(), s.sessionTTL)
	if err != nil {
		return nil, err
	}
	u.SessionID = sess.ID
	return &u, nil
}

// Authenticate checks the credentials and replaces the user's session.
// Unknown ids and wrong passwords both yield ErrAuthFailure.
func (s *IdentityService) Authenticate(ctx context.Context, id, password string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrAuthFailure
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrAuthFailure
	}

	sess, err := issueSession(ctx, s.sessions, u.ID, s.now().UTC(), s.sessionTTL)
	if err != nil {
		return nil, err
	}
	u.SessionID = sess.ID
	return u, nil
}

// UpdateProfile renames the session's user and, when password is non-empty,
// replaces the password. The author name on every post and comment follows
// the rename atomically.
func (s *IdentityService) UpdateProfile(ctx context.Context, token, name, password string) (*models.User, error) {
	u, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	hash := u.PasswordHash
	if password != "" {
		if hash, err = hashPassword(password); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, u.ID, name, hash); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileUpdate, err)
	}

	u.Name = name
	u.PasswordHash = hash
	return u, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", ErrInvalidInput, maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
