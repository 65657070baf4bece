package service

import (
	"context"
	"fmt"
	"time"

	"simple_forum/internal/models"
	"simple_forum/internal/repository"

	"github.com/google/uuid"
)

type SessionService struct {
	sessions repository.SessionRepo
	users    repository.Identity
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepo, users repository.Identity) *SessionService {
	return &SessionService{sessions: sessions, users: users, now: time.Now}
}

// Resolve returns the user owning token, or nil when the token is empty,
// unknown, expired or points at a user that no longer exists. Only storage
// failures are returned as errors.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if sess == nil || sess.Expired(s.now()) {
		return nil, nil
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve session user: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	u.SessionID = sess.ID
	return u, nil
}

// Revoke deletes the server-side session record. Revoking an unknown token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// issueSession stores a fresh session for userID, replacing any previous one.
func issueSession(ctx context.Context, repo repository.SessionRepo, userID string, now time.Time, ttl time.Duration) (models.Session, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := repo.Save(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("issue session for %q: %w", userID, err)
	}
	return sess, nil
}
