package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
)

var (
	ErrSessionExpired = errors.New("session has expired")
)

// SessionService issues and validates opaque login tokens. Expired rows
// are swept opportunistically whenever a session is created; there is no
// background job.
type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	lifetime time.Duration

	clock func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, users repository.UserRepository, lifetime time.Duration) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		lifetime: lifetime,
		clock:    time.Now,
	}
}

// Create issues a fresh 256-bit token for the given user.
func (s *SessionService) Create(userID string) (*model.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.clock()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}

	err = s.sessions.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Housekeeping: amortize expiry cleanup over logins
	swept, err := s.sessions.DeleteExpired(now)
	if err != nil {
		slog.Warn("failed to sweep expired sessions", "error", err)
	} else if swept > 0 {
		slog.Debug("swept expired sessions", "count", swept)
	}

	return session, nil
}

// Validate resolves a token to its user. Unknown and expired tokens fail
// with distinct errors; callers treat both as unauthenticated.
func (s *SessionService) Validate(token string) (*model.User, *model.Session, error) {
	session, err := s.sessions.ByToken(token)
	if err != nil {
		return nil, nil, err
	}

	if session.Expired(s.clock()) {
		// The row is dead weight; drop it now rather than waiting for
		// the next sweep
		delErr := s.sessions.Delete(token)
		if delErr != nil {
			slog.Warn("failed to delete expired session", "error", delErr)
		}
		return nil, nil, ErrSessionExpired
	}

	user, err := s.users.ByID(session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve session user: %w", err)
	}

	return user, session, nil
}

// Extend pushes the expiry out to now+lifetime. A token that is already
// gone yields repository.ErrSessionNotFound.
func (s *SessionService) Extend(token string) error {
	return s.sessions.UpdateExpiry(token, s.clock().Add(s.lifetime))
}

// Destroy is idempotent; destroying an absent token is not an error.
func (s *SessionService) Destroy(token string) error {
	return s.sessions.Delete(token)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
