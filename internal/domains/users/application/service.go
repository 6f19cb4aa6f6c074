package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/users/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/users/ports"
)

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

const bcryptCost = 10

// Service exposes account registration, login, and session lookups.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	sessionTTL time.Duration
}

type Option func(*Service)

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	s := &Service{repo: repo, sessions: sessions, sessionTTL: DefaultSessionTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a non-admin account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, mapError(domain.ErrEmptyUsername)
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ports.ErrDuplicateUsername
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(0, username, string(hash))
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, user)
}

// Login verifies credentials and opens a session. The same generic
// failure is returned for unknown users and wrong passwords.
func (s *Service) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	session := ports.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Admin:     user.Admin,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout ends the session for the given token.
func (s *Service) Logout(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	_ = s.sessions.Delete(ctx, token)
}

// SessionFor resolves a cookie token to its live session, rejecting
// expired ones.
func (s *Service) SessionFor(ctx context.Context, token string) (*ports.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ports.ErrSessionNotFound
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ports.ErrSessionNotFound
	}
	return session, nil
}

var _ ports.Service = (*Service)(nil)
