package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound reports a missing or expired session token.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state behind one sid cookie.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	Admin     bool
	ExpiresAt time.Time
}

// SessionStore abstracts session persistence keyed by token.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ Session) error { return nil }
func (noopSessionStore) Get(_ context.Context, _ string) (*Session, error) {
	return nil, ErrSessionNotFound
}
func (noopSessionStore) Delete(_ context.Context, _ string) error { return nil }
