package ports

import (
	"context"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/users/domain"
)

// Service exposes account and session use cases to adapters.
type Service interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, token string)
	SessionFor(ctx context.Context, token string) (*Session, error)
}
