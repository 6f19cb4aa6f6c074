package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/users/adapters/memory"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/users/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/users/ports"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return NewService(memory.NewRepository(), memory.NewSessionStore(), opts...)
}

func TestRegister_HashesPassword(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(context.Background(), "ana", "migas123")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.False(t, user.Admin)

	assert.NotEqual(t, "migas123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("migas123")))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "ana", "migas123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ana", "otra456")
	require.ErrorIs(t, err, ports.ErrDuplicateUsername)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "ana", "corta")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegister_EmptyUsername(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "   ", "migas123")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_OpensSession(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register(context.Background(), "ana", "migas123")
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ana", "migas123")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "ana", session.Username)
	assert.False(t, session.Admin)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), session.ExpiresAt, time.Minute)

	resolved, err := svc.SessionFor(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, resolved.UserID)
}

func TestLogin_SameFailureForUnknownUserAndWrongPassword(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register(context.Background(), "ana", "migas123")
	require.NoError(t, err)

	_, errUnknown := svc.Login(context.Background(), "nadie", "migas123")
	_, errWrong := svc.Login(context.Background(), "ana", "incorrecta")

	require.ErrorIs(t, errUnknown, ports.ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, ports.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, ErrAuthentication)
	require.ErrorIs(t, errWrong, ErrAuthentication)
}

func TestLogout_DropsSession(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register(context.Background(), "ana", "migas123")
	require.NoError(t, err)
	session, err := svc.Login(context.Background(), "ana", "migas123")
	require.NoError(t, err)

	svc.Logout(context.Background(), session.Token)

	_, err = svc.SessionFor(context.Background(), session.Token)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionFor_ExpiredSessionIsRejectedAndRemoved(t *testing.T) {
	svc := newTestService(t, WithSessionTTL(time.Nanosecond))
	_, err := svc.Register(context.Background(), "ana", "migas123")
	require.NoError(t, err)
	session, err := svc.Login(context.Background(), "ana", "migas123")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.SessionFor(context.Background(), session.Token)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	// Expired entries are deleted on first lookup.
	_, err = svc.SessionFor(context.Background(), session.Token)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionFor_EmptyToken(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SessionFor(context.Background(), "")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}
