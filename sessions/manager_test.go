package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/scholarhub/portal/sessions"
	"github.com/scholarhub/portal/users"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, now *time.Time) *sessions.Manager {
	t.Helper()
	m, err := sessions.NewManager(sessions.NewInMemoryRepo(),
		sessions.WithNowTime(func() time.Time { return *now }))
	require.NoError(t, err)
	return m
}

func TestEstablishAndCurrent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(t, &now)
	ctx := context.Background()

	user := &users.User{ID: "u1", Email: "jane@example.com"}
	require.NoError(t, m.Establish(ctx, "tok", user))

	session, err := m.Current(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", session.UserID)
	require.Equal(t, "jane@example.com", session.Email)
}

func TestEstablishIsIdempotentAndReplaces(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(t, &now)
	ctx := context.Background()

	jane := &users.User{ID: "u1", Email: "jane@example.com"}
	require.NoError(t, m.Establish(ctx, "tok", jane))
	require.NoError(t, m.Establish(ctx, "tok", jane))

	session, err := m.Current(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", session.UserID)

	// A different user replaces the binding: one user per session.
	john := &users.User{ID: "u2", Email: "john@example.com"}
	require.NoError(t, m.Establish(ctx, "tok", john))

	session, err = m.Current(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "u2", session.UserID)
}

func TestTerminate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(t, &now)
	ctx := context.Background()

	require.NoError(t, m.Establish(ctx, "tok", &users.User{ID: "u1", Email: "jane@example.com"}))
	require.NoError(t, m.Terminate(ctx, "tok"))

	_, err := m.Current(ctx, "tok")
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)

	// Safe when nothing is bound.
	require.NoError(t, m.Terminate(ctx, "tok"))
	require.NoError(t, m.Terminate(ctx, ""))
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m, err := sessions.NewManager(sessions.NewInMemoryRepo(),
		sessions.WithLifetime(time.Hour),
		sessions.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Establish(ctx, "tok", &users.User{ID: "u1", Email: "jane@example.com"}))

	now = now.Add(2 * time.Hour)
	_, err = m.Current(ctx, "tok")
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)
}

func TestRequireAuthenticated(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(t, &now)
	ctx := context.Background()

	_, err := m.RequireAuthenticated(ctx, "tok")
	require.ErrorIs(t, err, sessions.NotAuthenticatedErr)

	_, err = m.RequireAuthenticated(ctx, "")
	require.ErrorIs(t, err, sessions.NotAuthenticatedErr)

	require.NoError(t, m.Establish(ctx, "tok", &users.User{ID: "u1", Email: "jane@example.com"}))
	session, err := m.RequireAuthenticated(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", session.UserID)
}
