package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/scholarhub/portal/users"
)

// NotAuthenticatedErr is returned by RequireAuthenticated when no user is
// bound to the session; callers redirect to the login page.
var NotAuthenticatedErr = errors.New("not authenticated")

// DefaultLifetime is how long an authenticated session lasts unless
// configured otherwise.
const DefaultLifetime = 24 * time.Hour

// Manager is the session authenticator: it establishes, reads, and tears
// down the binding between a session token and a user.
type Manager struct {
	repo     Repo
	lifetime time.Duration
	nowTime  func() time.Time
}

type ManagerOption func(*Manager)

// WithLifetime overrides the session lifetime.
func WithLifetime(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.lifetime = d
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

func NewManager(repo Repo, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[sessions.NewManager] repo is required")
	}
	m := &Manager{
		repo:     repo,
		lifetime: DefaultLifetime,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Establish binds the session token to the user. Calling it again with the
// same user refreshes the session; calling it with a different user
// replaces the previous binding, since a session holds at most one user.
func (m *Manager) Establish(ctx context.Context, token string, user *users.User) error {
	now := m.nowTime()
	return m.repo.Upsert(ctx, token, Session{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
	})
}

// Current returns the session bound to the token, or SessionNotFoundErr
// when nothing (or only an expired session) is bound.
func (m *Manager) Current(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, SessionNotFoundErr
	}
	session, err := m.repo.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if session.ExpiresAt.Before(m.nowTime()) {
		_ = m.repo.Delete(ctx, token)
		return Session{}, SessionNotFoundErr
	}
	return session, nil
}

// Terminate unbinds the session. Safe to call when nothing is bound.
func (m *Manager) Terminate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.repo.Delete(ctx, token)
}

// RequireAuthenticated is the guard used by protected pages.
func (m *Manager) RequireAuthenticated(ctx context.Context, token string) (Session, error) {
	session, err := m.Current(ctx, token)
	if err != nil {
		if errors.Is(err, SessionNotFoundErr) {
			return Session{}, NotAuthenticatedErr
		}
		return Session{}, err
	}
	return session, nil
}
