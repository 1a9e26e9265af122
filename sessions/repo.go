// Package sessions binds transport-level session tokens to authenticated
// users. Both the password login flow and the Google login flow terminate
// here, so session establishment logic exists exactly once.
package sessions

import (
	"context"
	"errors"
	"time"
)

// SessionNotFoundErr is returned by Repo.Get when no session is bound to
// the token.
var SessionNotFoundErr = errors.New("session not found")

// Session binds one transport session token to exactly one user.
type Session struct {
	UserID    string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Repo interface {
	Upsert(ctx context.Context, token string, session Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}
