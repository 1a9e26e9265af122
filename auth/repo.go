package auth

import (
	"context"
	"errors"
	"time"
)

// ChallengeNotFoundErr is returned by ChallengeRepo.Get when no challenge is
// recorded for the token.
var ChallengeNotFoundErr = errors.New("challenge not found")

// Challenge is the one-time passcode state for a single login attempt,
// keyed by an opaque login-attempt token rather than held in ambient
// session state.
type Challenge struct {
	Email    string
	Code     string
	IssuedAt time.Time
}

// ChallengeRepo stores pending challenges. Upsert replaces any previous
// challenge for the token, so only the latest issued code is ever valid.
type ChallengeRepo interface {
	Upsert(ctx context.Context, token string, challenge *Challenge) error
	Get(ctx context.Context, token string) (*Challenge, error)
	Delete(ctx context.Context, token string) error

	// DeleteIfCode removes the challenge only when its stored code equals
	// code, atomically with respect to a concurrent Upsert. It reports
	// whether a delete happened. This is what lets a verify racing a
	// re-issue consume either the old or the new code consistently.
	DeleteIfCode(ctx context.Context, token, code string) (bool, error)
}
