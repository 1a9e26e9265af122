package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/scholarhub/portal/notify"
)

const (
	codeLength = 6
	// CodeLifetime is how long an issued code stays valid.
	CodeLifetime = 10 * time.Minute
)

// Outcome is the result of verifying a submitted passcode.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeExpired
	OutcomeMismatched
	OutcomeNoPendingChallenge
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeExpired:
		return "expired"
	case OutcomeMismatched:
		return "mismatched"
	case OutcomeNoPendingChallenge:
		return "no_pending_challenge"
	}
	return "unknown"
}

// VerifyResult carries the outcome and, on acceptance, the email the
// challenge was issued for.
type VerifyResult struct {
	Outcome Outcome
	Email   string
}

// ChallengeEngine issues and verifies one-time passcodes for login attempts.
// Per-attempt state lives in the ChallengeRepo keyed by an opaque token, so
// the state machine is testable without a live transport layer.
type ChallengeEngine struct {
	repo     ChallengeRepo
	notifier notify.Notifier
	nowTime  func() time.Time
}

// ChallengeEngineOption modifies a ChallengeEngine instance.
type ChallengeEngineOption func(*ChallengeEngine)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ChallengeEngineOption {
	return func(e *ChallengeEngine) {
		e.nowTime = nowFunc
	}
}

func NewChallengeEngine(repo ChallengeRepo, notifier notify.Notifier, options ...ChallengeEngineOption) (*ChallengeEngine, error) {
	if repo == nil {
		return nil, errors.New("[NewChallengeEngine] challenge repo is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewChallengeEngine] notifier is required")
	}

	engine := &ChallengeEngine{
		repo:     repo,
		notifier: notifier,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(engine)
	}
	return engine, nil
}

// GenerateCode produces a 6-digit code, each digit drawn independently from
// a cryptographically strong source. Leading zeros are permitted.
func GenerateCode() (string, error) {
	digits := make([]byte, codeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.Wrap(err, "[GenerateCode] rand.Int")
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// Issue generates a fresh code for the login attempt identified by token,
// replacing any previously issued code, and dispatches it to email. When
// dispatch fails the challenge stays recorded but CodeDeliveryErr is
// returned; the caller surfaces the failure and restarts the attempt.
func (e *ChallengeEngine) Issue(ctx context.Context, token, email string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	if err := e.repo.Upsert(ctx, token, &Challenge{
		Email:    email,
		Code:     code,
		IssuedAt: e.nowTime(),
	}); err != nil {
		return "", errors.Wrap(err, "[ChallengeEngine.Issue] repo.Upsert")
	}

	if err := e.notifier.Send(ctx, notify.OTPMessage(email, code)); err != nil {
		return code, errors.Wrap(err, CodeDeliveryErr.Error())
	}
	return code, nil
}

// Verify checks a submitted code for the login attempt identified by token.
// Expiry is checked before the code comparison so an expired attempt is
// always reported as expired, never as a mismatch.
func (e *ChallengeEngine) Verify(ctx context.Context, token, submitted string) (VerifyResult, error) {
	challenge, err := e.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ChallengeNotFoundErr) {
			return VerifyResult{Outcome: OutcomeNoPendingChallenge}, nil
		}
		return VerifyResult{}, errors.Wrap(err, "[ChallengeEngine.Verify] repo.Get")
	}

	if e.nowTime().Sub(challenge.IssuedAt) > CodeLifetime {
		return VerifyResult{Outcome: OutcomeExpired}, nil
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(submitted)) != 1 {
		return VerifyResult{Outcome: OutcomeMismatched}, nil
	}

	consumed, err := e.repo.DeleteIfCode(ctx, token, challenge.Code)
	if err != nil {
		return VerifyResult{}, errors.Wrap(err, "[ChallengeEngine.Verify] repo.DeleteIfCode")
	}
	if !consumed {
		// A concurrent re-issue replaced the code between Get and the
		// compare-and-delete; only the latest code counts.
		return VerifyResult{Outcome: OutcomeMismatched}, nil
	}

	return VerifyResult{Outcome: OutcomeAccepted, Email: challenge.Email}, nil
}

// Abandon drops any pending challenge for the token. Safe when none exists.
func (e *ChallengeEngine) Abandon(ctx context.Context, token string) error {
	return e.repo.Delete(ctx, token)
}
