package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scholarhub/portal/auth"
	"github.com/scholarhub/portal/notify"
	"github.com/stretchr/testify/require"
)

// fakeNotifier records sent messages and can be told to fail.
type fakeNotifier struct {
	sent    []notify.Message
	failing bool
}

func (n *fakeNotifier) Send(ctx context.Context, msg notify.Message) error {
	if n.failing {
		return errors.New("smtp unreachable")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func newTestEngine(t *testing.T, now *time.Time) (*auth.ChallengeEngine, *auth.InMemoryChallengeRepo, *fakeNotifier) {
	t.Helper()

	repo := auth.NewInMemoryChallengeRepo()
	notifier := &fakeNotifier{}
	engine, err := auth.NewChallengeEngine(repo, notifier, auth.WithNowTime(func() time.Time { return *now }))
	require.NoError(t, err)
	return engine, repo, notifier
}

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := auth.GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestIssueAndVerifyAccepted(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, _, notifier := newTestEngine(t, &now)
	ctx := context.Background()

	code, err := engine.Issue(ctx, "attempt-1", "jane@example.com")
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	require.Equal(t, "jane@example.com", notifier.sent[0].Recipient)
	require.Contains(t, notifier.sent[0].TextBody, code)

	now = now.Add(5 * time.Second)
	result, err := engine.Verify(ctx, "attempt-1", code)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeAccepted, result.Outcome)
	require.Equal(t, "jane@example.com", result.Email)

	// Accepted consumes the challenge: the same code is now unknown.
	result, err = engine.Verify(ctx, "attempt-1", code)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeNoPendingChallenge, result.Outcome)
}

func TestVerifyExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, &now)
	ctx := context.Background()

	code, err := engine.Issue(ctx, "attempt-1", "jane@example.com")
	require.NoError(t, err)

	// Exactly at the boundary the code is still valid.
	now = now.Add(600 * time.Second)
	result, err := engine.Verify(ctx, "attempt-1", "000000")
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeMismatched, result.Outcome)

	// One second past the window, even the correct code reports expired.
	now = now.Add(time.Second)
	result, err = engine.Verify(ctx, "attempt-1", code)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeExpired, result.Outcome)
}

func TestVerifyMismatch(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, &now)
	ctx := context.Background()

	code, err := engine.Issue(ctx, "attempt-1", "jane@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	result, err := engine.Verify(ctx, "attempt-1", wrong)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeMismatched, result.Outcome)

	// A mismatch does not consume the challenge.
	result, err = engine.Verify(ctx, "attempt-1", code)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeAccepted, result.Outcome)
}

func TestReissueInvalidatesPreviousCode(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, &now)
	ctx := context.Background()

	first, err := engine.Issue(ctx, "attempt-1", "jane@example.com")
	require.NoError(t, err)

	var second string
	for {
		second, err = engine.Issue(ctx, "attempt-1", "jane@example.com")
		require.NoError(t, err)
		if second != first {
			break
		}
	}

	result, err := engine.Verify(ctx, "attempt-1", first)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeMismatched, result.Outcome)

	result, err = engine.Verify(ctx, "attempt-1", second)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeAccepted, result.Outcome)
}

func TestVerifyNoPendingChallenge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, &now)

	result, err := engine.Verify(context.Background(), "never-issued", "123456")
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeNoPendingChallenge, result.Outcome)
}

func TestIssueDeliveryFailure(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, repo, notifier := newTestEngine(t, &now)
	notifier.failing = true
	ctx := context.Background()

	_, err := engine.Issue(ctx, "attempt-1", "jane@example.com")
	require.ErrorContains(t, err, auth.CodeDeliveryErr.Error())

	// The engine does not roll back on delivery failure; the caller
	// surfaces the error and restarts the attempt.
	_, err = repo.Get(ctx, "attempt-1")
	require.NoError(t, err)
}

func TestAbandonClearsChallenge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, &now)
	ctx := context.Background()

	code, err := engine.Issue(ctx, "attempt-1", "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, engine.Abandon(ctx, "attempt-1"))

	result, err := engine.Verify(ctx, "attempt-1", code)
	require.NoError(t, err)
	require.Equal(t, auth.OutcomeNoPendingChallenge, result.Outcome)

	// Abandon is safe when no challenge exists.
	require.NoError(t, engine.Abandon(ctx, "attempt-1"))
}
