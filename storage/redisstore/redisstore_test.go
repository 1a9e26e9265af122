package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/scholarhub/portal/auth"
	"github.com/scholarhub/portal/sessions"
	"github.com/scholarhub/portal/storage/redisstore"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestChallengeRoundTrip(t *testing.T) {
	repo := redisstore.NewChallengeRepo(newRedisClient(t))
	ctx := context.Background()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, "attempt-1", &auth.Challenge{
		Email:    "jane@example.com",
		Code:     "042918",
		IssuedAt: issued,
	}))

	challenge, err := repo.Get(ctx, "attempt-1")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", challenge.Email)
	require.Equal(t, "042918", challenge.Code)
	require.True(t, challenge.IssuedAt.Equal(issued))
}

func TestChallengeNotFound(t *testing.T) {
	repo := redisstore.NewChallengeRepo(newRedisClient(t))

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, auth.ChallengeNotFoundErr)
}

func TestChallengeUpsertReplaces(t *testing.T) {
	repo := redisstore.NewChallengeRepo(newRedisClient(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "attempt-1", &auth.Challenge{Email: "jane@example.com", Code: "111111"}))
	require.NoError(t, repo.Upsert(ctx, "attempt-1", &auth.Challenge{Email: "jane@example.com", Code: "222222"}))

	challenge, err := repo.Get(ctx, "attempt-1")
	require.NoError(t, err)
	require.Equal(t, "222222", challenge.Code)
}

func TestChallengeDeleteIfCode(t *testing.T) {
	repo := redisstore.NewChallengeRepo(newRedisClient(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "attempt-1", &auth.Challenge{Email: "jane@example.com", Code: "042918"}))

	deleted, err := repo.DeleteIfCode(ctx, "attempt-1", "000000")
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = repo.DeleteIfCode(ctx, "attempt-1", "042918")
	require.NoError(t, err)
	require.True(t, deleted)

	// Already consumed.
	deleted, err = repo.DeleteIfCode(ctx, "attempt-1", "042918")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestSessionRoundTrip(t *testing.T) {
	repo := redisstore.NewSessionRepo(newRedisClient(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	session := sessions.Session{
		UserID:    "u1",
		Email:     "jane@example.com",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, "tok", session))

	got, err := repo.Get(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, "jane@example.com", got.Email)

	require.NoError(t, repo.Delete(ctx, "tok"))
	_, err = repo.Get(ctx, "tok")
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)
}

func TestSessionManagerOverRedis(t *testing.T) {
	repo := redisstore.NewSessionRepo(newRedisClient(t))
	mgr, err := sessions.NewManager(repo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = mgr.RequireAuthenticated(ctx, "tok")
	require.ErrorIs(t, err, sessions.NotAuthenticatedErr)
}
