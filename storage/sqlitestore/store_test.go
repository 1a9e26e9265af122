package sqlitestore_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/scholarhub/portal/scholarships"
	"github.com/scholarhub/portal/storage/sqlitestore"
	"github.com/scholarhub/portal/users"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlitestore.Store {
	t.Helper()

	store, err := sqlitestore.Open(context.Background(), filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUserRoundTrip(t *testing.T) {
	store := openStore(t)
	repo := store.Users()
	ctx := context.Background()

	hash, err := users.HashPassword("abc123")
	require.NoError(t, err)

	created := &users.User{
		Email:        "jane@example.com",
		Name:         "Jane",
		PasswordHash: hash,
		Verified:     true,
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, created))
	require.NotEmpty(t, created.ID)

	byEmail, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
	require.Equal(t, "Jane", byEmail.Name)
	require.True(t, byEmail.Verified)
	require.Equal(t, created.CreatedAt, byEmail.CreatedAt)
	require.True(t, users.CheckPasswordHash("abc123", byEmail.PasswordHash))

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", byID.Email)
}

func TestUserNotFound(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Users().GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, users.NotFoundErr)

	_, err = store.Users().GetByID(ctx, "missing-id")
	require.ErrorIs(t, err, users.NotFoundErr)
}

func TestDuplicateEmail(t *testing.T) {
	store := openStore(t)
	repo := store.Users()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &users.User{Email: "jane@example.com"}))

	err := repo.Create(ctx, &users.User{Email: "jane@example.com"})
	require.ErrorIs(t, err, users.DuplicateUserErr)
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	store := openStore(t)
	repo := store.Users()
	ctx := context.Background()

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, &users.User{Email: "race@example.com"})
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == users.DuplicateUserErr:
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, duplicates)
}

func TestScholarshipListNewestFirst(t *testing.T) {
	store := openStore(t)
	repo := store.Scholarships()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"First", "Second", "Third"} {
		require.NoError(t, repo.Create(ctx, &scholarships.Scholarship{
			Title:     title,
			Amount:    "$1,000",
			Deadline:  base.AddDate(0, 1, 0),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "Third", list[0].Title)
	require.Equal(t, "Second", list[1].Title)
	require.Equal(t, "First", list[2].Title)
}
