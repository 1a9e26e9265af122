package auth

import (
	"context"
	"errors"
	"sync"
)

// InMemoryChallengeRepo is a thread-safe in-memory implementation of
// ChallengeRepo, suitable for a single-process deployment and for tests.
type InMemoryChallengeRepo struct {
	mu         sync.RWMutex
	challenges map[string]*Challenge
}

var _ ChallengeRepo = (*InMemoryChallengeRepo)(nil)

func NewInMemoryChallengeRepo() *InMemoryChallengeRepo {
	return &InMemoryChallengeRepo{
		challenges: make(map[string]*Challenge),
	}
}

func (r *InMemoryChallengeRepo) Upsert(ctx context.Context, token string, challenge *Challenge) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if challenge == nil {
		return errors.New("challenge cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	copied := *challenge
	r.challenges[token] = &copied
	return nil
}

func (r *InMemoryChallengeRepo) Get(ctx context.Context, token string) (*Challenge, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	challenge, exists := r.challenges[token]
	if !exists {
		return nil, ChallengeNotFoundErr
	}

	copied := *challenge
	return &copied, nil
}

func (r *InMemoryChallengeRepo) Delete(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.challenges, token)
	return nil
}

func (r *InMemoryChallengeRepo) DeleteIfCode(ctx context.Context, token, code string) (bool, error) {
	if token == "" {
		return false, errors.New("token cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	challenge, exists := r.challenges[token]
	if !exists || challenge.Code != code {
		return false, nil
	}
	delete(r.challenges, token)
	return true, nil
}
