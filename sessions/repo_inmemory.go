package sessions

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

func (r *InMemoryRepo) Upsert(ctx context.Context, token string, session Session) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[token] = session
	return nil
}

func (r *InMemoryRepo) Get(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, fmt.Errorf("token is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return Session{}, SessionNotFoundErr
	}
	return session, nil
}

func (r *InMemoryRepo) Delete(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}
