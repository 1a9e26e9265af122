package scholarships

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepo struct {
	mu    sync.RWMutex
	items []*Scholarship
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{}
}

func (r *InMemoryRepo) Create(ctx context.Context, scholarship *Scholarship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if scholarship.ID == "" {
		scholarship.ID = uuid.New().String()
	}
	copied := *scholarship
	r.items = append(r.items, &copied)
	return nil
}

func (r *InMemoryRepo) List(ctx context.Context) ([]*Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Scholarship, 0, len(r.items))
	for _, s := range r.items {
		copied := *s
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
