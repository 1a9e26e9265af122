// Package scholarships holds the scholarship catalogue shown on the
// dashboard.
package scholarships

import (
	"context"
	"time"
)

type Scholarship struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
}

type Repo interface {
	Create(ctx context.Context, scholarship *Scholarship) error

	// List returns all scholarships, newest first.
	List(ctx context.Context) ([]*Scholarship, error)
}
