package users

import (
	"context"
	"errors"
)

var (
	// DuplicateUserErr is returned by Create when the email is already taken.
	// Implementations must guarantee this atomically: of two concurrent
	// creates for the same email, exactly one succeeds.
	DuplicateUserErr = errors.New("email already registered")

	// NotFoundErr is returned by lookups when no user matches.
	NotFoundErr = errors.New("user not found")
)

type UserRepo interface {
	// Create stores a new user, assigning an ID if one is not set.
	// Fails with DuplicateUserErr when the email already exists.
	Create(ctx context.Context, user *User) error

	// GetByEmail does an exact-match lookup.
	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByID(ctx context.Context, id string) (*User, error)
}
