// Package store holds the user credential stores.
package store

import (
	"context"

	"fides/internal/auth"
)

// ErrNotFound reports that no user carries the given email.
var ErrNotFound = auth.ErrNotFound

// Store abstracts user lookup and seeding. Email matching is
// case-insensitive in every implementation.
type Store interface {
	FindByEmail(ctx context.Context, email string) (auth.User, error)
	Save(ctx context.Context, user auth.User) error
}
