package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fides/internal/token"
)

// Seeder is the slice of the store that seeding needs.
type Seeder interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Save(ctx context.Context, user User) error
}

// Seed creates the bootstrap user unless one already exists under that
// email. Re-running it against a populated store changes nothing.
func Seed(ctx context.Context, store Seeder, email, password, role string) error {
	parsedRole, err := token.ParseRole(role)
	if err != nil {
		return fmt.Errorf("seeding user %s: %w", email, err)
	}

	_, err = store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for seed user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	if err := store.Save(ctx, User{Email: email, PasswordHash: string(hash), Role: parsedRole}); err != nil {
		return fmt.Errorf("seeding user %s: %w", email, err)
	}
	return nil
}
