package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fides/internal/auth"
	"fides/internal/token"
)

// PostgresStore persists users in the users table:
//
//	CREATE TABLE users (
//	    email         TEXT PRIMARY KEY,
//	    password_hash TEXT NOT NULL,
//	    role          TEXT NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, user auth.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (email, password_hash, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE
		 SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`,
		user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	var user auth.User
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT email, password_hash, role FROM users WHERE LOWER(email) = LOWER($1)`,
		email).Scan(&user.Email, &user.PasswordHash, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, ErrNotFound
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("finding user: %w", err)
	}
	user.Role = token.Role(role)
	return user, nil
}
