// Package auth issues access tokens to users who prove a password.
package auth

import (
	"errors"

	"fides/internal/token"
)

// ErrNotFound reports that no user carries the given email.
var ErrNotFound = errors.New("user not found")

// User is a stored credential holder. PasswordHash is a bcrypt hash; the
// clear-text password never leaves the login request.
type User struct {
	Email        string
	PasswordHash string
	Role         token.Role
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token     string
	ExpiresIn int64
	Email     string
	Role      token.Role
}
