// Package token issues and verifies the signed identity tokens shared by
// every service. Tokens are self-contained: verification needs only the
// signing secret, never a session lookup, so verifiers deploy independently
// of the issuer.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "fides/pkg/domain-errors"
)

// Claims are the JWT claims carried by an identity token.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies identity tokens with a shared HS256 secret.
type Service struct {
	signingKey []byte
	lifetime   time.Duration
}

// NewService builds a token service. lifetimeSeconds bounds every issued
// token; expiry is always issued-at plus this value.
func NewService(signingKey string, lifetimeSeconds int64) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		lifetime:   time.Duration(lifetimeSeconds) * time.Second,
	}
}

// LifetimeSeconds reports the configured token lifetime, returned to clients
// for expiry display.
func (s *Service) LifetimeSeconds() int64 {
	return int64(s.lifetime / time.Second)
}

// Issue creates a signed token for an already-authenticated subject. Two
// calls with the same inputs produce different tokens because the timestamps
// differ.
func (s *Service) Issue(subject string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify validates the signature and expiry of a compact token and extracts
// the authenticated identity. Any parse, signature, expiry, or role failure
// maps to CodeUnauthorized.
func (s *Service) Verify(tokenString string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	identity := Identity{Subject: claims.Subject}
	if claims.Role != "" {
		role, err := ParseRole(claims.Role)
		if err != nil {
			return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
		}
		identity.Role = role
		identity.Authorities = []string{role.Authority()}
	}
	return identity, nil
}
