package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"fides/internal/audit"
	"fides/internal/audit/relay"
	"fides/internal/platform/metrics"
	"fides/internal/token"
	dErrors "fides/pkg/domain-errors"
)

// ErrBadCredentials covers both unknown users and wrong passwords. Clients
// get the same answer either way so the login endpoint cannot be used to
// probe which emails exist; the audit trail records which case it was.
var ErrBadCredentials = dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")

// UserStore is the slice of the store the login flow needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (User, error)
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(subject string, role token.Role) (string, error)
	LifetimeSeconds() int64
}

// Service runs the password login flow.
type Service struct {
	users   UserStore
	tokens  TokenIssuer
	auditor relay.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(users UserStore, tokens TokenIssuer, auditor relay.Emitter, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		auditor: auditor,
		metrics: m,
		logger:  logger,
	}
}

// Login checks the password for email and mints a token on success.
// clientUA is the caller's User-Agent header, recorded in the audit trail.
func (s *Service) Login(ctx context.Context, email, password, clientUA string) (LoginResult, error) {
	client := describeClient(clientUA)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.recordFailure(ctx, email, "user not found", client)
			return LoginResult{}, ErrBadCredentials
		}
		return LoginResult{}, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, email, "invalid password", client)
		return LoginResult{}, ErrBadCredentials
	}

	accessToken, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issuing token: %w", err)
	}

	s.metrics.Logins.WithLabelValues("success").Inc()
	relay.Log(s.logger, s.metrics.RelayFailures, audit.EventLoginSuccess, s.auditor.Emit(ctx, audit.Event{
		EventType: audit.EventLoginSuccess,
		Actor:     user.Email,
		Details:   "login successful from " + client,
	}))
	s.logger.Info("login succeeded", "email", user.Email)

	return LoginResult{
		Token:     accessToken,
		ExpiresIn: s.tokens.LifetimeSeconds(),
		Email:     user.Email,
		Role:      user.Role,
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, email, reason, client string) {
	s.metrics.Logins.WithLabelValues("failure").Inc()
	relay.Log(s.logger, s.metrics.RelayFailures, audit.EventLoginFailure, s.auditor.Emit(ctx, audit.Event{
		EventType: audit.EventLoginFailure,
		Actor:     email,
		Details:   reason + ", attempt from " + client,
	}))
	s.logger.Warn("login failed", "email", email, "reason", reason)
}

// describeClient turns a raw User-Agent header into a short human-readable
// description for the audit trail.
func describeClient(ua string) string {
	if ua == "" {
		return "unknown client"
	}
	parsed := useragent.New(ua)
	name, version := parsed.Browser()
	if name == "" {
		return "unknown client"
	}
	desc := name
	if version != "" {
		desc += " " + version
	}
	if os := parsed.OS(); os != "" {
		desc += " on " + os
	}
	return desc
}
