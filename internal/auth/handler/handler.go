// Package handler exposes the login endpoint over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"fides/internal/auth"
	"fides/internal/policy"
	"fides/internal/transport/shared"
	dErrors "fides/pkg/domain-errors"
)

// LoginService runs the credential check and token mint.
type LoginService interface {
	Login(ctx context.Context, email, password, clientUA string) (auth.LoginResult, error)
}

// Handler handles authentication endpoints.
type Handler struct {
	logger  *slog.Logger
	service LoginService
}

func New(service LoginService, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Policy is the auth service's access table: login and health are open to
// the world, everything else is denied.
func Policy() policy.Table {
	return policy.Table{
		Rules: []policy.Rule{
			{Method: http.MethodGet, Pattern: "/auth/health", Access: policy.Public()},
			{Method: http.MethodGet, Pattern: "/metrics", Access: policy.Public()},
			{Method: http.MethodPost, Pattern: "/auth/login", Access: policy.Public()},
		},
		Fallback: policy.DenyAll(),
	}
}

// Register mounts the auth routes on the service router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/auth/health", h.handleHealth)
	r.Post("/auth/login", h.handleLogin)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteOK(w)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	User      loginUser `json:"user"`
}

type loginUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be valid JSON"))
		return
	}
	if !govalidator.IsEmail(req.Email) {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "a valid email is required"))
		return
	}
	if req.Password == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "password is required"))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password, r.UserAgent())
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
		User:      loginUser{Email: result.Email, Role: string(result.Role)},
	})
}
