// Package handler exposes the mail delivery endpoint over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"fides/internal/mailer"
	"fides/internal/policy"
	"fides/internal/transport/shared"
	dErrors "fides/pkg/domain-errors"
)

// Handler handles mail delivery endpoints.
type Handler struct {
	logger *slog.Logger
	sender mailer.Sender
}

func New(sender mailer.Sender, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, sender: sender}
}

// Policy is the mailer's access table: sending is key-gated, everything
// except health and metrics is denied.
func Policy(mailerKey string) policy.Table {
	return policy.Table{
		Rules: []policy.Rule{
			{Method: http.MethodGet, Pattern: "/health", Access: policy.Public()},
			{Method: http.MethodGet, Pattern: "/metrics", Access: policy.Public()},
			{Method: http.MethodPost, Pattern: "/send", Access: policy.APIKey("x-mailer-key", mailerKey)},
		},
		Fallback: policy.DenyAll(),
	}
}

// Register mounts the mailer routes on the service router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/send", h.handleSend)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteOK(w)
}

type sendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be valid JSON"))
		return
	}
	if !govalidator.IsEmail(req.To) {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "to must be a valid email address"))
		return
	}
	if req.Subject == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "subject is required"))
		return
	}
	if req.Text == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "text is required"))
		return
	}

	if err := h.sender.Send(r.Context(), mailer.Message(req)); err != nil {
		h.logger.Error("mail delivery failed", "to", req.To, "error", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeUpstream, "mail delivery failed"))
		return
	}

	h.logger.Info("mail delivered", "to", req.To)
	shared.WriteOK(w)
}
