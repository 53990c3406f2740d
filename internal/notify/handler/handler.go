// Package handler exposes the notification endpoints over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fides/internal/notify"
	"fides/internal/policy"
	"fides/internal/transport/shared"
	dErrors "fides/pkg/domain-errors"
)

// Handler handles SMS notification endpoints.
type Handler struct {
	logger      *slog.Logger
	sender      notify.Sender
	authToken   string
	callbackURL string
}

// New builds the handler. authToken and callbackURL configure the
// delivery-status callback; with an empty callbackURL the endpoint is off.
func New(sender notify.Sender, authToken, callbackURL string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		sender:      sender,
		authToken:   authToken,
		callbackURL: callbackURL,
	}
}

// Policy is the notifier's access table. The status callback is public at
// the policy layer; the handler verifies the provider signature itself.
func Policy(notifyKey string) policy.Table {
	return policy.Table{
		Rules: []policy.Rule{
			{Method: http.MethodGet, Pattern: "/health", Access: policy.Public()},
			{Method: http.MethodGet, Pattern: "/metrics", Access: policy.Public()},
			{Method: http.MethodPost, Pattern: "/notify", Access: policy.APIKey("x-notify-key", notifyKey)},
			{Method: http.MethodPost, Pattern: "/twilio/status", Access: policy.Public()},
		},
		Fallback: policy.DenyAll(),
	}
}

// Register mounts the notification routes on the service router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/notify", h.handleNotify)
	r.Post("/twilio/status", h.handleStatusCallback)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteOK(w)
}

type notifyRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (h *Handler) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be valid JSON"))
		return
	}

	n := notify.Notification(req)
	if err := n.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	masked := notify.MaskPhone(n.To)
	if err := h.sender.Send(r.Context(), n); err != nil {
		h.logger.Error("notification delivery failed", "to", masked, "error", err)
		shared.WriteError(w, err)
		return
	}

	h.logger.Info("notification delivered", "to", masked)
	shared.WriteOK(w)
}

// handleStatusCallback receives delivery-status reports from the provider.
// Requests must carry a valid provider signature over the configured
// callback URL and the form body.
func (h *Handler) handleStatusCallback(w http.ResponseWriter, r *http.Request) {
	if h.callbackURL == "" {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be form-encoded"))
		return
	}

	signature := r.Header.Get("X-Twilio-Signature")
	if signature == "" || !notify.VerifySignature(h.authToken, h.callbackURL, r.PostForm, signature) {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid callback signature"))
		return
	}

	h.logger.Info("delivery status received",
		"message_sid", r.PostForm.Get("MessageSid"),
		"status", r.PostForm.Get("MessageStatus"),
		"to", notify.MaskPhone(r.PostForm.Get("To")),
	)
	shared.WriteOK(w)
}
