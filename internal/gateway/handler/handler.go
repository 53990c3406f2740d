// Package handler exposes the gateway's API endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"fides/internal/audit"
	"fides/internal/audit/relay"
	"fides/internal/gateway"
	"fides/internal/notify"
	"fides/internal/platform/metrics"
	"fides/internal/policy"
	"fides/internal/token"
	"fides/internal/transport/shared"
	dErrors "fides/pkg/domain-errors"
)

// WelcomeMessage is what the message endpoint returns to any authenticated
// caller.
const WelcomeMessage = "Microservices deployed and working"

// Downstream posts a payload to one backing service.
type Downstream interface {
	Post(ctx context.Context, payload any) error
}

// Handler handles the gateway API endpoints.
type Handler struct {
	logger        *slog.Logger
	mailer        Downstream
	notifier      Downstream
	auditor       relay.Emitter
	relayFailures prometheus.Counter
}

func New(mailer, notifier Downstream, auditor relay.Emitter, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		logger:        logger,
		mailer:        mailer,
		notifier:      notifier,
		auditor:       auditor,
		relayFailures: m.RelayFailures,
	}
}

// Policy is the gateway's access table. Unlike the backing services, the
// fallback here is Authenticated: any valid bearer identity may reach
// routes without a more specific rule.
func Policy() policy.Table {
	return policy.Table{
		Rules: []policy.Rule{
			{Method: http.MethodGet, Pattern: "/api/health", Access: policy.Public()},
			{Method: http.MethodGet, Pattern: "/metrics", Access: policy.Public()},
		},
		Fallback: policy.Authenticated(),
	}
}

// Register mounts the gateway routes on the service router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/health", h.handleHealth)
	r.Get("/api/message", h.handleMessage)
	r.Post("/api/send-test-email", h.handleSendTestEmail)
	r.Post("/api/send-test-notification", h.handleSendTestNotification)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteOK(w)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	relay.Log(h.logger, h.relayFailures, audit.EventMessageView, h.auditor.Emit(r.Context(), audit.Event{
		EventType: audit.EventMessageView,
		Actor:     actor,
		Details:   "message endpoint accessed",
	}))

	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (h *Handler) handleSendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req gateway.SendPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be valid JSON"))
		return
	}
	if !govalidator.IsEmail(req.To) {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "to must be a valid email address"))
		return
	}
	if req.Subject == "" || req.Text == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "subject and text are required"))
		return
	}

	h.dispatch(w, r, h.mailer, req, dispatchEvents{
		success:    audit.EventEmailSent,
		failure:    audit.EventEmailFailed,
		kind:       "email",
		clientCode: "test email delivery failed",
	})
}

func (h *Handler) handleSendTestNotification(w http.ResponseWriter, r *http.Request) {
	var req gateway.SendPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be valid JSON"))
		return
	}
	n := notify.Notification{To: req.To, Subject: req.Subject, Text: req.Text}
	if err := n.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	h.dispatch(w, r, h.notifier, req, dispatchEvents{
		success:    audit.EventNotifySent,
		failure:    audit.EventNotifyFailed,
		kind:       "notification",
		clientCode: "test notification delivery failed",
	})
}

type dispatchEvents struct {
	success    string
	failure    string
	kind       string
	clientCode string
}

// dispatch posts the payload downstream exactly once and audits the outcome.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, target Downstream, payload gateway.SendPayload, events dispatchEvents) {
	ctx := r.Context()
	actor := actorFrom(r)

	if err := target.Post(ctx, payload); err != nil {
		h.logger.Error("downstream send failed", "kind", events.kind, "error", err)
		relay.Log(h.logger, h.relayFailures, events.failure, h.auditor.Emit(ctx, audit.Event{
			EventType: events.failure,
			Actor:     actor,
			Details:   "delivery failed",
		}))
		shared.WriteError(w, dErrors.New(dErrors.CodeUpstream, events.clientCode))
		return
	}

	relay.Log(h.logger, h.relayFailures, events.success, h.auditor.Emit(ctx, audit.Event{
		EventType: events.success,
		Actor:     actor,
		Details:   "sent to " + payload.To,
	}))
	shared.WriteOK(w)
}

func actorFrom(r *http.Request) string {
	if identity := token.IdentityFrom(r.Context()); identity.IsAuthenticated() {
		return identity.Subject
	}
	return audit.ActorUnknown
}
