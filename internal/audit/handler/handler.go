// Package handler exposes the audit sink over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fides/internal/audit"
	"fides/internal/platform/metrics"
	"fides/internal/platform/middleware"
	"fides/internal/policy"
	"fides/internal/transport/shared"
	dErrors "fides/pkg/domain-errors"
)

// Handler handles audit sink endpoints.
type Handler struct {
	logger  *slog.Logger
	service *audit.Service
	metrics *metrics.Metrics
}

func New(service *audit.Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: m}
}

// Policy is the sink's access table: ingestion is key-gated for
// service-to-service writers, reads require a user token, everything else
// is denied.
func Policy(auditKey string) policy.Table {
	return policy.Table{
		Rules: []policy.Rule{
			{Method: http.MethodGet, Pattern: "/audit/health", Access: policy.Public()},
			{Method: http.MethodGet, Pattern: "/metrics", Access: policy.Public()},
			{Method: http.MethodPost, Pattern: "/audit/events", Access: policy.APIKey("x-audit-key", auditKey)},
			{Method: http.MethodGet, Pattern: "/audit/recent", Access: policy.Authenticated()},
		},
		Fallback: policy.DenyAll(),
	}
}

// Register mounts the audit routes on the service router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/health", h.handleHealth)
	r.Post("/audit/events", h.handleCreateEvent)
	r.Get("/audit/recent", h.handleRecent)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteOK(w)
}

type createEventRequest struct {
	EventType string `json:"eventType"`
	Actor     string `json:"actor"`
	Details   string `json:"details"`
	Source    string `json:"source"`
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	stored, err := h.service.Record(ctx, audit.Event{
		EventType: req.EventType,
		Actor:     req.Actor,
		Details:   req.Details,
		Source:    req.Source,
	})
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to record audit event",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to record event"))
		return
	}

	h.metrics.AuditEventsStored.Inc()
	h.logger.InfoContext(ctx, "audit event stored",
		"event_type", stored.EventType,
		"source", stored.Source,
	)
	shared.WriteOK(w)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := audit.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be an integer"))
			return
		}
		limit = parsed
	}

	events, err := h.service.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	shared.WriteJSON(w, http.StatusOK, events)
}
