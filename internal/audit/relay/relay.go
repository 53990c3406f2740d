// Package relay ships audit events from the emitting services to the audit
// sink. Delivery is best-effort: a sink outage must never fail the business
// operation that produced the event, so Emit reports the outcome instead of
// propagating it as an error.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fides/internal/audit"
)

const keyHeader = "x-audit-key"

// Result is the acknowledged outcome of one emission. Callers decide what to
// do with a miss; most log it and move on.
type Result struct {
	Delivered bool
	Err       error
}

// Emitter delivers audit events to the sink.
type Emitter interface {
	Emit(ctx context.Context, event audit.Event) Result
}

// HTTP posts events to the sink's ingestion endpoint.
type HTTP struct {
	client   *http.Client
	endpoint string
	key      string
	source   string
}

// NewHTTP builds a relay for the sink at baseURL. timeout bounds each
// delivery attempt end to end.
func NewHTTP(baseURL, key, source string, timeout time.Duration) *HTTP {
	return &HTTP{
		client:   &http.Client{Timeout: timeout},
		endpoint: strings.TrimSuffix(baseURL, "/") + "/audit/events",
		key:      key,
		source:   source,
	}
}

// Emit posts one event to the sink. Failures of any kind, from a down sink
// to a non-2xx response, come back as an undelivered Result.
func (h *HTTP) Emit(ctx context.Context, event audit.Event) Result {
	if event.Source == "" {
		event.Source = h.source
	}

	body, err := json.Marshal(event)
	if err != nil {
		return Result{Err: fmt.Errorf("encoding audit event: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("building audit request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(keyHeader, h.key)

	resp, err := h.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("delivering audit event: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Err: fmt.Errorf("audit sink responded %d", resp.StatusCode)}
	}
	return Result{Delivered: true}
}

// Noop discards every event, reporting success. Used when no sink is
// configured and in tests.
type Noop struct{}

func (Noop) Emit(context.Context, audit.Event) Result {
	return Result{Delivered: true}
}

// Log acknowledges a Result the standard way: one warning and one counter
// increment per miss. failures may be nil.
func Log(logger *slog.Logger, failures prometheus.Counter, eventType string, res Result) {
	if res.Delivered {
		return
	}
	if failures != nil {
		failures.Inc()
	}
	logger.Warn("audit event not delivered", "event_type", eventType, "error", res.Err)
}
