// Package metrics registers the Prometheus instruments shared by the
// services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for one service process.
type Metrics struct {
	Logins            *prometheus.CounterVec
	AuditEventsStored prometheus.Counter
	RelayFailures     prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers the service metrics on the default registry.
func New(service string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, service)
}

// NewWith registers on a caller-supplied registry; tests use this to avoid
// duplicate registration across cases.
func NewWith(reg prometheus.Registerer, service string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": service}
	return &Metrics{
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "fides_logins_total",
			Help:        "Login attempts by outcome (success, failure).",
			ConstLabels: labels,
		}, []string{"outcome"}),
		AuditEventsStored: factory.NewCounter(prometheus.CounterOpts{
			Name:        "fides_audit_events_stored_total",
			Help:        "Audit events accepted and persisted by the sink.",
			ConstLabels: labels,
		}),
		RelayFailures: factory.NewCounter(prometheus.CounterOpts{
			Name:        "fides_audit_relay_failures_total",
			Help:        "Audit relay emissions that were dropped after failure.",
			ConstLabels: labels,
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "fides_http_request_duration_seconds",
			Help:        "Inbound HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}
