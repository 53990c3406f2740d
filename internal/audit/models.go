// Package audit is the append-only record of security and business events.
// Events arrive over the key-gated sink endpoint, are stamped on ingestion,
// and are never updated or deleted.
package audit

import "time"

// Event types emitted across the deployment.
const (
	EventLoginSuccess = "LOGIN_SUCCESS"
	EventLoginFailure = "LOGIN_FAILURE"
	EventMessageView  = "MESSAGE_VIEW"
	EventEmailSent    = "EMAIL_SENT"
	EventEmailFailed  = "EMAIL_FAILED"
	EventNotifySent   = "NOTIFY_SENT"
	EventNotifyFailed = "NOTIFY_FAILED"
)

// ActorUnknown stands in when the emitting service has no principal.
const ActorUnknown = "unknown"

// Event is one immutable audit record. ID and CreatedAt are assigned by the
// sink on ingestion; senders never set them.
type Event struct {
	ID        string    `json:"id"`
	EventType string    `json:"eventType"`
	Actor     string    `json:"actor,omitempty"`
	Details   string    `json:"details,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
