// Package store persists audit events. Implementations come in pairs: an
// in-memory store for tests and single-process runs, and a PostgreSQL store
// for deployments.
package store

import (
	"context"

	"fides/internal/audit"
)

// Store is the append-only audit event sink.
type Store interface {
	// Append persists an event that already carries its server-assigned
	// ID and creation timestamp.
	Append(ctx context.Context, event audit.Event) error
	// Recent returns up to limit events ordered by creation time,
	// newest first. Callers clamp limit before calling.
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
}
