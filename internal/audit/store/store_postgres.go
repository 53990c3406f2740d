package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fides/internal/audit"
)

// PostgresStore persists audit events in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE audit_events (
//	    id         UUID PRIMARY KEY,
//	    event_type TEXT NOT NULL,
//	    actor      TEXT,
//	    details    TEXT,
//	    source     TEXT,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, event audit.Event) error {
	const query = `
		INSERT INTO audit_events (id, event_type, actor, details, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.pool.Exec(ctx, query,
		event.ID, event.EventType, event.Actor, event.Details, event.Source, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent orders by created_at with id as tiebreaker so events stamped in
// the same microsecond keep a stable order.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	const query = `
		SELECT id, event_type, actor, details, source, created_at
		FROM audit_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var event audit.Event
		if err := rows.Scan(&event.ID, &event.EventType, &event.Actor,
			&event.Details, &event.Source, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
