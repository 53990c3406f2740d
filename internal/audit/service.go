package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "fides/pkg/domain-errors"
)

// Limits applied to recent() reads regardless of what the caller asks for.
const (
	DefaultRecentLimit = 20
	maxRecentLimit     = 100
	minRecentLimit     = 1
)

// Store is the persistence the service writes through.
type Store interface {
	Append(ctx context.Context, event Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

// Service ingests and reads back audit events.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Record stamps and persists one event. The ID and creation timestamp are
// server-assigned; whatever the sender put there is discarded.
func (s *Service) Record(ctx context.Context, event Event) (Event, error) {
	if strings.TrimSpace(event.EventType) == "" {
		return Event{}, dErrors.New(dErrors.CodeInvalidInput, "eventType is required")
	}
	if event.Actor == "" {
		event.Actor = ActorUnknown
	}
	event.ID = uuid.NewString()
	event.CreatedAt = s.now().UTC()

	if err := s.store.Append(ctx, event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// Recent returns the newest events. The limit is clamped to
// [minRecentLimit, maxRecentLimit] to protect the store from unbounded
// scans; zero and negative values clamp up to the minimum.
func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	return s.store.Recent(ctx, ClampLimit(limit))
}

// ClampLimit applies the recent-read bounds: min(max(limit,1),100).
func ClampLimit(limit int) int {
	return min(max(limit, minRecentLimit), maxRecentLimit)
}
