package store

import (
	"context"
	"sort"
	"sync"

	"fides/internal/audit"
)

// MemoryStore keeps events in memory. It favors clarity over performance;
// readers always get copies so a concurrent append can never expose a torn
// row.
type MemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := make([]audit.Event, len(s.events))
	copy(sorted, s.events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}
