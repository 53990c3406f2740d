package store

import (
	"context"
	"strings"
	"sync"

	"fides/internal/auth"
)

// MemoryStore keeps users in a map keyed by lowercased email. Suitable for
// single-node deployments and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]auth.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]auth.User)}
}

func (s *MemoryStore) Save(_ context.Context, user auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(user.Email)] = user
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[strings.ToLower(email)]; ok {
		return user, nil
	}
	return auth.User{}, ErrNotFound
}
