package auth

import (
	"context"
	"sync"
	"time"
)

type memoryStateEntry struct {
	verifier  string
	expiresAt time.Time
}

// MemoryStateStore is an in-process StateStore for development and
// tests. Production deployments use the Redis-backed implementation so
// state survives across instances.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryStateEntry
}

// NewMemoryStateStore creates an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		entries: make(map[string]memoryStateEntry),
	}
}

func (s *MemoryStateStore) StoreState(_ context.Context, state, verifier string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[state] = memoryStateEntry{
		verifier:  verifier,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStateStore) ConsumeState(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[state]
	if !ok {
		return "", ErrStateNotFound
	}
	delete(s.entries, state)

	if time.Now().After(entry.expiresAt) {
		return "", ErrStateNotFound
	}

	return entry.verifier, nil
}

var _ StateStore = (*MemoryStateStore)(nil)
