package cache

import (
	"context"
	"fmt"
	"sync"

	"eventshell/pkg/platform/sentinel"
)

// InMemoryStore keeps entries in process.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]Entry)}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, fmt.Errorf("cache entry %s: %w", key, sentinel.ErrNotFound)
	}
	entry.Value = append([]byte(nil), entry.Value...)
	return entry, nil
}

func (s *InMemoryStore) Put(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Value = append([]byte(nil), entry.Value...)
	s.entries[entry.Key] = entry
	return nil
}

func (s *InMemoryStore) MarkStale(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return fmt.Errorf("cache entry %s: %w", key, sentinel.ErrNotFound)
	}
	entry.Stale = true
	s.entries[key] = entry
	return nil
}
