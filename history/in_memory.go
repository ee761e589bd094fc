package history

import (
	"context"
	"sync"
)

// InMemoryStore is a volatile Store keeping threads in a process-local map.
// Safe for concurrent access; returned slices are copies.
type InMemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]Message
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{threads: make(map[string][]Message)}
}

// Append implements Store.
func (s *InMemoryStore) Append(_ context.Context, threadID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append(s.threads[threadID], msg)
	return nil
}

// Messages implements Store.
func (s *InMemoryStore) Messages(_ context.Context, threadID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.threads[threadID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Clear implements Store.
func (s *InMemoryStore) Clear(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, threadID)
	return nil
}
