package audit

import (
	"context"
	"sync"
)

// Store is the append-only event sink.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByIdentifier(ctx context.Context, identifier string) ([]Event, error)
}

// MemoryStore keeps events in process memory for tests and dev mode.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]Event)}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Identifier] = append(s.events[event.Identifier], event)
	return nil
}

func (s *MemoryStore) ListByIdentifier(_ context.Context, identifier string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[identifier]...), nil
}
