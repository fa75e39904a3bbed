package audit

import (
	"context"
	"sync"

	id "nachlass/pkg/domain"
)

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUniverse(ctx context.Context, universeID id.UniverseID) ([]Event, error)
}

// MemoryStore keeps events in memory, ordered by append time. Suitable for
// tests and single-instance deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByUniverse(_ context.Context, universeID id.UniverseID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.UniverseID == universeID {
			out = append(out, event)
		}
	}
	return out, nil
}
