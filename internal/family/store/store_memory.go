package store

import (
	"context"
	"sync"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"

	"nachlass/internal/family/models"
)

// InMemory keeps member collections per universe in insertion order. It
// favors clarity over performance and is the default store for tests and
// single-process deployments.
type InMemory struct {
	mu        sync.RWMutex
	universes map[id.UniverseID][]*models.FamilyMember
}

func NewInMemory() *InMemory {
	return &InMemory{universes: make(map[id.UniverseID][]*models.FamilyMember)}
}

func (s *InMemory) Save(_ context.Context, member *models.FamilyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.universes[member.UniverseID]
	for _, m := range collection {
		if m.ID == member.ID {
			return sentinel.ErrConflict
		}
	}
	copied := *member
	s.universes[member.UniverseID] = append(collection, &copied)
	return nil
}

func (s *InMemory) Update(_ context.Context, member *models.FamilyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.universes[member.UniverseID]
	for i, m := range collection {
		if m.ID == member.ID {
			copied := *member
			collection[i] = &copied
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemory) FindByID(_ context.Context, universeID id.UniverseID, memberID id.MemberID) (*models.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.universes[universeID] {
		if m.ID == memberID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByUniverse(_ context.Context, universeID id.UniverseID) ([]*models.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collection := s.universes[universeID]
	out := make([]*models.FamilyMember, len(collection))
	for i, m := range collection {
		copied := *m
		out[i] = &copied
	}
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, universeID id.UniverseID, memberID id.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.universes[universeID]
	for i, m := range collection {
		if m.ID == memberID {
			s.universes[universeID] = append(collection[:i:i], collection[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}
