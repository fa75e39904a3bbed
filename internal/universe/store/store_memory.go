package store

import (
	"context"
	"strings"
	"sync"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"

	"nachlass/internal/universe/models"
)

// InMemory keeps universes keyed by id with case-insensitive name and
// admin-email indexes.
type InMemory struct {
	mu        sync.RWMutex
	universes map[id.UniverseID]*models.Universe
	byName    map[string]id.UniverseID
	byEmail   map[string]id.UniverseID
}

func NewInMemory() *InMemory {
	return &InMemory{
		universes: make(map[id.UniverseID]*models.Universe),
		byName:    make(map[string]id.UniverseID),
		byEmail:   make(map[string]id.UniverseID),
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *InMemory) Save(_ context.Context, universe *models.Universe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.universes[universe.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byName[nameKey(universe.Name)]; exists {
		return sentinel.ErrConflict
	}
	if key := emailKey(universe.AdminEmail); key != "" {
		if _, exists := s.byEmail[key]; exists {
			return sentinel.ErrConflict
		}
		s.byEmail[key] = universe.ID
	}
	copied := *universe
	s.universes[universe.ID] = &copied
	s.byName[nameKey(universe.Name)] = universe.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, universe *models.Universe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.universes[universe.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if nameKey(existing.Name) != nameKey(universe.Name) {
		if _, taken := s.byName[nameKey(universe.Name)]; taken {
			return sentinel.ErrConflict
		}
		delete(s.byName, nameKey(existing.Name))
		s.byName[nameKey(universe.Name)] = universe.ID
	}
	if emailKey(existing.AdminEmail) != emailKey(universe.AdminEmail) {
		if key := emailKey(universe.AdminEmail); key != "" {
			if _, taken := s.byEmail[key]; taken {
				return sentinel.ErrConflict
			}
			s.byEmail[key] = universe.ID
		}
		delete(s.byEmail, emailKey(existing.AdminEmail))
	}
	copied := *universe
	s.universes[universe.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, universeID id.UniverseID) (*models.Universe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	universe, ok := s.universes[universeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *universe
	return &copied, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Universe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	universeID, ok := s.byName[nameKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.universes[universeID]
	return &copied, nil
}

func (s *InMemory) FindByAdminEmail(_ context.Context, email string) (*models.Universe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := emailKey(email)
	if key == "" {
		return nil, sentinel.ErrNotFound
	}
	universeID, ok := s.byEmail[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.universes[universeID]
	return &copied, nil
}
