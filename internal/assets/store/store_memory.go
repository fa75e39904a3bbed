package store

import (
	"context"
	"sync"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"

	"nachlass/internal/assets/models"
)

// InMemory keeps asset collections per universe in insertion order.
type InMemory struct {
	mu        sync.RWMutex
	universes map[id.UniverseID][]*models.Asset
}

func NewInMemory() *InMemory {
	return &InMemory{universes: make(map[id.UniverseID][]*models.Asset)}
}

func (s *InMemory) Save(_ context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.universes[asset.UniverseID]
	for _, a := range collection {
		if a.ID == asset.ID {
			return sentinel.ErrConflict
		}
	}
	copied := *asset
	s.universes[asset.UniverseID] = append(collection, &copied)
	return nil
}

func (s *InMemory) Update(_ context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.universes[asset.UniverseID]
	for i, a := range collection {
		if a.ID == asset.ID {
			copied := *asset
			collection[i] = &copied
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemory) FindByID(_ context.Context, universeID id.UniverseID, assetID id.AssetID) (*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.universes[universeID] {
		if a.ID == assetID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByUniverse(_ context.Context, universeID id.UniverseID) ([]*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collection := s.universes[universeID]
	out := make([]*models.Asset, len(collection))
	for i, a := range collection {
		copied := *a
		out[i] = &copied
	}
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, universeID id.UniverseID, assetID id.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.universes[universeID]
	for i, a := range collection {
		if a.ID == assetID {
			s.universes[universeID] = append(collection[:i:i], collection[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}
