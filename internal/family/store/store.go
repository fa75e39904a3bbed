// Package store persists family member collections.
//
// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory and PostgreSQL persistence without rewiring business
// code. Implementations return sentinel errors; the service layer translates
// them into coded domain errors.
package store

import (
	"context"

	id "nachlass/pkg/domain"

	"nachlass/internal/family/models"
)

// MemberStore owns the member collection of each universe. Collections are
// ordered: ListByUniverse returns members in insertion order.
type MemberStore interface {
	// Save inserts a new member. Returns sentinel.ErrConflict when the id
	// already exists.
	Save(ctx context.Context, member *models.FamilyMember) error

	// Update replaces an existing member. Returns sentinel.ErrNotFound when
	// the member does not exist in the universe.
	Update(ctx context.Context, member *models.FamilyMember) error

	FindByID(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) (*models.FamilyMember, error)

	ListByUniverse(ctx context.Context, universeID id.UniverseID) ([]*models.FamilyMember, error)

	// Delete removes exactly one record; it never cascades.
	Delete(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) error
}
