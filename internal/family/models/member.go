package models

import (
	"strings"
	"time"

	id "nachlass/pkg/domain"
	derrors "nachlass/pkg/domainerrors"
)

// FamilyMember is a person node in one family universe.
//
// Invariants:
//   - Exactly one Admin member per universe (enforced by the universe service)
//   - RelatedTo is nil only for the Admin/root; otherwise it must reference an
//     existing member in the same universe
//   - Relationship is always stored fully resolved (see rules.ActualRelationship)
//   - Relationship + RelatedTo pairs are unique (the duplicate guard)
//
// JSON field names follow the persisted form inherited from earlier snapshots
// of this data; they are a compatibility contract, not a style choice.
type FamilyMember struct {
	ID        id.MemberID `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Gender    Gender      `json:"gender"`

	// Exactly one of BirthYear or ExactBirthday should be set; both may
	// coexist only transitionally while a record is being edited.
	BirthYear     string     `json:"birthYear,omitempty"`
	ExactBirthday *time.Time `json:"exactBirthday,omitempty"`

	Relationship Relationship `json:"relationship"`
	Deceased     bool         `json:"deceased,omitempty"`

	// RelatedTo is a directed edge encoding "in whose section does this
	// person appear", not raw kinship.
	RelatedTo *id.MemberID `json:"relatedTo"`

	GenerationLevel string        `json:"generationLevel,omitempty"`
	TaxClass        int           `json:"taxClass,omitempty"`
	MarriageData    *MarriageData `json:"marriageData,omitempty"`

	IsAdopted    bool       `json:"isAdopted,omitempty"`
	IsStepChild  bool       `json:"isStepChild,omitempty"`
	AdoptionDate *time.Time `json:"adoptionDate,omitempty"`

	UniverseID id.UniverseID `json:"universeId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// IsAdminRoot reports whether this member is the universe's root.
func (m *FamilyMember) IsAdminRoot() bool {
	return m.Relationship == RelAdmin && m.RelatedTo == nil
}

// Touch records a mutation: bumps the version and updates the audit fields.
func (m *FamilyMember) Touch(now time.Time, updatedBy string) {
	m.UpdatedAt = now
	m.Version++
	if updatedBy != "" {
		m.UpdatedBy = updatedBy
	}
}

// Validate checks construction invariants that do not need the collection.
func (m *FamilyMember) Validate() error {
	if strings.TrimSpace(m.FirstName) == "" {
		return derrors.New(derrors.CodeInvalidInput, "first name is required")
	}
	if strings.TrimSpace(m.LastName) == "" {
		return derrors.New(derrors.CodeInvalidInput, "last name is required")
	}
	if !m.Relationship.Known() {
		return derrors.Newf(derrors.CodeInvalidInput, "unknown relationship %q", m.Relationship)
	}
	if m.Relationship == RelAdmin && m.RelatedTo != nil {
		return derrors.New(derrors.CodeInvariantViolation, "the admin member cannot be anchored to another member")
	}
	if m.Relationship != RelAdmin && m.RelatedTo == nil {
		return derrors.New(derrors.CodeInvariantViolation, "non-admin members must be anchored to an existing member")
	}
	if m.UniverseID.IsNil() {
		return derrors.New(derrors.CodeInvalidInput, "universe id is required")
	}
	return nil
}

// NewFamilyMember constructs a member with fresh identity and tracking
// metadata. Derived fields (generation level, tax class, marriage data) are
// filled in by the family service.
func NewFamilyMember(universeID id.UniverseID, firstName, lastName string, rel Relationship, now time.Time, createdBy string) *FamilyMember {
	return &FamilyMember{
		ID:           id.NewMemberID(),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Relationship: rel,
		UniverseID:   universeID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
		CreatedBy:    createdBy,
		UpdatedBy:    createdBy,
	}
}
