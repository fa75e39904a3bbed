// Package models defines asset records: the things a universe's estate
// consists of. Assets are either companies or personal property and carry
// the value the inheritance preview computes against.
package models

import (
	"strings"
	"time"

	id "nachlass/pkg/domain"
	derrors "nachlass/pkg/domainerrors"
)

// Kind separates company holdings from personal property.
type Kind string

const (
	KindCompany  Kind = "company"
	KindPersonal Kind = "personal"
)

// Known reports whether k belongs to the closed kind vocabulary.
func (k Kind) Known() bool {
	return k == KindCompany || k == KindPersonal
}

// Category classifies personal assets.
type Category string

const (
	CategoryRealEstate Category = "Real Estate"
	CategoryVehicle    Category = "Vehicle"
	CategoryInvestment Category = "Investment"
	CategoryArt        Category = "Art"
	CategoryOther      Category = "Other"
)

// Known reports whether c belongs to the closed category vocabulary.
func (c Category) Known() bool {
	switch c {
	case CategoryRealEstate, CategoryVehicle, CategoryInvestment, CategoryArt, CategoryOther:
		return true
	}
	return false
}

// Asset is one estate item in a universe.
//
// Invariants:
//   - Kind is company or personal
//   - personal assets carry a known Category; company assets carry none
//   - Owner is nil when the admin owns the asset directly; a non-nil Owner
//     makes an inheritance from the admin indirect
type Asset struct {
	ID         id.AssetID    `json:"id"`
	UniverseID id.UniverseID `json:"universeId"`

	Kind Kind   `json:"type"`
	Name string `json:"name"`

	// Company fields.
	CompanyType string `json:"companyType,omitempty"`
	Country     string `json:"country,omitempty"`

	// Personal asset fields.
	Category    Category `json:"assetType,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`

	// ValueCents is the appraised value in euro cents.
	ValueCents int64 `json:"valueCents,omitempty"`

	Owner *id.MemberID `json:"ownerId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

// Touch records a mutation.
func (a *Asset) Touch(now time.Time) {
	a.UpdatedAt = now
	a.Version++
}

// Validate checks construction invariants.
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return derrors.New(derrors.CodeInvalidInput, "asset name is required")
	}
	if !a.Kind.Known() {
		return derrors.Newf(derrors.CodeInvalidInput, "unknown asset type %q", a.Kind)
	}
	if a.Kind == KindPersonal && !a.Category.Known() {
		return derrors.Newf(derrors.CodeInvalidInput, "unknown asset category %q", a.Category)
	}
	if a.Kind == KindCompany && a.Category != "" {
		return derrors.New(derrors.CodeInvalidInput, "company assets do not carry a category")
	}
	if a.ValueCents < 0 {
		return derrors.New(derrors.CodeInvalidInput, "asset value cannot be negative")
	}
	if a.UniverseID.IsNil() {
		return derrors.New(derrors.CodeInvalidInput, "universe id is required")
	}
	return nil
}

// NewAsset constructs an asset with fresh identity and tracking metadata.
func NewAsset(universeID id.UniverseID, kind Kind, name string, now time.Time) *Asset {
	return &Asset{
		ID:         id.NewAssetID(),
		UniverseID: universeID,
		Kind:       kind,
		Name:       strings.TrimSpace(name),
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
}
