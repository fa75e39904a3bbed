// Package models defines the universe aggregate. A universe is one family
// space (a tenant): every family member, asset, and audit event belongs to
// exactly one universe, and the universe carries the display settings the
// views read.
package models

import (
	"strings"
	"time"

	"nachlass/internal/family/rules"
	id "nachlass/pkg/domain"
	derrors "nachlass/pkg/domainerrors"
)

// Settings are the per-universe display preferences.
type Settings struct {
	Currency string `json:"currency"`
	Language string `json:"language"`
	Timezone string `json:"timezone"`

	// SectionOrder overrides the default family-view section sequence.
	// Empty means the default order.
	SectionOrder []rules.Section `json:"sectionOrder,omitempty"`
}

// DefaultSettings returns the settings a fresh universe starts with.
func DefaultSettings() Settings {
	return Settings{
		Currency: "EUR",
		Language: "de",
		Timezone: "Europe/Berlin",
	}
}

// Validate checks settings invariants. All three locale fields are required
// and every section in a custom order must be a known section.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Currency) == "" {
		return derrors.New(derrors.CodeInvalidInput, "currency is required")
	}
	if strings.TrimSpace(s.Language) == "" {
		return derrors.New(derrors.CodeInvalidInput, "language is required")
	}
	if strings.TrimSpace(s.Timezone) == "" {
		return derrors.New(derrors.CodeInvalidInput, "timezone is required")
	}
	for _, section := range s.SectionOrder {
		if rules.SectionTitle(section) == "" {
			return derrors.Newf(derrors.CodeInvalidInput, "unknown section %q", section)
		}
	}
	return nil
}

// Universe is the aggregate root for one family space.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Exactly one Admin family member exists per universe; the universe
//     service creates it together with the universe and AdminID records it
//   - CreatedAt is immutable after construction
type Universe struct {
	ID       id.UniverseID `json:"id"`
	Name     string        `json:"name"`
	AdminID  id.MemberID   `json:"adminId"`
	Settings Settings      `json:"settings"`

	// AdminEmail identifies the sign-in account; the hash never leaves
	// the service boundary.
	AdminEmail        string `json:"adminEmail,omitempty"`
	AdminPasswordHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

// Touch records a mutation.
func (u *Universe) Touch(now time.Time) {
	u.UpdatedAt = now
	u.Version++
}

// NewUniverse constructs a universe with default settings. The admin member
// id is attached by the service once the root member exists.
func NewUniverse(name string, now time.Time) (*Universe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, derrors.New(derrors.CodeInvalidInput, "universe name is required")
	}
	if len(name) > 128 {
		return nil, derrors.New(derrors.CodeInvalidInput, "universe name must be 128 characters or less")
	}
	return &Universe{
		ID:        id.NewUniverseID(),
		Name:      name,
		Settings:  DefaultSettings(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}
