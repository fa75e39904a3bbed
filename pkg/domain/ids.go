// Package domain defines typed identifiers shared across bounded contexts.
//
// IDs are distinct named types over uuid.UUID so a member id can never be
// passed where a universe id is expected. Parse functions enforce the trust
// boundary invariant: IDs must be valid, non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	derrors "nachlass/pkg/domainerrors"
)

// MemberID identifies a family member within a universe.
type MemberID uuid.UUID

// UniverseID identifies one family space (tenant).
type UniverseID uuid.UUID

// MarriageID identifies a marriage/union record.
type MarriageID uuid.UUID

// AssetID identifies an asset record.
type AssetID uuid.UUID

func NewMemberID() MemberID     { return MemberID(uuid.New()) }
func NewUniverseID() UniverseID { return UniverseID(uuid.New()) }
func NewMarriageID() MarriageID { return MarriageID(uuid.New()) }
func NewAssetID() AssetID       { return AssetID(uuid.New()) }

func (id MemberID) String() string   { return uuid.UUID(id).String() }
func (id UniverseID) String() string { return uuid.UUID(id).String() }
func (id MarriageID) String() string { return uuid.UUID(id).String() }
func (id AssetID) String() string    { return uuid.UUID(id).String() }

func (id MemberID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id UniverseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MarriageID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AssetID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id MemberID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id UniverseID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id MarriageID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id AssetID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *MemberID) UnmarshalText(b []byte) error {
	parsed, err := ParseMemberID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *UniverseID) UnmarshalText(b []byte) error {
	parsed, err := ParseUniverseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *MarriageID) UnmarshalText(b []byte) error {
	parsed, err := ParseMarriageID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AssetID) UnmarshalText(b []byte) error {
	parsed, err := ParseAssetID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseMemberID validates and returns a MemberID.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID(s, "member id")
	return MemberID(u), err
}

// ParseUniverseID validates and returns a UniverseID.
func ParseUniverseID(s string) (UniverseID, error) {
	u, err := parseUUID(s, "universe id")
	return UniverseID(u), err
}

// ParseMarriageID validates and returns a MarriageID.
func ParseMarriageID(s string) (MarriageID, error) {
	u, err := parseUUID(s, "marriage id")
	return MarriageID(u), err
}

// ParseAssetID validates and returns an AssetID.
func ParseAssetID(s string) (AssetID, error) {
	u, err := parseUUID(s, "asset id")
	return AssetID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, derrors.Newf(derrors.CodeInvalidInput, "%s is required", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, derrors.Newf(derrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, derrors.Newf(derrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return u, nil
}
