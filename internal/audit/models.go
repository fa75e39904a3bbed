package audit

import (
	"time"

	id "nachlass/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time
	UniverseID id.UniverseID
	MemberID   id.MemberID
	Actor      string
	Action     string
	Detail     string
}

// Actions emitted by the family, universe, and assets services.
const (
	ActionMemberAdded       = "member.added"
	ActionMemberUpdated     = "member.updated"
	ActionMemberDeleted     = "member.deleted"
	ActionDuplicateRejected = "member.duplicate_rejected"
	ActionFamilyFinalized   = "family.finalized"
	ActionUniverseCreated   = "universe.created"
	ActionUniverseUpdated   = "universe.updated"
	ActionAssetCreated      = "asset.created"
	ActionAssetUpdated      = "asset.updated"
	ActionAssetDeleted      = "asset.deleted"
)
