package models

import (
	"time"

	id "nachlass/pkg/domain"
)

// MarriageStatus tracks the state of a union.
type MarriageStatus string

const (
	MarriageCurrent  MarriageStatus = "current"
	MarriageDivorced MarriageStatus = "divorced"
	MarriageDeceased MarriageStatus = "deceased"
)

// MarriageData represents one marriage/union.
//
// Invariant: the two members of a union (a spouse pair, or Mother+Father
// anchored to the same child) carry MarriageData with the same ID, so a
// single connector between two member cards resolves to one canonical record
// regardless of which side it is queried from. The linkage itself is enforced
// by the family service, not here.
type MarriageData struct {
	ID        id.MarriageID  `json:"id"`
	Date      *time.Time     `json:"date"` // nil when the exact date is unknown
	Status    MarriageStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewMarriageData creates a marriage record with a fresh id and status
// current. date may be nil.
func NewMarriageData(date *time.Time, now time.Time) *MarriageData {
	return &MarriageData{
		ID:        id.NewMarriageID(),
		Date:      date,
		Status:    MarriageCurrent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EnsureMarriageData migrates legacy records. A nil input yields a fresh
// record; a record missing its id gets one backfilled with timestamps
// preserved where present; a complete record is returned as-is.
func EnsureMarriageData(existing *MarriageData, now time.Time) *MarriageData {
	if existing == nil {
		return NewMarriageData(nil, now)
	}
	if existing.ID.IsNil() {
		patched := *existing
		patched.ID = id.NewMarriageID()
		if patched.CreatedAt.IsZero() {
			patched.CreatedAt = now
		}
		patched.UpdatedAt = now
		if patched.Status == "" {
			patched.Status = MarriageCurrent
		}
		return &patched
	}
	return existing
}
