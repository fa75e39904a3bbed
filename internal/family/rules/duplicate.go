package rules

import (
	id "nachlass/pkg/domain"

	"nachlass/internal/family/models"
)

// IsDuplicate reports whether the candidate collides with an existing member.
// The sole collision rule is an identical relationship label anchored to the
// same member; names, birth data, and gender are never inspected.
//
// This is the last-line invariant check at write time. The availability
// resolver proactively narrows the menu; the two are complementary, not
// redundant.
func IsDuplicate(candidate *models.FamilyMember, existing []*models.FamilyMember) bool {
	for _, m := range existing {
		if m.ID == candidate.ID {
			continue
		}
		if m.Relationship != candidate.Relationship {
			continue
		}
		if sameAnchor(m.RelatedTo, candidate.RelatedTo) {
			return true
		}
	}
	return false
}

func sameAnchor(a, b *id.MemberID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
