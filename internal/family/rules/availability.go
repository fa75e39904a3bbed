package rules

import (
	id "nachlass/pkg/domain"

	"nachlass/internal/family/models"
)

// menuContext is the snapshot a menu rule evaluates against.
type menuContext struct {
	anchor  *models.FamilyMember
	members []*models.FamilyMember
}

// menuEntry is one offerable relationship with an optional constraint.
// A nil constraint means the option is always available for the role.
type menuEntry struct {
	rel  models.Relationship
	when func(menuContext) bool
}

// roleMenus is the declarative availability table, keyed by the anchor's own
// relationship. Order within a menu is the order shown to the user. Roles
// missing from the table get an empty option set.
var roleMenus = map[models.Relationship][]menuEntry{
	models.RelAdmin: {
		{rel: models.RelSpouse, when: spouseSlotFree},
		{rel: models.RelFather, when: notAnchoredHere(models.RelFather)},
		{rel: models.RelMother, when: notAnchoredHere(models.RelMother)},
		{rel: models.RelSon},
		{rel: models.RelDaughter},
		{rel: models.RelBrother},
		{rel: models.RelSister},
	},
	// A biological parent acquiring a new spouse would conflict with the
	// other biological parent, so the option needs both the anchor's own
	// spouse slot free and the opposite parent absent from the family.
	models.RelFather: parentMenu(models.RelMother),
	models.RelMother: parentMenu(models.RelFather),
	models.RelBrother: {
		{rel: models.RelSpouse, when: spouseSlotFree},
		{rel: models.RelFather, when: familyLacks(models.RelFather)},
		{rel: models.RelMother, when: familyLacks(models.RelMother)},
		{rel: models.RelSon},
		{rel: models.RelDaughter},
	},
	models.RelSister: {
		{rel: models.RelSpouse, when: spouseSlotFree},
		{rel: models.RelFather, when: familyLacks(models.RelFather)},
		{rel: models.RelMother, when: familyLacks(models.RelMother)},
		{rel: models.RelSon},
		{rel: models.RelDaughter},
	},
	models.RelSon: {
		{rel: models.RelSpouse, when: spouseSlotFree},
		{rel: models.RelSon},
		{rel: models.RelDaughter},
	},
	models.RelDaughter: {
		{rel: models.RelSpouse, when: spouseSlotFree},
		{rel: models.RelSon},
		{rel: models.RelDaughter},
	},
	// Parent options on a spouse guard against the stored in-law label,
	// since that is what the transform resolves them to.
	models.RelSpouse: {
		{rel: models.RelFather, when: notAnchoredHere(models.RelFatherInLaw)},
		{rel: models.RelMother, when: notAnchoredHere(models.RelMotherInLaw)},
		{rel: models.RelBrother},
		{rel: models.RelSister},
		{rel: models.RelSon},
		{rel: models.RelDaughter},
	},
}

func parentMenu(oppositeParent models.Relationship) []menuEntry {
	return []menuEntry{
		{rel: models.RelSpouse, when: and(spouseSlotFree, familyLacks(oppositeParent))},
		{rel: models.RelFather, when: notAnchoredHere(models.RelFather)},
		{rel: models.RelMother, when: notAnchoredHere(models.RelMother)},
		{rel: models.RelSon},
		{rel: models.RelDaughter},
		{rel: models.RelBrother},
		{rel: models.RelSister},
	}
}

// AvailableRelationships computes the ordered set of relationship labels that
// may still be added under the given member. The computation runs against the
// live snapshot on every call; an unknown member id yields an empty set.
func AvailableRelationships(members []*models.FamilyMember, memberID id.MemberID) []models.Relationship {
	var anchor *models.FamilyMember
	for _, m := range members {
		if m.ID == memberID {
			anchor = m
			break
		}
	}
	if anchor == nil {
		return nil
	}

	menu, ok := roleMenus[anchor.Relationship]
	if !ok {
		return nil
	}

	ctx := menuContext{anchor: anchor, members: members}
	available := make([]models.Relationship, 0, len(menu))
	for _, entry := range menu {
		if entry.when == nil || entry.when(ctx) {
			available = append(available, entry.rel)
		}
	}
	return available
}

// spouseSlotFree enforces spouse singularity: no Spouse may be anchored to
// the member yet, and the member must not itself be someone's Spouse.
func spouseSlotFree(c menuContext) bool {
	if c.anchor.Relationship == models.RelSpouse {
		return false
	}
	for _, m := range c.members {
		if m.Relationship == models.RelSpouse && anchoredTo(m, c.anchor.ID) {
			return false
		}
	}
	return true
}

// notAnchoredHere allows a relationship only while no member with the same
// label is anchored to this member.
func notAnchoredHere(rel models.Relationship) func(menuContext) bool {
	return func(c menuContext) bool {
		for _, m := range c.members {
			if m.Relationship == rel && anchoredTo(m, c.anchor.ID) {
				return false
			}
		}
		return true
	}
}

// familyLacks allows a relationship only while no member anywhere in the
// family carries the label. Guards against conflicting grandparent chains.
func familyLacks(rel models.Relationship) func(menuContext) bool {
	return func(c menuContext) bool {
		for _, m := range c.members {
			if m.Relationship == rel {
				return false
			}
		}
		return true
	}
}

func and(conds ...func(menuContext) bool) func(menuContext) bool {
	return func(c menuContext) bool {
		for _, cond := range conds {
			if !cond(c) {
				return false
			}
		}
		return true
	}
}

func anchoredTo(m *models.FamilyMember, anchorID id.MemberID) bool {
	return m.RelatedTo != nil && *m.RelatedTo == anchorID
}
