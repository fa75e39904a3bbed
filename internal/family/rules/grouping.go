package rules

import (
	"nachlass/internal/family/models"
)

// Section names one display bucket of the family view.
type Section string

const (
	SectionAdmin                 Section = "admin"
	SectionChildren              Section = "children"
	SectionGrandchildren         Section = "grandchildren"
	SectionGreatGrandchildren    Section = "greatGrandchildren"
	SectionParents               Section = "parents"
	SectionInLawParents          Section = "inLawParents"
	SectionGrandparents          Section = "grandparents"
	SectionSiblings              Section = "siblings"
	SectionSiblingsChildren      Section = "siblingsChildren"
	SectionSiblingsGrandchildren Section = "siblingsGrandchildren"
	SectionOther                 Section = "other"
)

// DefaultSectionOrder is the fixed default sequence. Universe settings may
// override it.
var DefaultSectionOrder = []Section{
	SectionAdmin,
	SectionChildren,
	SectionGrandchildren,
	SectionGreatGrandchildren,
	SectionParents,
	SectionInLawParents,
	SectionGrandparents,
	SectionSiblings,
	SectionSiblingsChildren,
	SectionSiblingsGrandchildren,
	SectionOther,
}

var sectionTitles = map[Section]string{
	SectionAdmin:                 "Administrator",
	SectionChildren:              "Children",
	SectionGrandchildren:         "Grandchildren",
	SectionGreatGrandchildren:    "Great-Grandchildren",
	SectionParents:               "Parents",
	SectionInLawParents:          "Parents in Law",
	SectionGrandparents:          "Grandparents",
	SectionSiblings:              "Siblings",
	SectionSiblingsChildren:      "Nieces & Nephews",
	SectionSiblingsGrandchildren: "Great-Nieces & Great-Nephews",
	SectionOther:                 "Other Family Members",
}

// SectionTitle returns the display title for a section.
func SectionTitle(s Section) string { return sectionTitles[s] }

// Group is one named display bucket with its members, in collection order.
type Group struct {
	Section Section                `json:"section"`
	Title   string                 `json:"title"`
	Members []*models.FamilyMember `json:"members"`
}

// GroupFamilyMembers partitions a flat collection into named sections by
// resolved relationship label. A Son/Daughter anchored at one of the admin's
// parents is the admin's sibling; anchored at one of the admin's siblings it
// is a sibling's child. Sections with zero members are omitted. Pass a nil
// order to use DefaultSectionOrder.
func GroupFamilyMembers(members []*models.FamilyMember, order []Section) []Group {
	if len(order) == 0 {
		order = DefaultSectionOrder
	}

	parentIDs := idSet(members, models.RelFather, models.RelMother)
	siblingIDs := idSet(members, models.RelBrother, models.RelSister)

	buckets := make(map[Section][]*models.FamilyMember)
	for _, m := range members {
		// A Spouse renders beside their partner via the marriage connector,
		// never as a section of its own.
		if m.Relationship == models.RelSpouse {
			continue
		}
		section := classifySection(m, parentIDs, siblingIDs)
		buckets[section] = append(buckets[section], m)
	}

	groups := make([]Group, 0, len(order))
	for _, section := range order {
		bucket := buckets[section]
		if len(bucket) == 0 {
			continue
		}
		groups = append(groups, Group{
			Section: section,
			Title:   sectionTitles[section],
			Members: bucket,
		})
	}
	return groups
}

func classifySection(m *models.FamilyMember, parentIDs, siblingIDs map[string]struct{}) Section {
	switch m.Relationship {
	case models.RelAdmin:
		return SectionAdmin
	case models.RelSon, models.RelDaughter:
		// Pre-transform children need their anchor to disambiguate.
		if m.RelatedTo != nil {
			if _, ok := parentIDs[m.RelatedTo.String()]; ok {
				return SectionSiblings
			}
			if _, ok := siblingIDs[m.RelatedTo.String()]; ok {
				return SectionSiblingsChildren
			}
		}
		return SectionChildren
	case models.RelStepson, models.RelStepdaughter, models.RelAdoptedSon, models.RelAdoptedDaughter:
		return SectionChildren
	case models.RelGrandson, models.RelGranddaughter:
		return SectionGrandchildren
	case models.RelGreatGrandson, models.RelGreatGranddaughter:
		return SectionGreatGrandchildren
	case models.RelFather, models.RelMother:
		return SectionParents
	case models.RelFatherInLaw, models.RelMotherInLaw:
		return SectionInLawParents
	case models.RelGrandfather, models.RelGrandmother,
		models.RelGrandfatherInLaw, models.RelGrandmotherInLaw:
		return SectionGrandparents
	case models.RelBrother, models.RelSister, models.RelStepbrother, models.RelStepsister:
		return SectionSiblings
	case models.RelNephew, models.RelNiece:
		return SectionSiblingsChildren
	case models.RelGreatNephew, models.RelGreatNiece:
		return SectionSiblingsGrandchildren
	default:
		return SectionOther
	}
}

func idSet(members []*models.FamilyMember, rels ...models.Relationship) map[string]struct{} {
	set := make(map[string]struct{})
	for _, m := range members {
		for _, rel := range rels {
			if m.Relationship == rel {
				set[m.ID.String()] = struct{}{}
			}
		}
	}
	return set
}
