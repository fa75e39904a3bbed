package models

import "strings"

// Relationship is the closed label vocabulary for a member's position in the
// family, always stored in its fully-resolved form (a grandchild is a
// Grandson, never a Son anchored two hops away). The resolver in
// internal/family/rules relies on that invariant.
type Relationship string

const (
	RelAdmin Relationship = "Admin"

	// Direct relatives.
	RelFather   Relationship = "Father"
	RelMother   Relationship = "Mother"
	RelSon      Relationship = "Son"
	RelDaughter Relationship = "Daughter"

	// Step relatives.
	RelStepfather   Relationship = "Stepfather"
	RelStepmother   Relationship = "Stepmother"
	RelStepson      Relationship = "Stepson"
	RelStepdaughter Relationship = "Stepdaughter"
	RelStepbrother  Relationship = "Stepbrother"
	RelStepsister   Relationship = "Stepsister"

	// In-law relatives.
	RelFatherInLaw      Relationship = "Father-in-law"
	RelMotherInLaw      Relationship = "Mother-in-law"
	RelGrandfatherInLaw Relationship = "Grandfather-in-law"
	RelGrandmotherInLaw Relationship = "Grandmother-in-law"

	// Extended relatives.
	RelGrandfather            Relationship = "Grandfather"
	RelGrandmother            Relationship = "Grandmother"
	RelGreatGrandfather       Relationship = "Great-Grandfather"
	RelGreatGrandmother       Relationship = "Great-Grandmother"
	RelGrandson               Relationship = "Grandson"
	RelGranddaughter          Relationship = "Granddaughter"
	RelGreatGrandson          Relationship = "Great-Grandson"
	RelGreatGranddaughter     Relationship = "Great-Granddaughter"
	RelGreatGreatGrandson     Relationship = "Great-Great-Grandson"
	RelGreatGreatGranddaughter Relationship = "Great-Great-Granddaughter"
	RelBrother                Relationship = "Brother"
	RelSister                 Relationship = "Sister"
	RelNephew                 Relationship = "Nephew"
	RelNiece                  Relationship = "Niece"
	RelGreatNephew            Relationship = "Great-Nephew"
	RelGreatNiece             Relationship = "Great-Niece"

	// Adopted relatives.
	RelAdoptedSon      Relationship = "Adopted-Son"
	RelAdoptedDaughter Relationship = "Adopted-Daughter"

	// Spouse status.
	RelSpouse   Relationship = "Spouse"
	RelExSpouse Relationship = "Ex-Spouse"

	RelOther Relationship = "Other"
)

// deceasedPrefix is the legacy marker older records carry on the label
// itself. New records store the flag separately on FamilyMember.
const deceasedPrefix = "Deceased-"

// Category groups the vocabulary into closed relationship families so rule
// tables can dispatch on a tagged variant instead of matching label strings.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAdmin
	CategoryDirect
	CategoryStep
	CategoryInLaw
	CategoryExtended
	CategoryAdopted
	CategorySpouse
	CategoryOther
)

var categories = map[Relationship]Category{
	RelAdmin: CategoryAdmin,

	RelFather:   CategoryDirect,
	RelMother:   CategoryDirect,
	RelSon:      CategoryDirect,
	RelDaughter: CategoryDirect,

	RelStepfather:   CategoryStep,
	RelStepmother:   CategoryStep,
	RelStepson:      CategoryStep,
	RelStepdaughter: CategoryStep,
	RelStepbrother:  CategoryStep,
	RelStepsister:   CategoryStep,

	RelFatherInLaw:      CategoryInLaw,
	RelMotherInLaw:      CategoryInLaw,
	RelGrandfatherInLaw: CategoryInLaw,
	RelGrandmotherInLaw: CategoryInLaw,

	RelGrandfather:             CategoryExtended,
	RelGrandmother:             CategoryExtended,
	RelGreatGrandfather:        CategoryExtended,
	RelGreatGrandmother:        CategoryExtended,
	RelGrandson:                CategoryExtended,
	RelGranddaughter:           CategoryExtended,
	RelGreatGrandson:           CategoryExtended,
	RelGreatGranddaughter:      CategoryExtended,
	RelGreatGreatGrandson:      CategoryExtended,
	RelGreatGreatGranddaughter: CategoryExtended,
	RelBrother:                 CategoryExtended,
	RelSister:                  CategoryExtended,
	RelNephew:                  CategoryExtended,
	RelNiece:                   CategoryExtended,
	RelGreatNephew:             CategoryExtended,
	RelGreatNiece:              CategoryExtended,

	RelAdoptedSon:      CategoryAdopted,
	RelAdoptedDaughter: CategoryAdopted,

	RelSpouse:   CategorySpouse,
	RelExSpouse: CategorySpouse,

	RelOther: CategoryOther,
}

// Category returns the tagged relationship family, CategoryUnknown for labels
// outside the vocabulary.
func (r Relationship) Category() Category {
	return categories[r]
}

// Known reports whether r belongs to the closed vocabulary.
func (r Relationship) Known() bool {
	_, ok := categories[r]
	return ok
}

func (r Relationship) String() string { return string(r) }

// ParseRelationship normalizes a stored label. Legacy records prefix the
// label with "Deceased-"; the prefix is stripped and reported separately so
// classification logic never sees it.
func ParseRelationship(s string) (rel Relationship, deceased bool) {
	if rest, ok := strings.CutPrefix(s, deceasedPrefix); ok {
		return Relationship(rest), true
	}
	return Relationship(s), false
}

// Gender of a family member. The empty value means "not entered yet".
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
	GenderUnset  Gender = ""
)

// ImpliedGender returns the gender a relationship label implies, if any.
// Only the six base parent/child/sibling labels imply one; a Spouse's gender
// is never implied and must be entered explicitly.
func (r Relationship) ImpliedGender() (Gender, bool) {
	switch r {
	case RelFather, RelSon, RelBrother:
		return GenderMale, true
	case RelMother, RelDaughter, RelSister:
		return GenderFemale, true
	default:
		return GenderUnset, false
	}
}

// RequiresExplicitGender reports whether the gender field must be shown for
// this relationship. True exactly for Spouse.
func (r Relationship) RequiresExplicitGender() bool {
	return r == RelSpouse
}
