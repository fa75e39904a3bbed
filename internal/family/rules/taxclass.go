package rules

import (
	id "nachlass/pkg/domain"

	"nachlass/internal/family/models"
)

// TaxClass per German Inheritance Tax Law (ErbStG § 15).
type TaxClass int

const (
	TaxClassI   TaxClass = 1
	TaxClassII  TaxClass = 2
	TaxClassIII TaxClass = 3
)

// InheritanceRelation describes who inherits from whom. AssetOwner is set
// when the asset originally belonged to someone other than the direct
// antecedent, e.g. an asset passing through a spouse's estate to the spouse's
// sibling.
type InheritanceRelation struct {
	FromPerson id.MemberID
	ToPerson   id.MemberID
	AssetOwner *id.MemberID
}

// Direct is true when no separate asset owner is involved.
func (r InheritanceRelation) Direct() bool {
	return r.AssetOwner == nil || *r.AssetOwner == r.FromPerson
}

var directTaxClassI = map[models.Relationship]struct{}{
	models.RelSon: {}, models.RelDaughter: {},
	models.RelStepson: {}, models.RelStepdaughter: {},
	models.RelAdoptedSon: {}, models.RelAdoptedDaughter: {},
	models.RelGrandson: {}, models.RelGranddaughter: {},
	models.RelGreatGrandson: {}, models.RelGreatGranddaughter: {},
	models.RelFather: {}, models.RelMother: {},
	models.RelGrandfather: {}, models.RelGrandmother: {},
	models.RelGreatGrandfather: {}, models.RelGreatGrandmother: {},
	models.RelSpouse: {},
}

var directTaxClassII = map[models.Relationship]struct{}{
	models.RelBrother: {}, models.RelSister: {},
	models.RelStepbrother: {}, models.RelStepsister: {},
	models.RelNephew: {}, models.RelNiece: {},
	models.RelStepfather: {}, models.RelStepmother: {},
	models.RelFatherInLaw: {}, models.RelMotherInLaw: {},
}

// InheritanceTaxClass determines the heir's tax class from their relationship
// to the testator. When the relation is indirect (the asset came from someone
// other than the direct antecedent), only spouse-side relationships reach
// class II and everything else collapses to class III.
func InheritanceTaxClass(rel models.Relationship, relation InheritanceRelation) TaxClass {
	if !relation.Direct() {
		return indirectTaxClass(rel)
	}
	return directTaxClass(rel)
}

func directTaxClass(rel models.Relationship) TaxClass {
	if _, ok := directTaxClassI[rel]; ok {
		return TaxClassI
	}
	if _, ok := directTaxClassII[rel]; ok {
		return TaxClassII
	}
	return TaxClassIII
}

func indirectTaxClass(rel models.Relationship) TaxClass {
	if isSpouseRelative(rel) {
		return TaxClassII
	}
	return TaxClassIII
}

// isSpouseRelative reports whether the relationship reaches the testator
// through a spouse.
func isSpouseRelative(rel models.Relationship) bool {
	switch rel {
	case models.RelSpouse, models.RelExSpouse,
		models.RelFatherInLaw, models.RelMotherInLaw,
		models.RelOther:
		return true
	}
	return false
}
