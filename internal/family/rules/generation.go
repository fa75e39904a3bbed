// Package rules contains the pure relationship rule engine: generation and
// inheritance-tax classification, resolving a selected relationship against
// its anchor, the availability menus, the duplicate guard, and the grouping
// of a member collection into display sections.
//
// Everything here is pure domain logic - no I/O, no side effects. Functions
// operate over caller-supplied snapshots and never mutate their inputs.
// Unknown labels fall back to safe defaults instead of failing.
package rules

import "nachlass/internal/family/models"

// Generation level codes on the fixed axis around the admin, following the
// German inheritance law structure.
const (
	GenGreatGrandparents  = "-3"   // Urgroßeltern
	GenGrandparents       = "-2"   // Großeltern
	GenParents            = "-1.0" // leibliche Eltern
	GenStepParents        = "-1.1" // Stiefeltern/Schwiegereltern
	GenAdminSpouse        = "0.0"  // Admin & Ehegatte
	GenSiblings           = "0.1"  // Geschwister
	GenExSpouse           = "0.2"  // Geschiedene(r)
	GenChildren           = "1.0"  // leibliche/adoptierte Kinder
	GenNiecesNephews      = "1.1"  // Nichten/Neffen
	GenGrandchildren      = "2"    // Enkelkinder
	GenGreatGrandchildren = "3"    // Urenkel
)

var generationLevels = map[models.Relationship]string{
	models.RelAdmin:  GenAdminSpouse,
	models.RelSpouse: GenAdminSpouse,

	models.RelFather: GenParents,
	models.RelMother: GenParents,

	models.RelStepfather:  GenStepParents,
	models.RelStepmother:  GenStepParents,
	models.RelFatherInLaw: GenStepParents,
	models.RelMotherInLaw: GenStepParents,

	models.RelGrandfather: GenGrandparents,
	models.RelGrandmother: GenGrandparents,

	models.RelGreatGrandfather: GenGreatGrandparents,
	models.RelGreatGrandmother: GenGreatGrandparents,

	models.RelSon:             GenChildren,
	models.RelDaughter:        GenChildren,
	models.RelStepson:         GenChildren,
	models.RelStepdaughter:    GenChildren,
	models.RelAdoptedSon:      GenChildren,
	models.RelAdoptedDaughter: GenChildren,

	models.RelGrandson:      GenGrandchildren,
	models.RelGranddaughter: GenGrandchildren,

	models.RelGreatGrandson:      GenGreatGrandchildren,
	models.RelGreatGranddaughter: GenGreatGrandchildren,

	models.RelBrother:     GenSiblings,
	models.RelSister:      GenSiblings,
	models.RelStepbrother: GenSiblings,
	models.RelStepsister:  GenSiblings,

	models.RelExSpouse: GenExSpouse,

	models.RelNephew: GenNiecesNephews,
	models.RelNiece:  GenNiecesNephews,
}

// GenerationLevel places a relationship on the generational axis. Unmapped
// labels fall back to the admin level; that is a documented default, not an
// error.
func GenerationLevel(rel models.Relationship) string {
	if level, ok := generationLevels[rel]; ok {
		return level
	}
	return GenAdminSpouse
}
