package rules

import "nachlass/internal/family/models"

// anchorStep maps an anchor's resolved relationship to the label a newly
// attached Son/Daughter actually gets. A single-level lookup is sufficient
// because every stored relationship is already fully resolved: the anchor's
// own label encodes its distance from the admin.
var anchorStep = map[models.Relationship]map[models.Relationship]models.Relationship{
	// Children of children become grandchildren.
	models.RelSon:      {models.RelSon: models.RelGrandson, models.RelDaughter: models.RelGranddaughter},
	models.RelDaughter: {models.RelSon: models.RelGrandson, models.RelDaughter: models.RelGranddaughter},

	// Children of siblings become nieces/nephews.
	models.RelBrother: {models.RelSon: models.RelNephew, models.RelDaughter: models.RelNiece},
	models.RelSister:  {models.RelSon: models.RelNephew, models.RelDaughter: models.RelNiece},

	// Children of nieces/nephews become great-nieces/great-nephews.
	models.RelNephew: {models.RelSon: models.RelGreatNephew, models.RelDaughter: models.RelGreatNiece},
	models.RelNiece:  {models.RelSon: models.RelGreatNephew, models.RelDaughter: models.RelGreatNiece},

	// Children of grandchildren become great-grandchildren.
	models.RelGrandson:      {models.RelSon: models.RelGreatGrandson, models.RelDaughter: models.RelGreatGranddaughter},
	models.RelGranddaughter: {models.RelSon: models.RelGreatGrandson, models.RelDaughter: models.RelGreatGranddaughter},

	// Children of great-grandchildren become great-great-grandchildren.
	models.RelGreatGrandson:      {models.RelSon: models.RelGreatGreatGrandson, models.RelDaughter: models.RelGreatGreatGranddaughter},
	models.RelGreatGranddaughter: {models.RelSon: models.RelGreatGreatGrandson, models.RelDaughter: models.RelGreatGreatGranddaughter},

	// Parents of the spouse become parents-in-law.
	models.RelSpouse: {models.RelFather: models.RelFatherInLaw, models.RelMother: models.RelMotherInLaw},
}

// ActualRelationship computes the true effective label for a relationship
// selected from the base vocabulary relative to an anchor. Unmapped
// combinations pass the selection through unchanged.
func ActualRelationship(selected, anchor models.Relationship) models.Relationship {
	if steps, ok := anchorStep[anchor]; ok {
		if resolved, ok := steps[selected]; ok {
			return resolved
		}
	}
	return selected
}
