package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImpliedGender(t *testing.T) {
	tests := []struct {
		rel     Relationship
		gender  Gender
		implied bool
	}{
		{RelFather, GenderMale, true},
		{RelSon, GenderMale, true},
		{RelBrother, GenderMale, true},
		{RelMother, GenderFemale, true},
		{RelDaughter, GenderFemale, true},
		{RelSister, GenderFemale, true},
		// A spouse's gender is never implied by the label.
		{RelSpouse, GenderUnset, false},
		{RelGrandfather, GenderUnset, false},
		{RelOther, GenderUnset, false},
		{Relationship("Cousin"), GenderUnset, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.rel), func(t *testing.T) {
			gender, implied := tt.rel.ImpliedGender()
			assert.Equal(t, tt.gender, gender)
			assert.Equal(t, tt.implied, implied)
		})
	}
}

func TestRequiresExplicitGender(t *testing.T) {
	assert.True(t, RelSpouse.RequiresExplicitGender())

	for rel := range map[Relationship]struct{}{
		RelAdmin: {}, RelFather: {}, RelMother: {}, RelSon: {}, RelDaughter: {},
		RelBrother: {}, RelSister: {}, RelExSpouse: {}, RelOther: {},
	} {
		assert.False(t, rel.RequiresExplicitGender(), "only Spouse shows the gender field, got %s", rel)
	}
}

func TestParseRelationship(t *testing.T) {
	t.Run("strips legacy deceased prefix", func(t *testing.T) {
		rel, deceased := ParseRelationship("Deceased-Father")
		assert.Equal(t, RelFather, rel)
		assert.True(t, deceased)
	})

	t.Run("plain label passes through", func(t *testing.T) {
		rel, deceased := ParseRelationship("Granddaughter")
		assert.Equal(t, RelGranddaughter, rel)
		assert.False(t, deceased)
	})
}

func TestCategoryCoversVocabulary(t *testing.T) {
	known := []Relationship{
		RelAdmin, RelFather, RelMother, RelSon, RelDaughter,
		RelStepfather, RelStepmother, RelStepson, RelStepdaughter,
		RelStepbrother, RelStepsister,
		RelFatherInLaw, RelMotherInLaw, RelGrandfatherInLaw, RelGrandmotherInLaw,
		RelGrandfather, RelGrandmother, RelGreatGrandfather, RelGreatGrandmother,
		RelGrandson, RelGranddaughter, RelGreatGrandson, RelGreatGranddaughter,
		RelGreatGreatGrandson, RelGreatGreatGranddaughter,
		RelBrother, RelSister, RelNephew, RelNiece, RelGreatNephew, RelGreatNiece,
		RelAdoptedSon, RelAdoptedDaughter,
		RelSpouse, RelExSpouse, RelOther,
	}
	for _, rel := range known {
		assert.True(t, rel.Known(), "%s must be in the closed vocabulary", rel)
		assert.NotEqual(t, CategoryUnknown, rel.Category(), "%s must have a category", rel)
	}
	assert.False(t, Relationship("Cousin").Known())
	assert.Equal(t, CategoryUnknown, Relationship("Cousin").Category())
}
