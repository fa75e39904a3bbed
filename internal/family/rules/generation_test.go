package rules

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"nachlass/internal/family/models"
)

func TestGenerationLevel(t *testing.T) {
	tests := []struct {
		rel   models.Relationship
		level string
	}{
		{models.RelAdmin, "0.0"},
		{models.RelSpouse, "0.0"},
		{models.RelFather, "-1.0"},
		{models.RelMother, "-1.0"},
		{models.RelStepfather, "-1.1"},
		{models.RelMotherInLaw, "-1.1"},
		{models.RelGrandfather, "-2"},
		{models.RelGreatGrandmother, "-3"},
		{models.RelSon, "1.0"},
		{models.RelAdoptedDaughter, "1.0"},
		{models.RelStepson, "1.0"},
		{models.RelGrandson, "2"},
		{models.RelGreatGranddaughter, "3"},
		{models.RelBrother, "0.1"},
		{models.RelStepsister, "0.1"},
		{models.RelExSpouse, "0.2"},
		{models.RelNephew, "1.1"},
		{models.RelNiece, "1.1"},
		// Documented fallback, not an error.
		{models.RelOther, "0.0"},
		{models.Relationship("Cousin"), "0.0"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rel), func(t *testing.T) {
			assert.Equal(t, tt.level, GenerationLevel(tt.rel))
		})
	}
}

// TestGenerationMonotonicity pins the ordering of the generational axis:
// grandparents < parents < admin < children < grandchildren.
func TestGenerationMonotonicity(t *testing.T) {
	numeric := func(rel models.Relationship) float64 {
		v, err := strconv.ParseFloat(GenerationLevel(rel), 64)
		assert.NoError(t, err)
		return v
	}

	assert.Equal(t, GenerationLevel(models.RelAdmin), GenerationLevel(models.RelSpouse))
	assert.Less(t, numeric(models.RelFather), numeric(models.RelAdmin))
	assert.Less(t, numeric(models.RelGrandfather), numeric(models.RelFather))
	assert.Less(t, numeric(models.RelGreatGrandfather), numeric(models.RelGrandfather))
	assert.Greater(t, numeric(models.RelSon), numeric(models.RelAdmin))
	assert.Greater(t, numeric(models.RelGrandson), numeric(models.RelSon))
	assert.Greater(t, numeric(models.RelGreatGrandson), numeric(models.RelGrandson))
}
