package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

func TestScoreOfficialBrandFlagship(t *testing.T) {
	conf := Score("Big Mac logged - 563 calories", []string{"mcdonalds.com.au"})
	assert.Equal(t, 0.95, conf.Confidence)
	assert.Equal(t, models.SourceWebsiteOfficial, conf.Source)
	require.NotNil(t, conf.NutritionEstimate)
	require.NotNil(t, conf.NutritionEstimate.Calories)
	assert.Equal(t, 563, *conf.NutritionEstimate.Calories)
}

func TestScoreOfficialBrandNonFlagship(t *testing.T) {
	conf := Score("Garden salad logged - 120 calories", []string{"www.mcdonalds.com.au"})
	assert.Equal(t, 0.90, conf.Confidence)
	assert.Equal(t, models.SourceWebsiteOfficial, conf.Source)
}

func TestScoreNutritionDatabase(t *testing.T) {
	conf := Score("Pad thai logged - 620 calories", []string{"nutritionix.com"})
	assert.Equal(t, 0.90, conf.Confidence)
	assert.Equal(t, models.SourceDatabaseVerified, conf.Source)
}

func TestScoreDecisionListOrder(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		domains    []string
		confidence float64
		source     models.ConfidenceSource
	}{
		{
			name:       "logged line with figure, no grounding",
			text:       "Lamb souvlaki logged - 540 calories",
			confidence: 0.85,
			source:     models.SourceCommonFood,
		},
		{
			name:       "branded product",
			text:       "Up&Go chocolate breakfast drink",
			confidence: 0.80,
			source:     models.SourceBrandedProduct,
		},
		{
			name:       "common generic food",
			text:       "grilled chicken breast with salad",
			confidence: 0.75,
			source:     models.SourceCommonFood,
		},
		{
			name:       "homemade dish",
			text:       "homemade lasagna, medium slice",
			confidence: 0.70,
			source:     models.SourceHomemade,
		},
		{
			name:       "search ran but nothing matched",
			text:       "mystery street dish",
			domains:    []string{"someblog.example.org"},
			confidence: 0.65,
			source:     models.SourceEstimated,
		},
		{
			name:       "no grounding at all",
			text:       "mystery street dish",
			confidence: 0.50,
			source:     models.SourceUserDescribed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Score(tt.text, tt.domains)
			assert.Equal(t, tt.confidence, conf.Confidence)
			assert.Equal(t, tt.source, conf.Source)
		})
	}
}

// Fixed text must never score lower with stronger grounding.
func TestScoreOrderingIsTotal(t *testing.T) {
	text := "Big Mac logged - 563 calories"

	official := Score(text, []string{"mcdonalds.com.au"})
	database := Score(text, []string{"nutritionix.com"})
	none := Score(text, nil)

	assert.GreaterOrEqual(t, official.Confidence, database.Confidence)
	assert.GreaterOrEqual(t, database.Confidence, none.Confidence)
	assert.GreaterOrEqual(t, official.Source.Strength(), database.Source.Strength())
	assert.GreaterOrEqual(t, database.Source.Strength(), none.Source.Strength())
}

func TestScoreIsDeterministic(t *testing.T) {
	text := "homemade pumpkin soup"
	first := Score(text, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(text, nil))
	}
}

func TestScoreNoCalorieFigureLeavesEstimateNil(t *testing.T) {
	conf := Score("grilled chicken breast", nil)
	assert.Nil(t, conf.NutritionEstimate)
}

func TestScoreKcalUnit(t *testing.T) {
	conf := Score("muesli bowl, 410 kcal", nil)
	require.NotNil(t, conf.NutritionEstimate)
	assert.Equal(t, 410, *conf.NutritionEstimate.Calories)
}

func TestSourceStrengthOrdering(t *testing.T) {
	ordered := []models.ConfidenceSource{
		models.SourceWebsiteOfficial,
		models.SourceDatabaseVerified,
		models.SourceCommonFood,
		models.SourceBrandedProduct,
		models.SourceHomemade,
		models.SourceEstimated,
		models.SourceUserDescribed,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i-1].Strength(), ordered[i].Strength())
	}
}
