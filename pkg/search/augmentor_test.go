package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/events"
)

type fakeSearcher struct {
	results   []Result
	err       error
	lastQuery string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]Result, error) {
	f.lastQuery = query
	return f.results, f.err
}

func TestAugmentQueryPhrasing(t *testing.T) {
	tests := []struct {
		name string
		text string
		mode Mode
		want string
	}{
		{
			name: "brand mention gets menu phrasing",
			text: "Big Mac from McDonald's",
			mode: ModeNutrition,
			want: "Big Mac from McDonald's nutrition calories menu AU",
		},
		{
			name: "restaurant mode forces menu phrasing",
			text: "quarter pounder meal",
			mode: ModeRestaurantMenu,
			want: "quarter pounder meal nutrition calories menu AU",
		},
		{
			name: "calorie question gets nutrition facts",
			text: "how many calories in 2 eggs",
			mode: ModeNutrition,
			want: "how many calories in 2 eggs calories nutrition facts",
		},
		{
			name: "recipe text gets recipe phrasing",
			text: "lasagna I made with beef mince",
			mode: ModeNutrition,
			want: "lasagna I made with beef mince recipe ingredients instructions cooking",
		},
		{
			name: "fallback is nutrition facts",
			text: "greek salad",
			mode: ModeNutrition,
			want: "greek salad calories nutrition facts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearcher{}
			a := NewAugmentor(fake, "AU", nil, zap.NewNop())
			_, err := a.Augment(context.Background(), tt.text, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fake.lastQuery)
		})
	}
}

func TestAugmentBuildsContextAndDomains(t *testing.T) {
	fake := &fakeSearcher{results: []Result{
		{
			Title:         "Big Mac | McDonald's AU",
			URL:           "https://www.mcdonalds.com.au/menu/big-mac",
			Description:   "563 calories per burger",
			ExtraSnippets: []string{"Protein 25g, Carbs 44g"},
		},
		{
			Title:       "Big Mac Calories",
			URL:         "https://nutritionix.com/food/big-mac",
			Description: "Verified nutrition data",
		},
	}}

	a := NewAugmentor(fake, "AU", nil, zap.NewNop())
	sc, err := a.Augment(context.Background(), "big mac", ModeNutrition)

	require.NoError(t, err)
	assert.Equal(t, []string{"mcdonalds.com.au", "nutritionix.com"}, sc.Domains)
	assert.Contains(t, sc.Context, "Big Mac | McDonald's AU")
	assert.Contains(t, sc.Context, "563 calories per burger")
	assert.Contains(t, sc.Context, "Protein 25g, Carbs 44g")
	assert.Contains(t, sc.Context, "[REAL URL: https://www.mcdonalds.com.au/menu/big-mac]")
	assert.Equal(t, 2, strings.Count(sc.Context, "[REAL URL:"))
	assert.Contains(t, sc.Context, resultDelimiter)
}

func TestAugmentEmptyResultsYieldEmptyContext(t *testing.T) {
	fake := &fakeSearcher{}
	a := NewAugmentor(fake, "AU", nil, zap.NewNop())

	sc, err := a.Augment(context.Background(), "qzxv", ModeNutrition)

	require.NoError(t, err)
	assert.True(t, sc.Empty())
	assert.Empty(t, sc.Domains)
}

func TestAugmentEmitsEvents(t *testing.T) {
	capture := events.NewCaptureEmitter()
	fake := &fakeSearcher{results: []Result{{Title: "t", URL: "https://example.com"}}}
	a := NewAugmentor(fake, "AU", capture, zap.NewNop())

	_, err := a.Augment(context.Background(), "banana", ModeNutrition)
	require.NoError(t, err)

	assert.Len(t, capture.Named(events.SearchStarted), 1)
	assert.Len(t, capture.Named(events.SearchCompleted), 1)
	assert.Empty(t, capture.Named(events.SearchFailed))
}
