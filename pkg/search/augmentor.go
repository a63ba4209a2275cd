package search

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/events"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

// Mode selects the grounding query phrasing.
type Mode string

const (
	// ModeNutrition grounds a food description with nutrition facts.
	ModeNutrition Mode = "nutrition"
	// ModeRestaurantMenu grounds a restaurant/brand mention with menu data.
	ModeRestaurantMenu Mode = "restaurantMenu"
)

// resultDelimiter separates result blocks inside the concatenated context.
const resultDelimiter = "\n---\n"

// restaurantBrands are brand tokens that steer the query toward menu data.
var restaurantBrands = []string{
	"mcdonald", "kfc", "subway", "domino", "hungry jack", "burger king",
	"nando", "guzman", "grill'd", "grilld", "red rooster", "oporto",
	"zambrero", "sushi hub", "boost juice",
}

// recipeMarkers flag ingredient-bearing text that benefits from recipe data.
var recipeMarkers = []string{
	"recipe", "ingredient", "ingredients", "cooked", "baked", "made with",
	"i made", "how do i make", "how to make",
}

// calorieQuestionMarkers flag explicit calorie/quantity questions.
var calorieQuestionMarkers = []string{
	"calorie", "calories", "kcal", "how many", "how much",
}

// Augmentor turns user text into a grounded SearchContext.
type Augmentor struct {
	searcher Searcher
	region   string
	emitter  events.Emitter
	logger   *zap.Logger
}

// NewAugmentor creates an Augmentor over the given searcher. The region is
// appended to menu queries so brand results match the local menu.
func NewAugmentor(searcher Searcher, region string, emitter events.Emitter, logger *zap.Logger) *Augmentor {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &Augmentor{
		searcher: searcher,
		region:   region,
		emitter:  emitter,
		logger:   logger.Named("augmentor"),
	}
}

// Augment runs a grounding search and normalizes the results. An empty
// result set yields an empty SearchContext and a nil error; callers treat
// that as "could not ground".
func (a *Augmentor) Augment(ctx context.Context, text string, mode Mode) (*models.SearchContext, error) {
	query := a.buildQuery(text, mode)

	a.emitter.Emit(events.Event{Name: events.SearchStarted, Fields: map[string]any{"query": query}})
	start := time.Now()

	results, err := a.searcher.Search(ctx, query)
	if err != nil {
		a.emitter.Emit(events.Event{Name: events.SearchFailed, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}

	sc := buildContext(results)
	a.emitter.Emit(events.Event{Name: events.SearchCompleted, Fields: map[string]any{
		"results": len(results),
		"elapsed": time.Since(start).String(),
	}})
	return sc, nil
}

// buildQuery picks the query phrasing: brand mentions get menu phrasing,
// explicit calorie questions get nutrition facts, recipe-bearing text gets
// recipe phrasing, everything else falls back to nutrition facts.
func (a *Augmentor) buildQuery(text string, mode Mode) string {
	lower := strings.ToLower(text)

	if mode == ModeRestaurantMenu || containsAny(lower, restaurantBrands) {
		return text + " nutrition calories menu " + a.region
	}
	if containsAny(lower, calorieQuestionMarkers) {
		return text + " calories nutrition facts"
	}
	if containsAny(lower, recipeMarkers) {
		return text + " recipe ingredients instructions cooking"
	}
	return text + " calories nutrition facts"
}

// buildContext concatenates results into title/description/snippet blocks
// tagged with their literal source URLs and collects hostnames in result
// order. Duplicate hostnames are kept.
func buildContext(results []Result) *models.SearchContext {
	if len(results) == 0 {
		return &models.SearchContext{}
	}

	blocks := make([]string, 0, len(results))
	domains := make([]string, 0, len(results))
	for _, r := range results {
		var b strings.Builder
		b.WriteString(r.Title)
		if r.Description != "" {
			b.WriteString("\n")
			b.WriteString(r.Description)
		}
		if len(r.ExtraSnippets) > 0 {
			b.WriteString("\n")
			b.WriteString(r.ExtraSnippets[0])
		}
		b.WriteString("\n[REAL URL: ")
		b.WriteString(r.URL)
		b.WriteString("]")
		blocks = append(blocks, b.String())

		if host := hostname(r.URL); host != "" {
			domains = append(domains, host)
		}
	}

	return &models.SearchContext{
		Context: strings.Join(blocks, resultDelimiter),
		Domains: domains,
	}
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
