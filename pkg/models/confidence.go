package models

import "strings"

// ConfidenceSource explains why a confidence score was assigned to an
// extracted item. The set is closed; strength ordering is total and stable.
type ConfidenceSource string

// Provenance tags, strongest grounding first.
const (
	SourceWebsiteOfficial  ConfidenceSource = "websiteOfficial"  // official brand domain backed the search
	SourceDatabaseVerified ConfidenceSource = "databaseVerified" // third-party nutrition database backed the search
	SourceCommonFood       ConfidenceSource = "commonFood"       // generic food term heuristic
	SourceBrandedProduct   ConfidenceSource = "brandedProduct"   // branded packaged product heuristic
	SourceHomemade         ConfidenceSource = "homemade"         // homemade-dish heuristic
	SourceEstimated        ConfidenceSource = "estimated"        // search ran but nothing stronger matched
	SourceUserDescribed    ConfidenceSource = "userDescribed"    // no grounding at all
)

// String returns the string representation of a ConfidenceSource.
func (s ConfidenceSource) String() string {
	return string(s)
}

// IsValid returns true if the source is a known provenance tag.
func (s ConfidenceSource) IsValid() bool {
	switch s {
	case SourceWebsiteOfficial, SourceDatabaseVerified, SourceCommonFood,
		SourceBrandedProduct, SourceHomemade, SourceEstimated, SourceUserDescribed:
		return true
	default:
		return false
	}
}

// Strength returns the grounding rank of the provenance tag, higher is
// stronger. Used in tests to assert the ordering invariant.
func (s ConfidenceSource) Strength() int {
	switch s {
	case SourceWebsiteOfficial:
		return 6
	case SourceDatabaseVerified:
		return 5
	case SourceCommonFood:
		return 4
	case SourceBrandedProduct:
		return 3
	case SourceHomemade:
		return 2
	case SourceEstimated:
		return 1
	default:
		return 0
	}
}

// NutritionEstimate holds calorie and macro figures recovered directly from
// candidate text. All fields are optional; a missing figure stays nil.
type NutritionEstimate struct {
	Calories *int     `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// FoodConfidence is the confidence judgment attached to one extracted item.
// It is used for scoring only and is never a persistence key.
type FoodConfidence struct {
	ItemName          string             `json:"item_name"`
	Confidence        float64            `json:"confidence"` // in [0,1]
	Source            ConfidenceSource   `json:"source"`
	NutritionEstimate *NutritionEstimate `json:"nutrition_estimate,omitempty"`
}

// lowerTrim lowercases and trims text for keyword matching.
func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// containsWord reports whether lower contains the word with non-letter
// boundaries on both sides. lower must already be lowercase.
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		leftOK := start == 0 || !isLetter(lower[start-1])
		rightOK := end == len(lower) || !isLetter(lower[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
		if idx >= len(lower) {
			return false
		}
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
