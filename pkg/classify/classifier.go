// Package classify decides whether a user utterance warrants web search
// grounding before the extraction prompt is composed.
package classify

import "strings"

// foodVocabulary is the fixed food/meal/brand token list. A single hit is
// enough to trigger grounding. Tokens are matched case-insensitively as
// substrings of the utterance.
var foodVocabulary = []string{
	// meals and generic food words
	"food", "meal", "breakfast", "lunch", "dinner", "snack", "calorie",
	"calories", "kcal", "nutrition", "macro", "macros", "protein", "carb",
	"carbs", "fat", "serving", "recipe", "ingredient", "menu", "eat", "ate",
	"drank", "drink",
	// common foods
	"chicken", "beef", "pork", "fish", "salmon", "tuna", "egg", "eggs",
	"rice", "pasta", "bread", "toast", "sandwich", "burger", "pizza",
	"salad", "soup", "burrito", "taco", "wrap", "fries", "chips", "cheese",
	"yogurt", "yoghurt", "milk", "coffee", "latte", "smoothie", "shake",
	"banana", "apple", "orange", "avocado", "oats", "oatmeal", "porridge",
	"cereal", "steak", "sausage", "bacon", "noodles", "sushi", "kebab",
	"curry", "stir fry", "omelette", "omelet", "pancake", "muffin",
	"chocolate", "biscuit", "cookie", "cake", "ice cream", "protein bar",
	// brands
	"mcdonald", "big mac", "kfc", "subway", "domino", "hungry jack",
	"burger king", "nando", "guzman", "grill'd", "grilld", "red rooster",
	"oporto", "zambrero", "sushi hub", "boost juice",
}

// infoMarkers are generic information-seeking phrasings that also warrant a
// search even without a vocabulary hit.
var infoMarkers = []string{
	"give me", "find me", "show me", "i want", "i need", "how many", "what",
}

// MentionsFood reports whether the utterance names a food, meal, or brand
// from the fixed vocabulary. Pure and deterministic; empty input returns
// false.
func MentionsFood(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, token := range foodVocabulary {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// ShouldSearch reports whether the utterance should be grounded with a web
// search. Pure and deterministic; unknown or empty input returns false.
func ShouldSearch(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}

	if MentionsFood(lower) {
		return true
	}

	if strings.Contains(lower, "?") {
		return true
	}
	for _, marker := range infoMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}
