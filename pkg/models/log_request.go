package models

// LogRequest is one user utterance entering the pipeline. It is consumed
// immediately and never persisted.
type LogRequest struct {
	Text string `json:"text"`
	// Image is optional raw photo bytes attached to the utterance.
	Image []byte `json:"-"`
	// ImageMIME is the content type of Image when present.
	ImageMIME string `json:"-"`
	// MealTypeHint is an explicit meal-type selection carried with the
	// request, nil when the user has not picked one.
	MealTypeHint *MealType `json:"meal_type_hint,omitempty"`
}

// SearchContext is grounding material from one web search. It is held only
// for the duration of a single extraction and never persisted.
type SearchContext struct {
	// Context concatenates each result as a title/description/snippet block
	// tagged with its source URL.
	Context string `json:"context"`
	// Domains lists result hostnames in result order. Duplicates are kept.
	Domains []string `json:"domains"`
}

// Empty reports whether the search produced no usable grounding text.
// Callers treat an empty context as "could not ground", not as an error.
func (s *SearchContext) Empty() bool {
	return s == nil || s.Context == ""
}
