package models

// ExtractedItem is one candidate food or exercise line parsed from model
// output. It lives only until the pending confirmation is committed or
// cancelled.
type ExtractedItem struct {
	Name string `json:"name"`
	// Calories is always non-negative; Burned carries the sign. The
	// persisted FoodEntry negates Calories when Burned is true.
	Calories int      `json:"calories"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Burned   bool     `json:"burned"`
}

// SignedCalories returns the calorie figure with the energy-burned sign
// applied.
func (i *ExtractedItem) SignedCalories() int {
	if i.Burned {
		return -i.Calories
	}
	return i.Calories
}
