// Package models contains domain types for mealmind-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MealType identifies the meal slot a food entry is logged against.
type MealType string

// Meal slot constants.
const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// String returns the string representation of a MealType.
func (m MealType) String() string {
	return string(m)
}

// IsValid returns true if the meal type is one of the known slots.
func (m MealType) IsValid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	default:
		return false
	}
}

// ParseMealType matches a meal-type keyword in free text, case-insensitively.
// Returns nil if the text names no meal slot.
func ParseMealType(text string) *MealType {
	lower := lowerTrim(text)
	for _, m := range []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack} {
		if containsWord(lower, string(m)) {
			mt := m
			return &mt
		}
	}
	return nil
}

// FoodEntry is the durable, persisted record for one logged food or exercise.
// Calories are signed: positive for energy consumed, negative for energy
// burned. A single entry is never both. MealType is nil for exercise entries.
// Entries are never mutated in place; corrections are new entries.
type FoodEntry struct {
	ID       uuid.UUID        `json:"id"`
	OwnerID  uuid.UUID        `json:"owner_id"`
	Name     string           `json:"name"`
	Calories int              `json:"calories"`
	Protein  *float64         `json:"protein,omitempty"`
	Carbs    *float64         `json:"carbs,omitempty"`
	Fat      *float64         `json:"fat,omitempty"`
	// Confidence is in [0,1]; Source explains why it was assigned.
	Confidence float64          `json:"confidence"`
	Source     ConfidenceSource `json:"confidence_source"`
	MealType   *MealType        `json:"meal_type,omitempty"`
	LoggedAt   time.Time        `json:"logged_at"`
}

// IsExercise reports whether the entry records energy burned.
func (e *FoodEntry) IsExercise() bool {
	return e.Calories < 0
}

// WeightEntry is a persisted body-weight measurement.
type WeightEntry struct {
	ID       uuid.UUID `json:"id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Kilogram float64   `json:"kilograms"`
	LoggedAt time.Time `json:"logged_at"`
}
