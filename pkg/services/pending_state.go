package services

import "github.com/mealmind-inc/mealmind-engine/pkg/models"

// pendingState is the discriminated confirmation state of one conversation.
// Exactly one variant is held at a time; transitions happen only under the
// conversation lock. The tagged variants replace informally-exclusive
// nullable fields so a state can never be half of two things.
type pendingState interface {
	stateName() string
}

// stateIdle means nothing is pending.
type stateIdle struct{}

func (stateIdle) stateName() string { return StateIdle }

// stateAwaitingMealType retains the user's original, still-unanswered text
// (not the model's question) so it can be re-issued through the full
// pipeline once the meal type arrives.
type stateAwaitingMealType struct {
	originalText string
}

func (stateAwaitingMealType) stateName() string { return StateAwaitingMealType }

// stateAwaitingConfirmation retains the sanitized model answer verbatim as
// the extraction source, together with the judgments made when the answer
// arrived. A newer loggable answer replaces this wholesale.
type stateAwaitingConfirmation struct {
	answerText string
	mealType   *models.MealType
	confidence models.FoodConfidence
}

func (stateAwaitingConfirmation) stateName() string { return StateAwaitingConfirmation }

// stateAwaitingWeight is the parallel two-step weight path; it is mutually
// exclusive with a pending food extraction by construction.
type stateAwaitingWeight struct {
	kilograms float64
}

func (stateAwaitingWeight) stateName() string { return StateAwaitingWeight }

// Public state names, surfaced on TurnResult for callers and tests.
const (
	StateIdle                 = "idle"
	StateAwaitingMealType     = "awaiting_meal_type"
	StateAwaitingConfirmation = "awaiting_confirmation"
	StateAwaitingWeight       = "awaiting_weight_confirmation"
)
