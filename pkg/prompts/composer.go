package prompts

import (
	"github.com/mealmind-inc/mealmind-engine/pkg/llm"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

// Turn is one completed exchange kept as conversation history.
type Turn struct {
	UserText      string
	AssistantText string
}

// ComposeInput carries everything the composer may inject around the fixed
// persona.
type ComposeInput struct {
	// Search is optional grounding; ignored when empty.
	Search *models.SearchContext
	// AskMealType injects the meal-type-only override.
	AskMealType bool
	// History is recent completed turns, oldest first.
	History []Turn
	// Request is the current user turn, placed last.
	Request models.LogRequest
}

// Compose assembles the ordered message list: persona, optional grounding
// block, optional meal-type override, history (user before assistant,
// oldest first), current turn last. These are the only injection points;
// the persona text itself never changes with user input.
func Compose(in ComposeInput) []llm.Message {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: Persona}}

	if !in.Search.Empty() {
		messages = append(messages, llm.Message{
			Role:    llm.RoleSystem,
			Content: GroundingPreamble + "\n\n" + in.Search.Context,
		})
	}

	if in.AskMealType {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: MealTypeOverride})
	}

	for _, turn := range in.History {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.UserText},
			llm.Message{Role: llm.RoleAssistant, Content: turn.AssistantText},
		)
	}

	current := llm.Message{
		Role:      llm.RoleUser,
		Content:   in.Request.Text,
		Image:     in.Request.Image,
		ImageMIME: in.Request.ImageMIME,
	}
	return append(messages, current)
}
