package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmind-inc/mealmind-engine/pkg/llm"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

func TestComposeMinimal(t *testing.T) {
	msgs := Compose(ComposeInput{Request: models.LogRequest{Text: "2 eggs"}})

	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, Persona, msgs[0].Content)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t, "2 eggs", msgs[1].Content)
}

func TestComposeInjectsGrounding(t *testing.T) {
	sc := &models.SearchContext{
		Context: "Big Mac | 563 calories\n[REAL URL: https://mcdonalds.com.au/big-mac]",
		Domains: []string{"mcdonalds.com.au"},
	}
	msgs := Compose(ComposeInput{Search: sc, Request: models.LogRequest{Text: "big mac"}})

	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleSystem, msgs[1].Role)
	assert.True(t, strings.HasPrefix(msgs[1].Content, GroundingPreamble))
	assert.Contains(t, msgs[1].Content, "563 calories")
}

func TestComposeSkipsEmptyGrounding(t *testing.T) {
	msgs := Compose(ComposeInput{Search: &models.SearchContext{}, Request: models.LogRequest{Text: "x"}})
	require.Len(t, msgs, 2)

	msgs = Compose(ComposeInput{Search: nil, Request: models.LogRequest{Text: "x"}})
	require.Len(t, msgs, 2)
}

func TestComposeMealTypeOverride(t *testing.T) {
	msgs := Compose(ComposeInput{AskMealType: true, Request: models.LogRequest{Text: "chicken sandwich"}})

	require.Len(t, msgs, 3)
	assert.Equal(t, MealTypeOverride, msgs[1].Content)
}

func TestComposeHistoryOrdering(t *testing.T) {
	history := []Turn{
		{UserText: "first question", AssistantText: "first answer"},
		{UserText: "second question", AssistantText: "second answer"},
	}
	msgs := Compose(ComposeInput{History: history, Request: models.LogRequest{Text: "now"}})

	require.Len(t, msgs, 6)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t, "first question", msgs[1].Content)
	assert.Equal(t, llm.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "first answer", msgs[2].Content)
	assert.Equal(t, "second question", msgs[3].Content)
	assert.Equal(t, "now", msgs[5].Content)
	assert.Equal(t, llm.RoleUser, msgs[5].Role)
}

func TestComposeCurrentTurnCarriesImage(t *testing.T) {
	msgs := Compose(ComposeInput{Request: models.LogRequest{
		Text:      "what is this",
		Image:     []byte{1, 2, 3},
		ImageMIME: "image/png",
	}})

	last := msgs[len(msgs)-1]
	assert.Equal(t, []byte{1, 2, 3}, last.Image)
	assert.Equal(t, "image/png", last.ImageMIME)
}

func TestComposeFullOrdering(t *testing.T) {
	sc := &models.SearchContext{Context: "facts"}
	msgs := Compose(ComposeInput{
		Search:      sc,
		AskMealType: true,
		History:     []Turn{{UserText: "u", AssistantText: "a"}},
		Request:     models.LogRequest{Text: "current"},
	})

	require.Len(t, msgs, 6)
	assert.Equal(t, Persona, msgs[0].Content)
	assert.Contains(t, msgs[1].Content, GroundingPreamble)
	assert.Equal(t, MealTypeOverride, msgs[2].Content)
	assert.Equal(t, "u", msgs[3].Content)
	assert.Equal(t, "a", msgs[4].Content)
	assert.Equal(t, "current", msgs[5].Content)
}
