package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/apperrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*OpenAIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client, err := NewOpenAIClient(&Config{
		Endpoint: server.URL + "/v1",
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	}, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func TestOpenAIClientReturnsFirstChoice(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"2 eggs = 140 calories"}}],"usage":{"prompt_tokens":10,"completion_tokens":7,"total_tokens":17}}`))
	})
	defer server.Close()

	got, err := client.CreateCompletion(context.Background(), []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleUser, Content: "2 eggs"},
	})

	require.NoError(t, err)
	assert.Equal(t, "2 eggs = 140 calories", got)
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[],"usage":{}}`))
	})
	defer server.Close()

	_, err := client.CreateCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyChoices))
}

func TestNewOpenAIClientRequiresCredential(t *testing.T) {
	_, err := NewOpenAIClient(&Config{Model: "gpt-4o-mini"}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoLLMCredential))
}

func TestNewChatClientFactory(t *testing.T) {
	openaiClient, err := NewChatClient(&Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", openaiClient.Model())

	anthropicClient, err := NewChatClient(&Config{Provider: ProviderAnthropic, Model: "claude-3-5-haiku-latest", APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", anthropicClient.Model())

	_, err = NewChatClient(&Config{Provider: "cohere", Model: "x", APIKey: "k"}, zap.NewNop())
	assert.Error(t, err)
}

func TestToOpenAIMessageWithImage(t *testing.T) {
	msg := toOpenAIMessage(Message{
		Role:      RoleUser,
		Content:   "what is this meal",
		Image:     []byte{0xFF, 0xD8},
		ImageMIME: "image/jpeg",
	})

	assert.Empty(t, msg.Content)
	require.Len(t, msg.MultiContent, 2)
	assert.Contains(t, msg.MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,")
}
