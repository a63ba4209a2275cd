// Package llm provides chat-completion clients for the extraction engine.
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the ordered prompt the extraction engine receives.
// Content is plain text; an optional image rides alongside it on user turns.
type Message struct {
	Role    Role
	Content string
	// Image is optional raw photo bytes attached to a user message.
	Image []byte
	// ImageMIME is the content type of Image, e.g. "image/jpeg".
	ImageMIME string
}

// ChatClient is the extraction-engine contract: an ordered message list in,
// the first choice's free text out. Use this interface for dependency
// injection to enable mocking in tests.
type ChatClient interface {
	// CreateCompletion sends the ordered messages and returns the first
	// choice's content.
	CreateCompletion(ctx context.Context, messages []Message) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure implementations satisfy ChatClient at compile time.
var (
	_ ChatClient = (*OpenAIClient)(nil)
	_ ChatClient = (*AnthropicClient)(nil)
	_ ChatClient = (*MockChatClient)(nil)
)
