package llm

import "context"

// MockChatClient is a configurable mock for testing pipeline behavior.
// Set CreateCompletionFunc to control responses; calls are tracked.
type MockChatClient struct {
	// CreateCompletionFunc is called when CreateCompletion is invoked.
	// If nil, returns empty content and nil error.
	CreateCompletionFunc func(ctx context.Context, messages []Message) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// CreateCompletionCalls counts invocations.
	CreateCompletionCalls int

	// LastMessages holds the messages of the most recent call.
	LastMessages []Message
}

// NewMockChatClient creates a new mock with sensible defaults.
func NewMockChatClient() *MockChatClient {
	return &MockChatClient{ModelName: "mock-model"}
}

// CreateCompletion implements ChatClient.
func (m *MockChatClient) CreateCompletion(ctx context.Context, messages []Message) (string, error) {
	m.CreateCompletionCalls++
	m.LastMessages = messages
	if m.CreateCompletionFunc != nil {
		return m.CreateCompletionFunc(ctx, messages)
	}
	return "", nil
}

// Model implements ChatClient.
func (m *MockChatClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Reset clears call tracking.
func (m *MockChatClient) Reset() {
	m.CreateCompletionCalls = 0
	m.LastMessages = nil
}
