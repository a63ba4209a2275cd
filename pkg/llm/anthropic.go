package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/apperrors"
)

// AnthropicClient talks to the Anthropic Messages API. System messages are
// folded into the request's system field; the remaining turns map 1:1.
type AnthropicClient struct {
	client      *anthropic.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewAnthropicClient creates a chat client for the Anthropic Messages API.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, apperrors.ErrNoLLMCredential
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		timeout:     cfg.Timeout,
		logger:      logger.Named("llm"),
	}, nil
}

// CreateCompletion sends the ordered messages and returns the first text
// block of the response.
func (c *AnthropicClient) CreateCompletion(ctx context.Context, messages []Message) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var system string
	converted := make([]anthropic.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		converted = append(converted, toAnthropicMessage(m))
	}

	temperature := c.temperature
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      system,
		Messages:    converted,
		MaxTokens:   c.maxTokens,
		Temperature: &temperature,
	}

	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ClassifyError(err)
	}

	if len(resp.Content) == 0 {
		return "", apperrors.ErrEmptyChoices
	}

	c.logger.Info("LLM request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.GetFirstContentText(), nil
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.model
}

func toAnthropicMessage(m Message) anthropic.Message {
	role := anthropic.RoleUser
	if m.Role == RoleAssistant {
		role = anthropic.RoleAssistant
	}

	content := []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)}
	if len(m.Image) > 0 {
		mime := m.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(anthropic.MessagesContentSourceTypeBase64, mime, m.Image),
		))
	}

	return anthropic.Message{Role: role, Content: content}
}
