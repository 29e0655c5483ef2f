package llmservice

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"clinsim/internal/config"
	"clinsim/internal/models"
)

// Completer turns an ordered role-tagged message list into a single reply.
type Completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (models.ChatMessage, error)
}

// Client is the OpenAI-backed Completer.
type Client struct {
	llm *openai.LLM
}

func NewClient(llmConfig *config.LLMConfig) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	}
	if llmConfig.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm}, nil
}

// Complete sends the message list to the chat model and returns its reply
// verbatim as an assistant message.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (models.ChatMessage, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}
	resp, err := c.llm.GenerateContent(ctx, content)
	if err != nil {
		return models.ChatMessage{}, &models.ServiceError{Op: "completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return models.ChatMessage{}, &models.ServiceError{Op: "completion", Err: errors.New("no choices returned")}
	}
	return models.ChatMessage{Role: models.RoleAssistant, Content: resp.Choices[0].Content}, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
