// Package llm defines the text-generation contract: role-tagged messages,
// generation options, the Provider interface and a thin Client over it.
package llm

import (
	"context"

	"github.com/companion-labs/companion/pkg/logx"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ModelInfo describes one model exposed by a provider.
type ModelInfo struct {
	Name               string `json:"name"`
	DisplayName        string `json:"displayName"`
	Description        string `json:"description"`
	SupportsGeneration bool   `json:"-"`
}

// Provider is a text-generation backend. Generate returns the first
// candidate's text or a classified error (see errors.go); implementations
// never retry.
type Provider interface {
	Generate(ctx context.Context, model string, messages []Message, opts Options) (string, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// Client pairs a Provider with the currently configured model id.
type Client struct {
	provider Provider
	model    string
}

// NewClient creates a client bound to the given provider and model.
func NewClient(provider Provider, model string) *Client {
	logx.WithField("model", model).Debug("LLM client initialized")
	return &Client{provider: provider, model: model}
}

// Model returns the configured model id.
func (c *Client) Model() string {
	return c.model
}

// Generate runs a generation call against the configured model.
func (c *Client) Generate(ctx context.Context, messages []Message, opts ...Option) (string, error) {
	return c.GenerateWithModel(ctx, c.model, messages, opts...)
}

// GenerateWithModel runs a generation call against an explicit model id.
func (c *Client) GenerateWithModel(ctx context.Context, model string, messages []Message, opts ...Option) (string, error) {
	options := buildOptions(opts)

	logx.WithFields(logx.Fields{
		"model":         model,
		"message_count": len(messages),
	}).Debug("Calling generation provider")

	text, err := c.provider.Generate(ctx, model, messages, options)
	if err != nil {
		logx.WithFields(logx.Fields{
			"model": model,
		}).WithError(err).Error("Generation call failed")
		return "", err
	}

	logx.WithFields(logx.Fields{
		"model":           model,
		"response_length": len(text),
	}).Debug("Generation call succeeded")

	return text, nil
}

// ListModels returns the provider's model catalog.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	return c.provider.ListModels(ctx)
}
