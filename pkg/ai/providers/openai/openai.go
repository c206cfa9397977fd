// Package openai implements the llm.Provider contract against the OpenAI
// chat-completions API. TopK and safety thresholds have no equivalent on
// this API and are ignored.
package openai

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/logx"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Provider calls the OpenAI API.
type Provider struct {
	client openai.Client
}

// New creates an OpenAI provider.
func New(apiKey string) *Provider {
	return &Provider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toParams(messages),
	}

	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.MaxOutputTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*opts.MaxOutputTokens))
	}
	if opts.TopP != nil {
		params.TopP = openai.Float(*opts.TopP)
	}

	logx.WithFields(logx.Fields{
		"model":         model,
		"message_count": len(messages),
	}).Debug("Executing chat completion request")

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(model, err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		logx.WithField("model", model).Warn("Chat completion returned no usable choice")
		return "", llm.NewEmptyResponseError()
	}

	return completion.Choices[0].Message.Content, nil
}

// ListModels implements llm.Provider. Every chat model listed by this API
// is usable for generation.
func (p *Provider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	page, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, classify("", err)
	}

	models := make([]llm.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, llm.ModelInfo{
			Name:               m.ID,
			DisplayName:        m.ID,
			Description:        "Owned by " + m.OwnedBy,
			SupportsGeneration: true,
		})
	}
	return models, nil
}

func toParams(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}
	return params
}

// classify maps SDK errors onto the shared generation error kinds.
func classify(model string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return llm.NewTimeoutError(err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return llm.NewRateLimitedError(apiErr.Error())
		case http.StatusUnauthorized, http.StatusForbidden:
			return llm.NewUnauthorizedError(apiErr.Error())
		case http.StatusNotFound:
			return llm.NewModelUnavailableError(model, apiErr.Error())
		}
	}

	return llm.NewUpstreamError(err)
}
