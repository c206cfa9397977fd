// Package gemini implements the llm.Provider contract against the Google
// generative language REST API (generateContent).
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/logx"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 30 * time.Second

	// roleModel is the wire name Gemini uses for assistant turns.
	roleModel = "model"

	generateMethod = "generateContent"
)

// Provider calls the Gemini REST API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout overrides the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.client.Timeout = timeout
	}
}

// New creates a Gemini provider.
func New(apiKey string, opts ...Option) *Provider {
	provider := &Provider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(provider)
	}

	logx.WithFields(logx.Fields{
		"base_url": provider.baseURL,
		"timeout":  provider.client.Timeout,
	}).Debug("Gemini provider created")

	return provider
}

// Wire types

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
	SafetySettings   []safetySetting   `json:"safetySettings,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type modelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		Description                string   `json:"description"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error) {
	payload := generateRequest{
		Contents:         toContents(messages),
		GenerationConfig: toGenerationConfig(opts),
	}
	for _, st := range opts.SafetyThresholds {
		payload.SafetySettings = append(payload.SafetySettings, safetySetting(st))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", llm.NewUpstreamError(fmt.Errorf("marshaling request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:%s?key=%s",
		p.baseURL, model, generateMethod, url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", llm.NewUpstreamError(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	logx.WithField("model", model).Debug("Executing generateContent request")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			logx.WithFields(logx.Fields{
				"model":    model,
				"duration": time.Since(start),
			}).Warn("generateContent request timed out")
			return "", llm.NewTimeoutError(err)
		}
		return "", llm.NewUpstreamError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.NewUpstreamError(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", p.classifyStatus(model, resp.StatusCode, raw)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", llm.NewUpstreamError(fmt.Errorf("decoding response: %w", err))
	}

	if len(parsed.Candidates) == 0 ||
		len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		logx.WithField("model", model).Warn("generateContent returned no usable candidate")
		return "", llm.NewEmptyResponseError()
	}

	logx.WithFields(logx.Fields{
		"model":    model,
		"duration": time.Since(start),
	}).Debug("generateContent request completed")

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// ListModels implements llm.Provider.
func (p *Provider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models?key=%s", p.baseURL, url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, llm.NewUpstreamError(fmt.Errorf("creating request: %w", err))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, llm.NewTimeoutError(err)
		}
		return nil, llm.NewUpstreamError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.NewUpstreamError(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, p.classifyStatus("", resp.StatusCode, raw)
	}

	var parsed modelsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, llm.NewUpstreamError(fmt.Errorf("decoding response: %w", err))
	}

	models := make([]llm.ModelInfo, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		models = append(models, llm.ModelInfo{
			Name:               shortName(m.Name),
			DisplayName:        m.DisplayName,
			Description:        m.Description,
			SupportsGeneration: supportsGeneration(m.SupportedGenerationMethods),
		})
	}

	logx.WithField("model_count", len(models)).Debug("Model catalog fetched")
	return models, nil
}

// classifyStatus maps a non-2xx upstream status onto a generation error
// kind, keeping the raw upstream message for diagnostics.
func (p *Provider) classifyStatus(model string, status int, body []byte) error {
	detail := upstreamMessage(body)

	switch {
	case status == http.StatusTooManyRequests:
		return llm.NewRateLimitedError(detail)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return llm.NewUnauthorizedError(detail)
	case status == http.StatusNotFound:
		return llm.NewModelUnavailableError(model, detail)
	default:
		return llm.NewUpstreamError(fmt.Errorf("unexpected status %d: %s", status, detail))
	}
}

// upstreamMessage pulls the error message out of a Gemini error payload,
// falling back to the raw body.
func upstreamMessage(body []byte) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}

func toContents(messages []llm.Message) []content {
	contents := make([]content, 0, len(messages))
	for _, msg := range messages {
		role := msg.Role
		if role == llm.RoleAssistant {
			role = roleModel
		}
		contents = append(contents, content{
			Role:  role,
			Parts: []part{{Text: msg.Content}},
		})
	}
	return contents
}

func toGenerationConfig(opts llm.Options) *generationConfig {
	if opts.Temperature == nil && opts.MaxOutputTokens == nil &&
		opts.TopP == nil && opts.TopK == nil {
		return nil
	}
	return &generationConfig{
		Temperature:     opts.Temperature,
		MaxOutputTokens: opts.MaxOutputTokens,
		TopP:            opts.TopP,
		TopK:            opts.TopK,
	}
}

func supportsGeneration(methods []string) bool {
	for _, m := range methods {
		if m == generateMethod {
			return true
		}
	}
	return false
}

// shortName strips the "models/" prefix from a fully qualified model name.
func shortName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
