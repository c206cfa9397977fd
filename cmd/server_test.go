package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/companion-labs/companion/orchestrator"
	"github.com/companion-labs/companion/pkg/ai/avatar"
	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/ai/llm/memoryx"
	"github.com/companion-labs/companion/pkg/ai/speech"
	"github.com/companion-labs/companion/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	reply string
	err   error
}

func (s *scriptedProvider) Generate(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *scriptedProvider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{Name: "chat-model", SupportsGeneration: true},
		{Name: "embed-model", SupportsGeneration: false},
	}, nil
}

func newTestApp(p llm.Provider, speechClient *speech.Client) *fiber.App {
	if speechClient == nil {
		speechClient = speech.NewClient(speech.Config{APIKey: "key"})
	}
	orch := orchestrator.New(orchestrator.Config{
		LLM:    llm.NewClient(p, "test-model"),
		Store:  memoryx.NewStore(),
		Speech: speechClient,
		Avatar: avatar.NewClient(avatar.Config{APIKey: "key"}),
	})

	cfg := &config.Config{}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler(cfg),
	})
	registerRoutes(app, orch)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestChatEndpoint(t *testing.T) {
	app := newTestApp(&scriptedProvider{reply: "hello!"}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat",
		`{"message":"hi","sessionId":"s1"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello!", body["response"])
	assert.Equal(t, "s1", body["sessionId"])
	assert.Equal(t, "test-model", body["model"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestChatEndpointMissingMessage(t *testing.T) {
	app := newTestApp(&scriptedProvider{reply: "hello!"}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat", `{"sessionId":"s1"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message is required", body["error"])
	assert.Equal(t, "ORCHESTRATOR:MISSING_MESSAGE", body["code"])
}

func TestChatEndpointGenerationFailure(t *testing.T) {
	app := newTestApp(&scriptedProvider{err: llm.NewRateLimitedError("quota")}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Rate limit exceeded. Please try again in a moment.", body["error"])
	assert.Equal(t, "LLM:RATE_LIMITED", body["code"])
}

func TestCompanionEndpoint(t *testing.T) {
	app := newTestApp(&scriptedProvider{reply: "companion says hi"}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/ai-companion",
		`{"message":"hi"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "companion says hi", body["response"])
	assert.Equal(t, orchestrator.DefaultSessionID, body["sessionId"])
}

func TestHistoryEndpoints(t *testing.T) {
	app := newTestApp(&scriptedProvider{reply: "r"}, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/history/s1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["history"], "unseen session reads back empty, not null")

	_, _ = doJSON(t, app, http.MethodPost, "/api/chat", `{"message":"hi","sessionId":"s1"}`)

	_, body = doJSON(t, app, http.MethodGet, "/api/history/s1", "")
	history, ok := body["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 2)
	first := history[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "hi", first["content"])

	resp, body = doJSON(t, app, http.MethodDelete, "/api/history/s1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Conversation history cleared", body["message"])
	assert.Equal(t, "s1", body["sessionId"])

	_, body = doJSON(t, app, http.MethodGet, "/api/history/s1", "")
	assert.Equal(t, []any{}, body["history"])
}

func TestModelsEndpoint(t *testing.T) {
	app := newTestApp(&scriptedProvider{}, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/models", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test-model", body["currentModel"])

	available, ok := body["availableChatModels"].([]any)
	require.True(t, ok)
	require.Len(t, available, 1)
	assert.Equal(t, "chat-model", available[0].(map[string]any)["name"])

	recommended, ok := body["recommendedModels"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, recommended)
}

func TestTestModelEndpoint(t *testing.T) {
	app := newTestApp(&scriptedProvider{reply: "pong"}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/test-model",
		`{"modelName":"chat-model"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "chat-model", body["model"])
	assert.Equal(t, "pong", body["response"])
}

func TestTestModelEndpointFailureShape(t *testing.T) {
	app := newTestApp(&scriptedProvider{err: llm.NewModelUnavailableError("gone", "not found")}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/test-model",
		`{"modelName":"gone"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "gone", body["model"])
	assert.NotEmpty(t, body["error"])
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&scriptedProvider{}, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test-model", body["model"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestSessionIDEndpoint(t *testing.T) {
	app := newTestApp(&scriptedProvider{}, nil)

	_, first := doJSON(t, app, http.MethodGet, "/api/session-id", "")
	_, second := doJSON(t, app, http.MethodGet, "/api/session-id", "")

	assert.NotEmpty(t, first["sessionId"])
	assert.NotEqual(t, first["sessionId"], second["sessionId"])
}

func TestTTSEndpointReturnsAudio(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer upstream.Close()

	speechClient := speech.NewClient(speech.Config{APIKey: "key", BaseURL: upstream.URL})
	app := newTestApp(&scriptedProvider{}, speechClient)

	req := httptest.NewRequest(http.MethodPost, "/api/elevenlabs/tts",
		strings.NewReader(`{"text":"say this"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), raw)
}

func TestTTSEndpointRequiresText(t *testing.T) {
	app := newTestApp(&scriptedProvider{}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/elevenlabs/tts", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Text is required", body["error"])
}
