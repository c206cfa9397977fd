// Package orchestrator composes the session store, the generation client
// and the speech/avatar clients into the request flows exposed over HTTP.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/companion-labs/companion/pkg/ai/avatar"
	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/ai/llm/memoryx"
	"github.com/companion-labs/companion/pkg/ai/speech"
	"github.com/companion-labs/companion/pkg/logx"
)

// DefaultSessionID is used when a request does not name a session.
const DefaultSessionID = "default"

// testPrompt is the one-shot probe sent by TestModel.
const testPrompt = "Hello! Say something short."

// RecommendedModels is the static list surfaced alongside the live model
// catalog.
var RecommendedModels = []string{
	"gemini-2.0-flash-001",
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-pro-latest",
}

// Config holds orchestrator dependencies.
type Config struct {
	LLM    *llm.Client
	Store  *memoryx.Store
	Speech *speech.Client
	Avatar *avatar.Client
}

// Orchestrator sequences external generation calls around the session
// store. It never retries: every failure surfaces to the caller with its
// classification intact, and a failed generation never touches history.
type Orchestrator struct {
	llm    *llm.Client
	store  *memoryx.Store
	speech *speech.Client
	avatar *avatar.Client
}

// New creates an orchestrator.
func New(config Config) *Orchestrator {
	return &Orchestrator{
		llm:    config.LLM,
		store:  config.Store,
		speech: config.Speech,
		avatar: config.Avatar,
	}
}

// Chat runs one conversation turn: build the prompt from stored history,
// generate, then commit the user/assistant pair. On any generation failure
// the session history is left untouched and the classified error is
// returned unchanged.
func (o *Orchestrator) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return o.generateTurn(ctx, req)
}

// Companion runs the companion text turn. Speech synthesis and avatar
// rendering are deliberately separate operations (Synthesize, CreateTalk);
// the caller composes them with sequential requests.
func (o *Orchestrator) Companion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return o.generateTurn(ctx, req)
}

func (o *Orchestrator) generateTurn(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	history := o.store.Get(sessionID)

	messages, err := buildMessages(history, req.Message)
	if err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"session_id":    sessionID,
		"history_turns": len(history),
		"model":         o.llm.Model(),
	}).Info("Processing chat turn")

	reply, err := o.llm.Generate(ctx, messages,
		llm.WithTemperature(0.7),
		llm.WithMaxOutputTokens(2048),
		llm.WithTopP(0.8),
		llm.WithTopK(40),
		llm.WithSafetyThreshold(llm.CategoryHarassment, llm.ThresholdBlockMediumAndAbove),
		llm.WithSafetyThreshold(llm.CategoryHateSpeech, llm.ThresholdBlockMediumAndAbove),
	)
	if err != nil {
		return nil, err
	}

	o.store.Append(sessionID, req.Message, reply)

	return &ChatResponse{
		Response:  reply,
		SessionID: sessionID,
		Model:     o.llm.Model(),
		Timestamp: time.Now().UTC(),
	}, nil
}

// History returns the stored turns for a session, oldest first. Unseen
// sessions read back as an empty history.
func (o *Orchestrator) History(sessionID string) []memoryx.Turn {
	return o.store.Get(sessionID)
}

// ClearHistory removes all stored turns for a session. Idempotent.
func (o *Orchestrator) ClearHistory(sessionID string) {
	o.store.Clear(sessionID)
	logx.WithField("session_id", sessionID).Info("Conversation history cleared")
}

// TestModel probes a model with a short one-shot prompt. An empty model
// name probes the currently configured model.
func (o *Orchestrator) TestModel(ctx context.Context, model string) (*TestModelResponse, error) {
	if model == "" {
		model = o.llm.Model()
	}

	reply, err := o.llm.GenerateWithModel(ctx, model,
		[]llm.Message{llm.NewUserMessage(testPrompt)},
		llm.WithMaxOutputTokens(50),
	)
	if err != nil {
		return nil, err
	}

	return &TestModelResponse{
		Success:  true,
		Model:    model,
		Response: reply,
	}, nil
}

// Models returns the generation-capable model catalog plus the static
// recommended list.
func (o *Orchestrator) Models(ctx context.Context) (*ModelsResponse, error) {
	all, err := o.llm.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	chatModels := make([]llm.ModelInfo, 0, len(all))
	for _, m := range all {
		if m.SupportsGeneration {
			chatModels = append(chatModels, m)
		}
	}

	return &ModelsResponse{
		CurrentModel:        o.llm.Model(),
		AvailableChatModels: chatModels,
		RecommendedModels:   RecommendedModels,
	}, nil
}

// Synthesize converts arbitrary text to speech. The text is not tied to
// any chat output; composition is up to the caller.
func (o *Orchestrator) Synthesize(ctx context.Context, req TTSRequest) ([]byte, error) {
	if o.speech == nil {
		return nil, NewNotConfiguredError("speech")
	}
	if req.Text == "" {
		return nil, NewMissingTextError()
	}
	return o.speech.Synthesize(ctx, req.Text, req.VoiceID)
}

// CreateTalk submits arbitrary text for talking-head rendering and returns
// the job handle without waiting for completion.
func (o *Orchestrator) CreateTalk(ctx context.Context, req TalkRequest) (*avatar.Talk, error) {
	if o.avatar == nil {
		return nil, NewNotConfiguredError("avatar")
	}
	if req.Text == "" {
		return nil, NewMissingTextError()
	}
	return o.avatar.CreateTalk(ctx, req.Text, req.SourceURL)
}

// TalkStatus polls a rendering job.
func (o *Orchestrator) TalkStatus(ctx context.Context, id string) (*avatar.Talk, error) {
	if o.avatar == nil {
		return nil, NewNotConfiguredError("avatar")
	}
	return o.avatar.GetTalk(ctx, id)
}

// Model returns the currently configured model id.
func (o *Orchestrator) Model() string {
	return o.llm.Model()
}

// Health checks that the orchestrator can serve requests.
func (o *Orchestrator) Health(ctx context.Context) error {
	if o.llm == nil {
		return fmt.Errorf("LLM client not initialized")
	}
	if o.store == nil {
		return fmt.Errorf("session store not initialized")
	}
	return nil
}

// Stats returns orchestrator statistics.
func (o *Orchestrator) Stats() map[string]any {
	return map[string]any{
		"model":    o.llm.Model(),
		"sessions": o.store.Sessions(),
		"healthy":  o.Health(context.Background()) == nil,
	}
}
