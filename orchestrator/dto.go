package orchestrator

import (
	"time"

	"github.com/companion-labs/companion/pkg/ai/llm"
)

// ChatRequest is an incoming chat or companion turn.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the result of a completed turn.
type ChatResponse struct {
	Response  string    `json:"response"`
	SessionID string    `json:"sessionId"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// TestModelRequest names the model to probe; empty means the current one.
type TestModelRequest struct {
	ModelName string `json:"modelName,omitempty"`
}

// TestModelResponse is the result of a one-shot model probe.
type TestModelResponse struct {
	Success  bool   `json:"success"`
	Model    string `json:"model"`
	Response string `json:"response,omitempty"`
}

// ModelsResponse lists the generation-capable model catalog.
type ModelsResponse struct {
	CurrentModel        string          `json:"currentModel"`
	AvailableChatModels []llm.ModelInfo `json:"availableChatModels"`
	RecommendedModels   []string        `json:"recommendedModels"`
}

// TalkRequest submits text for talking-head rendering.
type TalkRequest struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url,omitempty"`
}

// TTSRequest submits text for speech synthesis.
type TTSRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id,omitempty"`
}
