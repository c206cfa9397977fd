// Package speech wraps the ElevenLabs text-to-speech API as a stateless
// single-call client. A failed attempt surfaces a classified error; there
// is no retry.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/companion-labs/companion/pkg/logx"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultVoiceID = "EXAVITQu4vr4xnSDxMaL"
	defaultModelID = "eleven_monolingual_v1"
	defaultTimeout = 30 * time.Second
)

// Config configures the client. Zero values are filled with defaults.
type Config struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string

	Stability       float64
	SimilarityBoost float64

	Timeout time.Duration
}

// Client calls the ElevenLabs API.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a speech client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.VoiceID == "" {
		config.VoiceID = defaultVoiceID
	}
	if config.ModelID == "" {
		config.ModelID = defaultModelID
	}
	if config.Stability == 0 {
		config.Stability = 0.5
	}
	if config.SimilarityBoost == 0 {
		config.SimilarityBoost = 0.5
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	logx.WithFields(logx.Fields{
		"base_url": config.BaseURL,
		"voice_id": config.VoiceID,
		"model_id": config.ModelID,
	}).Debug("Speech client created")

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to MP3 audio using the given voice. An empty
// voiceID falls back to the configured default.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		voiceID = c.config.VoiceID
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: c.config.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       c.config.Stability,
			SimilarityBoost: c.config.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, NewSynthesisFailedError(fmt.Errorf("marshaling request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", c.config.BaseURL, voiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewSynthesisFailedError(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("xi-api-key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	logx.WithFields(logx.Fields{
		"voice_id":    voiceID,
		"text_length": len(text),
	}).Debug("Executing text-to-speech request")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewSynthesisFailedError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewSynthesisFailedError(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, raw)
	}

	logx.WithFields(logx.Fields{
		"voice_id":    voiceID,
		"audio_bytes": len(raw),
	}).Debug("Speech synthesized")

	return raw, nil
}

func classifyStatus(status int, body []byte) error {
	detail := string(body)

	switch {
	case status == http.StatusTooManyRequests:
		return NewRateLimitedError(detail)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewUnauthorizedError(detail)
	default:
		return NewSynthesisFailedError(fmt.Errorf("unexpected status %d: %s", status, detail))
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
