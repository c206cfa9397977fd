// Package config loads process configuration from environment variables.
// API keys are treated as opaque capability tokens; only presence matters.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in AI_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config is the full process configuration.
type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	ElevenLabs ElevenLabsConfig
	DID        DIDConfig

	// Provider selects the text-generation backend.
	Provider string
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int
	Environment string
	LogLevel    string
}

// GeminiConfig configures the Gemini generation provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIConfig configures the OpenAI generation provider.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// ElevenLabsConfig configures the text-to-speech client.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	VoiceID string
}

// DIDConfig configures the talking-head rendering client.
type DIDConfig struct {
	APIKey    string
	BaseURL   string
	SourceURL string
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	port, err := intEnv("PORT", 3000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        port,
			Environment: env("ENVIRONMENT", "development"),
			LogLevel:    env("LOG_LEVEL", "info"),
		},
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GOOGLE_API_KEY"),
			Model:   env("GEMINI_MODEL", "gemini-2.0-flash-001"),
			BaseURL: env("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
			Timeout: 30 * time.Second,
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  env("OPENAI_MODEL", "gpt-4o-mini"),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:  os.Getenv("ELEVENLABS_API_KEY"),
			BaseURL: env("ELEVENLABS_API_URL", "https://api.elevenlabs.io"),
			VoiceID: env("ELEVENLABS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),
		},
		DID: DIDConfig{
			APIKey:    os.Getenv("D_ID_API_KEY"),
			BaseURL:   env("D_ID_API_URL", "https://api.d-id.com"),
			SourceURL: env("D_ID_SOURCE_URL", "presenter_1"),
		},
		Provider: env("AI_PROVIDER", ProviderGemini),
	}

	if cfg.Provider != ProviderGemini && cfg.Provider != ProviderOpenAI {
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.Provider)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
