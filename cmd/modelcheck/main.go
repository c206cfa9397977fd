// Command modelcheck lists the models visible to the configured API key
// and flags which ones can serve chat generation. Useful when a model id
// starts returning 404s after a provider rollout.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/companion-labs/companion/orchestrator"
	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/ai/providers/gemini"
	"github.com/companion-labs/companion/pkg/ai/providers/openai"
	"github.com/companion-labs/companion/pkg/config"
	"github.com/companion-labs/companion/pkg/logx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	var provider llm.Provider
	var current string
	switch cfg.Provider {
	case config.ProviderOpenAI:
		provider = openai.New(cfg.OpenAI.APIKey)
		current = cfg.OpenAI.Model
	default:
		provider = gemini.New(cfg.Gemini.APIKey,
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithTimeout(cfg.Gemini.Timeout),
		)
		current = cfg.Gemini.Model
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models, err := provider.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list models: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Current model: %s\n\n", current)
	fmt.Printf("Available models (%d):\n", len(models))
	for _, m := range models {
		marker := "  "
		if m.SupportsGeneration {
			marker = "✅"
		}
		fmt.Printf("%s %s", marker, m.Name)
		if m.DisplayName != "" && m.DisplayName != m.Name {
			fmt.Printf(" (%s)", m.DisplayName)
		}
		fmt.Println()
	}

	fmt.Println("\nRecommended models:")
	for _, name := range orchestrator.RecommendedModels {
		fmt.Printf("  - %s\n", name)
	}
}
