package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/companion-labs/companion/orchestrator"
	"github.com/companion-labs/companion/pkg/ai/avatar"
	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/ai/llm/memoryx"
	"github.com/companion-labs/companion/pkg/ai/providers/gemini"
	"github.com/companion-labs/companion/pkg/ai/providers/openai"
	"github.com/companion-labs/companion/pkg/ai/speech"
	"github.com/companion-labs/companion/pkg/config"
	"github.com/companion-labs/companion/pkg/errx"
	"github.com/companion-labs/companion/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	initLogger(cfg)

	logx.Info("🚀 Starting Companion Orchestrator...")
	logx.Infof("Environment: %s", cfg.Server.Environment)

	// 3. Initialize Core Dependencies

	// --- A. Generation Client ---
	llmClient := initGenerationClient(cfg)

	// --- B. Session Store ---
	store := memoryx.NewStore()
	logx.Infof("✅ Session store initialized (window: %d turns)", memoryx.DefaultMaxTurns)

	// --- C. Speech & Avatar Clients ---
	if cfg.ElevenLabs.APIKey == "" {
		logx.Warn("⚠️ ELEVENLABS_API_KEY not set. Speech synthesis will fail.")
	}
	speechClient := speech.NewClient(speech.Config{
		APIKey:  cfg.ElevenLabs.APIKey,
		BaseURL: cfg.ElevenLabs.BaseURL,
		VoiceID: cfg.ElevenLabs.VoiceID,
	})

	if cfg.DID.APIKey == "" {
		logx.Warn("⚠️ D_ID_API_KEY not set. Avatar rendering will fail.")
	}
	avatarClient := avatar.NewClient(avatar.Config{
		APIKey:    cfg.DID.APIKey,
		BaseURL:   cfg.DID.BaseURL,
		SourceURL: cfg.DID.SourceURL,
	})

	// --- D. Orchestrator ---
	orch := orchestrator.New(orchestrator.Config{
		LLM:    llmClient,
		Store:  store,
		Speech: speechClient,
		Avatar: avatarClient,
	})

	// 4. Create Fiber App
	app := fiber.New(fiber.Config{
		AppName:               "Companion Orchestrator",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler(cfg),
		BodyLimit:             10 * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	// 5. Middleware
	setupMiddleware(app, cfg)

	// 6. Routes
	registerRoutes(app, orch)

	// 7. Start Server
	startServer(app, cfg)
}

// ============================================================================
// Generation Client Initialization
// ============================================================================

func initGenerationClient(cfg *config.Config) *llm.Client {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			logx.Warn("⚠️ OPENAI_API_KEY not set. AI features may fail.")
		}
		logx.Infof("🤖 Using OpenAI provider (model: %s)", cfg.OpenAI.Model)
		return llm.NewClient(openai.New(cfg.OpenAI.APIKey), cfg.OpenAI.Model)

	default:
		if cfg.Gemini.APIKey == "" {
			logx.Warn("⚠️ GOOGLE_API_KEY not set. AI features may fail.")
		}
		logx.Infof("🤖 Using Gemini provider (model: %s)", cfg.Gemini.Model)
		provider := gemini.New(cfg.Gemini.APIKey,
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithTimeout(cfg.Gemini.Timeout),
		)
		return llm.NewClient(provider, cfg.Gemini.Model)
	}
}

// ============================================================================
// Routes
// ============================================================================

func registerRoutes(app *fiber.App, orch *orchestrator.Orchestrator) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "OK"
		if err := orch.Health(c.Context()); err != nil {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status":    status,
			"model":     orch.Model(),
			"timestamp": time.Now().UTC(),
		})
	})

	// Orchestrator statistics
	app.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(orch.Stats())
	})

	// ========================================================================
	// Chat Endpoints
	// ========================================================================

	app.Post("/api/chat", func(c *fiber.Ctx) error {
		var req orchestrator.ChatRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		response, err := orch.Chat(c.Context(), req)
		if err != nil {
			return err
		}

		return c.JSON(response)
	})

	app.Post("/api/ai-companion", func(c *fiber.Ctx) error {
		var req orchestrator.ChatRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		response, err := orch.Companion(c.Context(), req)
		if err != nil {
			return err
		}

		return c.JSON(response)
	})

	// ========================================================================
	// Model Endpoints
	// ========================================================================

	app.Post("/api/test-model", func(c *fiber.Ctx) error {
		var req orchestrator.TestModelRequest
		// An empty body means "probe the current model".
		_ = c.BodyParser(&req)

		result, err := orch.TestModel(c.Context(), req.ModelName)
		if err != nil {
			model := req.ModelName
			if model == "" {
				model = orch.Model()
			}
			message := err.Error()
			if e, ok := errx.From(err); ok {
				message = e.Message
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"model":   model,
				"error":   message,
			})
		}

		return c.JSON(result)
	})

	app.Get("/api/models", func(c *fiber.Ctx) error {
		models, err := orch.Models(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(models)
	})

	// ========================================================================
	// History Endpoints
	// ========================================================================

	app.Get("/api/history/:sessionId", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"history": orch.History(c.Params("sessionId")),
		})
	})

	app.Delete("/api/history/:sessionId", func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionId")
		orch.ClearHistory(sessionID)
		return c.JSON(fiber.Map{
			"message":   "Conversation history cleared",
			"sessionId": sessionID,
		})
	})

	// ========================================================================
	// Avatar Endpoints (D-ID)
	// ========================================================================

	app.Post("/api/d-id/create-talk", func(c *fiber.Ctx) error {
		var req orchestrator.TalkRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		talk, err := orch.CreateTalk(c.Context(), req)
		if err != nil {
			return err
		}

		return c.JSON(talk)
	})

	app.Get("/api/d-id/talk/:id", func(c *fiber.Ctx) error {
		talk, err := orch.TalkStatus(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(talk)
	})

	// ========================================================================
	// Speech Endpoint (ElevenLabs)
	// ========================================================================

	app.Post("/api/elevenlabs/tts", func(c *fiber.Ctx) error {
		var req orchestrator.TTSRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		audio, err := orch.Synthesize(c.Context(), req)
		if err != nil {
			return err
		}

		c.Set("Content-Type", "audio/mpeg")
		return c.Send(audio)
	})

	// Utility: mint a fresh session id for clients that want one up front.
	app.Get("/api/session-id", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sessionId": uuid.New().String(),
		})
	})
}

// ============================================================================
// Setup & Configuration
// ============================================================================

func initLogger(cfg *config.Config) {
	switch cfg.Server.LogLevel {
	case "trace":
		logx.SetLevel(logx.LevelTrace)
	case "debug":
		logx.SetLevel(logx.LevelDebug)
	case "warn":
		logx.SetLevel(logx.LevelWarn)
	case "error":
		logx.SetLevel(logx.LevelError)
	default:
		logx.SetLevel(logx.LevelInfo)
	}

	logx.WithField("level", cfg.Server.LogLevel).Info("Logger initialized")
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	// Recover from panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	// Request ID
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
	}))

	// CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Request logging
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
}

func globalErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": c.Get("X-Request-ID"),
		}).Errorf("Request error: %v", err)

		if e, ok := errx.From(err); ok {
			payload := fiber.Map{
				"error": e.Message,
				"code":  e.Code,
			}
			if len(e.Details) > 0 {
				payload["details"] = e.Details
			}
			return c.Status(e.HTTPStatus).JSON(payload)
		}

		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{
				"error": e.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}
}

func startServer(app *fiber.App, cfg *config.Config) {
	port := fmt.Sprintf("%d", cfg.Server.Port)

	go func() {
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💬 Chat API: http://localhost:%s/api/chat", port)
		logx.Infof("🔗 Health: http://localhost:%s/health", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logx.Info("🛑 Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("✅ Server exited gracefully")
}
