package api

import (
	"net/http"

	"github.com/fieldserve/appointments/internal/api/handler"
	customMiddleware "github.com/fieldserve/appointments/internal/api/middleware"
	"github.com/fieldserve/appointments/internal/config"
	"github.com/fieldserve/appointments/internal/llm"
	"github.com/fieldserve/appointments/internal/llm/gemini"
	"github.com/fieldserve/appointments/internal/llm/ollama"
	"github.com/fieldserve/appointments/internal/llm/openai"
	"github.com/fieldserve/appointments/internal/notifier"
	"github.com/fieldserve/appointments/internal/repository/sqlite"
	"github.com/fieldserve/appointments/internal/security"
	"github.com/fieldserve/appointments/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *sqlite.DB) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security components
	tokenManager := security.NewTokenManager(cfg.Dashboard.JWTSecret, cfg.Dashboard.TokenTTL)

	// Store
	appointmentRepo := sqlite.NewAppointmentRepository(db)

	// Outbound mail, only when SMTP credentials are present
	var mailer notifier.Notifier
	if cfg.SMTP.Configured() {
		mailer = notifier.NewMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP credentials missing, late alerts disabled")
	}

	// Chat assistant providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing chat providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}
	if !llmRouter.HasConfigured() {
		log.Warn().Msg("no chat provider configured, reschedule chat disabled")
	}

	// Services
	negotiationService := service.NewNegotiationService(appointmentRepo, llmRouter, cfg.LLM.SendFullHistory)
	dashboardService := service.NewDashboardService(appointmentRepo, mailer)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg.Dashboard, tokenManager)
	appointmentHandler := handler.NewAppointmentHandler(appointmentRepo, dashboardService, negotiationService)
	chatHandler := handler.NewChatHandler(negotiationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, llmRouter)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(tokenManager)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Post("/auth/login", authHandler.Login)

		// Customer routes (public, keyed by work order)
		r.Route("/appointments/{workOrder}", func(r chi.Router) {
			r.Get("/", appointmentHandler.Get)
			r.Post("/confirm", appointmentHandler.Confirm)
			r.Post("/chat", appointmentHandler.StartChat)
		})

		// Chat session routes (public, keyed by session ID)
		r.Route("/chat/{sessionID}", func(r chi.Router) {
			r.Get("/", chatHandler.Get)
			r.Post("/messages", chatHandler.Message)
			r.Post("/confirm", chatHandler.Confirm)
			r.Post("/reset", chatHandler.Reset)
			r.Delete("/", chatHandler.End)
		})

		// Technician dashboard (token-protected)
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/appointments", dashboardHandler.List)
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/providers", dashboardHandler.Providers)
			r.Post("/appointments/{workOrder}/complete", dashboardHandler.Complete)
			r.Post("/appointments/{workOrder}/late-alert", dashboardHandler.LateAlert)
		})
	})

	return r
}
