// Package router assembles the HTTP surface: lead management, message
// ingestion, and the operational endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/sales-ai-platform/internal/conversation"
	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	LeadsHandler        *leads.Handler
	ConversationHandler *conversation.Handler
	MetricsHandler      http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/leads", cfg.LeadsHandler.Create)
		api.Get("/leads/{id}", cfg.LeadsHandler.Get)
		api.Post("/messages", cfg.ConversationHandler.Ingest)
		api.Post("/greetings", cfg.ConversationHandler.Greet)
	})

	return r
}
