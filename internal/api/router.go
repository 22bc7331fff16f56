package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saunasuites/suites/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(st store.Store, sessionLength time.Duration, apiKey string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(st)
	sessionH := NewSessionHandler(st, sessionLength, logger)

	r.Get("/health", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionH.Create)
			r.Get("/active", sessionH.Active)
			r.Get("/{id}", sessionH.Get)
			r.Patch("/{id}", sessionH.UpdateStatus)
		})
	})

	return r
}
