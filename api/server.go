/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/day/*     Current day, activities, quick actions, day commands
  /api/days      Persisted dates
  /metrics       Prometheus scrape endpoint (when a metrics handler is given)

SECURITY NOTE:
  No authentication middleware. The ledger is single-user.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. metrics may
// be nil.
func NewRouter(h *Handler, metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/day", func(r chi.Router) {
			r.Get("/", h.GetDay)
			r.Get("/blocks", h.GetBlocks)
			r.Get("/hours/{hour}", h.GetHour)

			r.Route("/activities", func(r chi.Router) {
				r.Post("/", h.AddActivity)
				r.Put("/{id}", h.UpdateActivity)
				r.Delete("/{id}", h.DeleteActivity)
				r.Delete("/{id}/hours/{hour}", h.DeleteActivityHour)
			})

			r.Route("/quick", func(r chi.Router) {
				r.Post("/sleep", h.LogSleep)
				r.Post("/food", h.LogFood)
				r.Post("/work", h.LogWork)
			})

			r.Put("/mood", h.SetMood)
			r.Post("/reset", h.ResetDay)
			r.Post("/navigate", h.Navigate)
			r.Post("/load", h.LoadDay)
			r.Post("/rollover", h.TriggerRollover)
		})

		r.Get("/days", h.ListDays)
	})

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	return r
}
