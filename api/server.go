/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the preview frontend

ROUTE GROUPS:
  /api/households/*   Records, candidate sessions, sync, summaries
  /api/incomes/*      Record access by id
  /api/schedule/*     Ad-hoc payment date previews
  /api/bonuses/*      Statutory bonus previews

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Household routes
		r.Route("/households/{householdID}", func(r chi.Router) {
			r.Get("/incomes", h.ListIncomes)
			r.Post("/incomes", h.CreateIncome)

			r.Post("/candidates", h.MergeCandidates)
			r.Get("/candidates", h.GetCandidates)
			r.Delete("/candidates", h.DiscardCandidates)

			r.Post("/sync", h.Sync)
			r.Get("/summary", h.HouseholdSummary)
			r.Get("/upcoming", h.UpcomingPayments)
		})

		// Record routes
		r.Route("/incomes/{id}", func(r chi.Router) {
			r.Get("/", h.GetIncome)
			r.Patch("/", h.UpdateIncome)
			r.Delete("/", h.DeleteIncome)
			r.Get("/schedule", h.GetIncomeSchedule)
		})

		// Preview routes
		r.Get("/schedule/preview", h.SchedulePreview)
		r.Route("/bonuses", func(r chi.Router) {
			r.Get("/", h.ListBonusCountries)
			r.Get("/{country}", h.BonusPreview)
		})
	})

	return r
}
