package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	// AI calls hit a paid external API: burst of 10, then 1 per 2s
	aiRateLimiter := NewRateLimiter(10, 2*time.Second)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Get("/{id}", h.GetProduct)
				r.Put("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
			})

			r.Route("/copy-types", func(r chi.Router) {
				r.Get("/", h.ListCopyTypes)
				r.Post("/", h.CreateCopyType)
				r.Get("/{id}", h.GetCopyType)
				r.Put("/{id}", h.UpdateCopyType)
				r.Delete("/{id}", h.DeleteCopyType)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", h.ListTeams)
				r.Post("/", h.CreateTeam)
				r.Delete("/{id}", h.DeleteTeam)
			})

			r.Route("/team-products", func(r chi.Router) {
				r.Get("/", h.ListTeamProducts)
				r.Post("/", h.CreateTeamProduct)
				r.Patch("/{id}", h.SetTeamProductActive)
				r.Delete("/{id}", h.DeleteTeamProduct)
			})

			r.Route("/checklists", func(r chi.Router) {
				r.Get("/", h.ListChecklists)
				r.Get("/stats", h.ChecklistStats)
				r.Post("/init-week", h.InitWeek)
				r.Post("/alive-check", h.AliveCheck)
				r.Get("/{id}", h.GetChecklist)
				r.Patch("/{id}", h.UpdateChecklist)
			})

			r.Route("/copies", func(r chi.Router) {
				r.Get("/", h.ListCopies)
				r.Post("/", h.CreateCopy)
				r.Get("/{id}", h.GetCopy)
				r.Put("/{id}", h.UpdateCopy)
				r.Delete("/{id}", h.DeleteCopy)
			})

			r.Route("/best-copies", func(r chi.Router) {
				r.Get("/", h.ListBestCopies)
				r.Post("/", h.CreateBestCopy)
			})

			r.Route("/ai", func(r chi.Router) {
				r.Use(aiRateLimiter.Middleware)
				r.Post("/generate", h.GenerateCopy)
				r.Post("/regenerate/{copy_id}", h.RegenerateCopy)
				r.Post("/similarity", h.CheckSimilarity)
				r.Post("/analyze", h.AnalyzeScript)
			})

			r.Get("/dashboard/summary", h.DashboardSummary)
			r.Get("/reports/weekly", h.WeeklyReport)
			r.Get("/reports/copy-types", h.CopyTypeReport)
			r.Get("/audit-logs", h.ListAuditLogs)
		})
	})

	return r
}
