package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication - the caller must be
			// logged in to request a ticket
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Schedule endpoints
			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", s.handleGetSchedule)
				r.Put("/", s.handlePutSchedule)
				r.Get("/versions", s.handleListScheduleVersions)
				r.Get("/versions/{version}", s.handleGetScheduleVersion)
			})

			// Settings endpoints
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handlePutSettings)

			// Display endpoints
			r.Route("/displays", func(r chi.Router) {
				r.Get("/", s.handleListDisplays)
				r.Post("/", s.handleCreateDisplay)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDisplay)
					r.Patch("/", s.handleUpdateDisplay)
					r.Delete("/", s.handleDeleteDisplay)
					r.Post("/command", s.handleDisplayCommand)
					r.Post("/heartbeat", s.handleDisplayHeartbeat)
				})
			})

			// Media endpoints
			r.Route("/media", func(r chi.Router) {
				r.Get("/", s.handleListMedia)
				r.Post("/", s.handleCreateMedia)
				r.Get("/{id}", s.handleGetMedia)
				r.Delete("/{id}", s.handleDeleteMedia)
			})

			// Slideshow endpoints
			r.Route("/slideshows", func(r chi.Router) {
				r.Get("/", s.handleListSlideshows)
				r.Post("/", s.handleCreateSlideshow)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetSlideshow)
					r.Put("/", s.handleUpdateSlideshow)
					r.Delete("/", s.handleDeleteSlideshow)
				})
			})

		})

		// WebSocket upgrade. Browsers cannot set an Authorization header
		// on the handshake, so auth is a single-use ticket checked in the
		// handler rather than the bearer middleware.
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
