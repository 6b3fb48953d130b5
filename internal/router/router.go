// Package router sets up all HTTP routes and middleware chains for the
// shopadmin API. Reads are open; mutating routes sit behind the bearer
// token middleware when a verifier is configured.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopadmin/internal/handlers"
	"shopadmin/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. verifier and limiter may be nil, which
// disables auth enforcement and rate limiting respectively.
func New(categories *handlers.Categories, posts *handlers.Posts, verifier middleware.TokenVerifier, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{slug}", categories.Get)

			r.Group(func(r chi.Router) {
				if verifier != nil {
					r.Use(middleware.RequireAuth(verifier))
				}
				r.Post("/", categories.Create)
				r.Patch("/{slug}", categories.Update)
				r.Delete("/{slug}", categories.SoftDelete)
				r.Delete("/{slug}/permanent", categories.HardDelete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/{slug}", posts.Get)

			r.Group(func(r chi.Router) {
				if verifier != nil {
					r.Use(middleware.RequireAuth(verifier))
				}
				r.Post("/", posts.Create)
				r.Patch("/{slug}", posts.Update)
				r.Delete("/{slug}", posts.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
