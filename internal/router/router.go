// Package router sets up the HTTP routes and middleware chains for the
// inkpress content engine. Public routes cover reading, commenting, and
// voting; the admin group carries the mutation and moderation surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(posts *handlers.Posts, taxonomies *handlers.Taxonomies, comments *handlers.Comments, votes *handlers.Votes) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	// Public read and reaction surface.
	r.Get("/posts", posts.List)
	r.Get("/posts/{id}", posts.Get)
	r.Get("/taxonomies", taxonomies.List)
	r.Get("/taxonomies/{id}", taxonomies.Get)
	r.Post("/comments", comments.Create)
	r.Post("/votes", votes.Cast)

	// Admin mutation surface. Authentication is terminated upstream; the
	// engine itself is deployed behind the gateway.
	r.Route("/admin", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Post("/", posts.Create)
			r.Get("/{id}", posts.Get)
			r.Put("/{id}", posts.Update)
		})

		r.Route("/taxonomies", func(r chi.Router) {
			r.Get("/", taxonomies.List)
			r.Post("/", taxonomies.Create)
			r.Get("/{id}", taxonomies.Get)
			r.Delete("/{id}", taxonomies.Delete)
			r.Post("/{id}/restore", taxonomies.Restore)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", comments.List)
			r.Put("/{id}/status", comments.ChangeStatus)
		})

		r.Get("/votes", votes.List)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
