// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. It organizes routes into public, authenticated, and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth       *handlers.Auth
	Users      *handlers.Users
	Categories *handlers.Categories
	Tags       *handlers.Tags
	Posts      *handlers.Posts
	Audit      *handlers.Audit
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokens *services.TokenService, sessions middleware.TokenValidator, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	requireAuth := middleware.RequireAuth(tokens, sessions)

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface — no session needed.
		r.Post("/auth/login", h.Auth.Login)

		r.Get("/posts", h.Posts.ListPublished)
		r.Get("/posts/{slug}", h.Posts.GetPublishedBySlug)
		r.Get("/tags/{slug}/posts", h.Posts.ListPublishedByTag)
		r.Get("/categories/tree", h.Categories.Tree)
		r.Get("/categories/{id}/tree", h.Categories.Subtree)
		r.Get("/tags", h.Tags.List)
		r.Get("/tags/slug/{slug}", h.Tags.GetBySlug)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/auth/logout", h.Auth.Logout)
			r.Post("/auth/change-password", h.Auth.ChangePassword)
			r.Get("/auth/me", h.Auth.Me)

			r.Post("/posts/{id}/like", h.Posts.Like)

			// Authoring.
			r.Route("/admin/posts", func(r chi.Router) {
				r.Get("/", h.Posts.List)
				r.Post("/", h.Posts.Create)
				r.Get("/{id}", h.Posts.Get)
				r.Put("/{id}", h.Posts.Update)
				r.Delete("/{id}", h.Posts.Delete)
				r.Post("/{id}/publish", h.Posts.Publish)
				r.Post("/{id}/unpublish", h.Posts.Unpublish)
				r.Post("/{id}/archive", h.Posts.Archive)
			})

			r.Route("/admin/categories", func(r chi.Router) {
				r.Get("/", h.Categories.List)
				r.Post("/", h.Categories.Create)
				r.Get("/{id}", h.Categories.Get)
				r.Put("/{id}", h.Categories.Update)
				r.Delete("/{id}", h.Categories.Delete)
			})

			r.Route("/admin/tags", func(r chi.Router) {
				r.Post("/", h.Tags.Create)
				r.Get("/{id}", h.Tags.Get)
				r.Put("/{id}", h.Tags.Update)
				r.Delete("/{id}", h.Tags.Delete)
			})

			// Admin-only user management and audit log. Accounts are
			// created by admins; there is no self-service signup.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/auth/register", h.Auth.Register)

				r.Route("/admin/users", func(r chi.Router) {
					r.Get("/", h.Users.List)
					r.Get("/{id}", h.Users.Get)
					r.Put("/{id}", h.Users.Update)
					r.Delete("/{id}", h.Users.Delete)
					r.Post("/{id}/lock", h.Users.Lock)
					r.Post("/{id}/unlock", h.Users.Unlock)
				})

				r.Get("/admin/audit", h.Audit.List)
			})
		})
	})

	return r
}

// healthHandler responds with a simple OK for load balancer checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
