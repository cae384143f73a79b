// Package router sets up all HTTP routes and middleware chains for the
// Playgrid portal. It organizes routes into public API and admin groups
// with appropriate middleware stacks.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"playgrid/internal/handlers"
	"playgrid/internal/middleware"
	"playgrid/internal/session"
)

// Write endpoints open to anonymous visitors (comments, likes) get a
// tighter rate limit than reads.
const (
	publicWriteLimit  = 20
	publicWriteWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", public.Health)

	// Public portal API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/games", public.ListGames)
		r.Get("/games/{id}", public.GameDetail)
		r.Get("/games/{id}/related", public.Related)
		r.Get("/games/{id}/comments", public.ListComments)
		r.Get("/categories", public.Categories)
		r.Get("/site", public.Site)

		// Anonymous writes are rate limited per IP.
		r.Group(func(r chi.Router) {
			limiter := middleware.NewRateLimiter(publicWriteLimit, publicWriteWindow)
			r.Use(limiter.Middleware)
			r.Post("/games/{id}/comments", public.CreateComment)
			r.Post("/games/{id}/like", public.Like)
		})
	})

	// Admin API — session auth plus CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth endpoints — accessible without a session.
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", auth.Me)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified back office.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Games
			r.Route("/games", func(r chi.Router) {
				r.Get("/", admin.ListGames)
				r.Post("/", admin.CreateGame)
				r.Put("/{id}", admin.UpdateGame)
				r.Delete("/{id}", admin.DeleteGame)
			})

			// Providers
			r.Route("/providers", func(r chi.Router) {
				r.Get("/", admin.ListProviders)
				r.Post("/", admin.CreateProvider)
				r.Put("/{id}", admin.UpdateProvider)
				r.Delete("/{id}", admin.DeleteProvider)
			})

			// Comment moderation
			r.Delete("/comments/{id}", admin.DeleteComment)

			// Feed imports
			r.Route("/import", func(r chi.Router) {
				r.Get("/{source}", admin.FetchFeed)
				r.Post("/{source}", admin.RunImport)
			})

			// Site settings — admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/settings", admin.GetSettings)
				r.Put("/settings", admin.UpdateSettings)
				r.Post("/settings/favicon", admin.UploadFavicon)
			})

			// User management — admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.ListUsers)
				r.Post("/", admin.CreateUser)
				r.Post("/{id}/reset-2fa", admin.ResetUser2FA)
				r.Delete("/{id}", admin.DeleteUser)
			})
		})
	})

	return r
}
