package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/siteboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.With(mw.RateLimit(rateLimitConfig(d))).Post("/api/admin/login", handlers.Login(d))

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin(d.Credentials, d.Logger))
			r.Get("/api/admin/submissions", handlers.Submissions(d))
			r.Post("/api/admin/add-site", handlers.AddSite(d))
			r.Post("/api/admin/review", handlers.Review(d))
			r.Get("/api/admin/sites", handlers.Sites(d))
			r.Post("/api/admin/delete-site", handlers.DeleteSite(d))
		})
	})
}
