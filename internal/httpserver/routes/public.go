package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/siteboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver/mw"
)

func init() { Register(registerPublic) }

func registerPublic(r chi.Router, d deps.Deps) {
	r.Get("/api/sites", handlers.PublicSites(d))
	r.With(mw.RateLimit(rateLimitConfig(d))).Post("/api/submit", handlers.Submit(d))
}

func rateLimitConfig(d deps.Deps) mw.RateLimitConfig {
	return mw.RateLimitConfig{
		Burst:             d.SubmitRateBurst,
		RefillPerIPPerMin: d.SubmitRatePerMin,
		MaxEntries:        10_000,
		TrustProxy:        d.TrustProxy,
	}
}
