package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/MrSnakeDoc/siteboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

const readyPingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz pings the store and answers 503 while it is unreachable.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", "no-store")
		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, readyzResponse{Ready: false, Error: "store unreachable"})
			return
		}
		render.JSON(w, r, readyzResponse{Ready: true})
	}
}
