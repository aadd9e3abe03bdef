package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

// TokenVerifier checks a bearer token against the stored admin token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

const bearerPrefix = "Bearer "

// RequireAdmin rejects requests whose Authorization header does not carry
// the current admin token.
func RequireAdmin(v TokenVerifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				reject(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			ok, err := v.Verify(r.Context(), header[len(bearerPrefix):])
			if err != nil {
				log.Error("admin token check failed",
					logger.String("path", r.URL.Path),
					logger.Error(err))
				reject(w, r, http.StatusInternalServerError, "internal server error")
				return
			}
			if !ok {
				reject(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
