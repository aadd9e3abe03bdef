package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

const maxBodyBytes = 1 << 20

// Envelope is embedded in every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

func respond(w http.ResponseWriter, r *http.Request, v any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, v)
}

func fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{Success: false, Message: message})
}

// decode reads a JSON body into v. Unreadable or malformed bodies are
// validation failures.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := render.DecodeJSON(body, v); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.ValidationError{Reason: domain.ReasonBadRequest, Field: "body"}
		}
		return &domain.ValidationError{Reason: domain.ReasonBadRequest}
	}
	return nil
}

// writeError maps an operation error to its status code. Unknown errors
// become a generic 500 and are logged with the request id.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(w, r, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		fail(w, r, http.StatusBadRequest, "not found")
	case errors.Is(err, domain.ErrAlreadyReviewed),
		errors.Is(err, domain.ErrInvalidAction):
		fail(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		fail(w, r, http.StatusUnauthorized, err.Error())
	default:
		log.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
		fail(w, r, http.StatusInternalServerError, "internal server error")
	}
}
