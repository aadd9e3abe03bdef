package mw

import (
	"net/http"

	"github.com/go-chi/render"
)

type rejection struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// reject writes the standard failure envelope.
func reject(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, rejection{Success: false, Message: message})
}
