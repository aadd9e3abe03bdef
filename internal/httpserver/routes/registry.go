// Package routes collects route groups. Each file registers its group from
// init so that adding an endpoint never touches the server setup.
package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/siteboard/internal/httpserver/deps"
)

type Registrar func(r chi.Router, d deps.Deps)

var registry []Registrar

func Register(reg Registrar) {
	registry = append(registry, reg)
}

// RegisterAll mounts every registered route group. Called once per router
// from httpserver.NewHandler.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registry {
		reg(r, d)
	}
}
