package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/httpserver/handlers"
)

func init() { Register(registerBackup) }

func registerBackup(r chi.Router, d deps.Deps) {
	r.Post("/api/backup", handlers.Backup(d))
}
