package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/handlers"
)

func init() { RegisterGuarded(registerBrowse) }

func registerBrowse(r chi.Router, d deps.Deps) {
	r.Get("/tags", handlers.Tags(d))
	r.Get("/document", handlers.Document(d))
	r.Get("/export.yaml", handlers.ExportYAML(d))
}
