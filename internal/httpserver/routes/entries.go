package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/handlers"
)

func init() { RegisterGuarded(registerEntries) }

func registerEntries(r chi.Router, d deps.Deps) {
	r.Get("/entries", handlers.ListEntries(d))
	r.Post("/entries", handlers.CreateEntry(d))
	r.Put("/entries/{index}", handlers.UpdateEntry(d))
	r.Delete("/entries/{index}", handlers.DeleteEntry(d))
}
