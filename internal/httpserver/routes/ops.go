package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/mw"
)

func init() {
	Register(registerProbes)
	RegisterGuarded(registerReload)
}

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	cidrs := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	cidrs.Get("/readyz", handlers.Readyz(d))
	cidrs.Get("/infra", handlers.Infra(d))
}

func registerReload(r chi.Router, d deps.Deps) {
	r.Post("/reload", handlers.Reload(d))
}
