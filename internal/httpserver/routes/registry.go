package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg     Registrar
	guarded bool
}

var registry []entry

// Register adds open routes, served without access restrictions.
func Register(reg Registrar) {
	registry = append(registry, entry{reg: reg})
}

// RegisterGuarded adds routes that sit behind the CIDR and Host checks.
func RegisterGuarded(reg Registrar) {
	registry = append(registry, entry{reg: reg, guarded: true})
}

// RegisterAll mounts every registered route. Called once from server.New().
func RegisterAll(r chi.Router, d deps.Deps) {
	guard := []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}
	for _, e := range registry {
		if e.guarded {
			e.reg(r.With(guard...), d)
			continue
		}
		e.reg(r, d)
	}
}
