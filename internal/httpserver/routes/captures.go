package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/mw"
)

func init() { RegisterGuarded(registerCaptures) }

func registerCaptures(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.CaptureBurst,
		PerMinute:  d.CapturePerMin,
		TrustProxy: d.TrustProxy,
		Now:        d.TimeNow,
	})
	r.With(limit).Post("/captures", handlers.CreateCapture(d))
	r.Get("/captures/{id}", handlers.ClaimCapture(d))
}
