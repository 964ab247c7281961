package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkmemo/internal/capture"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/logger"
)

type captureRequest struct {
	Kind          capture.Kind   `json:"kind"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	SelectionText string         `json:"selection_text"`
	Links         []capture.Link `json:"links"`
}

type captureCreated struct {
	ID      string          `json:"id"`
	Prefill capture.Prefill `json:"prefill"`
}

type captureClaimed struct {
	capture.Prefill
	Kind capture.Kind `json:"kind"`
}

// CreateCapture parks a link, page or selection until the capture form claims it.
func CreateCapture(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Captures == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "capture hand-off is disabled"})
			return
		}

		var req captureRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := capture.New(capture.Pending{
			Kind:          req.Kind,
			URL:           req.URL,
			Title:         req.Title,
			SelectionText: req.SelectionText,
			Links:         req.Links,
		}, d.Now())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		prefill, err := p.Prefill()
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		if err := d.Captures.SavePending(r.Context(), p); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("capture parked",
			logger.String("id", p.ID),
			logger.String("kind", string(p.Kind)),
			logger.Int("candidates", len(prefill.Candidates)))

		writeJSON(w, http.StatusCreated, captureCreated{ID: p.ID, Prefill: prefill})
	}
}

// ClaimCapture hands a pending capture to the form exactly once.
func ClaimCapture(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Captures == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "capture hand-off is disabled"})
			return
		}

		p, err := d.Captures.ClaimPending(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		prefill, err := p.Prefill()
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, captureClaimed{Prefill: prefill, Kind: p.Kind})
	}
}
