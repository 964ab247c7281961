package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
}

// Readyz is ready once the memo file has been loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := d.Store.State()
		status := http.StatusOK
		if state != memo.Loaded {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: state == memo.Loaded, Store: state.String()})
	}
}
