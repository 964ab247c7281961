package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Mode    string `json:"mode,omitempty"`
	Entries *int   `json:"entries,omitempty"`
	Pending *int   `json:"pending,omitempty"`
	Path    string `json:"path,omitempty"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the memo file, the in-memory store and the capture queue.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"memo_file": checkMemoFile(d.MemoFile),
			"store":     checkStore(d.Store),
			"redis":     checkCaptures(ctx, d.Captures),
		}
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       overallMode(components),
			Components: components,
		})
	}
}

func overallMode(c map[string]componentStatus) string {
	if !c["memo_file"].OK || !c["store"].OK {
		return "critical"
	}
	if r := c["redis"]; !r.OK && r.Mode != "disabled" {
		return "degraded"
	}
	return "operational"
}

func checkMemoFile(path string) componentStatus {
	info, err := os.Stat(path)
	if err != nil {
		return componentStatus{OK: false, Path: path, Error: err.Error()}
	}
	mode := "read-write"
	if info.Mode().Perm()&0o200 == 0 {
		mode = "read-only"
	}
	return componentStatus{OK: true, Path: path, Mode: mode}
}

func checkStore(s *memo.Store) componentStatus {
	n := s.Len()
	state := s.State()
	return componentStatus{OK: state == memo.Loaded, Mode: state.String(), Entries: &n}
}

func checkCaptures(ctx context.Context, q deps.CaptureQueue) componentStatus {
	if q == nil {
		return componentStatus{OK: false, Mode: "disabled", Impact: "capture-hand-off-disabled"}
	}
	if err := q.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: "capture-hand-off-disabled", Error: err.Error()}
	}
	n, err := q.CountPending(ctx)
	if err != nil {
		return componentStatus{OK: true, Mode: "optimal", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "optimal", Pending: &n}
}
