package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkmemo/internal/domain"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/logger"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

// tagList accepts tags as a JSON array or as the comma separated text typed
// into the edit form.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*t = domain.SplitTags(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

type entryRequest struct {
	URL  string  `json:"url"`
	Memo string  `json:"memo"`
	Tags tagList `json:"tags"`
}

type entriesResponse struct {
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Entries []memo.Indexed `json:"entries"`
}

// ListEntries serves the newest-first list, narrowed by ?q= (case-insensitive
// substring) and ?tag= (exact tag).
func ListEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items := d.Store.Select(q.Get("q"), q.Get("tag"))
		writeJSON(w, http.StatusOK, entriesResponse{
			Count:   len(items),
			Total:   d.Store.Len(),
			Entries: items,
		})
	}
}

// CreateEntry appends a new entry and reloads the list so it shows up first.
func CreateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		entry, err := d.Store.AddNew(r.Context(), req.URL, req.Memo, req.Tags)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("entry added",
			logger.String("url", entry.URL),
			logger.Strings("tags", entry.Tags))

		if err := d.Store.Load(r.Context()); err != nil {
			d.Logger.Warn("reload after add failed", logger.Error(err))
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

// UpdateEntry replaces url, memo and tags of the entry at {index}.
func UpdateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}
		var req entryRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := d.Store.Update(r.Context(), index, req.URL, req.Memo, req.Tags); err != nil {
			resync(d, r, err)
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("entry updated", logger.Int("index", index))

		entries := d.Store.Entries()
		if index >= len(entries) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, memo.Indexed{Index: index, Entry: entries[index]})
	}
}

// DeleteEntry removes the entry at {index}.
func DeleteEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}

		if err := d.Store.Remove(r.Context(), index); err != nil {
			resync(d, r, err)
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("entry removed", logger.Int("index", index))
		w.WriteHeader(http.StatusNoContent)
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		badRequest(w, "index must be an integer")
		return 0, false
	}
	return index, true
}

// resync reloads the list after a failed write. The in-memory list keeps
// the mutation the file rejected until then.
func resync(d deps.Deps, r *http.Request, err error) {
	if !isWriteFailure(err) {
		return
	}
	if loadErr := d.Store.Load(r.Context()); loadErr != nil {
		d.Logger.Error("resync after failed write", logger.Error(loadErr))
	}
}
