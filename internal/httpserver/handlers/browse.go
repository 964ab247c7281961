package handlers

import (
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/linkmemo/internal/domain"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/logger"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

type tagsResponse struct {
	Tags []memo.TagCount `json:"tags"`
}

// Tags lists every tag with the number of entries carrying it.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tagsResponse{Tags: d.Store.Tags()})
	}
}

// Document renders the current list as the canonical Markdown document.
// With ?format=md the Markdown is returned as is, otherwise as HTML.
func Document(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codec := d.Store.Codec()
		text := codec.FormatAll(d.Store.Entries(), true)

		if r.URL.Query().Get("format") == "md" {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			_, _ = w.Write([]byte(text))
			return
		}

		page, err := d.Renderer.Page(codec.Labels().Title, text)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(page); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

type yamlExport struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	ExportedAt  string         `yaml:"exported_at"`
	Entries     []domain.Entry `yaml:"entries"`
}

// ExportYAML dumps the entries newest first.
func ExportYAML(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels := d.Store.Codec().Labels()
		out, err := yaml.Marshal(yamlExport{
			Title:       labels.Title,
			Description: labels.Description,
			ExportedAt:  domain.FormatTimestamp(d.Now()),
			Entries:     d.Store.Entries(),
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="link-memos.yaml"`)
		if _, err := w.Write(out); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
