package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memos.md")
	out, err := run(t, "init", "--file", path)
	require.NoError(t, err)
	require.Contains(t, out, "Created")
	return path
}

func listJSON(t *testing.T, path string, extra ...string) []memo.Indexed {
	t.Helper()
	out, err := run(t, append([]string{"list", "--json", "--file", path}, extra...)...)
	require.NoError(t, err)
	var items []memo.Indexed
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	return items
}

func TestInitIsIdempotent(t *testing.T) {
	path := initFile(t)

	out, err := run(t, "init", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, memo.NewCodec(memo.DefaultLabels()).Header(), string(data))
}

func TestAddListEditRemove(t *testing.T) {
	path := initFile(t)

	_, err := run(t, "add", "https://first.example", "first memo", "--tags", "go, cli", "--file", path)
	require.NoError(t, err)
	_, err = run(t, "add", "https://second.example", "second memo", "--file", path)
	require.NoError(t, err)

	items := listJSON(t, path)
	require.Len(t, items, 2)
	// Both entries may share a timestamp; file order still decides.
	assert.Equal(t, "https://second.example", items[0].Entry.URL)
	assert.Equal(t, []string{"go", "cli"}, items[1].Entry.Tags)

	filtered := listJSON(t, path, "--tag", "go")
	require.Len(t, filtered, 1)
	assert.Equal(t, 1, filtered[0].Index)

	_, err = run(t, "edit", "1", "--memo", "changed", "--tags", "", "--file", path)
	require.NoError(t, err)
	items = listJSON(t, path)
	assert.Equal(t, "changed", items[1].Entry.Memo)
	assert.Equal(t, "https://first.example", items[1].Entry.URL)
	assert.Empty(t, items[1].Entry.Tags)

	out, err := run(t, "rm", "0", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "https://second.example")
	items = listJSON(t, path)
	require.Len(t, items, 1)
	assert.Equal(t, "https://first.example", items[0].Entry.URL)
}

func TestListTable(t *testing.T) {
	path := initFile(t)
	_, err := run(t, "add", "https://table.example", "in a table", "--file", path)
	require.NoError(t, err)

	out, err := run(t, "list", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "https://table.example")
	assert.Contains(t, out, "in a table")

	out, err = run(t, "list", "--search", "nothing-matches", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "No entries.\n", out)
}

func TestErrors(t *testing.T) {
	path := initFile(t)
	missing := filepath.Join(t.TempDir(), "missing.md")

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"list missing file", []string{"list", "--file", missing}, memo.ErrIOFailure, "linkmemo init"},
		{"rm out of range", []string{"rm", "3", "--file", path}, memo.ErrInvalidIndex, ""},
		{"edit out of range", []string{"edit", "0", "--memo", "x", "--file", path}, memo.ErrInvalidIndex, ""},
		{"bad index", []string{"rm", "first", "--file", path}, nil, "integer"},
		{"empty memo", []string{"add", "https://x.example", "  ", "--file", path}, nil, "memo is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRender(t *testing.T) {
	path := initFile(t)
	_, err := run(t, "add", "https://render.example", "rendered", "--file", path)
	require.NoError(t, err)

	md, err := run(t, "render", "--file", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), md)

	html, err := run(t, "render", "--html", "--file", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `href="https://render.example"`)
}

func TestLabelsOverride(t *testing.T) {
	dir := t.TempDir()
	labels := filepath.Join(dir, "labels.yaml")
	require.NoError(t, os.WriteFile(labels, []byte("title: Bookmarks\ndescription: Saved links\nmemo: Note\ntags: Tags\n"), 0o644))
	path := filepath.Join(dir, "memos.md")

	_, err := run(t, "init", "--file", path, "--labels", labels)
	require.NoError(t, err)
	_, err = run(t, "add", "https://l.example", "labelled", "-t", "a", "--file", path, "--labels", labels)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Bookmarks\n\nSaved links\n\n---\n\n"))
	assert.Contains(t, string(data), "- Note: labelled\n- Tags: [a]\n")
}

func TestDataCommandsIgnoreServerSettings(t *testing.T) {
	path := initFile(t)
	// Both would make the server configuration fail validation.
	t.Setenv("LINKMEMO_CAPTURE_TTL", "0s")
	t.Setenv("LINKMEMO_REDIS_ADDR", "localhost:6379")
	t.Setenv("LINKMEMO_REDIS_PASSWORD_REQUIRED", "true")

	_, err := run(t, "add", "https://settings.example", "still works", "--file", path)
	require.NoError(t, err)

	items := listJSON(t, path)
	require.Len(t, items, 1)
	assert.Equal(t, "still works", items[0].Entry.Memo)
}

func TestBlankFileSettingIsAnError(t *testing.T) {
	t.Setenv("LINKMEMO_FILE", "   ")

	var err error
	assert.NotPanics(t, func() { _, err = run(t, "list") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINKMEMO_FILE")
}
