package memo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkmemo/internal/domain"
)

const twoEntryDoc = `# Link Memos

保存されたリンク一覧

---

## 2025-01-02 10:00:00
- URL: https://old.example.com
- メモ: older memo
- タグ: [x, y]

---

## 2025-01-03 11:30:15
- URL: https://new.example.com
- メモ: newer memo

---

`

func sampleEntries() []domain.Entry {
	return []domain.Entry{
		{Timestamp: "2025-02-01 08:00:00", URL: "https://c.example", Memo: "third", Tags: []string{"go", "go"}},
		{Timestamp: "2025-01-15 12:00:00", URL: "https://b.example", Memo: "second", Tags: []string{}},
		{Timestamp: "2025-01-01 00:00:01", URL: "https://a.example", Memo: "first", Tags: []string{"web"}},
	}
}

func TestParseOrdersNewestFirst(t *testing.T) {
	c := NewCodec(DefaultLabels())

	got := c.Parse(twoEntryDoc)

	require.Len(t, got, 2)
	assert.Equal(t, domain.Entry{
		Timestamp: "2025-01-03 11:30:15",
		URL:       "https://new.example.com",
		Memo:      "newer memo",
		Tags:      []string{},
	}, got[0])
	assert.Equal(t, domain.Entry{
		Timestamp: "2025-01-02 10:00:00",
		URL:       "https://old.example.com",
		Memo:      "older memo",
		Tags:      []string{"x", "y"},
	}, got[1])
}

func TestParseHeaderOnly(t *testing.T) {
	c := NewCodec(DefaultLabels())

	assert.Empty(t, c.Parse(c.Header()))
	assert.Empty(t, c.Parse(""))
}

func TestParseTagsLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "brackets with spaces", line: "- タグ: [a, b , c]", want: []string{"a", "b", "c"}},
		{name: "no brackets", line: "- タグ: a, b", want: []string{}},
		{name: "empty pieces dropped", line: "- タグ: [a,, ,b]", want: []string{"a", "b"}},
		{name: "only first bracket pair", line: "- タグ: [a] [b]", want: []string{"a"}},
		{name: "unclosed bracket", line: "- タグ: [a, b", want: []string{}},
	}

	c := NewCodec(DefaultLabels())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "## 2025-01-01 00:00:00\n- URL: u\n- メモ: m\n" + tt.line + "\n"
			got := c.Parse(doc)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Tags)
		})
	}
}

func TestParseMissingTagsLine(t *testing.T) {
	c := NewCodec(DefaultLabels())

	got := c.Parse("## 2025-01-01 00:00:00\n- URL: u\n- メモ: m\n")

	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Tags)
	assert.Empty(t, got[0].Tags)
}

func TestParsePermissive(t *testing.T) {
	c := NewCodec(DefaultLabels())
	doc := strings.Join([]string{
		"- URL: https://orphan.example",
		"random preface",
		"## not a date",
		"   ## 2025-05-05 05:05:05   ",
		"- URL",
		"  - メモ:   padded memo   ",
		"- something else: ignored",
		"",
	}, "\n")

	got := c.Parse(doc)

	require.Len(t, got, 1)
	assert.Equal(t, "2025-05-05 05:05:05", got[0].Timestamp)
	assert.Equal(t, "", got[0].URL, "malformed URL line must leave url empty")
	assert.Equal(t, "padded memo", got[0].Memo)
}

func TestParseCRLF(t *testing.T) {
	c := NewCodec(DefaultLabels())
	doc := strings.ReplaceAll(twoEntryDoc, "\n", "\r\n")

	got := c.Parse(doc)

	require.Len(t, got, 2)
	assert.Equal(t, "https://new.example.com", got[0].URL)
	assert.Equal(t, []string{"x", "y"}, got[1].Tags)
}

func TestFormatAllRoundTrip(t *testing.T) {
	c := NewCodec(DefaultLabels())
	entries := sampleEntries()

	doc := c.FormatAll(entries, true)

	assert.Equal(t, entries, c.Parse(doc))
	assert.True(t, strings.HasPrefix(doc, c.Header()))
	assert.Less(t, strings.Index(doc, "first"), strings.Index(doc, "third"), "document must be oldest-first")
}

func TestFormatAllIdempotent(t *testing.T) {
	c := NewCodec(DefaultLabels())
	entries := sampleEntries()

	first := c.FormatAll(entries, true)
	second := c.FormatAll(entries, true)

	assert.Equal(t, first, second)
	assert.Equal(t, c.Parse(first), c.Parse(second))
}

func TestFormatAllOldestFirstInput(t *testing.T) {
	c := NewCodec(DefaultLabels())
	newest := sampleEntries()
	oldest := []domain.Entry{newest[2], newest[1], newest[0]}

	assert.Equal(t, c.FormatAll(newest, true), c.FormatAll(oldest, false))
}

func TestFormatAllDoesNotMutateInput(t *testing.T) {
	c := NewCodec(DefaultLabels())
	entries := sampleEntries()
	before := append([]domain.Entry(nil), entries...)

	_ = c.FormatAll(entries, true)

	assert.Equal(t, before, entries)
}

func TestFormatOneShape(t *testing.T) {
	c := NewCodec(DefaultLabels())

	withTags := c.FormatOne(domain.Entry{
		Timestamp: "2025-01-01 09:00:00",
		URL:       "https://go.dev",
		Memo:      "go",
		Tags:      []string{"a", "b"},
	})
	assert.Equal(t, "## 2025-01-01 09:00:00\n- URL: https://go.dev\n- メモ: go\n- タグ: [a, b]\n\n---\n\n", withTags)

	noTags := c.FormatOne(domain.Entry{Timestamp: "2025-01-01 09:00:00", URL: "u", Memo: "m"})
	assert.Equal(t, "## 2025-01-01 09:00:00\n- URL: u\n- メモ: m\n\n---\n\n", noTags)
}

func TestFormatOneAppendParsesBack(t *testing.T) {
	c := NewCodec(DefaultLabels())
	e := domain.Entry{Timestamp: "2025-06-01 12:00:00", URL: "https://x", Memo: "fresh", Tags: []string{"t"}}

	got := c.Parse(twoEntryDoc + c.FormatOne(e))

	require.Len(t, got, 3)
	assert.Equal(t, e, got[0])
}

func TestCustomLabels(t *testing.T) {
	c := NewCodec(Labels{Title: "Links", Memo: "Note", Tags: "Tags"})
	e := domain.Entry{Timestamp: "2025-06-01 12:00:00", URL: "https://x", Memo: "n", Tags: []string{"t"}}

	doc := c.FormatAll([]domain.Entry{e}, true)

	assert.Contains(t, doc, "# Links\n\n保存されたリンク一覧\n\n---\n\n")
	assert.Contains(t, doc, "- Note: n\n- Tags: [t]\n")
	assert.Equal(t, []domain.Entry{e}, c.Parse(doc))
	assert.Empty(t, NewCodec(DefaultLabels()).Parse(doc)[0].Memo, "labels must match exactly")
}
