package memo

import (
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/linkmemo/internal/domain"
)

const (
	// Delimiter closes the header and every entry block.
	Delimiter = "---\n\n"

	headingPrefix = "## "
	urlPrefix     = "- URL:"
)

var headingDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Labels are the localized strings written into the document.
type Labels struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Memo        string `yaml:"memo"`
	Tags        string `yaml:"tags"`
}

// DefaultLabels returns the labels used by documents created without a labels file.
func DefaultLabels() Labels {
	return Labels{
		Title:       "Link Memos",
		Description: "保存されたリンク一覧",
		Memo:        "メモ",
		Tags:        "タグ",
	}
}

// withDefaults fills empty fields from DefaultLabels.
func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if strings.TrimSpace(l.Title) == "" {
		l.Title = d.Title
	}
	if strings.TrimSpace(l.Description) == "" {
		l.Description = d.Description
	}
	if strings.TrimSpace(l.Memo) == "" {
		l.Memo = d.Memo
	}
	if strings.TrimSpace(l.Tags) == "" {
		l.Tags = d.Tags
	}
	return l
}

// Codec converts between document text and entry lists.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	labels     Labels
	memoPrefix string
	tagsPrefix string
}

// NewCodec builds a codec for the given labels. Empty labels fall back to DefaultLabels.
func NewCodec(labels Labels) *Codec {
	labels = labels.withDefaults()
	return &Codec{
		labels:     labels,
		memoPrefix: "- " + labels.Memo + ":",
		tagsPrefix: "- " + labels.Tags + ":",
	}
}

// Labels returns the effective labels.
func (c *Codec) Labels() Labels { return c.labels }

// Header returns the fixed document header, delimiter included.
func (c *Codec) Header() string {
	return "# " + c.labels.Title + "\n\n" + c.labels.Description + "\n\n" + Delimiter
}

// Parse reads every entry of text. Entries are stored oldest-first in the
// document; the result is newest-first.
//
// Parsing never fails: lines that are not a dated heading or a known field
// line are skipped, and field lines before the first heading are ignored.
func (c *Codec) Parse(text string) []domain.Entry {
	var (
		entries []domain.Entry
		current *domain.Entry
	)

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, headingPrefix) && headingDate.MatchString(line[len(headingPrefix):]):
			flush()
			current = &domain.Entry{
				Timestamp: line[len(headingPrefix):],
				Tags:      []string{},
			}
		case current == nil:
			continue
		case strings.HasPrefix(line, urlPrefix):
			current.URL = strings.TrimSpace(line[len(urlPrefix):])
		case strings.HasPrefix(line, c.memoPrefix):
			current.Memo = strings.TrimSpace(line[len(c.memoPrefix):])
		case strings.HasPrefix(line, c.tagsPrefix):
			current.Tags = parseTagList(line[len(c.tagsPrefix):])
		}
	}
	flush()

	return newestFirst(entries)
}

// FormatOne renders a single entry block, terminated by the delimiter.
func (c *Codec) FormatOne(e domain.Entry) string {
	var b strings.Builder
	c.writeEntry(&b, e)
	return b.String()
}

// FormatAll renders a full document. When isNewestFirst is true the input
// is reversed so the document keeps its oldest-first physical order.
func (c *Codec) FormatAll(entries []domain.Entry, isNewestFirst bool) string {
	physical := entries
	if isNewestFirst {
		physical = newestFirst(entries)
	}

	var b strings.Builder
	b.WriteString(c.Header())
	for _, e := range physical {
		c.writeEntry(&b, e)
	}
	return b.String()
}

func (c *Codec) writeEntry(b *strings.Builder, e domain.Entry) {
	b.WriteString(headingPrefix + e.Timestamp + "\n")
	b.WriteString(urlPrefix + " " + e.URL + "\n")
	b.WriteString(c.memoPrefix + " " + e.Memo + "\n")
	if len(e.Tags) > 0 {
		b.WriteString(c.tagsPrefix + " [" + strings.Join(e.Tags, ", ") + "]\n")
	}
	b.WriteString("\n" + Delimiter)
}

// newestFirst returns a reversed copy of entries. Document order and list
// order are mirror images, so the same helper converts in both directions.
func newestFirst(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// parseTagList extracts the text between the first '[' and the next ']'.
// A value without brackets yields no tags.
func parseTagList(value string) []string {
	tags := []string{}
	open := strings.IndexByte(value, '[')
	if open < 0 {
		return tags
	}
	closing := strings.IndexByte(value[open+1:], ']')
	if closing < 0 {
		return tags
	}
	for _, part := range strings.Split(value[open+1:open+1+closing], ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
