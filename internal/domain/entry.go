package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the canonical creation timestamp format (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

var (
	ErrEmptyURL   = errors.New("url is required")
	ErrEmptyMemo  = errors.New("memo is required")
	ErrInvalidTag = errors.New("tag must not contain ',', '[' or ']'")
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

// Entry represents one saved link memo.
//
// Entries are created through NewEntry so that every value held by the
// store has a non-empty URL and Memo and a canonical Timestamp.
type Entry struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// Timestamp is the creation time in TimestampLayout.
	// It is preserved by edits.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// ─────────────────────────────
	// Content (editable)
	// ─────────────────────────────

	// URL is the saved link. Only non-emptiness is checked.
	URL string `json:"url" yaml:"url"`

	// Memo is a single line of free text.
	Memo string `json:"memo" yaml:"memo"`

	// Tags keeps input order; duplicates are kept.
	// Never nil for entries built by this package.
	Tags []string `json:"tags" yaml:"tags"`
}

// NewEntry validates the fields and stamps the entry with now.
func NewEntry(url, memo string, tags []string, now time.Time) (Entry, error) {
	e := Entry{Timestamp: FormatTimestamp(now)}
	if err := e.Edit(url, memo, tags); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Edit replaces URL, Memo and Tags after the same validation as NewEntry.
// The timestamp is left untouched. On error e is not modified.
func (e *Entry) Edit(url, memo string, tags []string) error {
	url = singleLine(url)
	memo = singleLine(memo)
	if url == "" {
		return ErrEmptyURL
	}
	if memo == "" {
		return ErrEmptyMemo
	}
	cleaned, err := CleanTags(tags)
	if err != nil {
		return err
	}
	e.URL = url
	e.Memo = memo
	e.Tags = cleaned
	return nil
}

// HasTag reports whether tag is present, compared case-sensitively.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no backing array with e.
func (e Entry) Clone() Entry {
	c := e
	c.Tags = append(make([]string, 0, len(e.Tags)), e.Tags...)
	return c
}

// FormatTimestamp renders t in the canonical layout, in t's location.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ValidTimestamp reports whether s matches the canonical layout.
func ValidTimestamp(s string) bool {
	return timestampPattern.MatchString(s)
}

// CleanTags trims every tag and drops empty ones. The result is never nil.
func CleanTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.ContainsAny(t, ",[]\n\r") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTag, t)
		}
		out = append(out, t)
	}
	return out, nil
}

// SplitTags turns user input like "go, cli ,, web" into ["go" "cli" "web"].
func SplitTags(input string) []string {
	out := make([]string, 0, 4)
	for _, part := range strings.Split(input, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// singleLine trims s and folds line breaks into spaces; a record field
// occupies exactly one line of the document.
func singleLine(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}
