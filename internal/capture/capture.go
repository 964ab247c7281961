// Package capture models the hand-off between a "save this" action
// (link, page or text selection) and the form that turns it into an entry.
package capture

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindLink      Kind = "link"
	KindPage      Kind = "page"
	KindSelection Kind = "selection"
)

var (
	ErrUnknownKind = errors.New("unknown capture kind")
	ErrNoURL       = errors.New("no url found in capture")
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// Link is an anchor found inside a selection.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text,omitempty"`
}

// Pending is a capture waiting to be completed with a memo and tags.
type Pending struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	URL           string    `json:"url,omitempty"`
	Title         string    `json:"title,omitempty"`
	SelectionText string    `json:"selection_text,omitempty"`
	Links         []Link    `json:"links,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Prefill is what the capture form starts with.
type Prefill struct {
	URL        string   `json:"url"`
	Candidates []string `json:"candidates"`
	Memo       string   `json:"memo"`
}

// New validates p, assigns a fresh ID and stamps it.
func New(p Pending, now time.Time) (Pending, error) {
	p.URL = strings.TrimSpace(p.URL)
	p.Title = strings.TrimSpace(p.Title)

	switch p.Kind {
	case KindLink, KindPage:
		if p.URL == "" {
			return Pending{}, fmt.Errorf("%w: %s capture", ErrNoURL, p.Kind)
		}
	case KindSelection:
		if strings.TrimSpace(p.SelectionText) == "" && len(p.Links) == 0 {
			return Pending{}, fmt.Errorf("%w: empty selection", ErrNoURL)
		}
	default:
		return Pending{}, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}

	p.ID = uuid.NewString()
	p.CreatedAt = now
	return p, nil
}

// Prefill resolves the form values. A page capture uses its title as the
// default memo; a selection offers every URL it contains, the first one
// selected.
func (p Pending) Prefill() (Prefill, error) {
	if p.Kind != KindSelection {
		return Prefill{URL: p.URL, Candidates: []string{p.URL}, Memo: p.Title}, nil
	}

	urls := MergeLinks(p.Links, p.SelectionText)
	if len(urls) == 0 {
		return Prefill{}, ErrNoURL
	}
	return Prefill{URL: urls[0], Candidates: urls}, nil
}

// ExtractURLs returns every http(s) URL in text, in order of appearance.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// MergeLinks lists anchor URLs first, then URLs found in text, without duplicates.
func MergeLinks(links []Link, text string) []string {
	seen := make(map[string]bool, len(links))
	urls := make([]string, 0, len(links))

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	for _, l := range links {
		add(l.URL)
	}
	for _, u := range ExtractURLs(text) {
		add(u)
	}
	return urls
}
