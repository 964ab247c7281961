package memo

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/linkmemo/internal/domain"
)

// FileAccess is the capability to read and persist the backing document.
// Implementations wrap ErrPermissionDenied or ErrIOFailure in their errors.
// Append and WriteAll are all-or-nothing.
type FileAccess interface {
	Read(ctx context.Context) (string, error)
	Append(ctx context.Context, fragment string) error
	WriteAll(ctx context.Context, text string) error
}

// State is the lifecycle of a Store.
type State int

const (
	Unloaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// Indexed pairs an entry with its position in the newest-first list.
type Indexed struct {
	Index int          `json:"index" yaml:"index"`
	Entry domain.Entry `json:"entry" yaml:"entry"`
}

// TagCount is the number of entries carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Store holds the newest-first entry list of one session and persists
// mutations through its FileAccess.
//
// Operations are serialized by an internal mutex, so at most one read or
// write is in flight against the file at any time.
type Store struct {
	mu      sync.Mutex
	file    FileAccess
	codec   *Codec
	now     func() time.Time
	state   State
	entries []domain.Entry
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an unloaded store.
func NewStore(file FileAccess, codec *Codec, opts ...Option) *Store {
	s := &Store{
		file:  file,
		codec: codec,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Codec returns the codec used for parsing and formatting.
func (s *Store) Codec() *Codec { return s.codec }

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load reads the document and replaces the in-memory list.
// On error the previous list and state are kept.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.file.Read(ctx)
	if err != nil {
		return err
	}
	s.entries = s.codec.Parse(text)
	s.state = Loaded
	return nil
}

// AddNew stamps a new entry and appends it to the document.
// The in-memory list is not updated; call Load to observe the new entry.
func (s *Store) AddNew(ctx context.Context, url, memo string, tags []string) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := domain.NewEntry(url, memo, tags, s.now())
	if err != nil {
		return domain.Entry{}, err
	}
	if err := s.file.Append(ctx, s.codec.FormatOne(entry)); err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}

// Update replaces url, memo and tags of entries[index] and rewrites the file.
// The timestamp is preserved. A failed write leaves the in-memory change in
// place; reload to resynchronize with the file.
func (s *Store) Update(ctx context.Context, index int, url, memo string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndexLocked(index); err != nil {
		return err
	}
	if err := s.entries[index].Edit(url, memo, tags); err != nil {
		return err
	}
	return s.rewriteLocked(ctx)
}

// Remove deletes entries[index] and rewrites the file, with the same
// failure semantics as Update.
func (s *Store) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndexLocked(index); err != nil {
		return err
	}
	s.entries = slices.Delete(s.entries, index, index+1)
	return s.rewriteLocked(ctx)
}

// Entries returns a copy of the newest-first list.
func (s *Store) Entries() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.entries)
}

// Len returns the number of entries held in memory.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Search returns the entries whose URL, memo or any tag contains query,
// ignoring case. A blank query returns every entry. Order is preserved.
func (s *Store) Search(query string) []domain.Entry {
	return entriesOf(s.Select(query, ""))
}

// FilterByTag returns the entries carrying tag exactly (case-sensitive).
func (s *Store) FilterByTag(tag string) []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Entry, 0)
	for _, e := range s.entries {
		if e.HasTag(tag) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Select combines Search and FilterByTag and keeps each entry's list index,
// which is what Update and Remove expect. An empty tag skips tag filtering.
func (s *Store) Select(query, tag string) []Indexed {
	s.mu.Lock()
	defer s.mu.Unlock()

	blank := strings.TrimSpace(query) == ""
	lower := strings.ToLower(query)

	out := make([]Indexed, 0, len(s.entries))
	for i, e := range s.entries {
		if tag != "" && !e.HasTag(tag) {
			continue
		}
		if !blank && !matches(e, lower) {
			continue
		}
		out = append(out, Indexed{Index: i, Entry: e.Clone()})
	}
	return out
}

// Tags counts tag usage, most used first, ties by name.
func (s *Store) Tags() []TagCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, e := range s.entries {
		for _, t := range e.Tags {
			counts[t]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

func (s *Store) checkIndexLocked(index int) error {
	if s.state != Loaded {
		return ErrNotLoaded
	}
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d (have %d entries)", ErrInvalidIndex, index, len(s.entries))
	}
	return nil
}

func (s *Store) rewriteLocked(ctx context.Context) error {
	return s.file.WriteAll(ctx, s.codec.FormatAll(s.entries, true))
}

func matches(e domain.Entry, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(e.URL), lowerQuery) ||
		strings.Contains(strings.ToLower(e.Memo), lowerQuery) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), lowerQuery) {
			return true
		}
	}
	return false
}

func cloneAll(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

func entriesOf(items []Indexed) []domain.Entry {
	out := make([]domain.Entry, len(items))
	for i, it := range items {
		out[i] = it.Entry
	}
	return out
}
