// Package palette implements the jump-to-document command palette: an
// overlay with its own filter state over the flattened section/document
// index, independent of the current route.
package palette

import (
	"strings"
	"sync"

	"github.com/zhelev-dev/docview/internal/content"
)

// MaxResults caps how many matches are surfaced per query.
const MaxResults = 60

// Palette holds the overlay's state. Safe for concurrent use.
type Palette struct {
	entries []content.Entry

	mu      sync.Mutex
	open    bool
	query   string
	results []content.Entry
	active  int
}

// New builds a palette over the flattened index.
func New(entries []content.Entry) *Palette {
	return &Palette{entries: entries}
}

// Open shows the palette: the filter resets to empty (first MaxResults
// entries), with the first result pre-activated.
func (p *Palette) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	p.query = ""
	p.results = Filter(p.entries, "")
	p.active = 0
}

// Close hides the palette without navigating.
func (p *Palette) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// Toggle flips the palette open or closed, as bound to the global
// keyboard shortcut.
func (p *Palette) Toggle() {
	p.mu.Lock()
	open := p.open
	p.mu.Unlock()
	if open {
		p.Close()
	} else {
		p.Open()
	}
}

// IsOpen reports whether the palette is showing.
func (p *Palette) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// SetQuery refilters the index and resets the active result.
func (p *Palette) SetQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = q
	p.results = Filter(p.entries, q)
	p.active = 0
}

// Results returns the current matches, at most MaxResults.
func (p *Palette) Results() []content.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// ActiveIndex returns the highlighted result position.
func (p *Palette) ActiveIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// MoveUp shifts the highlight up one result, clamping at the first —
// no wraparound.
func (p *Palette) MoveUp() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active > 0 {
		p.active--
	}
}

// MoveDown shifts the highlight down one result, clamping at the last.
func (p *Palette) MoveDown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active < len(p.results)-1 {
		p.active++
	}
}

// Select returns the active result's entry and closes the palette.
// With no results it reports false and stays open.
func (p *Palette) Select() (content.Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.results) == 0 {
		return content.Entry{}, false
	}
	entry := p.results[p.active]
	p.open = false
	return entry, true
}

// Filter returns the entries matching q by case-insensitive substring
// against the label or the section-title metadata, capped at
// MaxResults. An empty query matches everything.
func Filter(entries []content.Entry, q string) []content.Entry {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []content.Entry
	for _, e := range entries {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Label), q) ||
			strings.Contains(strings.ToLower(e.SectionTitle), q) {
			out = append(out, e)
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out
}
