// Package content holds the static section/document index the viewer
// navigates over. The index is built once at startup and read-only for
// the process lifetime.
package content

import (
	"fmt"

	"github.com/zhelev-dev/docview/internal/route"
)

// Section describes one top-level division of the corpus.
type Section struct {
	ID          string
	Title       string
	RootPath    string // directory prefix document paths are resolved under
	Description string
	Intro       string
	Docs        []string // ordered document ids; order defines prev/next
}

// DocIndex returns the position of docID within the section, or -1.
func (s *Section) DocIndex(docID string) int {
	for i, d := range s.Docs {
		if d == docID {
			return i
		}
	}
	return -1
}

// Neighbors returns the document ids before and after docID in section
// order. Either may be empty at the edges or when docID is unknown.
func (s *Section) Neighbors(docID string) (prev, next string) {
	i := s.DocIndex(docID)
	if i < 0 {
		return "", ""
	}
	if i > 0 {
		prev = s.Docs[i-1]
	}
	if i < len(s.Docs)-1 {
		next = s.Docs[i+1]
	}
	return prev, next
}

// Index is the immutable set of sections plus lookup tables.
type Index struct {
	sections []Section
	byID     map[string]*Section
}

// NewIndex builds an Index. Section ids and per-section document ids
// must be unique.
func NewIndex(sections []Section) (*Index, error) {
	x := &Index{
		sections: sections,
		byID:     make(map[string]*Section, len(sections)),
	}
	for i := range x.sections {
		s := &x.sections[i]
		if s.ID == "" {
			return nil, fmt.Errorf("content: section %d has no id", i)
		}
		if _, dup := x.byID[s.ID]; dup {
			return nil, fmt.Errorf("content: duplicate section id %q", s.ID)
		}
		seen := make(map[string]bool, len(s.Docs))
		for _, d := range s.Docs {
			if seen[d] {
				return nil, fmt.Errorf("content: duplicate document %q in section %q", d, s.ID)
			}
			seen[d] = true
		}
		x.byID[s.ID] = s
	}
	return x, nil
}

// Sections returns all sections in declaration order.
func (x *Index) Sections() []Section { return x.sections }

// Section looks a section up by id.
func (x *Index) Section(id string) (*Section, bool) {
	s, ok := x.byID[id]
	return s, ok
}

// DocPath resolves the concrete content path for a document, e.g.
// ("ecmascript", "09-RegExp.md") -> "1-ECMAScript/09-RegExp.md".
func (x *Index) DocPath(sectionID, docID string) (string, bool) {
	s, ok := x.byID[sectionID]
	if !ok || s.DocIndex(docID) < 0 {
		return "", false
	}
	return s.RootPath + "/" + docID, true
}

// Entry is one row of the flattened jump index used by the command
// palette and the MCP search tool.
type Entry struct {
	Label        string `json:"label"`
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
	DocID        string `json:"doc_id,omitempty"` // empty for section entries
	Frag         string `json:"frag"`
}

// IsSection reports whether the entry points at a section landing page.
func (e Entry) IsSection() bool { return e.DocID == "" }

// Entries flattens the index into palette entries: each section first,
// then its documents in order.
func (x *Index) Entries() []Entry {
	var out []Entry
	for i := range x.sections {
		s := &x.sections[i]
		out = append(out, Entry{
			Label:        s.Title,
			SectionID:    s.ID,
			SectionTitle: s.Title,
			Frag:         route.Format(s.ID, ""),
		})
		for _, d := range s.Docs {
			out = append(out, Entry{
				Label:        Title(d),
				SectionID:    s.ID,
				SectionTitle: s.Title,
				DocID:        d,
				Frag:         route.Format(s.ID, d),
			})
		}
	}
	return out
}
