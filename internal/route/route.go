// Package route parses address fragments into navigation targets.
//
// The fragment grammar is the viewer's de facto URL contract:
//
//	""                      -> home
//	"home"                  -> home
//	"<section>"             -> section landing page
//	"<section>/<document>"  -> a document, percent-encoded
package route

import (
	"net/url"
	"strings"
)

// HomeToken is the literal fragment naming the home view.
const HomeToken = "home"

// Mode identifies what kind of view a target points at.
type Mode int

const (
	ModeHome Mode = iota
	ModeSection
)

// Target is the parsed result of an address fragment. Targets are
// value types: recomputed on every navigation, never mutated.
type Target struct {
	Mode      Mode
	SectionID string
	DocID     string // empty means the section landing page
}

// IsDoc reports whether the target names a specific document.
func (t Target) IsDoc() bool {
	return t.Mode == ModeSection && t.DocID != ""
}

// Parse turns a fragment into a Target. It is a pure function: no
// validation against known sections happens here — an unknown section
// id is the loader's problem, which redirects to home.
func Parse(frag string) Target {
	frag = strings.TrimPrefix(frag, "#")
	if frag == "" || frag == HomeToken {
		return Target{Mode: ModeHome}
	}

	section, doc, found := strings.Cut(frag, "/")
	t := Target{Mode: ModeSection, SectionID: section}
	if found && doc != "" {
		if decoded, err := url.PathUnescape(doc); err == nil {
			t.DocID = decoded
		} else {
			// Malformed escapes are kept verbatim; resolution will fail
			// downstream and surface as a fetch error.
			t.DocID = doc
		}
	}
	return t
}

// Format is the inverse of Parse: it builds the fragment addressing the
// given section and document. Parse(Format(s, d)) recovers (s, d).
func Format(sectionID, docID string) string {
	if sectionID == "" {
		return HomeToken
	}
	if docID == "" {
		return sectionID
	}
	return sectionID + "/" + url.PathEscape(docID)
}
