package viewer

import (
	"strings"

	"github.com/zhelev-dev/docview/internal/content"
	"github.com/zhelev-dev/docview/internal/route"
)

// SidebarEntry is one row of the navigation tree.
type SidebarEntry struct {
	Label  string `json:"label"`
	Frag   string `json:"frag"`
	Active bool   `json:"active"`
	Empty  bool   `json:"empty,omitempty"`
}

// Sidebar builds the navigation list for the current target: all
// sections in home mode, the section's documents otherwise, filtered
// by a case-insensitive substring on the title. At most one entry is
// marked active. A section with no documents yields an explicit
// empty-state row.
func (v *Viewer) Sidebar(target route.Target, filter string) []SidebarEntry {
	filter = strings.ToLower(strings.TrimSpace(filter))

	if target.Mode == route.ModeHome {
		return v.sectionRows(target, filter)
	}
	sec, ok := v.index.Section(target.SectionID)
	if !ok {
		return v.sectionRows(target, filter)
	}

	if len(sec.Docs) == 0 {
		return []SidebarEntry{{Label: "No documents yet", Empty: true}}
	}

	var rows []SidebarEntry
	for _, d := range sec.Docs {
		title := content.Title(d)
		if filter != "" && !strings.Contains(strings.ToLower(title), filter) {
			continue
		}
		rows = append(rows, SidebarEntry{
			Label:  title,
			Frag:   route.Format(sec.ID, d),
			Active: d == target.DocID,
		})
	}
	return rows
}

func (v *Viewer) sectionRows(target route.Target, filter string) []SidebarEntry {
	var rows []SidebarEntry
	for _, s := range v.index.Sections() {
		if filter != "" && !strings.Contains(strings.ToLower(s.Title), filter) {
			continue
		}
		rows = append(rows, SidebarEntry{
			Label:  s.Title,
			Frag:   route.Format(s.ID, ""),
			Active: s.ID == target.SectionID && target.SectionID != "",
		})
	}
	return rows
}
