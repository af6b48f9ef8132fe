// Package toc builds the in-page jump list from rendered headings and
// owns stable anchor-id assignment.
package toc

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinHeadings is the activation threshold: documents with fewer
// qualifying headings get no jump list at all.
const MinHeadings = 3

// Entry is one jump-list row. Level is 2 or 3, matching the heading.
type Entry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Assign walks the document's h2/h3 headings in order, gives every
// heading without an id one derived from its text, and returns all
// entries. Slug collisions within the document get "-2", "-3", ...
// suffixes. Callers apply the MinHeadings threshold.
func Assign(doc *goquery.Document) []Entry {
	seen := make(map[string]int)
	var entries []Entry

	doc.Find("h2, h3").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		id, ok := sel.Attr("id")
		if !ok || id == "" {
			id = unique(Slug(text), seen)
			sel.SetAttr("id", id)
		} else {
			// Existing ids still claim their slug so later duplicates
			// pick a suffix.
			seen[id]++
		}
		entries = append(entries, Entry{ID: id, Text: text, Level: level(sel)})
	})
	return entries
}

// Collect reads the jump list from already-processed HTML, using the
// heading ids as they stand. Used on render-cache hits, where ids were
// assigned when the entry was first rendered.
func Collect(htmlStr string) []Entry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}
	var entries []Entry
	doc.Find("h2[id], h3[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		entries = append(entries, Entry{
			ID:    id,
			Text:  strings.TrimSpace(sel.Text()),
			Level: level(sel),
		})
	})
	return entries
}

func level(sel *goquery.Selection) int {
	if goquery.NodeName(sel) == "h3" {
		return 3
	}
	return 2
}

// unique disambiguates a slug against previously issued ones.
func unique(slug string, seen map[string]int) string {
	seen[slug]++
	if n := seen[slug]; n > 1 {
		suffixed := slug + "-" + strconv.Itoa(n)
		seen[suffixed]++
		return suffixed
	}
	return slug
}

// Slug derives a stable anchor id from heading text: lowercased,
// characters other than letters, digits, spaces and hyphens stripped,
// spaces collapsed to hyphens.
func Slug(text string) string {
	text = strings.ToLower(text)
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte(' ')
		}
	}
	fields := strings.Fields(b.String())
	slug := strings.Join(fields, "-")
	if slug == "" {
		slug = "section"
	}
	return slug
}
