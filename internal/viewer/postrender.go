package viewer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zhelev-dev/docview/internal/toc"
)

// calloutKinds maps a leading strong-text label inside a blockquote to
// a callout class.
var calloutKinds = map[string]string{
	"note":    "note",
	"info":    "info",
	"tip":     "tip",
	"warning": "warning",
}

// postRender runs the ordered post-processing steps on converted HTML:
// callout transformation, table wrapping and heading-anchor assignment
// (which doubles as the TOC scan). It returns the final markup and the
// full heading list; callers apply the TOC activation threshold.
func postRender(htmlStr string) (string, []toc.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return "", nil, fmt.Errorf("viewer: parsing rendered html: %w", err)
	}

	transformCallouts(doc)
	wrapTables(doc)
	entries := toc.Assign(doc)

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, fmt.Errorf("viewer: serializing html: %w", err)
	}
	return out, entries, nil
}

// transformCallouts turns blockquotes led by a bold Note/Info/Tip/
// Warning label into styled callout blocks.
func transformCallouts(doc *goquery.Document) {
	doc.Find("blockquote").Each(func(_ int, bq *goquery.Selection) {
		label := bq.Find("p").First().Find("strong, b").First()
		if label.Length() == 0 {
			return
		}
		key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label.Text()), ":"))
		kind, ok := calloutKinds[key]
		if !ok {
			return
		}
		bq.SetAttr("class", "callout callout-"+kind)
	})
}

// wrapTables makes wide tables horizontally scrollable instead of
// overflowing the content column.
func wrapTables(doc *goquery.Document) {
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if table.Parent().HasClass("table-wrap") {
			return
		}
		table.WrapHtml(`<div class="table-wrap"></div>`)
	})
}

// firstH1 extracts the document title from its first h1, if any.
func firstH1(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
