// Package viewer implements the content-loading pipeline: resolving a
// navigation target through the cache tiers, rendering off-thread, and
// committing exactly one page under rapid navigation.
package viewer

import (
	"context"
	"errors"
	"fmt"
	stdhtml "html"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zhelev-dev/docview/internal/cache"
	"github.com/zhelev-dev/docview/internal/content"
	"github.com/zhelev-dev/docview/internal/render"
	"github.com/zhelev-dev/docview/internal/route"
	"github.com/zhelev-dev/docview/internal/toc"
)

// ErrSuperseded reports that a newer navigation started while this one
// was in flight. The superseded load commits nothing.
var ErrSuperseded = errors.New("viewer: navigation superseded")

// DocLink points at a neighbouring document.
type DocLink struct {
	Frag  string `json:"frag"`
	Title string `json:"title"`
}

// Page is a committed view: the final markup plus everything the
// chrome around it needs.
type Page struct {
	Target     route.Target
	Frag       string
	Title      string
	Breadcrumb []string
	HTML       string
	TOC        []toc.Entry
	Prev       *DocLink
	Next       *DocLink
	// LoadError carries the fetch/render failure shown inline in the
	// content area. Navigation itself still succeeds.
	LoadError string
}

// Viewer owns the load pipeline. Concurrent Navigate calls are
// serialized by a generation counter, not by holding a lock across
// I/O: each load checks at commit time whether it is still the latest.
type Viewer struct {
	index   *content.Index
	renders *cache.RenderCache
	sources *cache.SourceCache
	worker  *render.Worker
	fetcher Fetcher

	gen     atomic.Int64
	mu      sync.Mutex
	current *Page
}

// New wires a Viewer from its collaborators.
func New(index *content.Index, renders *cache.RenderCache, sources *cache.SourceCache, worker *render.Worker, fetcher Fetcher) *Viewer {
	return &Viewer{
		index:   index,
		renders: renders,
		sources: sources,
		worker:  worker,
		fetcher: fetcher,
	}
}

// Index exposes the static section index.
func (v *Viewer) Index() *content.Index { return v.index }

// Current returns the last committed page, if any.
func (v *Viewer) Current() *Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Navigate resolves and renders the view for a fragment. Starting a
// new navigation supersedes any load still in flight: the older load's
// fetch or render runs to completion in the background, but its commit
// is suppressed and it returns ErrSuperseded. An unknown section id
// silently redirects home.
func (v *Viewer) Navigate(ctx context.Context, frag string) (*Page, error) {
	token := v.gen.Add(1)
	target := route.Parse(frag)

	var sec *content.Section
	if target.Mode == route.ModeSection {
		s, ok := v.index.Section(target.SectionID)
		if !ok {
			target = route.Target{Mode: route.ModeHome}
			frag = route.HomeToken
		} else {
			sec = s
		}
	}

	if target.Mode == route.ModeHome {
		return v.commit(token, v.homePage())
	}
	if !target.IsDoc() {
		return v.commit(token, v.sectionPage(sec, target))
	}
	return v.loadDoc(ctx, token, sec, target, frag)
}

// loadDoc runs the Resolving and Rendering stages for a document
// target.
func (v *Viewer) loadDoc(ctx context.Context, token int64, sec *content.Section, target route.Target, frag string) (*Page, error) {
	path := sec.RootPath + "/" + target.DocID

	// Render-cache hit: commit the cached markup directly, no render
	// round trip at all.
	if html, ok := v.renders.Get(path); ok {
		return v.commit(token, v.docPage(sec, target, frag, html, toc.Collect(html)))
	}

	src, err := v.Source(ctx, path)
	if err != nil {
		if !v.isCurrent(token) {
			return nil, ErrSuperseded
		}
		return v.commit(token, v.errorPage(target, frag, path, err))
	}

	html, err := v.worker.Render(ctx, src)
	if err != nil {
		if !v.isCurrent(token) {
			return nil, ErrSuperseded
		}
		return v.commit(token, v.errorPage(target, frag, path, err))
	}

	final, entries, err := postRender(html)
	if err != nil {
		if !v.isCurrent(token) {
			return nil, ErrSuperseded
		}
		return v.commit(token, v.errorPage(target, frag, path, err))
	}

	page := v.docPage(sec, target, frag, final, entries)
	if page.Prev != nil || page.Next != nil {
		final += docNavHTML(page.Prev, page.Next)
		page.HTML = final
	}

	// The cache write happens with the commit check: a superseded load
	// must not be the one that populates the render cache.
	v.mu.Lock()
	if v.gen.Load() != token {
		v.mu.Unlock()
		return nil, ErrSuperseded
	}
	v.renders.Put(path, final)
	v.current = page
	v.mu.Unlock()
	return page, nil
}

// Source resolves raw document text: persisted cache first, then a
// fetch. Every successful resolution touches the source cache, so the
// path becomes most-recently-used. Fetch failures leave both cache
// tiers untouched.
func (v *Viewer) Source(ctx context.Context, path string) (string, error) {
	if text, ok := v.sources.Get(path); ok {
		v.sources.Touch(path, text)
		return text, nil
	}
	text, err := v.fetcher.Fetch(ctx, path)
	if err != nil {
		return "", err
	}
	v.sources.Touch(path, text)
	return text, nil
}

// Invalidate drops both cache tiers for a content path, forcing the
// next load to fetch and render fresh. Called when the file changes on
// disk.
func (v *Viewer) Invalidate(path string) {
	v.renders.Invalidate(path)
	v.sources.Remove(path)
}

// Warm renders a document into the cache tiers without committing a
// page. Unlike Navigate it takes no part in the last-navigation-wins
// protocol, so corpus-wide pre-rendering can run concurrently. The
// cached markup matches what a navigation would produce, doc nav
// included.
func (v *Viewer) Warm(ctx context.Context, sectionID, docID string) error {
	sec, ok := v.index.Section(sectionID)
	if !ok {
		return fmt.Errorf("viewer: unknown section %q", sectionID)
	}
	path := sec.RootPath + "/" + docID
	if _, cached := v.renders.Get(path); cached {
		return nil
	}

	src, err := v.Source(ctx, path)
	if err != nil {
		return err
	}
	html, err := v.worker.Render(ctx, src)
	if err != nil {
		return err
	}
	final, entries, err := postRender(html)
	if err != nil {
		return err
	}

	target := route.Target{Mode: route.ModeSection, SectionID: sectionID, DocID: docID}
	page := v.docPage(sec, target, route.Format(sectionID, docID), final, entries)
	if page.Prev != nil || page.Next != nil {
		final += docNavHTML(page.Prev, page.Next)
	}
	v.renders.Put(path, final)
	return nil
}

func (v *Viewer) isCurrent(token int64) bool {
	return v.gen.Load() == token
}

func (v *Viewer) commit(token int64, page *Page) (*Page, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.Load() != token {
		return nil, ErrSuperseded
	}
	v.current = page
	return page, nil
}

// homePage lists all sections. No fetch, no cache.
func (v *Viewer) homePage() *Page {
	var b strings.Builder
	b.WriteString("<h1>Documentation</h1>\n<ul class=\"section-list\">\n")
	for _, s := range v.index.Sections() {
		fmt.Fprintf(&b, "<li><a href=\"#%s\">%s</a>",
			stdhtml.EscapeString(route.Format(s.ID, "")), stdhtml.EscapeString(s.Title))
		if s.Description != "" {
			fmt.Fprintf(&b, "<p>%s</p>", stdhtml.EscapeString(s.Description))
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")

	return &Page{
		Target:     route.Target{Mode: route.ModeHome},
		Frag:       route.HomeToken,
		Title:      "Home",
		Breadcrumb: []string{"Home"},
		HTML:       b.String(),
	}
}

// sectionPage synthesizes the landing listing for a section on the
// fly. Listing pages are never fetched and never cached.
func (v *Viewer) sectionPage(sec *content.Section, target route.Target) *Page {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", stdhtml.EscapeString(sec.Title))
	if sec.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", stdhtml.EscapeString(sec.Description))
	}
	if sec.Intro != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", stdhtml.EscapeString(sec.Intro))
	}
	if len(sec.Docs) == 0 {
		b.WriteString("<p class=\"empty-section\">No documents in this section yet.</p>\n")
	} else {
		b.WriteString("<ul class=\"doc-list\">\n")
		for _, d := range sec.Docs {
			fmt.Fprintf(&b, "<li><a href=\"#%s\">%s</a></li>\n",
				stdhtml.EscapeString(route.Format(sec.ID, d)), stdhtml.EscapeString(content.Title(d)))
		}
		b.WriteString("</ul>\n")
	}

	return &Page{
		Target:     target,
		Frag:       route.Format(sec.ID, ""),
		Title:      sec.Title,
		Breadcrumb: []string{"Home", sec.Title},
		HTML:       b.String(),
	}
}

// docPage assembles the Page for rendered document markup.
func (v *Viewer) docPage(sec *content.Section, target route.Target, frag, html string, entries []toc.Entry) *Page {
	title := firstH1(html)
	if title == "" {
		title = content.Title(target.DocID)
	}

	page := &Page{
		Target:     target,
		Frag:       frag,
		Title:      title,
		Breadcrumb: []string{"Home", sec.Title, title},
		HTML:       html,
	}
	if len(entries) >= toc.MinHeadings {
		page.TOC = entries
	}

	prev, next := sec.Neighbors(target.DocID)
	if prev != "" {
		page.Prev = &DocLink{Frag: route.Format(sec.ID, prev), Title: content.Title(prev)}
	}
	if next != "" {
		page.Next = &DocLink{Frag: route.Format(sec.ID, next), Title: content.Title(next)}
	}
	return page
}

// errorPage is the visible inline failure state: the offending path
// and the underlying error, in the content area. Neither cache tier is
// written.
func (v *Viewer) errorPage(target route.Target, frag, path string, err error) *Page {
	html := fmt.Sprintf(
		"<div class=\"load-error\"><h2>Could not load document</h2><p><code>%s</code></p><p>%s</p></div>",
		stdhtml.EscapeString(path), stdhtml.EscapeString(err.Error()))

	return &Page{
		Target:     target,
		Frag:       frag,
		Title:      content.Title(target.DocID),
		Breadcrumb: []string{"Home"},
		HTML:       html,
		LoadError:  err.Error(),
	}
}

func docNavHTML(prev, next *DocLink) string {
	var b strings.Builder
	b.WriteString("<nav class=\"doc-nav\">")
	if prev != nil {
		fmt.Fprintf(&b, "<a class=\"prev\" href=\"#%s\">&larr; %s</a>",
			stdhtml.EscapeString(prev.Frag), stdhtml.EscapeString(prev.Title))
	}
	if next != nil {
		fmt.Fprintf(&b, "<a class=\"next\" href=\"#%s\">%s &rarr;</a>",
			stdhtml.EscapeString(next.Frag), stdhtml.EscapeString(next.Title))
	}
	b.WriteString("</nav>")
	return b.String()
}
