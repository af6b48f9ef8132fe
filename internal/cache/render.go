// Package cache implements the viewer's two content cache tiers: an
// unbounded in-process map of rendered HTML, and a bounded
// most-recently-used store of raw document source persisted through a
// key/value store.
package cache

import "sync"

// RenderCache holds final rendered markup keyed by content path for the
// life of the process. Entries are written only after a full,
// non-superseded render completes.
type RenderCache struct {
	mu    sync.RWMutex
	pages map[string]string
}

// NewRenderCache creates an empty render cache.
func NewRenderCache() *RenderCache {
	return &RenderCache{pages: make(map[string]string)}
}

// Get returns the cached HTML for path, if present.
func (c *RenderCache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.pages[path]
	return html, ok
}

// Put stores the final HTML for path, replacing any previous entry.
func (c *RenderCache) Put(path, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[path] = html
}

// Invalidate drops the entry for path. Used by the corpus watcher when
// a source file changes underneath a rendered page.
func (c *RenderCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, path)
}

// Len reports the number of cached pages.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
