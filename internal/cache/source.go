package cache

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/zhelev-dev/docview/internal/store"
)

// DefaultCapacity is the bound on the persisted source cache.
const DefaultCapacity = 20

// SourceCache is a bounded store of raw document text keyed by content
// path, persisted through a KV store. An ordering index under
// store.KeySourceIndex lists paths most-recently-used first; values
// live under store.SourceKeyPrefix + path. Touching a path moves it to
// the front; inserting beyond capacity evicts from the back, removing
// both the index entry and the stored value.
//
// All storage failures are best-effort: they are logged and never
// propagate into a content load.
//
// Touch and Remove serialize on an internal mutex so concurrent loads
// (parallel requests, cache warming) cannot interleave their
// read-modify-write of the index and strand a stored value outside it.
type SourceCache struct {
	kv       store.KV
	capacity int
	mu       sync.Mutex
}

// NewSourceCache wraps the given store. A non-positive capacity falls
// back to DefaultCapacity.
func NewSourceCache(kv store.KV, capacity int) *SourceCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &SourceCache{kv: kv, capacity: capacity}
}

// Get returns the stored raw text for path, if present.
func (c *SourceCache) Get(path string) (string, bool) {
	v, ok, err := c.kv.Get(store.SourceKeyPrefix + path)
	if err != nil {
		log.Printf("cache: reading source for %s: %v", path, err)
		return "", false
	}
	return v, ok
}

// Touch records path as most-recently-used and stores its text,
// evicting the least-recently-used entries beyond capacity. Empty text
// is a no-op.
func (c *SourceCache) Touch(path, text string) {
	if text == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.Paths()

	// Remove path if already present, then unshift to the front.
	next := make([]string, 0, len(index)+1)
	next = append(next, path)
	for _, p := range index {
		if p != path {
			next = append(next, p)
		}
	}

	// Evict from the back past capacity, value and index entry together.
	for len(next) > c.capacity {
		victim := next[len(next)-1]
		next = next[:len(next)-1]
		if err := c.kv.Delete(store.SourceKeyPrefix + victim); err != nil {
			log.Printf("cache: evicting %s: %v", victim, err)
		}
	}

	if err := c.writeIndex(next); err != nil {
		log.Printf("cache: persisting index: %v", err)
	}
	if err := c.kv.Set(store.SourceKeyPrefix+path, text); err != nil {
		log.Printf("cache: storing source for %s: %v", path, err)
	}
}

// Remove drops path from the cache, value and index entry together.
// Used when the underlying file changes on disk.
func (c *SourceCache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.Paths()
	next := make([]string, 0, len(index))
	for _, p := range index {
		if p != path {
			next = append(next, p)
		}
	}
	if len(next) != len(index) {
		if err := c.writeIndex(next); err != nil {
			log.Printf("cache: persisting index: %v", err)
		}
	}
	if err := c.kv.Delete(store.SourceKeyPrefix + path); err != nil {
		log.Printf("cache: removing source for %s: %v", path, err)
	}
}

// Paths returns the ordering index, most-recently-used first. A missing
// or corrupt index reads as empty.
func (c *SourceCache) Paths() []string {
	raw, ok, err := c.kv.Get(store.KeySourceIndex)
	if err != nil {
		log.Printf("cache: reading index: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var index []string
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		log.Printf("cache: corrupt index, resetting: %v", err)
		return nil
	}
	return index
}

func (c *SourceCache) writeIndex(index []string) error {
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return c.kv.Set(store.KeySourceIndex, string(data))
}
