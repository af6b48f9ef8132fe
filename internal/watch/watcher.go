// Package watch observes the content directory for markdown changes
// and reports them debounced, so cached renders can be evicted and
// connected viewers told to reload.
package watch

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the event bursts editors produce on save.
const debounceWindow = 200 * time.Millisecond

// ChangeFunc receives the slash-separated content path of a changed
// document, relative to the watched root.
type ChangeFunc func(path string)

// Watcher observes a content tree for .md changes.
type Watcher struct {
	root     string
	onChange ChangeFunc
}

// New returns a watcher over root. onChange is called once per changed
// document after the debounce window closes.
func New(root string, onChange ChangeFunc) *Watcher {
	return &Watcher{root: root, onChange: onChange}
}

// Run watches until ctx is cancelled. Directories created at runtime
// are added to the watch list. Events for the same path within the
// debounce window collapse into one callback.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	log.Printf("watching %s for changes", w.root)

	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounceWindow)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounceWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			return nil

		case <-flushCh:
			for p := range pending {
				w.onChange(p)
			}
			pending = make(map[string]struct{})

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(fw, ev.Name); addErr != nil {
						log.Printf("watching new directory %s: %v", ev.Name, addErr)
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			rel, relErr := filepath.Rel(w.root, ev.Name)
			if relErr != nil {
				continue
			}
			pending[filepath.ToSlash(rel)] = struct{}{}
			schedule()

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", watchErr)
		}
	}
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}
