package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Definition is the configured shape of a section before its document
// list is discovered on disk.
type Definition struct {
	ID          string
	Title       string
	RootPath    string
	Description string
	Intro       string
}

// Scan builds the Index by listing each section's root directory under
// corpusDir. Only .md files matching the include globs (and none of the
// exclude globs) are kept, sorted by filename so the "NN-" prefixes
// define navigation order. A missing section directory yields a section
// with zero documents rather than an error.
func Scan(corpusDir string, defs []Definition, include, exclude []string) (*Index, error) {
	sections := make([]Section, 0, len(defs))
	for _, def := range defs {
		docs, err := scanSection(corpusDir, def.RootPath, include, exclude)
		if err != nil {
			return nil, fmt.Errorf("content: scanning section %q: %w", def.ID, err)
		}
		sections = append(sections, Section{
			ID:          def.ID,
			Title:       def.Title,
			RootPath:    def.RootPath,
			Description: def.Description,
			Intro:       def.Intro,
			Docs:        docs,
		})
	}
	return NewIndex(sections)
}

func scanSection(corpusDir, rootPath string, include, exclude []string) ([]string, error) {
	dir := filepath.Join(corpusDir, filepath.FromSlash(rootPath))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		rel := rootPath + "/" + e.Name()
		if !matchesAny(rel, include, true) || matchesAny(rel, exclude, false) {
			continue
		}
		docs = append(docs, e.Name())
	}
	sort.Strings(docs)
	return docs, nil
}

// matchesAny checks rel against a set of doublestar globs. An empty
// pattern list defaults to emptyResult (include-all / exclude-none).
func matchesAny(rel string, patterns []string, emptyResult bool) bool {
	if len(patterns) == 0 {
		return emptyResult
	}
	for _, p := range patterns {
		if ok, err := doublestar.PathMatch(filepath.ToSlash(p), rel); err == nil && ok {
			return true
		}
		// Also try the bare filename so patterns like "*.md" work.
		if ok, err := doublestar.Match(filepath.ToSlash(p), filepath.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}
