package cmd

import (
	"fmt"
	"io"
	"log"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/zhelev-dev/docview/internal/cache"
	"github.com/zhelev-dev/docview/internal/config"
	"github.com/zhelev-dev/docview/internal/content"
	"github.com/zhelev-dev/docview/internal/render"
	"github.com/zhelev-dev/docview/internal/store"
	"github.com/zhelev-dev/docview/internal/viewer"
)

// loadConfig loads and validates the configuration from the --config
// path.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if !verbose {
		log.SetOutput(io.Discard)
	}
	return cfg, nil
}

// buildIndex scans the corpus for each configured section's documents.
// Without a local content dir the sections come straight from config,
// documents undiscovered until fetched by fragment.
func buildIndex(cfg *config.Config) (*content.Index, error) {
	defs := make([]content.Definition, 0, len(cfg.Sections))
	for _, s := range cfg.Sections {
		defs = append(defs, content.Definition{
			ID:          s.ID,
			Title:       s.Title,
			RootPath:    s.Dir,
			Description: s.Description,
		})
	}

	if cfg.ContentDir == "" {
		sections := make([]content.Section, 0, len(defs))
		for _, d := range defs {
			sections = append(sections, content.Section{
				ID:          d.ID,
				Title:       d.Title,
				RootPath:    d.RootPath,
				Description: d.Description,
			})
		}
		return content.NewIndex(sections)
	}

	return content.Scan(cfg.ContentDir, defs, cfg.Include, cfg.Exclude)
}

// buildViewer assembles the full pipeline: store, cache tiers, render
// worker and fetcher. The returned cleanup stops the worker and closes
// the store.
func buildViewer(cfg *config.Config) (*viewer.Viewer, *store.DB, func(), error) {
	db, err := store.Open(filepath.Join(cfg.DataDir, "docview.db"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}

	index, err := buildIndex(cfg)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	var fetcher viewer.Fetcher
	if cfg.BaseURL != "" {
		fetcher = viewer.NewHTTPFetcher(cfg.BaseURL)
	} else {
		fetcher, err = viewer.NewDirFetcher(cfg.ContentDir)
		if err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("content dir: %w", err)
		}
	}

	worker := render.NewWorker(render.NewConverter())
	worker.Start()

	v := viewer.New(
		index,
		cache.NewRenderCache(),
		cache.NewSourceCache(db, cfg.CacheCapacity),
		worker,
		fetcher,
	)

	cleanup := func() {
		worker.Stop()
		db.Close()
	}
	return v, db, cleanup, nil
}

// openBrowser points the default browser at the served site.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
