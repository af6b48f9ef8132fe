package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ContentDir != "content" {
		t.Errorf("expected default content_dir %q, got %q", "content", cfg.ContentDir)
	}
	if cfg.Port != 4173 {
		t.Errorf("expected default port 4173, got %d", cfg.Port)
	}
	if cfg.CacheCapacity != 20 {
		t.Errorf("expected default cache_capacity 20, got %d", cfg.CacheCapacity)
	}
	if len(cfg.Sections) != 6 {
		t.Errorf("expected 6 default sections, got %d", len(cfg.Sections))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docview.yml")

	original := DefaultConfig()
	original.ContentDir = "corpus"
	original.BaseURL = "https://docs.example.com/raw"
	original.Port = 8080
	original.CacheCapacity = 50
	original.Sections = []SectionDef{
		{ID: "guide", Title: "Guide", Dir: "1-Guide", Description: "The guide"},
		{ID: "api", Title: "API", Dir: "2-API"},
	}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ContentDir != original.ContentDir {
		t.Errorf("content_dir: got %q, want %q", loaded.ContentDir, original.ContentDir)
	}
	if loaded.BaseURL != original.BaseURL {
		t.Errorf("base_url: got %q, want %q", loaded.BaseURL, original.BaseURL)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.CacheCapacity != original.CacheCapacity {
		t.Errorf("cache_capacity: got %d, want %d", loaded.CacheCapacity, original.CacheCapacity)
	}
	if len(loaded.Sections) != 2 {
		t.Fatalf("sections length: got %d, want 2", len(loaded.Sections))
	}
	if loaded.Sections[0].ID != "guide" || loaded.Sections[0].Dir != "1-Guide" {
		t.Errorf("sections[0] = %+v", loaded.Sections[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Port != 4173 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("DOCVIEW_PORT", "9999")
	defer os.Unsetenv("DOCVIEW_PORT")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 9999 {
		t.Errorf("env override not applied: port = %d", loaded.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no source", func(c *Config) { c.ContentDir = ""; c.BaseURL = "" }, true},
		{"base url only", func(c *Config) { c.ContentDir = ""; c.BaseURL = "http://x" }, false},
		{"bad port", func(c *Config) { c.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"negative capacity", func(c *Config) { c.CacheCapacity = -1 }, true},
		{"no sections", func(c *Config) { c.Sections = nil }, true},
		{"section missing id", func(c *Config) { c.Sections[0].ID = "" }, true},
		{"section missing dir", func(c *Config) { c.Sections[0].Dir = "" }, true},
		{"duplicate section id", func(c *Config) { c.Sections[1].ID = c.Sections[0].ID }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDetectSections(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		"1-ECMAScript/01-Intro.md",
		"2-Browser/01-DOM.md",
		"empty-dir/notes.txt",
	} {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	defs := detectSections(dir)
	if len(defs) != 2 {
		t.Fatalf("detected %d sections, want 2: %v", len(defs), defs)
	}
	if defs[0].ID != "ecmascript" || defs[0].Dir != "1-ECMAScript" {
		t.Errorf("defs[0] = %+v", defs[0])
	}
	if defs[1].Title != "Browser" {
		t.Errorf("defs[1] = %+v", defs[1])
	}
}
