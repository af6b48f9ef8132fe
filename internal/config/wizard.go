package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/zhelev-dev/docview/internal/content"
)

// detectSections scans a corpus directory for subdirectories that hold
// markdown files and proposes a section for each.
func detectSections(dir string) []SectionDef {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var defs []SectionDef
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(dir, e.Name(), "*.md"))
		if len(matches) == 0 {
			continue
		}
		title := content.Title(e.Name())
		defs = append(defs, SectionDef{
			ID:    content.SectionID(e.Name()),
			Title: title,
			Dir:   e.Name(),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Dir < defs[j].Dir })
	return defs
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docview.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docview! Let's configure your corpus.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Corpus location.
	dirPrompt := promptui.Prompt{
		Label:   "Markdown corpus directory",
		Default: cfg.ContentDir,
	}
	contentDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	cfg.ContentDir = contentDir

	// 2. Sections, detected from the corpus when possible.
	if detected := detectSections(contentDir); len(detected) > 0 {
		fmt.Printf("Detected %d section(s):\n", len(detected))
		for _, d := range detected {
			fmt.Printf("  %s -> %s\n", d.Dir, d.Title)
		}
		usePrompt := promptui.Select{
			Label: "Use detected sections",
			Items: []string{"yes", "no, keep defaults"},
		}
		idx, _, selErr := usePrompt.Run()
		if selErr != nil {
			return nil, fmt.Errorf("section selection: %w", selErr)
		}
		if idx == 0 {
			cfg.Sections = detected
		}
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port to serve on",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, convErr := strconv.Atoi(s)
			if convErr != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Theme-independent data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for caches and preferences",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configPath := ".docview.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
