package config

// DefaultExcludes are glob patterns hidden from the corpus scan by
// default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"README.md",
	"**/_*.md",
}

// DefaultSections is the section layout used when a config declares
// none. It mirrors the conventional numbered corpus layout.
var DefaultSections = []SectionDef{
	{ID: "ecmascript", Title: "ECMAScript", Dir: "1-ECMAScript", Description: "The language core"},
	{ID: "browser", Title: "Browser", Dir: "2-Browser", Description: "DOM, events and browser APIs"},
	{ID: "node", Title: "Node", Dir: "3-Node", Description: "Server-side JavaScript"},
	{ID: "html-css", Title: "HTML & CSS", Dir: "4-HTML-CSS", Description: "Markup and styling"},
	{ID: "tooling", Title: "Tooling", Dir: "5-Tooling", Description: "Build tools and package managers"},
	{ID: "extras", Title: "Extras", Dir: "6-Extras", Description: "Everything else"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ContentDir:    "content",
		DataDir:       ".docview",
		Port:          4173,
		OpenBrowser:   true,
		CacheCapacity: 20,
		Include:       []string{"**/*.md"},
		Exclude:       DefaultExcludes,
		Sections:      DefaultSections,
	}
}
