package config

// SectionDef declares one documentation section: its stable id, the
// title shown in navigation, and the corpus directory its documents
// live in.
type SectionDef struct {
	ID          string `yaml:"id" koanf:"id"`
	Title       string `yaml:"title" koanf:"title"`
	Dir         string `yaml:"dir" koanf:"dir"`
	Description string `yaml:"description" koanf:"description"`
}

// Config is the top-level docview configuration, corresponding to
// .docview.yml.
type Config struct {
	// ContentDir is the local markdown corpus root. When BaseURL is
	// set, documents are fetched over HTTP instead.
	ContentDir string `yaml:"content_dir" koanf:"content_dir"`
	BaseURL    string `yaml:"base_url" koanf:"base_url"`

	// DataDir holds the SQLite database with cached sources and
	// preferences.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	Port          int  `yaml:"port" koanf:"port"`
	OpenBrowser   bool `yaml:"open_browser" koanf:"open_browser"`
	CacheCapacity int  `yaml:"cache_capacity" koanf:"cache_capacity"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	Sections []SectionDef `yaml:"sections" koanf:"sections"`
}
