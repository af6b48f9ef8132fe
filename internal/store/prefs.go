package store

import "fmt"

// Well-known keys. The source cache owns KeySourceIndex and the
// SourceKeyPrefix namespace; preferences use the rest.
const (
	KeySourceIndex  = "md-index"
	SourceKeyPrefix = "md:"
	KeyTheme        = "theme"
	KeyReaderMode   = "reader-mode"
)

// Prefs reads and writes user preferences through a KV store.
type Prefs struct {
	kv KV
}

// NewPrefs wraps the given store.
func NewPrefs(kv KV) *Prefs { return &Prefs{kv: kv} }

// Theme returns "light" or "dark", defaulting to "light" when unset or
// unreadable.
func (p *Prefs) Theme() string {
	v, ok, err := p.kv.Get(KeyTheme)
	if err != nil || !ok || (v != "light" && v != "dark") {
		return "light"
	}
	return v
}

// SetTheme stores the theme preference.
func (p *Prefs) SetTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("store: invalid theme %q", theme)
	}
	return p.kv.Set(KeyTheme, theme)
}

// ReaderMode reports whether reading mode is on ("1").
func (p *Prefs) ReaderMode() bool {
	v, _, err := p.kv.Get(KeyReaderMode)
	return err == nil && v == "1"
}

// SetReaderMode stores the reading-mode flag as "1" or "0".
func (p *Prefs) SetReaderMode(on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return p.kv.Set(KeyReaderMode, v)
}
