package content

import (
	"path"
	"regexp"
	"strings"
)

var (
	orderPrefix = regexp.MustCompile(`^\d+-`)
	suffixCode  = regexp.MustCompile(`-S\d+$`)
)

// Title derives a human-readable display title from a document filename
// by convention: the leading "NN-" ordering prefix and any trailing
// "-S<digit>" code are stripped, the extension is removed, and
// separators become spaces. "09-RegExp.md" -> "RegExp",
// "04-Garbage-collection-S2.md" -> "Garbage collection".
func Title(filename string) string {
	name := path.Base(filename)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = orderPrefix.ReplaceAllString(name, "")
	name = suffixCode.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}

// SectionID derives a stable lowercase id from a section directory
// name. "1-ECMAScript" -> "ecmascript", "4-HTML-CSS" -> "html-css".
func SectionID(dirname string) string {
	name := path.Base(dirname)
	name = orderPrefix.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, " ", "-")
	return strings.ToLower(strings.TrimSpace(name))
}
