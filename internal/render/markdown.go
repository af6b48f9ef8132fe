// Package render converts raw markdown into HTML, normally on a single
// background worker goroutine speaking a correlation-id message
// protocol, with a synchronous fallback when the worker is not running.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter wraps the goldmark pipeline used for every document.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds the shared goldmark instance. Heading ids are NOT
// auto-assigned here — the TOC builder owns anchor ids so that slug
// collision handling stays in one place.
func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Convert renders markdown source to HTML. The ==highlight== shorthand
// is expanded to <mark> elements first, so goldmark never needs to know
// about it.
func (c *Converter) Convert(src string) (string, error) {
	src = ExpandMarks(src)
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render: converting markdown: %w", err)
	}
	return buf.String(), nil
}

var markPattern = regexp.MustCompile(`==([^=\n]+)==`)

// ExpandMarks rewrites ==text== spans into <mark> elements. Lines
// inside fenced code blocks are left alone.
func ExpandMarks(src string) string {
	if !strings.Contains(src, "==") {
		return src
	}
	lines := strings.Split(src, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = markPattern.ReplaceAllString(line, "<mark>$1</mark>")
	}
	return strings.Join(lines, "\n")
}
