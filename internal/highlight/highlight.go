// Package highlight applies and clears in-page find highlights on
// rendered HTML. Both operations are pure string-to-string transforms
// over a parsed node tree, so re-application is idempotent: Apply
// always strips previous highlights before inserting new ones.
package highlight

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MarkClass tags highlight elements so Clear can find exactly the
// marks this package inserted and nothing else.
const MarkClass = "find-hit"

// skipTags are elements whose text is never highlighted.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"pre":      true,
	"code":     true,
	"textarea": true,
	"mark":     true,
}

// Apply returns htmlStr with every case-insensitive occurrence of term
// wrapped in a <mark class="find-hit"> element. Any highlights from a
// previous Apply are removed first. An empty term just clears.
func Apply(htmlStr, term string) (string, error) {
	body, err := parseBody(htmlStr)
	if err != nil {
		return "", err
	}
	clearNode(body)
	if term != "" {
		applyNode(body, term)
	}
	return renderChildren(body)
}

// Clear removes all highlight markup previously inserted by Apply,
// restoring the original text nodes.
func Clear(htmlStr string) (string, error) {
	body, err := parseBody(htmlStr)
	if err != nil {
		return "", err
	}
	clearNode(body)
	return renderChildren(body)
}

func parseBody(htmlStr string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("highlight: parsing html: %w", err)
	}
	body := findElement(doc, "body")
	if body == nil {
		return nil, fmt.Errorf("highlight: no body in parsed document")
	}
	return body, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func renderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("highlight: rendering html: %w", err)
		}
	}
	return buf.String(), nil
}

// clearNode unwraps every find-hit mark under n and merges the text
// nodes back together.
func clearNode(n *html.Node) {
	for _, mark := range collectMarks(n) {
		parent := mark.Parent
		for mark.FirstChild != nil {
			child := mark.FirstChild
			mark.RemoveChild(child)
			parent.InsertBefore(child, mark)
		}
		parent.RemoveChild(mark)
	}
	mergeText(n)
}

func collectMarks(n *html.Node) []*html.Node {
	var marks []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "mark" && hasClass(node, MarkClass) {
			marks = append(marks, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return marks
}

// mergeText joins adjacent text-node siblings so cleared content is
// byte-identical to the original.
func mergeText(n *html.Node) {
	c := n.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.TextNode && next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			n.RemoveChild(next)
			continue // re-check c against its new sibling
		}
		if c.Type == html.ElementNode {
			mergeText(c)
		}
		c = next
	}
}

// applyNode wraps occurrences of term in all eligible text nodes.
func applyNode(n *html.Node, term string) {
	for _, textNode := range collectTextNodes(n) {
		wrapMatches(textNode, term)
	}
}

func collectTextNodes(n *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skipTags[node.Data] {
			return
		}
		if node.Type == html.TextNode {
			nodes = append(nodes, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return nodes
}

// wrapMatches scans the text rune by rune, comparing case-folded runes
// against the term. Byte offsets always come from the original text, so
// runes whose lowercase form has a different UTF-8 width (Kelvin sign,
// U+023A) never shift a slice off a rune boundary.
func wrapMatches(textNode *html.Node, term string) {
	text := textNode.Data
	needle := []rune(strings.ToLower(term))
	if len(needle) == 0 {
		return
	}

	parent := textNode.Parent
	last := 0
	matched := false
	for i := 0; i < len(text); {
		end, ok := matchAt(text, i, needle)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		matched = true
		if i > last {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[last:i]}, textNode)
		}
		mark := &html.Node{
			Type: html.ElementNode,
			Data: "mark",
			Attr: []html.Attribute{{Key: "class", Val: MarkClass}},
		}
		mark.AppendChild(&html.Node{Type: html.TextNode, Data: text[i:end]})
		parent.InsertBefore(mark, textNode)
		last = end
		i = end
	}
	if !matched {
		return
	}
	if last < len(text) {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[last:]}, textNode)
	}
	parent.RemoveChild(textNode)
}

// matchAt reports whether the lowercased needle matches text starting
// at byte offset i, returning the offset just past the match.
func matchAt(text string, i int, needle []rune) (int, bool) {
	for _, want := range needle {
		r, size := utf8.DecodeRuneInString(text[i:])
		if size == 0 || unicode.ToLower(r) != want {
			return 0, false
		}
		i += size
	}
	return i, true
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}
