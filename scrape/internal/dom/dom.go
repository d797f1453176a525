// Package dom extracts listing fields from rendered HTML using a small
// CSS selector subset:
//
//   - tag: "img", "h3"
//   - .class: ".price"
//   - #id: "#results"
//   - tag.class: "div.product"
//   - tag[attr] / tag[attr=val]: "a[title]", "div[role=main]"
//   - descendant combinator (space), selector groups (comma)
//
// Store sites expose varying markup, so selectors are written as groups of
// known alternatives and matched in order.
package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses an HTML document.
func Parse(b []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(b))
}

// QueryAll returns all nodes matching the selector. Comma-separated
// groups are unioned in document-group order, with duplicates removed.
func QueryAll(root *html.Node, selector string) []*html.Node {
	var results []*html.Node
	seen := make(map[*html.Node]bool)
	for _, sel := range strings.Split(selector, ",") {
		for _, n := range queryOne(root, strings.TrimSpace(sel)) {
			if !seen[n] {
				seen[n] = true
				results = append(results, n)
			}
		}
	}
	return results
}

// Query returns the first node matching the selector, or nil.
func Query(root *html.Node, selector string) *html.Node {
	for _, sel := range strings.Split(selector, ",") {
		if nodes := queryOne(root, strings.TrimSpace(sel)); len(nodes) > 0 {
			return nodes[0]
		}
	}
	return nil
}

// Text returns the node's visible text with whitespace collapsed.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Attr returns the value of an attribute on a node, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// queryOne matches a single selector (no comma groups); space-separated
// parts are descendant combinators.
func queryOne(root *html.Node, selector string) []*html.Node {
	parts := splitParts(selector)
	if len(parts) == 0 {
		return nil
	}

	matches := matchSimple(root, parts[0])
	for i := 1; i < len(parts); i++ {
		var next []*html.Node
		for _, parent := range matches {
			next = append(next, matchSimple(parent, parts[i])...)
		}
		matches = next
	}
	return matches
}

// splitParts splits a selector into descendant-combinator parts. Only
// whitespace outside [...] separates parts, so quoted attribute values
// with spaces ("a[title=\"Arroz Agulha\"]") stay in one piece.
func splitParts(selector string) []string {
	var parts []string
	var sb strings.Builder
	depth := 0
	for _, r := range selector {
		switch {
		case r == '[':
			depth++
			sb.WriteRune(r)
		case r == ']':
			if depth > 0 {
				depth--
			}
			sb.WriteRune(r)
		case (r == ' ' || r == '\t') && depth == 0:
			if sb.Len() > 0 {
				parts = append(parts, sb.String())
				sb.Reset()
			}
		default:
			sb.WriteRune(r)
		}
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

// matchSimple finds all nodes under root matching one selector part.
func matchSimple(root *html.Node, sel string) []*html.Node {
	m := parseSimpleSelector(sel)
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if matchesSelector(n, m) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

type simpleSelector struct {
	tag     string
	id      string
	class   string
	attrKey string
	attrVal string
}

// parseSimpleSelector parses "tag.class", "#id", "tag[attr=val]", etc.
func parseSimpleSelector(sel string) simpleSelector {
	var s simpleSelector

	if idx := strings.IndexByte(sel, '['); idx >= 0 {
		attrPart := strings.TrimRight(sel[idx+1:], "]")
		sel = sel[:idx]
		if eqIdx := strings.IndexByte(attrPart, '='); eqIdx >= 0 {
			s.attrKey = attrPart[:eqIdx]
			s.attrVal = strings.Trim(attrPart[eqIdx+1:], `"'`)
		} else {
			s.attrKey = attrPart
		}
	}

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}

	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}

	s.tag = sel
	return s
}

func matchesSelector(n *html.Node, s simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}

	if s.tag != "" && n.Data != s.tag {
		return false
	}

	if s.id != "" && Attr(n, "id") != s.id {
		return false
	}

	if s.class != "" {
		found := false
		for _, c := range strings.Fields(Attr(n, "class")) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.attrKey != "" {
		if s.attrVal != "" {
			if Attr(n, s.attrKey) != s.attrVal {
				return false
			}
		} else if !hasAttr(n, s.attrKey) {
			return false
		}
	}

	return true
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}
