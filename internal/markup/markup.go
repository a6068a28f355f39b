// Package markup converts between the linear editing syntax and the
// structured inline model. The syntax is a small fixed grammar, scanned
// greedily left to right. At each position candidates are tried in this
// order, first match wins:
//
//	[$latex$]                      inline math
//	[cite:id]                      citation
//	[fig:id] / [fig:id|display]    figure reference (display part ignored)
//	[tbl:id], [eq:id], [sec:id]    table, equation and section references
//	[^content]                     footnote
//	[label](url)                   link, label parsed recursively
//	**text**                       bold text run
//
// Anything else is plain text up to the next character that could start a
// marker. An unterminated marker falls through to the next candidate and
// ultimately to plain text. There is no escaping, so literal "**" or "["
// inside content does not survive a round trip. Reference display parts are
// regenerated from the numbering index on render, never stored.
package markup

import (
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/neuink/internal/models"
)

// Parse converts editing syntax to inline nodes. The empty string parses to
// an empty list.
func Parse(s string) models.InlineList {
	var nodes models.InlineList
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			nodes = append(nodes, &models.Text{Content: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if node, next, ok := matchAt(s, i); ok {
			flush()
			nodes = append(nodes, node)
			i = next
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		plain.WriteRune(r)
		i += size
	}
	flush()
	return nodes
}

func matchAt(s string, i int) (models.Inline, int, bool) {
	switch s[i] {
	case '[':
		if node, next, ok := matchInlineMath(s, i); ok {
			return node, next, true
		}
		if node, next, ok := matchRef(s, i); ok {
			return node, next, true
		}
		if node, next, ok := matchFootnote(s, i); ok {
			return node, next, true
		}
		if node, next, ok := matchLink(s, i); ok {
			return node, next, true
		}
	case '*':
		if node, next, ok := matchBold(s, i); ok {
			return node, next, true
		}
	}
	return nil, 0, false
}

func matchInlineMath(s string, i int) (models.Inline, int, bool) {
	if !strings.HasPrefix(s[i:], "[$") {
		return nil, 0, false
	}
	end := strings.Index(s[i+2:], "$]")
	if end < 0 {
		return nil, 0, false
	}
	return &models.InlineMath{Latex: s[i+2 : i+2+end]}, i + 2 + end + 2, true
}

var refPrefixes = []struct {
	prefix string
	build  func(id string) models.Inline
}{
	{"[cite:", func(id string) models.Inline { return &models.Citation{TargetID: id} }},
	{"[fig:", func(id string) models.Inline { return &models.FigureRef{TargetID: id} }},
	{"[tbl:", func(id string) models.Inline { return &models.TableRef{TargetID: id} }},
	{"[eq:", func(id string) models.Inline { return &models.EquationRef{TargetID: id} }},
	{"[sec:", func(id string) models.Inline { return &models.SectionRef{TargetID: id} }},
}

func matchRef(s string, i int) (models.Inline, int, bool) {
	for _, rp := range refPrefixes {
		if !strings.HasPrefix(s[i:], rp.prefix) {
			continue
		}
		start := i + len(rp.prefix)
		end := strings.Index(s[start:], "]")
		if end < 0 {
			return nil, 0, false
		}
		body := s[start : start+end]
		// A display part after | is a rendering artifact, the id is the truth
		if pipe := strings.Index(body, "|"); pipe >= 0 {
			body = body[:pipe]
		}
		id := strings.TrimSpace(body)
		if id == "" {
			return nil, 0, false
		}
		return rp.build(id), start + end + 1, true
	}
	return nil, 0, false
}

func matchFootnote(s string, i int) (models.Inline, int, bool) {
	if !strings.HasPrefix(s[i:], "[^") {
		return nil, 0, false
	}
	start := i + 2
	end := strings.Index(s[start:], "]")
	if end < 0 {
		return nil, 0, false
	}
	body := s[start : start+end]
	if pipe := strings.Index(body, "|"); pipe >= 0 {
		body = body[:pipe]
	}
	if body == "" {
		return nil, 0, false
	}
	return &models.Footnote{Content: body}, start + end + 1, true
}

func matchLink(s string, i int) (models.Inline, int, bool) {
	mid := strings.Index(s[i:], "](")
	if mid < 0 {
		return nil, 0, false
	}
	label := s[i+1 : i+mid]
	urlStart := i + mid + 2
	end := strings.Index(s[urlStart:], ")")
	if end < 0 {
		return nil, 0, false
	}
	return &models.Link{
		Children: Parse(label),
		Href:     s[urlStart : urlStart+end],
	}, urlStart + end + 1, true
}

func matchBold(s string, i int) (models.Inline, int, bool) {
	if !strings.HasPrefix(s[i:], "**") {
		return nil, 0, false
	}
	end := strings.Index(s[i+2:], "**")
	if end < 1 {
		return nil, 0, false
	}
	return &models.Text{Content: s[i+2 : i+2+end], Bold: true}, i + 2 + end + 2, true
}
