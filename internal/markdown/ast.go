// Package markdown parses lightweight markup into a structural document model.
// Parsing is total: malformed input degrades to raw or plain text, it never fails.
package markdown

import "strings"

// Document is an ordered sequence of block nodes in source order.
// Empty input yields a Document with no blocks.
type Document struct {
	Blocks []Block
}

// Block is a sealed block-level node. Implementations: Heading, Paragraph,
// CodeBlock, List, Table, ThematicBreak, RawText.
type Block interface {
	block()
}

// Heading is an ATX heading with level 1-6.
type Heading struct {
	Level   int
	Content []Inline
}

// Paragraph is a run of plain text lines with inline spans resolved.
type Paragraph struct {
	Content []Inline
}

// CodeBlock is a fenced code block. Language is the lowercased info string
// ("" = no highlighting). Literal is the verbatim body, never inline-parsed.
type CodeBlock struct {
	Language string
	Literal  string
}

// List holds ordered or unordered items. Each item is resolved inline content.
type List struct {
	Ordered bool
	Items   [][]Inline
}

// Table holds pipe-table rows as raw cell text. The first row is the header.
// Cell text is inline-resolved at render time, matching the cell granularity
// of the model rather than the parse pass.
type Table struct {
	Rows [][]string
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// RawText is the fallback for unrecognized constructs, passed through verbatim.
type RawText struct {
	Text string
}

func (Heading) block()       {}
func (Paragraph) block()     {}
func (CodeBlock) block()     {}
func (List) block()          {}
func (Table) block()         {}
func (ThematicBreak) block() {}
func (RawText) block()       {}

// Inline is a sealed inline span. Implementations: Text, Emphasis, Code, Link.
type Inline interface {
	inline()
}

// Text is a plain text span.
type Text struct {
	Text string
}

// Emphasis is an emphasized span. Strong distinguishes **strong** from *normal*.
type Emphasis struct {
	Strong  bool
	Content []Inline
}

// Code is an inline code span. Text is literal and never further interpreted.
type Code struct {
	Text string
}

// Link is a hyperlink with display text and target URL.
type Link struct {
	Text string
	URL  string
}

func (Text) inline()     {}
func (Emphasis) inline() {}
func (Code) inline()     {}
func (Link) inline()     {}

// Flatten concatenates the plain text of spans, recursing into emphasis.
// Used for heading anchors and title derivation.
func Flatten(spans []Inline) string {
	var b strings.Builder
	for _, s := range spans {
		switch v := s.(type) {
		case Text:
			b.WriteString(v.Text)
		case Emphasis:
			b.WriteString(Flatten(v.Content))
		case Code:
			b.WriteString(v.Text)
		case Link:
			b.WriteString(v.Text)
		}
	}
	return b.String()
}
