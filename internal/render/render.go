// Package render converts the parsed document model into a styled XHTML
// content document. Rendering is a pure function of its inputs and never
// fails: unrecognized blocks degrade to escaped plain text.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-md2epub/internal/highlight"
	"github.com/alnah/go-md2epub/internal/markdown"
	"github.com/alnah/go-md2epub/internal/outline"
)

// xhtmlTemplate wraps the rendered body in a complete XHTML content document.
const xhtmlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
<title>%s</title>
<link rel="stylesheet" type="text/css" href="style.css"/>
</head>
<body>
%s</body>
</html>
`

// Highlighter abstracts code tokenization so the renderer can take either the
// plain function or the caching wrapper.
type Highlighter interface {
	Highlight(lang, src string) []highlight.Token
}

// HighlightFunc adapts a plain function to the Highlighter interface.
type HighlightFunc func(lang, src string) []highlight.Token

func (f HighlightFunc) Highlight(lang, src string) []highlight.Token {
	return f(lang, src)
}

// Config holds renderer options. It is immutable once passed to New; the
// renderer never mutates it and holds no other state.
type Config struct {
	TokenColors map[highlight.Category]string // CSS color per token category
	IncludeTOC  bool                          // emit an in-document TOC section
	TOCTitle    string                        // heading above the TOC section
}

// DefaultConfig returns the standard renderer options.
func DefaultConfig() Config {
	return Config{
		TokenColors: map[highlight.Category]string{
			highlight.CategoryKeyword:    "#d73a49",
			highlight.CategoryType:       "#6f42c1",
			highlight.CategoryString:     "#032f62",
			highlight.CategoryComment:    "#6a737d",
			highlight.CategoryAnnotation: "#e36209",
			highlight.CategoryMethod:     "#005cc5",
			highlight.CategoryNumber:     "#005cc5",
		},
		IncludeTOC: true,
		TOCTitle:   "Contents",
	}
}

// tokenCSSOrder fixes the emission order of token rules so output is
// deterministic.
var tokenCSSOrder = []highlight.Category{
	highlight.CategoryKeyword,
	highlight.CategoryType,
	highlight.CategoryString,
	highlight.CategoryComment,
	highlight.CategoryAnnotation,
	highlight.CategoryMethod,
	highlight.CategoryNumber,
}

// Renderer renders documents with a fixed config and highlighter.
type Renderer struct {
	cfg Config
	hl  Highlighter
}

// New creates a Renderer. A nil highlighter falls back to the plain
// highlight.Highlight function.
func New(cfg Config, hl Highlighter) *Renderer {
	if hl == nil {
		hl = HighlightFunc(highlight.Highlight)
	}
	return &Renderer{cfg: cfg, hl: hl}
}

// Render produces the XHTML content document. Heading anchors are taken from
// entries in document order, so they are byte-identical to the navigation
// anchors built from the same outline.
func (r *Renderer) Render(title string, doc *markdown.Document, entries []outline.Entry) string {
	var body strings.Builder

	if r.cfg.IncludeTOC && len(entries) > 0 {
		body.WriteString(r.renderTOC(entries))
	}

	next := 0
	for _, block := range doc.Blocks {
		switch b := block.(type) {
		case markdown.Heading:
			anchor := ""
			if next < len(entries) {
				anchor = entries[next].Anchor
				next++
			} else {
				anchor = outline.Slugify(markdown.Flatten(b.Content))
			}
			fmt.Fprintf(&body, "<h%d id=%q>%s</h%d>\n", b.Level, anchor, renderInlines(b.Content), b.Level)

		case markdown.Paragraph:
			body.WriteString("<p>")
			body.WriteString(renderInlines(b.Content))
			body.WriteString("</p>\n")

		case markdown.CodeBlock:
			body.WriteString(r.renderCode(b))

		case markdown.List:
			body.WriteString(renderList(b))

		case markdown.Table:
			body.WriteString(renderTable(b))

		case markdown.ThematicBreak:
			body.WriteString("<hr/>\n")

		case markdown.RawText:
			body.WriteString(b.Text)
			body.WriteString("\n")

		default:
			// Unrecognized variant: escaped plain text rather than an error.
			fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(fmt.Sprint(block)))
		}
	}

	return fmt.Sprintf(xhtmlTemplate, html.EscapeString(title), body.String())
}

// Stylesheet appends token-category rules from the config to the base style.
func (r *Renderer) Stylesheet(base string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n/* Syntax highlighting */\n")

	for _, cat := range tokenCSSOrder {
		color, ok := r.cfg.TokenColors[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, ".tok-%s { color: %s; }\n", cat, color)
	}

	return b.String()
}

// renderCode highlights the block and emits one styled span per token.
// Code content is escaped literally, never inline-parsed.
func (r *Renderer) renderCode(b markdown.CodeBlock) string {
	var out strings.Builder

	out.WriteString("<pre><code")
	if b.Language != "" {
		fmt.Fprintf(&out, " class=\"language-%s\"", html.EscapeString(b.Language))
	}
	out.WriteString(">")

	for _, tok := range r.hl.Highlight(b.Language, b.Literal) {
		escaped := html.EscapeString(tok.Text)
		if tok.Category == highlight.CategoryPlain {
			out.WriteString(escaped)
			continue
		}
		fmt.Fprintf(&out, "<span class=\"tok-%s\">%s</span>", tok.Category, escaped)
	}

	out.WriteString("</code></pre>\n")
	return out.String()
}

// renderList emits ol/ul preserving item order.
func renderList(b markdown.List) string {
	tag := "ul"
	if b.Ordered {
		tag = "ol"
	}

	var out strings.Builder
	out.WriteString("<" + tag + ">\n")
	for _, item := range b.Items {
		out.WriteString("<li>")
		out.WriteString(renderInlines(item))
		out.WriteString("</li>\n")
	}
	out.WriteString("</" + tag + ">\n")
	return out.String()
}

// renderTable emits the first row as a header row, the rest as body rows.
// Cell text is inline-resolved here, per the model's raw-cell representation.
func renderTable(b markdown.Table) string {
	if len(b.Rows) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString("<table>\n<thead>\n<tr>")
	for _, cell := range b.Rows[0] {
		out.WriteString("<th>")
		out.WriteString(renderInlines(markdown.ParseInlines(cell)))
		out.WriteString("</th>")
	}
	out.WriteString("</tr>\n</thead>\n")

	if len(b.Rows) > 1 {
		out.WriteString("<tbody>\n")
		for _, row := range b.Rows[1:] {
			out.WriteString("<tr>")
			for _, cell := range row {
				out.WriteString("<td>")
				out.WriteString(renderInlines(markdown.ParseInlines(cell)))
				out.WriteString("</td>")
			}
			out.WriteString("</tr>\n")
		}
		out.WriteString("</tbody>\n")
	}

	out.WriteString("</table>\n")
	return out.String()
}

// renderTOC emits a nested navigation list mirroring heading levels, linking
// to the same anchors the headings carry.
func (r *Renderer) renderTOC(entries []outline.Entry) string {
	var out strings.Builder
	out.WriteString("<nav class=\"toc\">\n")
	if r.cfg.TOCTitle != "" {
		fmt.Fprintf(&out, "<h2>%s</h2>\n", html.EscapeString(r.cfg.TOCTitle))
	}
	out.WriteString(NavList(entries))
	out.WriteString("</nav>\n")
	return out.String()
}

// NavList builds a nested ordered list of outline links, mirroring heading
// levels. The EPUB navigation document uses the same structure with a
// different href prefix.
func NavList(entries []outline.Entry) string {
	return navListNodes(outline.Tree(entries), "#")
}

// NavListWithPrefix is NavList with anchors resolved against a content
// document path, e.g. "content.xhtml#".
func NavListWithPrefix(entries []outline.Entry, prefix string) string {
	return navListNodes(outline.Tree(entries), prefix)
}

func navListNodes(nodes []*outline.Node, prefix string) string {
	if len(nodes) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString("<ol>\n")
	for _, n := range nodes {
		fmt.Fprintf(&out, "<li><a href=\"%s%s\">%s</a>", prefix, n.Entry.Anchor, html.EscapeString(n.Entry.Text))
		if len(n.Children) > 0 {
			out.WriteString("\n")
			out.WriteString(navListNodes(n.Children, prefix))
		}
		out.WriteString("</li>\n")
	}
	out.WriteString("</ol>\n")
	return out.String()
}

// renderInlines emits escaped span markup for resolved inline content.
func renderInlines(spans []markdown.Inline) string {
	var out strings.Builder
	for _, s := range spans {
		switch v := s.(type) {
		case markdown.Text:
			out.WriteString(html.EscapeString(v.Text))
		case markdown.Emphasis:
			tag := "em"
			if v.Strong {
				tag = "strong"
			}
			out.WriteString("<" + tag + ">")
			out.WriteString(renderInlines(v.Content))
			out.WriteString("</" + tag + ">")
		case markdown.Code:
			out.WriteString("<code>")
			out.WriteString(html.EscapeString(v.Text))
			out.WriteString("</code>")
		case markdown.Link:
			out.WriteString("<a href=\"" + html.EscapeString(v.URL) + "\">")
			out.WriteString(html.EscapeString(v.Text))
			out.WriteString("</a>")
		default:
			out.WriteString(html.EscapeString(fmt.Sprint(s)))
		}
	}
	return out.String()
}

