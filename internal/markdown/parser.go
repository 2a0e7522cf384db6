package markdown

import (
	"regexp"
	"strings"
)

// Precompiled block-level patterns.
var (
	crlfOrCR        = regexp.MustCompile(`\r\n?`)
	fencePattern    = regexp.MustCompile("^(```|~~~)")
	headingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	unorderedMarker = regexp.MustCompile(`^[-*]\s+`)
	orderedMarker   = regexp.MustCompile(`^[0-9]+\.\s+`)
	separatorCell   = regexp.MustCompile(`^:?-+:?$`)
)

// isThematicBreak reports whether a trimmed line is three or more of the same
// marker character (-, *, _) with nothing else but spaces.
func isThematicBreak(s string) bool {
	var marker rune
	count := 0
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		if r != '-' && r != '*' && r != '_' {
			return false
		}
		if marker == 0 {
			marker = r
		} else if r != marker {
			return false
		}
		count++
	}
	return count >= 3
}

// Parse converts source text into a Document. It never fails: unrecognized or
// malformed constructs degrade to RawText or plain paragraphs.
//
// Block classification precedence per line group: fenced code > table >
// heading > list > thematic break > paragraph. Fenced code is scanned first
// because its body may contain blank lines and any other block marker.
func Parse(src string) *Document {
	doc := &Document{}
	if src == "" {
		return doc
	}

	lines := strings.Split(crlfOrCR.ReplaceAllString(src, "\n"), "\n")

	for i := 0; i < len(lines); {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case trimmed == "":
			i++

		case fencePattern.MatchString(trimmed):
			block, next := parseCodeBlock(lines, i)
			doc.Blocks = append(doc.Blocks, block)
			i = next

		case isTableStart(lines, i):
			block, next := parseTable(lines, i)
			doc.Blocks = append(doc.Blocks, block)
			i = next

		case headingPattern.MatchString(trimmed):
			m := headingPattern.FindStringSubmatch(trimmed)
			doc.Blocks = append(doc.Blocks, Heading{
				Level:   len(m[1]),
				Content: ParseInlines(strings.TrimSpace(m[2])),
			})
			i++

		case unorderedMarker.MatchString(trimmed) || orderedMarker.MatchString(trimmed):
			block, next := parseList(lines, i)
			doc.Blocks = append(doc.Blocks, block)
			i = next

		case isThematicBreak(trimmed):
			doc.Blocks = append(doc.Blocks, ThematicBreak{})
			i++

		case strings.HasPrefix(trimmed, "<"):
			block, next := parseRawText(lines, i)
			doc.Blocks = append(doc.Blocks, block)
			i = next

		default:
			block, next := parseParagraph(lines, i)
			doc.Blocks = append(doc.Blocks, block)
			i = next
		}
	}

	return doc
}

// parseCodeBlock consumes a fenced code block starting at lines[i].
// An unterminated fence runs to end of input rather than failing.
func parseCodeBlock(lines []string, i int) (CodeBlock, int) {
	opening := strings.TrimSpace(lines[i])
	fence := opening[:3]
	lang := strings.ToLower(strings.TrimSpace(opening[3:]))

	var body []string
	j := i + 1
	for ; j < len(lines); j++ {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), fence) {
			j++
			break
		}
		body = append(body, lines[j])
	}

	return CodeBlock{Language: lang, Literal: strings.Join(body, "\n")}, j
}

// isTableStart reports whether lines[i] opens a pipe table: a header row
// containing a pipe followed by a separator row of dashes/colons.
func isTableStart(lines []string, i int) bool {
	if !strings.Contains(lines[i], "|") {
		return false
	}
	if i+1 >= len(lines) {
		return false
	}
	return isSeparatorRow(lines[i+1])
}

// isSeparatorRow reports whether a line is a table separator like |---|:--:|.
func isSeparatorRow(line string) bool {
	cells := splitRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return true
}

// splitRow splits a table row into trimmed cells, dropping the empty leading
// and trailing cells produced by outer pipes.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// parseTable consumes a table: header, separator, then body rows until a line
// without a pipe. Ragged rows are kept as-is; the renderer pads visually.
func parseTable(lines []string, i int) (Table, int) {
	rows := [][]string{splitRow(lines[i])}
	j := i + 2 // skip separator row
	for ; j < len(lines); j++ {
		if !strings.Contains(lines[j], "|") || strings.TrimSpace(lines[j]) == "" {
			break
		}
		rows = append(rows, splitRow(lines[j]))
	}
	return Table{Rows: rows}, j
}

// parseList consumes consecutive list-marker lines. Ordered if the first
// marker is digit-dot. Mixed markers stay in one list; nesting is not modeled.
func parseList(lines []string, i int) (List, int) {
	ordered := orderedMarker.MatchString(strings.TrimSpace(lines[i]))

	var items [][]Inline
	j := i
	for ; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		var rest string
		switch {
		case unorderedMarker.MatchString(trimmed):
			rest = unorderedMarker.ReplaceAllString(trimmed, "")
		case orderedMarker.MatchString(trimmed):
			rest = orderedMarker.ReplaceAllString(trimmed, "")
		default:
			return List{Ordered: ordered, Items: items}, j
		}
		items = append(items, ParseInlines(rest))
	}
	return List{Ordered: ordered, Items: items}, j
}

// parseRawText consumes a run of non-blank lines passed through verbatim.
// Used for inline HTML and anything else the parser does not model.
func parseRawText(lines []string, i int) (RawText, int) {
	var raw []string
	j := i
	for ; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "" {
			break
		}
		raw = append(raw, lines[j])
	}
	return RawText{Text: strings.Join(raw, "\n")}, j
}

// parseParagraph consumes plain lines until a blank line or the start of a
// higher-precedence block.
func parseParagraph(lines []string, i int) (Paragraph, int) {
	var text []string
	j := i
	for ; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" {
			break
		}
		if j > i && startsBlock(lines, j) {
			break
		}
		text = append(text, trimmed)
	}
	return Paragraph{Content: ParseInlines(strings.Join(text, "\n"))}, j
}

// startsBlock reports whether lines[j] begins a non-paragraph block.
func startsBlock(lines []string, j int) bool {
	trimmed := strings.TrimSpace(lines[j])
	return fencePattern.MatchString(trimmed) ||
		isTableStart(lines, j) ||
		headingPattern.MatchString(trimmed) ||
		unorderedMarker.MatchString(trimmed) ||
		orderedMarker.MatchString(trimmed) ||
		isThematicBreak(trimmed)
}
