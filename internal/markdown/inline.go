package markdown

import "strings"

// ParseInlines resolves inline spans in a single left-to-right pass.
//
// Precedence when markers overlap: a backtick code span wins over emphasis and
// link markers inside it, and its contents are never further interpreted.
// Unterminated markers degrade to literal plain text.
func ParseInlines(src string) []Inline {
	var spans []Inline
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Text{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(src); {
		switch src[i] {
		case '`':
			code, next, ok := scanCodeSpan(src, i)
			if !ok {
				plain.WriteByte(src[i])
				i++
				continue
			}
			flush()
			spans = append(spans, code)
			i = next

		case '[':
			link, next, ok := scanLink(src, i)
			if !ok {
				plain.WriteByte(src[i])
				i++
				continue
			}
			flush()
			spans = append(spans, link)
			i = next

		case '*', '_':
			em, next, ok := scanEmphasis(src, i)
			if !ok {
				plain.WriteByte(src[i])
				i++
				continue
			}
			flush()
			spans = append(spans, em)
			i = next

		default:
			plain.WriteByte(src[i])
			i++
		}
	}

	flush()
	return spans
}

// scanCodeSpan matches a backtick-delimited code span starting at i. The
// closing run must have the same length as the opening run.
func scanCodeSpan(src string, i int) (Code, int, bool) {
	open := runLength(src, i, '`')
	delim := src[i : i+open]

	start := i + open
	idx := strings.Index(src[start:], delim)
	if idx < 0 {
		return Code{}, 0, false
	}

	// Reject a longer closing run by requiring the run to end exactly at delim length.
	end := start + idx
	for end < len(src) && runLength(src, end, '`') != open {
		next := strings.Index(src[end+1:], delim)
		if next < 0 {
			return Code{}, 0, false
		}
		end = end + 1 + next
	}

	return Code{Text: src[start:end]}, end + open, true
}

// scanLink matches [text](url) starting at i. Nested brackets are not modeled;
// failure to match degrades to a literal bracket.
func scanLink(src string, i int) (Link, int, bool) {
	close := strings.IndexByte(src[i:], ']')
	if close < 0 {
		return Link{}, 0, false
	}
	textEnd := i + close

	if textEnd+1 >= len(src) || src[textEnd+1] != '(' {
		return Link{}, 0, false
	}
	urlEnd := strings.IndexByte(src[textEnd+2:], ')')
	if urlEnd < 0 {
		return Link{}, 0, false
	}

	return Link{
		Text: src[i+1 : textEnd],
		URL:  src[textEnd+2 : textEnd+2+urlEnd],
	}, textEnd + 2 + urlEnd + 1, true
}

// scanEmphasis matches emphasis delimited by * or _ starting at i. A run of
// two or more opens strong emphasis; the shortest valid closing run matches.
// Interior content is resolved recursively, so `code` keeps priority inside.
func scanEmphasis(src string, i int) (Emphasis, int, bool) {
	marker := src[i]
	run := runLength(src, i, marker)

	n := 1
	if run >= 2 {
		n = 2
	}
	delim := strings.Repeat(string(marker), n)

	start := i + n
	idx := findEmphasisCloser(src[start:], delim)
	if idx <= 0 {
		// No closer, or empty interior like ** directly followed by **.
		return Emphasis{}, 0, false
	}
	end := start + idx

	return Emphasis{
		Strong:  n == 2,
		Content: ParseInlines(src[start:end]),
	}, end + n, true
}

// findEmphasisCloser returns the offset of delim in s, stepping over backtick
// code spans so a marker inside one cannot close the emphasis.
func findEmphasisCloser(s, delim string) int {
	for i := 0; i < len(s); {
		if s[i] == '`' {
			if _, next, ok := scanCodeSpan(s, i); ok {
				i = next
				continue
			}
			i++
			continue
		}
		if strings.HasPrefix(s[i:], delim) {
			return i
		}
		i++
	}
	return -1
}

// runLength returns the length of the run of byte c starting at i.
func runLength(src string, i int, c byte) int {
	j := i
	for j < len(src) && src[j] == c {
		j++
	}
	return j - i
}
