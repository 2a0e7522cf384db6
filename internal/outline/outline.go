// Package outline derives a navigable table of contents from a parsed
// document. Entries are recomputed from the document on every call, never
// edited in place.
package outline

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/alnah/go-md2epub/internal/markdown"
)

// Entry is one navigable heading reference.
type Entry struct {
	Level  int
	Text   string
	Anchor string
}

// Extract returns one Entry per Heading block in document order. Anchors are
// unique within the document: colliding slugs get -2, -3, ... suffixes in
// order of appearance. The renderer consumes this same list, so the embedded
// anchors cannot drift from the navigation map.
func Extract(doc *markdown.Document) []Entry {
	var entries []Entry
	count := make(map[string]int)
	taken := make(map[string]bool)

	for _, block := range doc.Blocks {
		h, ok := block.(markdown.Heading)
		if !ok {
			continue
		}

		text := markdown.Flatten(h.Content)
		slug := Slugify(text)

		// A suffixed candidate can itself match a later heading's natural
		// slug, so keep counting until the anchor is genuinely free.
		anchor := slug
		for {
			count[slug]++
			if n := count[slug]; n > 1 {
				anchor = slug + "-" + strconv.Itoa(n)
			}
			if !taken[anchor] {
				break
			}
		}
		taken[anchor] = true

		entries = append(entries, Entry{
			Level:  h.Level,
			Text:   text,
			Anchor: anchor,
		})
	}

	return entries
}

// Node is an Entry with its nested sub-entries, for hierarchical navigation.
type Node struct {
	Entry    Entry
	Children []*Node
}

// Tree nests entries by heading level. An entry becomes a child of the
// nearest preceding entry with a smaller level, so level jumps (H1 straight
// to H3) nest one step deeper instead of leaving empty levels.
func Tree(entries []Entry) []*Node {
	var roots []*Node
	var path []*Node

	for _, e := range entries {
		n := &Node{Entry: e}

		for len(path) > 0 && path[len(path)-1].Entry.Level >= e.Level {
			path = path[:len(path)-1]
		}

		if len(path) == 0 {
			roots = append(roots, n)
		} else {
			parent := path[len(path)-1]
			parent.Children = append(parent.Children, n)
		}
		path = append(path, n)
	}

	return roots
}

// Slugify lowercases text, collapses runs of non-alphanumeric characters into
// a single hyphen, and strips leading/trailing hyphens. Text that slugs to
// nothing becomes "section" so anchors are never empty.
func Slugify(text string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}
