// Package highlight classifies code fragments into lexical tokens for a small
// fixed set of languages.
//
// The scanner is a sequential rule list, not a grammar: at each position the
// first matching category rule consumes a run, and when nothing matches a
// single character is consumed as plain. This guarantees forward progress,
// linear time, and the round-trip invariant that concatenating token literals
// reproduces the input exactly.
package highlight

import (
	"strings"
	"unicode"
)

// Category classifies a token for styling.
type Category string

// Token categories.
const (
	CategoryKeyword    Category = "keyword"
	CategoryType       Category = "type"
	CategoryString     Category = "string"
	CategoryComment    Category = "comment"
	CategoryAnnotation Category = "annotation"
	CategoryMethod     Category = "method"
	CategoryNumber     Category = "number"
	CategoryPlain      Category = "plain"
)

// Token is a classified fragment of source code. An ordered token sequence
// reconstructs the original fragment exactly when literals are concatenated.
type Token struct {
	Category Category
	Text     string
}

// language describes the rule inputs for one recognized language.
type language struct {
	keywords      map[string]bool
	types         map[string]bool
	lineComments  []string
	blockComment  [2]string
	stringQuotes  []byte
	annotationSig byte // 0 = no annotation rule
}

// languages maps lowercase language keys to their rule definitions.
var languages = map[string]*language{
	"go": {
		keywords: wordSet("break case chan const continue default defer else fallthrough " +
			"for func go goto if import interface map package range return select struct switch type var"),
		types: wordSet("bool byte complex64 complex128 error float32 float64 int int8 int16 " +
			"int32 int64 rune string uint uint8 uint16 uint32 uint64 uintptr any"),
		lineComments: []string{"//"},
		blockComment: [2]string{"/*", "*/"},
		stringQuotes: []byte{'"', '\'', '`'},
	},
	"java": {
		keywords: wordSet("abstract assert break case catch class const continue default do else " +
			"enum extends final finally for goto if implements import instanceof interface native new " +
			"package private protected public return static strictfp super switch synchronized this " +
			"throw throws transient try volatile while"),
		types: wordSet("boolean byte char double float int long short void " +
			"Boolean Byte Character Double Float Integer Long Short String Object List Map Set"),
		lineComments:  []string{"//"},
		blockComment:  [2]string{"/*", "*/"},
		stringQuotes:  []byte{'"', '\''},
		annotationSig: '@',
	},
	"python": {
		keywords: wordSet("and as assert async await break class continue def del elif else except " +
			"finally for from global if import in is lambda nonlocal not or pass raise return try while with yield"),
		types:         wordSet("bool bytes dict float frozenset int list object set str tuple None True False"),
		lineComments:  []string{"#"},
		stringQuotes:  []byte{'"', '\''},
		annotationSig: '@',
	},
	"javascript": {
		keywords: wordSet("async await break case catch class const continue debugger default delete " +
			"do else export extends finally for function if import in instanceof let new of return " +
			"static super switch this throw try typeof var void while with yield"),
		types:        wordSet("Array Boolean Date Error Map Number Object Promise RegExp Set String Symbol undefined null"),
		lineComments: []string{"//"},
		blockComment: [2]string{"/*", "*/"},
		stringQuotes: []byte{'"', '\'', '`'},
	},
	"c": {
		keywords: wordSet("auto break case const continue default do else enum extern for goto if " +
			"inline register restrict return sizeof static struct switch typedef union volatile while"),
		types:        wordSet("bool char double float int long short signed unsigned void size_t int8_t int16_t int32_t int64_t uint8_t uint16_t uint32_t uint64_t"),
		lineComments: []string{"//"},
		blockComment: [2]string{"/*", "*/"},
		stringQuotes: []byte{'"', '\''},
	},
}

// Recognized reports whether a language key has highlighting rules.
func Recognized(lang string) bool {
	_, ok := languages[lang]
	return ok
}

// Highlight tokenizes a code fragment for the given language key.
// Unrecognized keys yield a single plain token wrapping the whole fragment.
// Highlight never fails; worst case every character is its own plain token.
func Highlight(lang, src string) []Token {
	if src == "" {
		return nil
	}

	def, ok := languages[lang]
	if !ok {
		return []Token{{Category: CategoryPlain, Text: src}}
	}

	s := scanner{src: src, def: def}
	return s.scan()
}

// scanner walks a fragment applying the category rules in fixed order.
type scanner struct {
	src    string
	def    *language
	pos    int
	tokens []Token
	plain  strings.Builder
}

func (s *scanner) scan() []Token {
	for s.pos < len(s.src) {
		switch {
		case s.scanComment():
		case s.scanString():
		case s.scanAnnotation():
		case s.scanNumber():
		case s.scanWord():
		default:
			// No rule matched: consume one character as plain.
			s.plain.WriteByte(s.src[s.pos])
			s.pos++
		}
	}
	s.flushPlain()
	return s.tokens
}

// emit flushes pending plain text and appends a classified token.
func (s *scanner) emit(cat Category, text string) {
	s.flushPlain()
	s.tokens = append(s.tokens, Token{Category: cat, Text: text})
}

func (s *scanner) flushPlain() {
	if s.plain.Len() > 0 {
		s.tokens = append(s.tokens, Token{Category: CategoryPlain, Text: s.plain.String()})
		s.plain.Reset()
	}
}

// scanComment matches line comments to end of line and block comments to
// their terminator or end of input.
func (s *scanner) scanComment() bool {
	rest := s.src[s.pos:]

	for _, marker := range s.def.lineComments {
		if strings.HasPrefix(rest, marker) {
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			s.emit(CategoryComment, rest[:end])
			s.pos += end
			return true
		}
	}

	if open := s.def.blockComment[0]; open != "" && strings.HasPrefix(rest, open) {
		end := strings.Index(rest[len(open):], s.def.blockComment[1])
		if end < 0 {
			s.emit(CategoryComment, rest)
			s.pos = len(s.src)
			return true
		}
		length := len(open) + end + len(s.def.blockComment[1])
		s.emit(CategoryComment, rest[:length])
		s.pos += length
		return true
	}

	return false
}

// scanString matches a quoted literal with backslash-escape awareness.
// An unterminated literal runs to end of input.
func (s *scanner) scanString() bool {
	quote := s.src[s.pos]
	match := false
	for _, q := range s.def.stringQuotes {
		if q == quote {
			match = true
			break
		}
	}
	if !match {
		return false
	}

	j := s.pos + 1
	for j < len(s.src) {
		if s.src[j] == '\\' && j+1 < len(s.src) {
			j += 2
			continue
		}
		if s.src[j] == quote {
			j++
			break
		}
		j++
	}

	s.emit(CategoryString, s.src[s.pos:j])
	s.pos = j
	return true
}

// scanAnnotation matches the language's annotation sigil followed by an
// identifier, e.g. @Override or a Python decorator.
func (s *scanner) scanAnnotation() bool {
	if s.def.annotationSig == 0 || s.src[s.pos] != s.def.annotationSig {
		return false
	}
	j := s.pos + 1
	for j < len(s.src) && isWordByte(s.src[j]) {
		j++
	}
	if j == s.pos+1 {
		return false
	}
	s.emit(CategoryAnnotation, s.src[s.pos:j])
	s.pos = j
	return true
}

// scanNumber matches a numeric literal: digits with optional fraction,
// exponent, hex prefix, and trailing type suffix letters.
func (s *scanner) scanNumber() bool {
	c := s.src[s.pos]
	if c < '0' || c > '9' {
		return false
	}
	// Numbers are only recognized at a word boundary so identifiers like x1
	// stay whole.
	if s.pos > 0 && isWordByte(s.src[s.pos-1]) {
		return false
	}

	j := s.pos + 1
	for j < len(s.src) {
		c := s.src[j]
		if isWordByte(c) || c == '.' {
			j++
			continue
		}
		break
	}

	s.emit(CategoryNumber, s.src[s.pos:j])
	s.pos = j
	return true
}

// scanWord matches an identifier run and classifies it: keyword set, type
// set, method-call position (identifier directly before an open paren), or
// plain identifier text.
func (s *scanner) scanWord() bool {
	c := s.src[s.pos]
	if !isWordStart(c) {
		return false
	}

	j := s.pos + 1
	for j < len(s.src) && isWordByte(s.src[j]) {
		j++
	}
	word := s.src[s.pos:j]

	switch {
	case s.def.keywords[word]:
		s.emit(CategoryKeyword, word)
	case s.def.types[word]:
		s.emit(CategoryType, word)
	case j < len(s.src) && s.src[j] == '(':
		s.emit(CategoryMethod, word)
	default:
		s.plain.WriteString(word)
	}

	s.pos = j
	return true
}

func isWordStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isWordByte(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// wordSet builds a membership set from a space-separated word list.
func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}
