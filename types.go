package md2epub

import "time"

// Metadata identifies the produced publication.
type Metadata struct {
	Title      string // required
	Author     string // optional
	Identifier string // optional, defaults to a fresh "urn:uuid:" value
	Language   string // optional, defaults to DefaultLanguage
}

// Metadata defaults applied during conversion.
const (
	DefaultLanguage = "en"
	DefaultTOCTitle = "Contents"
)

// Input contains conversion parameters.
type Input struct {
	Markdown string   // Markdown content
	Metadata Metadata // publication metadata
	CSS      string   // extra CSS appended after the base style (optional)
	TOC      *TOC     // table of contents config (optional, nil = defaults)
}

// TOC configures the in-document table of contents. The zero value emits a
// TOC titled DefaultTOCTitle; set Disabled to suppress the in-document
// section. The navigation documents inside the archive always carry the full
// outline regardless.
type TOC struct {
	Disabled bool
	Title    string
}

// Result holds conversion output.
type Result struct {
	EPUB  []byte // the packaged archive
	XHTML string // intermediate content document, useful for debugging
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	styleInput    string
	resolvedStyle string
	noStyle       bool
	cacheTTL      time.Duration
}

// WithStyle selects the stylesheet: a built-in style name (see StyleNames)
// or a path to a CSS file. The default is the built-in "book" style.
func WithStyle(nameOrPath string) Option {
	return func(s *Service) {
		s.cfg.styleInput = nameOrPath
	}
}

// WithoutStyle drops the base stylesheet. Token-category rules are still
// emitted so highlighted code keeps its colors.
func WithoutStyle() Option {
	return func(s *Service) {
		s.cfg.noStyle = true
	}
}

// WithHighlightCacheTTL sets how long highlighted code blocks stay memoized.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithHighlightCacheTTL(d time.Duration) Option {
	if d <= 0 {
		panic("md2epub: WithHighlightCacheTTL duration must be positive")
	}
	return func(s *Service) {
		s.cfg.cacheTTL = d
	}
}
