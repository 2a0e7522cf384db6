package md2epub

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/epub"
	"github.com/alnah/go-md2epub/internal/fileutil"
	"github.com/alnah/go-md2epub/internal/highlight"
	"github.com/alnah/go-md2epub/internal/markdown"
	"github.com/alnah/go-md2epub/internal/outline"
	"github.com/alnah/go-md2epub/internal/render"
)

// Per-stage seams so tests can substitute failure modes without touching the
// real pipeline.
type documentParser interface {
	Parse(src string) *markdown.Document
}

type outlineExtractor interface {
	Extract(doc *markdown.Document) []outline.Entry
}

type packager interface {
	Build(book epub.Book) ([]byte, error)
	Write(path string, data []byte) error
}

type structuralParser struct{}

func (structuralParser) Parse(src string) *markdown.Document { return markdown.Parse(src) }

type headingExtractor struct{}

func (headingExtractor) Extract(doc *markdown.Document) []outline.Entry {
	return outline.Extract(doc)
}

type zipPackager struct{}

func (zipPackager) Build(book epub.Book) ([]byte, error) { return epub.Build(book) }
func (zipPackager) Write(path string, data []byte) error { return epub.WriteData(path, data) }

// Compile-time interface implementation checks.
var (
	_ documentParser   = structuralParser{}
	_ outlineExtractor = headingExtractor{}
	_ packager         = zipPackager{}
)

// Service orchestrates the markdown-to-EPUB pipeline.
// Create with New(), then call Convert() or ConvertFile(). A Service is safe
// for concurrent use.
type Service struct {
	cfg       serviceConfig
	parser    documentParser
	extractor outlineExtractor
	packager  packager
	cache     *highlight.Cache
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithStyle).
// Returns an error if the selected style cannot be loaded.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg:       serviceConfig{cacheTTL: highlight.DefaultCacheTTL},
		parser:    structuralParser{},
		extractor: headingExtractor{},
		packager:  zipPackager{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.resolveStyle(); err != nil {
		return nil, err
	}
	s.cache = highlight.NewCache(s.cfg.cacheTTL)

	return s, nil
}

// resolveStyle resolves the style input (built-in name or file path) to CSS
// content. Called during New() after options are applied.
func (s *Service) resolveStyle() error {
	if s.cfg.noStyle {
		s.cfg.resolvedStyle = ""
		return nil
	}

	input := s.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyle
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		s.cfg.resolvedStyle = string(content)
		return nil
	}

	css, err := assets.LoadStyle(input)
	if err != nil {
		return err
	}
	s.cfg.resolvedStyle = css
	return nil
}

// Convert runs the full pipeline and returns the result containing the EPUB
// bytes and the intermediate XHTML. The context is checked between stages.
// Metadata is validated before any rendering work happens.
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	meta := resolveMetadata(input.Metadata)
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	doc := s.parser.Parse(input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	entries := s.extractor.Extract(doc)

	cfg := render.DefaultConfig()
	if input.TOC != nil {
		cfg.IncludeTOC = !input.TOC.Disabled
		if input.TOC.Title != "" {
			cfg.TOCTitle = input.TOC.Title
		}
	}
	r := render.New(cfg, render.HighlightFunc(s.cache.Highlight))

	xhtml := r.Render(meta.Title, doc, entries)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Base style first, user CSS last so it can override.
	css := r.Stylesheet(s.cfg.resolvedStyle)
	if input.CSS != "" {
		css += "\n" + input.CSS
	}

	data, err := s.packager.Build(epub.Book{
		Metadata:   meta,
		Content:    xhtml,
		Stylesheet: css,
		Outline:    entries,
	})
	if err != nil {
		return nil, fmt.Errorf("packaging: %w", err)
	}

	return &Result{EPUB: data, XHTML: xhtml}, nil
}

// ConvertFile runs Convert and writes the archive to path atomically. On any
// error the destination is left untouched and no partial file remains.
func (s *Service) ConvertFile(ctx context.Context, input Input, path string) (*Result, error) {
	res, err := s.Convert(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.packager.Write(path, res.EPUB); err != nil {
		return nil, err
	}
	return res, nil
}

// resolveMetadata applies defaults to optional fields and maps the public
// metadata to the packager's.
func resolveMetadata(m Metadata) epub.Metadata {
	out := epub.Metadata{
		Title:      strings.TrimSpace(m.Title),
		Author:     strings.TrimSpace(m.Author),
		Identifier: strings.TrimSpace(m.Identifier),
		Language:   strings.TrimSpace(m.Language),
	}
	if out.Identifier == "" {
		out.Identifier = "urn:uuid:" + uuid.NewString()
	}
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	return out
}

// StyleNames lists the built-in stylesheet names accepted by WithStyle.
func StyleNames() []string {
	return assets.StyleNames()
}
