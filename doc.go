// Package md2epub converts Markdown documents to EPUB publications.
//
// # Quick Start
//
// Create a service and convert markdown:
//
//	svc, err := md2epub.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := svc.Convert(ctx, md2epub.Input{
//	    Markdown: "# Hello\n\nWorld",
//	    Metadata: md2epub.Metadata{Title: "Hello"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.epub", result.EPUB, 0644)
//
// The result contains both the EPUB bytes (result.EPUB) and the intermediate
// XHTML content document (result.XHTML) for debugging. ConvertFile writes the
// archive to disk atomically instead of returning it.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown parsing into a structural document model
//  2. Outline extraction (heading anchors, collision-free slugs)
//  3. XHTML rendering with rule-based syntax highlighting
//  4. EPUB packaging (fixed container layout, stored mimetype entry)
//
// Parsing is total: malformed markup degrades to plain text instead of
// failing, so the only conversion errors are missing metadata, unknown
// styles, and file I/O.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc, err := md2epub.New(
//	    md2epub.WithStyle("book"),
//	    md2epub.WithHighlightCacheTTL(10 * time.Minute),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := svc.Convert(ctx, md2epub.Input{
//	    Markdown: content,
//	    Metadata: md2epub.Metadata{Title: "Report", Author: "Jane Doe"},
//	    CSS:      "body { font-size: 14px; }",
//	    TOC:      &md2epub.TOC{Title: "Chapters"},
//	})
//
// Identifier and Language default to a fresh "urn:uuid:" value and "en" when
// left empty; Title is required.
package md2epub
