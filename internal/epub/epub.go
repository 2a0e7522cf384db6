// Package epub assembles rendered content and navigation metadata into an
// EPUB container.
//
// The container layout is fixed and order-sensitive: the mimetype entry is
// always first and always stored uncompressed, which readers use to sniff the
// format. Every other entry is deflated.
package epub

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/outline"
	"github.com/alnah/go-md2epub/internal/render"
)

// Sentinel errors for packaging operations.
var (
	// ErrMissingMetadata indicates a required metadata field is absent.
	// No output file is created when this is returned.
	ErrMissingMetadata = errors.New("missing required metadata")

	// ErrPackaging indicates an archive-write or file I/O failure. No partial
	// output file is left behind when this is returned.
	ErrPackaging = errors.New("packaging failed")
)

// Container layout constants.
const (
	MimeType      = "application/epub+zip"
	mimetypePath  = "mimetype"
	containerPath = "META-INF/container.xml"
	opfPath       = "OEBPS/content.opf"
	navPath       = "OEBPS/nav.xhtml"
	ncxPath       = "OEBPS/toc.ncx"
	stylePath     = "OEBPS/style.css"
	contentPath   = "OEBPS/content.xhtml"
)

// Metadata holds the package metadata fields. Title, Identifier, and
// Language are required; Author is optional.
type Metadata struct {
	Title      string
	Author     string
	Identifier string
	Language   string
}

// Validate reports the first missing required field as ErrMissingMetadata.
func (m Metadata) Validate() error {
	switch {
	case strings.TrimSpace(m.Title) == "":
		return fmt.Errorf("%w: title", ErrMissingMetadata)
	case strings.TrimSpace(m.Identifier) == "":
		return fmt.Errorf("%w: identifier", ErrMissingMetadata)
	case strings.TrimSpace(m.Language) == "":
		return fmt.Errorf("%w: language", ErrMissingMetadata)
	}
	return nil
}

// Book is everything the packager needs to emit one EPUB.
type Book struct {
	Metadata   Metadata
	Content    string // rendered XHTML content document
	Stylesheet string
	Outline    []outline.Entry
}

// ManifestEntry describes one internal resource in the package manifest.
// Paths are relative to the OEBPS directory.
type ManifestEntry struct {
	ID         string
	Path       string
	MediaType  string
	Properties string
	Spine      bool
}

// manifest returns the fixed resource list. The spine contains exactly the
// rendered content resource.
func manifest() []ManifestEntry {
	return []ManifestEntry{
		{ID: "content", Path: "content.xhtml", MediaType: "application/xhtml+xml", Spine: true},
		{ID: "nav", Path: "nav.xhtml", MediaType: "application/xhtml+xml", Properties: "nav"},
		{ID: "ncx", Path: "toc.ncx", MediaType: "application/x-dtbncx+xml"},
		{ID: "style", Path: "style.css", MediaType: "text/css"},
	}
}

// Build assembles the EPUB and returns its bytes. The metadata is validated
// first; ErrMissingMetadata is returned before any archive work happens.
func Build(book Book) ([]byte, error) {
	return BuildAt(book, time.Now())
}

// BuildAt is Build with an explicit modification timestamp, so archives are
// reproducible under test.
func BuildAt(book Book, now time.Time) ([]byte, error) {
	if err := book.Metadata.Validate(); err != nil {
		return nil, err
	}

	opf, err := renderOPF(book.Metadata, now)
	if err != nil {
		return nil, err
	}
	nav, err := renderNav(book)
	if err != nil {
		return nil, err
	}
	ncx, err := renderNCX(book)
	if err != nil {
		return nil, err
	}
	container, err := assets.LoadTemplate("container.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The mimetype entry must be first and stored, not deflated.
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   mimetypePath,
		Method: zip.Store,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	if _, err := w.Write([]byte(MimeType)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	entries := []struct {
		path    string
		content string
	}{
		{containerPath, container},
		{opfPath, opf},
		{navPath, nav},
		{ncxPath, ncx},
		{stylePath, book.Stylesheet},
		{contentPath, book.Content},
	}
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.path,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrPackaging, e.path, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %v", ErrPackaging, e.path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	return buf.Bytes(), nil
}

// WriteFile builds the EPUB and writes it atomically. On any failure no
// partial output is left behind and the destination is untouched.
func WriteFile(path string, book Book) error {
	data, err := Build(book)
	if err != nil {
		return err
	}
	return WriteData(path, data)
}

// WriteData writes archive bytes atomically: the data goes to a temporary
// file in the target directory, is synced, then renames over the destination.
// On any failure the temporary file is removed.
func WriteData(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".md2epub-*.epub")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPackaging, path, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %v", ErrPackaging, path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %v", ErrPackaging, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrPackaging, path, err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrPackaging, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrPackaging, path, err)
	}

	return nil
}

// renderOPF fills the root package descriptor: Dublin Core metadata, the
// manifest, and the spine.
func renderOPF(md Metadata, now time.Time) (string, error) {
	var spine []string
	for _, e := range manifest() {
		if e.Spine {
			spine = append(spine, e.ID)
		}
	}

	author := md.Author
	if strings.TrimSpace(author) == "" {
		author = "Technical Documentation"
	}

	return renderTemplate("content.opf.tmpl", map[string]any{
		"Identifier": xmlEscape(md.Identifier),
		"Title":      xmlEscape(md.Title),
		"Language":   xmlEscape(md.Language),
		"Author":     xmlEscape(author),
		"Modified":   now.UTC().Format("2006-01-02T15:04:05Z"),
		"Manifest":   manifest(),
		"Spine":      spine,
	})
}

// renderNav fills the EPUB 3 navigation document with a nested list built
// from the outline, anchored into the content document.
func renderNav(book Book) (string, error) {
	list := render.NavListWithPrefix(book.Outline, "content.xhtml#")
	if list == "" {
		// A nav document must contain at least one entry; point at the
		// content document itself.
		list = "<ol>\n<li><a href=\"content.xhtml\">Content</a></li>\n</ol>\n"
	}
	return renderTemplate("nav.xhtml.tmpl", map[string]any{
		"Title":    xmlEscape(book.Metadata.Title),
		"TOCTitle": xmlEscape(book.Metadata.Title),
		"NavList":  list,
	})
}

// renderNCX fills the EPUB 2 navigation map mirroring the same outline, kept
// for readers that predate the nav document.
func renderNCX(book Book) (string, error) {
	depth := 1
	for _, e := range book.Outline {
		if e.Level > depth {
			depth = e.Level
		}
	}

	play := 0
	return renderTemplate("toc.ncx.tmpl", map[string]any{
		"Identifier": xmlEscape(book.Metadata.Identifier),
		"Title":      xmlEscape(book.Metadata.Title),
		"Depth":      depth,
		"NavMap":     navPoints(outline.Tree(book.Outline), &play, 2),
	})
}

// navPoints emits nested NCX navPoint elements with sequential play order.
func navPoints(nodes []*outline.Node, play *int, indent int) string {
	var out strings.Builder
	pad := strings.Repeat("  ", indent)

	for _, n := range nodes {
		*play++
		fmt.Fprintf(&out, "%s<navPoint id=\"nav-%d\" playOrder=\"%d\">\n", pad, *play, *play)
		fmt.Fprintf(&out, "%s  <navLabel><text>%s</text></navLabel>\n", pad, xmlEscape(n.Entry.Text))
		fmt.Fprintf(&out, "%s  <content src=\"content.xhtml#%s\"/>\n", pad, n.Entry.Anchor)
		out.WriteString(navPoints(n.Children, play, indent+1))
		fmt.Fprintf(&out, "%s</navPoint>\n", pad)
	}

	return out.String()
}

// renderTemplate executes an embedded packaging template.
func renderTemplate(name string, data any) (string, error) {
	content, err := assets.LoadTemplate(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrPackaging, name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: executing %s: %v", ErrPackaging, name, err)
	}
	return buf.String(), nil
}

// xmlEscape escapes text for XML element and attribute content.
func xmlEscape(s string) string {
	return html.EscapeString(s)
}
