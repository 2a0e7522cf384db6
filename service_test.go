package md2epub

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2epub/internal/epub"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	svc, err := New()
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	if svc.cfg.resolvedStyle == "" {
		t.Error("default style not resolved")
	}
}

func TestNew_UnknownStyle(t *testing.T) {
	t.Parallel()

	_, err := New(WithStyle("no-such-style"))
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("New() = %v, want ErrStyleNotFound", err)
	}
}

func TestNew_StyleFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.css")
	css := "body { color: teal; }"
	if err := os.WriteFile(path, []byte(css), 0o644); err != nil {
		t.Fatal(err)
	}

	svc, err := New(WithStyle(path))
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	if svc.cfg.resolvedStyle != css {
		t.Errorf("resolved style = %q, want %q", svc.cfg.resolvedStyle, css)
	}
}

func TestNew_StyleFileMissing(t *testing.T) {
	t.Parallel()

	_, err := New(WithStyle(filepath.Join(t.TempDir(), "gone.css")))
	if err == nil {
		t.Fatal("New() = nil, want error for missing style file")
	}
}

func TestWithHighlightCacheTTL_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-positive TTL")
		}
	}()
	WithHighlightCacheTTL(0)
}

func TestConvert_MissingTitle(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	_, err := svc.Convert(context.Background(), Input{Markdown: "# Hi"})
	if !errors.Is(err, ErrMissingMetadata) {
		t.Errorf("Convert() = %v, want ErrMissingMetadata", err)
	}
}

func TestConvert_Pipeline(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	res, err := svc.Convert(context.Background(), Input{
		Markdown: "# Title\n\n```java\nint x = 1;\n```\n",
		Metadata: Metadata{Title: "Demo"},
	})
	if err != nil {
		t.Fatalf("Convert() = %v, want nil", err)
	}

	if got := strings.Count(res.XHTML, `id="title"`); got != 1 {
		t.Errorf("heading anchor count = %d, want 1", got)
	}
	if !strings.Contains(res.XHTML, `<span class="tok-type">int</span>`) {
		t.Error("java keyword type not highlighted")
	}
	if !strings.Contains(res.XHTML, `<span class="tok-number">1</span>`) {
		t.Error("number literal not highlighted")
	}

	files := readArchive(t, res.EPUB)
	if !strings.Contains(files["OEBPS/nav.xhtml"], `content.xhtml#title`) {
		t.Error("navigation does not link the heading anchor")
	}
}

func TestConvert_MetadataDefaults(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	res, err := svc.Convert(context.Background(), Input{
		Markdown: "# A",
		Metadata: Metadata{Title: "A"},
	})
	if err != nil {
		t.Fatalf("Convert() = %v, want nil", err)
	}

	opf := readArchive(t, res.EPUB)["OEBPS/content.opf"]
	if !strings.Contains(opf, "urn:uuid:") {
		t.Error("identifier default is not a urn:uuid value")
	}
	if !strings.Contains(opf, "<dc:language>en</dc:language>") {
		t.Error("language default not applied")
	}
}

func TestConvert_ExplicitMetadataWins(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	res, err := svc.Convert(context.Background(), Input{
		Markdown: "# A",
		Metadata: Metadata{
			Title:      "A",
			Author:     "Jane Doe",
			Identifier: "urn:isbn:123",
			Language:   "fr",
		},
	})
	if err != nil {
		t.Fatalf("Convert() = %v, want nil", err)
	}

	opf := readArchive(t, res.EPUB)["OEBPS/content.opf"]
	for _, want := range []string{"urn:isbn:123", "<dc:language>fr</dc:language>", "Jane Doe"} {
		if !strings.Contains(opf, want) {
			t.Errorf("OPF missing %q", want)
		}
	}
}

func TestConvert_TOC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		toc     *TOC
		wantTOC bool
		title   string
	}{
		{name: "default emits toc", toc: nil, wantTOC: true, title: "Contents"},
		{name: "custom title", toc: &TOC{Title: "Chapters"}, wantTOC: true, title: "Chapters"},
		{name: "disabled", toc: &TOC{Disabled: true}, wantTOC: false},
	}

	svc := mustNew(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := svc.Convert(context.Background(), Input{
				Markdown: "# One\n\n## Two\n",
				Metadata: Metadata{Title: "T"},
				TOC:      tt.toc,
			})
			if err != nil {
				t.Fatalf("Convert() = %v, want nil", err)
			}

			hasTOC := strings.Contains(res.XHTML, `<nav class="toc">`)
			if hasTOC != tt.wantTOC {
				t.Errorf("toc present = %v, want %v", hasTOC, tt.wantTOC)
			}
			if tt.wantTOC && !strings.Contains(res.XHTML, "<h2>"+tt.title+"</h2>") {
				t.Errorf("toc title %q not found", tt.title)
			}
		})
	}
}

func TestConvert_UserCSSAppended(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	res, err := svc.Convert(context.Background(), Input{
		Markdown: "# A",
		Metadata: Metadata{Title: "A"},
		CSS:      "p { margin: 0; }",
	})
	if err != nil {
		t.Fatalf("Convert() = %v, want nil", err)
	}

	css := readArchive(t, res.EPUB)["OEBPS/style.css"]
	base := strings.Index(css, ".tok-keyword")
	user := strings.Index(css, "p { margin: 0; }")
	if base == -1 || user == -1 {
		t.Fatal("stylesheet missing token rules or user CSS")
	}
	if user < base {
		t.Error("user CSS should come after the base style")
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := mustNew(t)
	_, err := svc.Convert(ctx, Input{Markdown: "# A", Metadata: Metadata{Title: "A"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() = %v, want context.Canceled", err)
	}
}

func TestConvert_EmptyMarkdown(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	res, err := svc.Convert(context.Background(), Input{
		Metadata: Metadata{Title: "Empty"},
	})
	if err != nil {
		t.Fatalf("Convert() = %v, want nil for empty markdown", err)
	}
	if len(res.EPUB) == 0 {
		t.Error("empty markdown should still produce an archive")
	}
}

func TestConvert_MimetypeFirstAndStored(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	res, err := svc.Convert(context.Background(), Input{
		Markdown: "# A",
		Metadata: Metadata{Title: "A"},
	})
	if err != nil {
		t.Fatalf("Convert() = %v, want nil", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(res.EPUB), int64(len(res.EPUB)))
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	first := zr.File[0]
	if first.Name != "mimetype" {
		t.Errorf("first entry = %q, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Errorf("mimetype method = %d, want Store", first.Method)
	}
}

func TestConvertFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.epub")
	svc := mustNew(t)
	res, err := svc.ConvertFile(context.Background(), Input{
		Markdown: "# A",
		Metadata: Metadata{Title: "A"},
	}, path)
	if err != nil {
		t.Fatalf("ConvertFile() = %v, want nil", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Equal(data, res.EPUB) {
		t.Error("written file differs from returned bytes")
	}
}

func TestConvertFile_NoOutputOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.epub")
	svc := mustNew(t)
	_, err := svc.ConvertFile(context.Background(), Input{Markdown: "# A"}, path)
	if !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("ConvertFile() = %v, want ErrMissingMetadata", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output directory not empty: %v", entries)
	}
}

// failingPackager substitutes the archive stage to exercise error wrapping.
type failingPackager struct{ err error }

func (p failingPackager) Build(epub.Book) ([]byte, error) { return nil, p.err }
func (p failingPackager) Write(string, []byte) error      { return p.err }

func TestConvert_PackagingFailure(t *testing.T) {
	t.Parallel()

	svc := mustNew(t)
	svc.packager = failingPackager{err: ErrPackaging}

	_, err := svc.Convert(context.Background(), Input{
		Markdown: "# A",
		Metadata: Metadata{Title: "A"},
	})
	if !errors.Is(err, ErrPackaging) {
		t.Errorf("Convert() = %v, want ErrPackaging", err)
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	if len(names) == 0 {
		t.Fatal("no built-in styles")
	}
	found := false
	for _, n := range names {
		if n == "book" {
			found = true
		}
	}
	if !found {
		t.Errorf("StyleNames() = %v, want to include book", names)
	}
}

func mustNew(t *testing.T) *Service {
	t.Helper()
	svc, err := New()
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	return svc
}

// readArchive extracts every entry of an EPUB into a path-to-content map.
func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}

	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		files[f.Name] = string(content)
	}
	return files
}
