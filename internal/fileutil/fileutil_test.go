package fileutil

// Notes:
// - ReplaceExtension / BaseName: output path and title derivation helpers
// - FileExists / IsFilePath / IsMarkdownPath: classification helpers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		ext  string
		want string
	}{
		{"md to epub", "notes.md", ".epub", "notes.epub"},
		{"nested path", "a/b/doc.markdown", ".epub", "a/b/doc.epub"},
		{"no extension", "README", ".epub", "README.epub"},
		{"dotfile kept", ".config.yaml", ".epub", ".config.epub"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ReplaceExtension(tt.path, tt.ext); got != tt.want {
				t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"notes/chapter one.md", "chapter one"},
		{"doc.markdown", "doc"},
		{"/abs/path/x.md", "x"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		tt := tt
		if got := BaseName(tt.path); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "present.md")
	if err := os.WriteFile(file, []byte("# x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("existing file not detected")
	}
	if FileExists(filepath.Join(dir, "absent.md")) {
		t.Error("missing file reported as existing")
	}
	if FileExists(dir) {
		t.Error("directory reported as file")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	if IsFilePath("plain-name") {
		t.Error("name treated as path")
	}
	if !IsFilePath("./x.css") || !IsFilePath(`c:\win\x`) {
		t.Error("path not detected")
	}
}

func TestIsMarkdownPath(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"a.md", "b.markdown", "C.MD"} {
		if !IsMarkdownPath(p) {
			t.Errorf("IsMarkdownPath(%q) = false", p)
		}
	}
	for _, p := range []string{"a.txt", "b", "c.mdx"} {
		if IsMarkdownPath(p) {
			t.Errorf("IsMarkdownPath(%q) = true", p)
		}
	}
}
