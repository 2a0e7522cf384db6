package assets

// Notes:
// - LoadStyle / LoadTemplate: embedded lookups and not-found sentinels
// - ValidateAssetName: traversal rejection

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle(DefaultStyle)
	if err != nil {
		t.Fatalf("LoadStyle(%q) failed: %v", DefaultStyle, err)
	}
	if !strings.Contains(css, "body") {
		t.Error("default style missing body rule")
	}
}

func TestLoadStyleNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadStyle("does-not-exist")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("got %v, want ErrStyleNotFound", err)
	}
}

func TestLoadTemplates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		wantContains string
	}{
		{"container.xml", "urn:oasis:names:tc:opendocument:xmlns:container"},
		{"content.opf.tmpl", "unique-identifier"},
		{"toc.ncx.tmpl", "navMap"},
		{"nav.xhtml.tmpl", `epub:type="toc"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := LoadTemplate(tt.name)
			if err != nil {
				t.Fatalf("LoadTemplate(%q) failed: %v", tt.name, err)
			}
			if !strings.Contains(content, tt.wantContains) {
				t.Errorf("template %q missing %q", tt.name, tt.wantContains)
			}
		})
	}
}

func TestLoadTemplateNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadTemplate("missing.tmpl")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("got %v, want ErrTemplateNotFound", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain name ok", "book", false},
		{"hyphenated ok", "dark-mode", false},
		{"empty rejected", "", true},
		{"slash rejected", "sub/dir", true},
		{"backslash rejected", `win\path`, true},
		{"traversal rejected", "..", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetName(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	found := false
	for _, n := range names {
		if n == DefaultStyle {
			found = true
		}
	}
	if !found {
		t.Errorf("StyleNames() = %v, missing %q", names, DefaultStyle)
	}
}
