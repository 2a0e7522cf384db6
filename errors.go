package md2epub

import (
	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/epub"
)

// Sentinel errors for library operations. The packaging and asset sentinels
// alias their internal definitions so callers can match them with errors.Is
// without importing internal packages.
var (
	// ErrMissingMetadata indicates a required metadata field (title,
	// identifier, or language) is absent after defaulting. No output is
	// produced when this is returned.
	ErrMissingMetadata = epub.ErrMissingMetadata

	// ErrPackaging indicates an archive-write or file I/O failure. No
	// partial output file is left behind when this is returned.
	ErrPackaging = epub.ErrPackaging

	// ErrStyleNotFound indicates the requested built-in style does not
	// exist.
	ErrStyleNotFound = assets.ErrStyleNotFound
)
