package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	md2epub "github.com/alnah/go-md2epub"
	"github.com/alnah/go-md2epub/internal/config"
	"github.com/alnah/go-md2epub/internal/fileutil"
	"github.com/alnah/go-md2epub/internal/markdown"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input file specified")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// runConvert orchestrates a single conversion.
func runConvert(ctx context.Context, flags *cliFlags, args []string, deps *Dependencies) error {
	if len(args) == 0 {
		return ErrNoInput
	}
	inputPath := args[0]
	if !fileutil.IsMarkdownPath(inputPath) {
		return fmt.Errorf("%w: %s", ErrInvalidExtension, inputPath)
	}

	// Load configuration, then merge CLI flags into it (CLI wins).
	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	mergeFlags(flags, cfg)

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	start := deps.Now()

	title := flags.metadata.title
	if title == "" {
		title = deriveTitle(string(content), inputPath)
	}
	outputPath := resolveOutputPath(flags.output, inputPath, cfg.Output.DefaultDir)

	svc, err := md2epub.New(buildOptions(flags, cfg)...)
	if err != nil {
		return err
	}

	res, err := svc.ConvertFile(ctx, md2epub.Input{
		Markdown: string(content),
		Metadata: md2epub.Metadata{
			Title:      title,
			Author:     cfg.Metadata.Author,
			Identifier: flags.metadata.id,
			Language:   cfg.Metadata.Language,
		},
		TOC: buildTOC(cfg),
	}, outputPath)
	if err != nil {
		return err
	}

	printSuccess(deps, flags.common, outputPath, title, len(res.EPUB), deps.Now().Sub(start))
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.metadata.author != "" {
		cfg.Metadata.Author = flags.metadata.author
	}
	if flags.metadata.lang != "" {
		cfg.Metadata.Language = flags.metadata.lang
	}
	if flags.style.name != "" {
		cfg.Style.Name = flags.style.name
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.disabled {
		cfg.TOC.Disabled = true
	}
}

// buildOptions maps flags and config to service options.
func buildOptions(flags *cliFlags, cfg *config.Config) []md2epub.Option {
	var opts []md2epub.Option
	if flags.style.noStyle {
		opts = append(opts, md2epub.WithoutStyle())
	} else if cfg.Style.Name != "" {
		opts = append(opts, md2epub.WithStyle(cfg.Style.Name))
	}
	return opts
}

// buildTOC maps config to the library's TOC settings. Nil means defaults.
func buildTOC(cfg *config.Config) *md2epub.TOC {
	if !cfg.TOC.Disabled && cfg.TOC.Title == "" {
		return nil
	}
	return &md2epub.TOC{
		Disabled: cfg.TOC.Disabled,
		Title:    cfg.TOC.Title,
	}
}

// deriveTitle picks a title: filename base, then first heading, then
// "Untitled".
func deriveTitle(markdownContent, path string) string {
	base := strings.TrimSpace(fileutil.BaseName(path))
	if base != "" && !strings.EqualFold(base, "untitled") {
		return base
	}
	if h := firstHeading(markdownContent); h != "" {
		return h
	}
	return "Untitled"
}

// firstHeading returns the flattened text of the first heading, if any.
func firstHeading(src string) string {
	for _, block := range markdown.Parse(src).Blocks {
		if h, ok := block.(markdown.Heading); ok {
			return markdown.Flatten(h.Content)
		}
	}
	return ""
}

// resolveOutputPath determines the EPUB output path.
// Priority: -o flag > config output.defaultDir > next to the input.
func resolveOutputPath(flagOutput, inputPath, defaultDir string) string {
	if flagOutput != "" {
		return flagOutput
	}
	out := fileutil.ReplaceExtension(inputPath, ".epub")
	if defaultDir != "" {
		return filepath.Join(defaultDir, filepath.Base(out))
	}
	return out
}

// printSuccess reports the created archive unless quiet mode is on.
func printSuccess(deps *Dependencies, common commonFlags, outputPath, title string, size int, elapsed time.Duration) {
	if common.quiet {
		return
	}

	check := color.New(color.FgGreen).Sprint("✓")
	if common.verbose {
		fmt.Fprintf(deps.Stdout, "%s Created %s (%s) from %q in %v\n",
			check, outputPath, humanize.Bytes(uint64(size)), title, elapsed.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(deps.Stdout, "%s Created %s (%s)\n", check, outputPath, humanize.Bytes(uint64(size)))
}

// errorLine formats an error for stderr.
func errorLine(err error) string {
	return color.New(color.FgRed).Sprint("✗") + " " + err.Error()
}
