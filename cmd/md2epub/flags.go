package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds config and output-control flags.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// metadataFlags holds publication metadata flags.
type metadataFlags struct {
	title  string
	author string
	lang   string
	id     string
}

// styleFlags holds stylesheet flags.
type styleFlags struct {
	name    string
	noStyle bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	title    string
	disabled bool
}

// cliFlags holds all flags for the md2epub command.
type cliFlags struct {
	output   string
	version  bool
	common   commonFlags
	metadata metadataFlags
	style    styleFlags
	toc      tocFlags
}

// addCommonFlags adds config and output-control flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
}

// addMetadataFlags adds publication metadata flags to a FlagSet.
func addMetadataFlags(fs *flag.FlagSet, f *metadataFlags) {
	fs.StringVar(&f.title, "title", "", "publication title (\"\" = auto from filename or first heading)")
	fs.StringVar(&f.author, "author", "", "publication author")
	fs.StringVar(&f.lang, "lang", "", "publication language code")
	fs.StringVar(&f.id, "id", "", "publication identifier (\"\" = random urn:uuid)")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.name, "style", "", "style name or CSS file path")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable the base stylesheet")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable the in-document table of contents")
}

// parseFlags parses CLI flags and returns the positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("md2epub", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file path (\"\" = input with .epub)")
	fs.BoolVar(&f.version, "version", false, "show version information")

	addCommonFlags(fs, &f.common)
	addMetadataFlags(fs, &f.metadata)
	addStyleFlags(fs, &f.style)
	addTOCFlags(fs, &f.toc)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
