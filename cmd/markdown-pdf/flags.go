package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

const usageText = `markdown-pdf converts Markdown to HTML, PDF, PNG or JPEG.

Usage:
  markdown-pdf [flags] <input.md> [more inputs...]

Inputs may be literal paths or glob patterns ("docs/**/*.md").

Flags:
%s`

// cliFlags holds the parsed command line. Positional arguments are returned
// separately and treated as additional inputs.
type cliFlags struct {
	input   string
	types   string
	outDir  string
	config  string
	debug   bool
	version bool
}

func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("markdown-pdf", flag.ContinueOnError)
	fs.SortFlags = false

	var flags cliFlags
	fs.StringVarP(&flags.input, "input", "i", "", "input Markdown file or glob pattern")
	fs.StringVarP(&flags.types, "type", "t", "", "comma-separated output types: html, pdf, png, jpeg, all")
	fs.StringVarP(&flags.outDir, "outdir", "o", "", "directory for output files")
	fs.StringVarP(&flags.config, "config", "c", "", "path to a settings file")
	fs.BoolVar(&flags.debug, "debug", false, "verbose logging, keep intermediate HTML")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, usageText, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &flags, fs.Args(), nil
}

// requestedTypes splits the -t value into its entries, dropping blanks.
func (f *cliFlags) requestedTypes() []string {
	if f.types == "" {
		return nil
	}
	var out []string
	for _, entry := range strings.Split(f.types, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
