package main

import (
	"time"

	flag "github.com/spf13/pflag"
)

// Sentinel for "flag not set" on numeric flags where 0 is a valid value.
const unsetNumber = -1

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	config   string
	template string
	paper    string
	margin   float64
	scale    float64
	output   string
	assets   string
	htmlOnly bool
	noFetch  bool
	timeout  time.Duration
	verbose  bool
	version  bool
}

// parseFlags parses args (including the program name at index 0) and returns
// the flags and remaining positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("ticket2pdf", flag.ContinueOnError)

	f := &cliFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "path to YAML config file")
	fs.StringVarP(&f.template, "template", "t", "", "template name (card, ticket)")
	fs.StringVar(&f.paper, "paper", "", "paper size (a4, a5, letter)")
	fs.Float64Var(&f.margin, "margin", unsetNumber, "page margin in inches")
	fs.Float64Var(&f.scale, "scale", unsetNumber, "print scale (0 = template default)")
	fs.StringVarP(&f.output, "output", "o", "", "output path (default render.pdf, render.html with --html-only)")
	fs.StringVar(&f.assets, "assets", "", "directory with custom templates overriding the built-ins")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write the rendered HTML instead of a PDF")
	fs.BoolVar(&f.noFetch, "no-fetch", false, "disable remote banner/barcode retrieval")
	fs.DurationVar(&f.timeout, "timeout", 0, "render deadline, e.g. 45s (0 = config value)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose progress output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
