package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	ticket2pdf "github.com/antsinar/ticket-converter"
	"github.com/antsinar/ticket-converter/internal/config"
	"github.com/antsinar/ticket-converter/internal/fetch"
	"github.com/antsinar/ticket-converter/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs   = errors.New("usage: ticket2pdf [flags] <ticket.eml>")
	ErrNotEmlFile    = errors.New("input must have .eml extension")
	ErrInputNotFound = errors.New("input file not found")
	ErrWriteOutput   = errors.New("failed to write output file")
)

// converter is the surface of ticket2pdf.Service the CLI depends on.
type converter interface {
	Convert(ctx context.Context, input ticket2pdf.Input) (ticket2pdf.Result, error)
	Close() error
}

// serviceFactory builds the conversion service; swapped out in tests.
type serviceFactory func(opts ...ticket2pdf.Option) (converter, error)

// run validates the input path, merges config and flags, and executes one
// conversion, writing the result file into the working directory.
func run(ctx context.Context, flags *cliFlags, positional []string, newService serviceFactory, stderr io.Writer) error {
	if len(positional) != 1 {
		return ErrInvalidArgs
	}
	emlPath := positional[0]

	if err := validateEmlPath(emlPath); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	svc, err := newService(serviceOptions(cfg, flags)...)
	if err != nil {
		return err
	}
	defer svc.Close()

	if flags.verbose {
		fmt.Fprintf(stderr, "Converting %s (template %s, paper %s)\n", emlPath, cfg.Render.Template, cfg.Render.Paper)
	}

	result, err := svc.Convert(ctx, ticket2pdf.Input{
		EmlPath:  emlPath,
		HTMLOnly: flags.htmlOnly,
		Options: &ticket2pdf.RenderOptions{
			Template:        cfg.Render.Template,
			PaperSize:       cfg.Render.Paper,
			MarginInches:    cfg.Render.Margin,
			Scale:           cfg.Render.Scale,
			PrintBackground: cfg.Render.PrintBackground,
		},
	})
	if err != nil {
		return err
	}

	outPath := outputPath(cfg, flags)
	content := result.PDF
	if flags.htmlOnly {
		content = []byte(result.HTML)
	}

	// #nosec G306 -- rendered output files are intended to be readable
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	fmt.Printf("Created %s\n", outPath)
	return nil
}

// validateEmlPath checks the extension and existence of the input file.
func validateEmlPath(path string) error {
	if filepath.Ext(path) != ".eml" {
		return fmt.Errorf("%w: got %q", ErrNotEmlFile, filepath.Ext(path))
	}
	if !fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	return nil
}

// resolveConfig loads the config file when given and merges flag overrides.
func resolveConfig(flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.template != "" {
		cfg.Render.Template = flags.template
	}
	if flags.paper != "" {
		cfg.Render.Paper = flags.paper
	}
	if flags.margin != unsetNumber {
		cfg.Render.Margin = flags.margin
	}
	if flags.scale != unsetNumber {
		cfg.Render.Scale = flags.scale
	}
	if flags.output != "" {
		cfg.Output.Path = flags.output
	}
	if flags.timeout > 0 {
		cfg.Browser.TimeoutSeconds = int(flags.timeout / time.Second)
	}
	if flags.noFetch {
		cfg.Fetch.Enabled = false
	}

	return cfg, cfg.Validate()
}

// serviceOptions translates the merged config into service options.
func serviceOptions(cfg *config.Config, flags *cliFlags) []ticket2pdf.Option {
	opts := []ticket2pdf.Option{
		ticket2pdf.WithTimeout(time.Duration(cfg.Browser.TimeoutSeconds) * time.Second),
	}

	if flags.assets != "" {
		opts = append(opts, ticket2pdf.WithAssetPath(flags.assets))
	}

	if cfg.Fetch.Enabled {
		fetchOpts := []fetch.Option{}
		if cfg.Fetch.UserAgent != "" {
			fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.Fetch.UserAgent))
		}
		if cfg.Fetch.BarcodeAPI != "" {
			fetchOpts = append(fetchOpts, fetch.WithBarcodeAPI(cfg.Fetch.BarcodeAPI))
		}
		opts = append(opts,
			ticket2pdf.WithFetcher(fetch.New(cfg.Fetch.CacheDir, fetchOpts...)),
			ticket2pdf.WithWatermarkMessage(cfg.Fetch.WatermarkMessage),
		)
	}

	return opts
}

// outputPath picks the output file name: explicit flag wins, then the config
// value, with render.html substituted in HTML-only mode.
func outputPath(cfg *config.Config, flags *cliFlags) string {
	if flags.output != "" {
		return flags.output
	}
	if flags.htmlOnly {
		return "render.html"
	}
	return cfg.Output.Path
}
