package ticket2pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/antsinar/ticket-converter/internal/assets"
)

// Paper size constants.
const (
	PaperA4     = "a4"
	PaperA5     = "a5"
	PaperLetter = "letter"
)

// Built-in template names.
const (
	TemplateCard   = "card"
	TemplateTicket = "ticket"
)

// Margin and scale bounds in Chrome's print units (inches / ratio).
const (
	MaxMargin = 3.0
	MinScale  = 0.1
	MaxScale  = 2.0
)

// paperDimensions holds width and height in inches.
type paperDimensions struct {
	width  float64
	height float64
}

var paperSizes = map[string]paperDimensions{
	PaperA4:     {8.27, 11.69},
	PaperA5:     {5.83, 8.27},
	PaperLetter: {8.5, 11},
}

// templateScales are the print scales tuned per built-in template. Unknown
// templates get the ticket scale.
var templateScales = map[string]float64{
	TemplateCard:   0.85,
	TemplateTicket: 0.64,
}

const fallbackScale = 0.64

// RenderOptions configures template selection and PDF page settings.
// It is read-only for the duration of a run.
type RenderOptions struct {
	Template        string  // "card", "ticket", or a custom template name
	PaperSize       string  // "a4", "a5", "letter"
	MarginInches    float64 // applied to all sides
	Scale           float64 // 0 = per-template default
	PrintBackground bool
}

// DefaultRenderOptions returns render options with default values.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Template:        TemplateCard,
		PaperSize:       PaperA4,
		MarginInches:    0,
		Scale:           0,
		PrintBackground: true,
	}
}

// Validate checks that render options are valid.
// Returns nil if o is nil (nil means use defaults).
func (o *RenderOptions) Validate() error {
	if o == nil {
		return nil
	}

	if _, ok := paperSizes[strings.ToLower(o.PaperSize)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPaperSize, o.PaperSize)
	}

	if o.MarginInches < 0 || o.MarginInches > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between 0 and %.2f)", ErrInvalidMargin, o.MarginInches, MaxMargin)
	}

	if o.Scale != 0 && (o.Scale < MinScale || o.Scale > MaxScale) {
		return fmt.Errorf("%w: %.2f (must be 0 for auto or between %.2f and %.2f)", ErrInvalidScale, o.Scale, MinScale, MaxScale)
	}

	if err := assets.ValidateAssetName(o.Template); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	return nil
}

// effectiveScale resolves the print scale: an explicit value wins, otherwise
// the template's tuned default applies.
func (o *RenderOptions) effectiveScale() float64 {
	if o.Scale != 0 {
		return o.Scale
	}
	if scale, ok := templateScales[o.Template]; ok {
		return scale
	}
	return fallbackScale
}

// dimensions returns the paper dimensions in inches.
func (o *RenderOptions) dimensions() paperDimensions {
	return paperSizes[strings.ToLower(o.PaperSize)]
}

// Input contains conversion parameters.
// Exactly one of EmlPath or Eml must be set.
type Input struct {
	EmlPath  string         // path to the .eml file
	Eml      []byte         // raw .eml content, used when EmlPath is empty
	HTMLOnly bool           // stop after rendering, skip PDF export
	Options  *RenderOptions // nil = defaults
}

// Result holds the conversion output.
type Result struct {
	HTML string // rendered HTML document
	PDF  []byte // empty when Input.HTMLOnly is set
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout          time.Duration
	assetPath        string
	fetchCacheDir    string
	fetchEnabled     bool
	watermarkMessage string
}

// defaultTimeout bounds page load and PDF export when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the render deadline.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("ticket2pdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithAssetPath sets a directory whose templates/ subdirectory overrides the
// embedded templates.
func WithAssetPath(path string) Option {
	return func(s *Service) {
		s.cfg.assetPath = path
	}
}

// WithFetch enables remote banner and barcode retrieval, caching downloads
// under cacheDir (empty disables the cache).
func WithFetch(cacheDir string) Option {
	return func(s *Service) {
		s.cfg.fetchEnabled = true
		s.cfg.fetchCacheDir = cacheDir
	}
}

// WithWatermarkMessage sets the message encoded as a Code 128 barcode when
// the email carries no barcode image. Requires WithFetch.
func WithWatermarkMessage(message string) Option {
	return func(s *Service) {
		s.cfg.watermarkMessage = message
	}
}
