package ticket2pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/antsinar/ticket-converter/internal/assets"
	"github.com/antsinar/ticket-converter/internal/email"
	"github.com/antsinar/ticket-converter/internal/fetch"
	"github.com/antsinar/ticket-converter/internal/fileutil"
	"github.com/antsinar/ticket-converter/internal/render"
	"github.com/antsinar/ticket-converter/internal/ticket"
)

// imageFetcher abstracts remote image retrieval to enable testing without a network.
type imageFetcher interface {
	Image(ctx context.Context, url string) ([]byte, error)
	BarcodeWatermark(ctx context.Context, message string) ([]byte, error)
}

// Compile-time interface check.
var _ imageFetcher = (*fetch.Fetcher)(nil)

// WithFetcher supplies a pre-configured Fetcher (custom user agent, barcode
// endpoint, cache directory) and enables remote retrieval.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
		s.cfg.fetchEnabled = true
	}
}

// Service orchestrates the email-to-PDF pipeline.
type Service struct {
	cfg          serviceConfig
	renderer     *render.Renderer
	fetcher      imageFetcher // nil when remote retrieval is disabled
	pdfConverter pdfConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithFetch).
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg: serviceConfig{timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(s)
	}

	resolver, err := assets.NewResolver(s.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	s.renderer = render.New(resolver)

	if s.cfg.fetchEnabled && s.fetcher == nil {
		s.fetcher = fetch.New(s.cfg.fetchCacheDir)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s, nil
}

// Convert runs the full pipeline and returns the rendered HTML and PDF bytes.
// The context is used for cancellation and timeout. Any stage failure aborts
// the run; there is no partial output.
func (s *Service) Convert(ctx context.Context, input Input) (Result, error) {
	opts := input.Options
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	msg, err := s.loadEmail(input)
	if err != nil {
		return Result{}, fmt.Errorf("loading email: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	record, err := ticket.Extract(msg.HTML, msg.Subject)
	if err != nil {
		return Result{}, fmt.Errorf("extracting ticket: %w", err)
	}

	banner, err := s.resolveImage(ctx, record.BannerRef, msg.Images)
	if err != nil {
		return Result{}, fmt.Errorf("resolving banner: %w", err)
	}

	barcode, err := s.resolveImage(ctx, record.BarcodeRef, msg.Images)
	if err != nil {
		return Result{}, fmt.Errorf("resolving barcode: %w", err)
	}
	if len(barcode) == 0 && s.fetcher != nil && s.cfg.watermarkMessage != "" {
		barcode, err = s.fetcher.BarcodeWatermark(ctx, s.cfg.watermarkMessage)
		if err != nil {
			return Result{}, fmt.Errorf("generating barcode watermark: %w", err)
		}
	}

	htmlDoc, err := s.renderer.Render(render.Input{
		Heading: record.Heading,
		Lines:   record.Lines,
		Banner:  banner,
		Barcode: barcode,
	}, opts.Template)
	if err != nil {
		return Result{}, fmt.Errorf("rendering template: %w", err)
	}

	result := Result{HTML: htmlDoc}
	if input.HTMLOnly {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	pdf, err := s.pdfConverter.ToPDF(ctx, htmlDoc, &pdfOptions{
		paper:           opts.dimensions(),
		margin:          opts.MarginInches,
		scale:           opts.effectiveScale(),
		printBackground: opts.PrintBackground,
	})
	if err != nil {
		return Result{}, fmt.Errorf("exporting PDF: %w", err)
	}

	result.PDF = pdf
	return result, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

// loadEmail decodes the input from path or raw bytes.
func (s *Service) loadEmail(input Input) (*email.Message, error) {
	switch {
	case len(input.Eml) > 0:
		return email.Parse(bytes.NewReader(input.Eml))
	case input.EmlPath != "":
		return email.LoadFile(input.EmlPath)
	default:
		return nil, ErrNoInput
	}
}

// resolveImage turns an extracted image reference into bytes: cid references
// look up embedded images, remote URLs go through the fetcher when enabled.
// An empty or unresolvable reference yields no bytes, not an error; missing
// fields propagate as empty content.
func (s *Service) resolveImage(ctx context.Context, ref string, images map[string][]byte) ([]byte, error) {
	switch {
	case ref == "":
		return nil, nil
	case strings.HasPrefix(ref, "cid:"):
		return images[email.NormalizeCID(strings.TrimPrefix(ref, "cid:"))], nil
	case fileutil.IsURL(ref):
		if s.fetcher == nil {
			return nil, nil
		}
		return s.fetcher.Image(ctx, ref)
	default:
		return images[ref], nil
	}
}
