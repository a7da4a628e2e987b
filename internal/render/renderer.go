// Package render turns an extracted ticket into a self-contained HTML
// document: images are normalized to print dimensions and embedded as base64,
// and the background gradient is derived from the banner's edge color before
// rendering, so the output needs no client-side scripting.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/antsinar/ticket-converter/internal/assets"
	"github.com/antsinar/ticket-converter/internal/imgutil"
)

// Fixed print dimensions in pixels at 96 DPI.
const (
	bannerWidth  = 640
	bannerHeight = 240

	barcodeWidth  = 360
	barcodeHeight = 110
)

// defaultBackground is used when no banner is available to sample from.
const defaultBackground = "#ffffff"

// Input holds the resolved ticket data to substitute into a template.
type Input struct {
	Heading string
	Lines   []string
	Banner  []byte // raw image bytes, may be empty
	Barcode []byte // raw image bytes, may be empty
}

// templateData is the shape the embedded templates consume.
type templateData struct {
	Heading    string
	Lines      []string
	Banner     string // base64-encoded PNG
	Barcode    string // base64-encoded PNG
	Background template.CSS
}

// Renderer renders ticket data into an HTML template.
type Renderer struct {
	loader assets.Loader
}

// New creates a Renderer using the given template loader.
// A nil loader means embedded templates only.
func New(loader assets.Loader) *Renderer {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &Renderer{loader: loader}
}

// Render produces a complete HTML document for the given ticket data.
// Returns assets.ErrTemplateNotFound if the named template is absent.
// Output is deterministic: identical inputs yield byte-identical HTML.
func (r *Renderer) Render(in Input, templateName string) (string, error) {
	content, err := r.loader.LoadTemplate(templateName)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(templateName).Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", templateName, err)
	}

	data := templateData{
		Heading:    in.Heading,
		Lines:      in.Lines,
		Background: defaultBackground,
	}

	if len(in.Banner) > 0 {
		banner, err := imgutil.Normalize(in.Banner, bannerWidth, bannerHeight)
		if err != nil {
			return "", fmt.Errorf("normalizing banner: %w", err)
		}
		data.Banner = base64.StdEncoding.EncodeToString(banner)

		edge, err := imgutil.EdgeColor(in.Banner)
		if err != nil {
			return "", fmt.Errorf("sampling banner edge color: %w", err)
		}
		data.Background = template.CSS(edge) // #nosec G203 -- sampled hex color, not user input
	}

	if len(in.Barcode) > 0 {
		barcode, err := imgutil.Normalize(in.Barcode, barcodeWidth, barcodeHeight)
		if err != nil {
			return "", fmt.Errorf("normalizing barcode: %w", err)
		}
		data.Barcode = base64.StdEncoding.EncodeToString(barcode)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", templateName, err)
	}
	return buf.String(), nil
}
