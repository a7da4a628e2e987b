// Package ticket2pdf converts a more.com digital ticket email (.eml) into a
// printable PDF using headless Chrome.
//
// # Quick Start
//
// Create a service, convert an email, and close when done:
//
//	svc, err := ticket2pdf.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	result, err := svc.Convert(ctx, ticket2pdf.Input{
//	    EmlPath: "ticket.eml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("render.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the intermediate
// HTML (result.HTML) for debugging. Use Input.HTMLOnly to skip PDF generation.
//
// # Conversion Pipeline
//
// The conversion runs five stages in order:
//
//  1. MIME decoding of the .eml file (emersion/go-message)
//  2. Ticket extraction from the sanitized HTML body (last block wins)
//  3. Image resolution: embedded cid images, or cached remote downloads
//  4. Template rendering with normalized, inline base64 images
//  5. PDF export via headless Chrome (go-rod)
//
// Any stage failure aborts the run; there are no retries and no partial
// output.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc, err := ticket2pdf.New(
//	    ticket2pdf.WithTimeout(time.Minute),
//	    ticket2pdf.WithAssetPath("/path/to/custom/templates"),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := svc.Convert(ctx, ticket2pdf.Input{
//	    EmlPath: "ticket.eml",
//	    Options: &ticket2pdf.RenderOptions{
//	        Template:  ticket2pdf.TemplateCard,
//	        PaperSize: ticket2pdf.PaperA4,
//	    },
//	})
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package ticket2pdf
