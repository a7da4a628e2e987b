package main

import (
	"errors"
	"os"

	ticket2pdf "github.com/antsinar/ticket-converter"
	"github.com/antsinar/ticket-converter/internal/config"
)

// Exit codes for the ticket2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitNetwork = 5 // Remote banner/barcode retrieval errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, ticket2pdf.ErrBrowserConnect) ||
		errors.Is(err, ticket2pdf.ErrPageCreate) ||
		errors.Is(err, ticket2pdf.ErrRenderTimeout) ||
		errors.Is(err, ticket2pdf.ErrPdfExport) {
		return ExitBrowser
	}

	// Network errors (exit 5)
	if errors.Is(err, ticket2pdf.ErrDownloadFailed) {
		return ExitNetwork
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrNotEmlFile) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, ticket2pdf.ErrInvalidPaperSize) ||
		errors.Is(err, ticket2pdf.ErrInvalidMargin) ||
		errors.Is(err, ticket2pdf.ErrInvalidScale) ||
		errors.Is(err, ticket2pdf.ErrInvalidTemplate) ||
		errors.Is(err, ticket2pdf.ErrTemplateNotFound) ||
		errors.Is(err, ticket2pdf.ErrMessageTooLong) ||
		errors.Is(err, ticket2pdf.ErrNoInput) {
		return ExitUsage
	}

	// Content errors map to general failure: the email parsed but had no
	// usable ticket, or was not an email at all.
	return ExitGeneral
}
