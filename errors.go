package ticket2pdf

import (
	"errors"

	"github.com/antsinar/ticket-converter/internal/assets"
	"github.com/antsinar/ticket-converter/internal/email"
	"github.com/antsinar/ticket-converter/internal/fetch"
	"github.com/antsinar/ticket-converter/internal/ticket"
)

// Sentinel errors for conversion failures. Stage errors produced by the
// internal packages are re-exported here so callers can match them with
// errors.Is without importing internals.
var (
	// ErrInvalidEmailFormat indicates the input is not a parseable email.
	ErrInvalidEmailFormat = email.ErrInvalidEmailFormat

	// ErrNoTicketFound indicates extraction yielded zero ticket blocks.
	ErrNoTicketFound = ticket.ErrNoTicketFound

	// ErrTemplateNotFound indicates the configured template is absent.
	ErrTemplateNotFound = assets.ErrTemplateNotFound

	// ErrDownloadFailed indicates a remote banner or barcode retrieval failed.
	ErrDownloadFailed = fetch.ErrDownloadFailed

	// ErrMessageTooLong indicates the barcode watermark message exceeds the limit.
	ErrMessageTooLong = fetch.ErrMessageTooLong

	// ErrRenderTimeout indicates the page did not reach a loaded state in time.
	ErrRenderTimeout = errors.New("page failed to load before the render deadline")

	// ErrPdfExport indicates the browser's PDF export call failed.
	ErrPdfExport = errors.New("PDF export failed")

	// ErrBrowserConnect indicates the headless browser could not be started.
	ErrBrowserConnect = errors.New("failed to connect to browser")

	// ErrPageCreate indicates a browser page could not be created.
	ErrPageCreate = errors.New("failed to create browser page")

	// ErrNoInput indicates neither an eml path nor raw bytes were supplied.
	ErrNoInput = errors.New("no email input provided")
)

// Render options validation errors.
var (
	ErrInvalidPaperSize = errors.New("invalid paper size")
	ErrInvalidMargin    = errors.New("invalid margin")
	ErrInvalidScale     = errors.New("invalid scale")
	ErrInvalidTemplate  = errors.New("invalid template name")
)
