// Package fetch retrieves remote ticket images: the event banner the vendor
// references by URL, and generated Code 128 watermark barcodes. Downloads are
// cached on disk so repeated runs on the same email stay offline.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel errors for remote retrieval.
var (
	// ErrDownloadFailed indicates a remote image could not be retrieved.
	ErrDownloadFailed = errors.New("download failed")

	// ErrMessageTooLong indicates a barcode watermark message exceeds the limit.
	ErrMessageTooLong = errors.New("barcode message too long")
)

// maxWatermarkLen bounds the watermark message so the generated Code 128
// barcode stays scannable at print size.
const maxWatermarkLen = 20

// Defaults matching the vendor's requirements.
const (
	// The banner host rejects requests without a browser User-Agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0"

	// DefaultBarcodeAPI renders Code 128 barcodes from a message path segment.
	DefaultBarcodeAPI = "https://barcodeapi.org/api/128/"

	defaultTimeout = 15 * time.Second
)

// Fetcher downloads ticket images with an on-disk PNG cache.
type Fetcher struct {
	client     *http.Client
	cacheDir   string
	userAgent  string
	barcodeAPI string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent overrides the User-Agent header sent on downloads.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBarcodeAPI overrides the barcode generation endpoint.
func WithBarcodeAPI(endpoint string) Option {
	return func(f *Fetcher) {
		f.barcodeAPI = endpoint
	}
}

// New creates a Fetcher caching into cacheDir. An empty cacheDir disables
// caching and every call goes to the network.
func New(cacheDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: defaultTimeout},
		cacheDir:   cacheDir,
		userAgent:  DefaultUserAgent,
		barcodeAPI: DefaultBarcodeAPI,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Image downloads an image by URL, serving from the cache when possible.
// The cache key is the URL's second-to-last path segment, which is the
// vendor's stable image identifier.
func (f *Fetcher) Image(ctx context.Context, rawURL string) ([]byte, error) {
	key := imageCacheKey(rawURL)

	if cached, ok := f.readCache(key); ok {
		return cached, nil
	}

	content, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f.writeCache(key, content)
	return content, nil
}

// BarcodeWatermark generates a Code 128 barcode image encoding message.
// Returns ErrMessageTooLong when the message exceeds the printable limit.
func (f *Fetcher) BarcodeWatermark(ctx context.Context, message string) ([]byte, error) {
	if len(message) > maxWatermarkLen {
		return nil, fmt.Errorf("%w: %d characters", ErrMessageTooLong, len(message))
	}

	key := "barcode-" + strings.ReplaceAll(message, " ", "-")
	if cached, ok := f.readCache(key); ok {
		return cached, nil
	}

	content, err := f.get(ctx, f.barcodeAPI+url.PathEscape(message))
	if err != nil {
		return nil, err
	}

	f.writeCache(key, content)
	return content, nil
}

// get performs one HTTP GET with the configured User-Agent.
func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrDownloadFailed, resp.StatusCode, rawURL)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrDownloadFailed, err)
	}
	return content, nil
}

// imageCacheKey derives a cache key from the URL's second-to-last path
// segment, falling back to the last one.
func imageCacheKey(rawURL string) string {
	segments := strings.Split(strings.Trim(rawURL, "/"), "/")
	if len(segments) >= 2 {
		return sanitizeKey(segments[len(segments)-2])
	}
	if len(segments) == 1 && segments[0] != "" {
		return sanitizeKey(segments[0])
	}
	return "image"
}

// sanitizeKey keeps cache keys safe for use as file names.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, key)
}

func (f *Fetcher) readCache(key string) ([]byte, bool) {
	if f.cacheDir == "" {
		return nil, false
	}
	content, err := os.ReadFile(filepath.Join(f.cacheDir, key+".png")) // #nosec G304 -- key is sanitized
	if err != nil {
		return nil, false
	}
	return content, true
}

func (f *Fetcher) writeCache(key string, content []byte) {
	if f.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(f.cacheDir, 0o750); err != nil {
		return
	}
	// Cache write failures are non-fatal; the next run downloads again.
	_ = os.WriteFile(filepath.Join(f.cacheDir, key+".png"), content, 0o600)
}
