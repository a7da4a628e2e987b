package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/antsinar/ticket-converter/internal/fetch"
)

// ---------------------------------------------------------------------------
// TestImage - Banner download and cache
// ---------------------------------------------------------------------------

func TestImage_SendsBrowserUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	f := fetch.New("")
	content, err := f.Image(context.Background(), server.URL+"/images/events/12345/banner.jpg")
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if string(content) != "image-bytes" {
		t.Errorf("Image() = %q, want image-bytes", content)
	}
	if gotUA != fetch.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want default browser agent", gotUA)
	}
	if !strings.Contains(gotUA, "Firefox") {
		t.Errorf("User-Agent %q does not identify as a browser", gotUA)
	}
}

func TestImage_CachesByPathSegment(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("banner"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	f := fetch.New(cacheDir)
	url := server.URL + "/images/events/12345/banner.jpg"

	for i := 0; i < 3; i++ {
		content, err := f.Image(context.Background(), url)
		if err != nil {
			t.Fatalf("Image() call %d error = %v", i, err)
		}
		if string(content) != "banner" {
			t.Errorf("Image() call %d = %q, want banner", i, content)
		}
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}

	// The cache key is the second-to-last path segment.
	if _, err := os.Stat(filepath.Join(cacheDir, "12345.png")); err != nil {
		t.Errorf("expected cache file 12345.png: %v", err)
	}
}

func TestImage_NoCacheDir(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("banner"))
	}))
	defer server.Close()

	f := fetch.New("")
	url := server.URL + "/images/events/12345/banner.jpg"
	for i := 0; i < 2; i++ {
		if _, err := f.Image(context.Background(), url); err != nil {
			t.Fatalf("Image() error = %v", err)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server saw %d requests, want 2 with caching disabled", n)
	}
}

func TestImage_DownloadFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	f := fetch.New("")
	_, err := f.Image(context.Background(), server.URL+"/images/x/y")
	if !errors.Is(err, fetch.ErrDownloadFailed) {
		t.Errorf("Image() error = %v, want ErrDownloadFailed", err)
	}
}

// ---------------------------------------------------------------------------
// TestBarcodeWatermark - Generated Code 128 barcodes
// ---------------------------------------------------------------------------

func TestBarcodeWatermark(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("barcode-png"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	f := fetch.New(cacheDir, fetch.WithBarcodeAPI(server.URL+"/api/128/"))

	content, err := f.BarcodeWatermark(context.Background(), "That's all folks!")
	if err != nil {
		t.Fatalf("BarcodeWatermark() error = %v", err)
	}
	if string(content) != "barcode-png" {
		t.Errorf("BarcodeWatermark() = %q, want barcode-png", content)
	}
	if !strings.HasPrefix(gotPath, "/api/128/") {
		t.Errorf("request path = %q, want /api/128/ prefix", gotPath)
	}

	if _, err := os.Stat(filepath.Join(cacheDir, "barcode-That's-all-folks!.png")); err != nil {
		t.Errorf("expected watermark cache file: %v", err)
	}

	// Second call must come from the cache.
	gotPath = ""
	if _, err := f.BarcodeWatermark(context.Background(), "That's all folks!"); err != nil {
		t.Fatalf("BarcodeWatermark() second call error = %v", err)
	}
	if gotPath != "" {
		t.Error("second call hit the network instead of the cache")
	}
}

func TestBarcodeWatermark_MessageTooLong(t *testing.T) {
	t.Parallel()

	f := fetch.New("")
	_, err := f.BarcodeWatermark(context.Background(), strings.Repeat("x", 21))
	if !errors.Is(err, fetch.ErrMessageTooLong) {
		t.Errorf("BarcodeWatermark() error = %v, want ErrMessageTooLong", err)
	}
}

func TestBarcodeWatermark_MaxLengthAccepted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := fetch.New("", fetch.WithBarcodeAPI(server.URL+"/api/128/"))
	if _, err := f.BarcodeWatermark(context.Background(), strings.Repeat("x", 20)); err != nil {
		t.Errorf("BarcodeWatermark() error = %v, want nil at exactly the limit", err)
	}
}

func TestWithUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	f := fetch.New("", fetch.WithUserAgent("custom-agent/1.0"))
	if _, err := f.Image(context.Background(), server.URL+"/a/b"); err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if gotUA != "custom-agent/1.0" {
		t.Errorf("User-Agent = %q, want custom-agent/1.0", gotUA)
	}
}
