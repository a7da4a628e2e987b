package assets_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antsinar/ticket-converter/internal/assets"
)

// writeTemplate creates {dir}/templates/{name}.html with the given content.
func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()

	tmplDir := filepath.Join(dir, "templates")
	if err := os.MkdirAll(tmplDir, 0o755); err != nil {
		t.Fatalf("creating templates dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmplDir, name+".html"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing template: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadTemplate - Embedded templates
// ---------------------------------------------------------------------------

func TestLoadTemplate_Embedded(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"card", "ticket"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			content, err := assets.LoadTemplate(name)
			if err != nil {
				t.Fatalf("LoadTemplate(%q) error = %v", name, err)
			}
			if !strings.Contains(content, "<html") {
				t.Errorf("LoadTemplate(%q) does not look like an HTML document", name)
			}
			if !strings.Contains(content, "{{") {
				t.Errorf("LoadTemplate(%q) contains no template actions", name)
			}
		})
	}
}

func TestLoadTemplate_NotFound(t *testing.T) {
	t.Parallel()

	_, err := assets.LoadTemplate("nonexistent")
	if !errors.Is(err, assets.ErrTemplateNotFound) {
		t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidateAssetName - Name validation
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		assetName string
		wantErr   bool
	}{
		{name: "simple name", assetName: "card", wantErr: false},
		{name: "name with dash", assetName: "my-template", wantErr: false},
		{name: "name with underscore", assetName: "my_template", wantErr: false},
		{name: "empty name", assetName: "", wantErr: true},
		{name: "forward slash", assetName: "dir/card", wantErr: true},
		{name: "backslash", assetName: "dir\\card", wantErr: true},
		{name: "dot traversal", assetName: "..", wantErr: true},
		{name: "extension injection", assetName: "card.css", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := assets.ValidateAssetName(tt.assetName)
			if tt.wantErr {
				if !errors.Is(err, assets.ErrInvalidAssetName) {
					t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.assetName, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAssetName(%q) error = %v, want nil", tt.assetName, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader - Custom template directories
// ---------------------------------------------------------------------------

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemplate(t, dir, "custom", "<html><body>{{.Heading}}</body></html>")

	loader, err := assets.NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	content, err := loader.LoadTemplate("custom")
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if !strings.Contains(content, "{{.Heading}}") {
		t.Errorf("LoadTemplate() = %q, want template content", content)
	}

	if _, err := loader.LoadTemplate("missing"); !errors.Is(err, assets.ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := loader.LoadTemplate("../escape"); !errors.Is(err, assets.ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(../escape) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestNewFilesystemLoader_InvalidBasePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		basePath func(t *testing.T) string
	}{
		{
			name:     "empty path",
			basePath: func(t *testing.T) string { return "" },
		},
		{
			name: "nonexistent directory",
			basePath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope")
			},
		},
		{
			name: "regular file instead of directory",
			basePath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "file.txt")
				if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
					t.Fatalf("writing file: %v", err)
				}
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := assets.NewFilesystemLoader(tt.basePath(t))
			if !errors.Is(err, assets.ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolver - Custom-first with embedded fallback
// ---------------------------------------------------------------------------

func TestResolver_EmbeddedOnly(t *testing.T) {
	t.Parallel()

	resolver, err := assets.NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	if _, err := resolver.LoadTemplate("card"); err != nil {
		t.Errorf("LoadTemplate(card) error = %v", err)
	}
	if _, err := resolver.LoadTemplate("missing"); !errors.Is(err, assets.ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestResolver_CustomOverridesEmbedded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemplate(t, dir, "card", "<html><body>custom card</body></html>")

	resolver, err := assets.NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	content, err := resolver.LoadTemplate("card")
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if !strings.Contains(content, "custom card") {
		t.Error("LoadTemplate(card) did not use the custom template")
	}
}

func TestResolver_FallsBackToEmbedded(t *testing.T) {
	t.Parallel()

	// Custom dir has no "ticket" template, so the resolver falls back.
	dir := t.TempDir()
	writeTemplate(t, dir, "other", "<html></html>")

	resolver, err := assets.NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	content, err := resolver.LoadTemplate("ticket")
	if err != nil {
		t.Fatalf("LoadTemplate(ticket) error = %v", err)
	}
	if !strings.Contains(content, "{{") {
		t.Error("LoadTemplate(ticket) did not return the embedded template")
	}
}

func TestNewResolver_InvalidCustomPath(t *testing.T) {
	t.Parallel()

	_, err := assets.NewResolver(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, assets.ErrInvalidBasePath) {
		t.Errorf("NewResolver() error = %v, want ErrInvalidBasePath", err)
	}
}
