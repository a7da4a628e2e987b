// Package config defines the runtime options controlling print and render
// behavior. What the original tool kept as an in-source dictionary is an
// explicit structure here: loaded once, validated, and passed into the
// pipeline as read-only data.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config holds all options recognized by the converter.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Browser BrowserConfig `yaml:"browser"`
}

// RenderConfig defines template and page options.
type RenderConfig struct {
	Template        string  `yaml:"template"`        // "card" or "ticket"
	Paper           string  `yaml:"paper"`           // "a4", "a5", "letter"
	Margin          float64 `yaml:"margin"`          // inches, all sides
	Scale           float64 `yaml:"scale"`           // 0 = template default
	PrintBackground bool    `yaml:"printBackground"` // render CSS backgrounds
}

// OutputConfig defines where the PDF is written.
type OutputConfig struct {
	Path string `yaml:"path"` // default: render.pdf in the working directory
}

// FetchConfig defines remote image retrieval options.
type FetchConfig struct {
	Enabled          bool   `yaml:"enabled"`
	CacheDir         string `yaml:"cacheDir"`         // empty = no cache
	UserAgent        string `yaml:"userAgent"`        // empty = built-in default
	BarcodeAPI       string `yaml:"barcodeAPI"`       // empty = built-in default
	WatermarkMessage string `yaml:"watermarkMessage"` // message encoded when the email has no barcode image
}

// BrowserConfig defines headless browser options.
type BrowserConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"` // page load + export deadline
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Template:        "card",
			Paper:           "a4",
			Margin:          0,
			Scale:           0,
			PrintBackground: true,
		},
		Output: OutputConfig{
			Path: "render.pdf",
		},
		Fetch: FetchConfig{
			Enabled:          true,
			CacheDir:         ".",
			WatermarkMessage: "That's all folks!",
		},
		Browser: BrowserConfig{
			TimeoutSeconds: 30,
		},
	}
}

// LoadConfig reads and validates a YAML config file, merged over defaults.
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is the user-supplied --config argument
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values. Paper size, scale, and margin bounds are
// re-checked by the render options at conversion time; this catches config
// mistakes early with field names in the message.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Render.Paper) {
	case "a4", "a5", "letter":
	default:
		return fmt.Errorf("%w: render.paper: unknown size %q", ErrConfigParse, c.Render.Paper)
	}

	if c.Render.Scale != 0 && (c.Render.Scale < 0.1 || c.Render.Scale > 2) {
		return fmt.Errorf("%w: render.scale: must be 0 (auto) or between 0.1 and 2, got %.2f", ErrConfigParse, c.Render.Scale)
	}

	if c.Render.Margin < 0 || c.Render.Margin > 3 {
		return fmt.Errorf("%w: render.margin: must be between 0 and 3 inches, got %.2f", ErrConfigParse, c.Render.Margin)
	}

	if c.Render.Template == "" {
		return fmt.Errorf("%w: render.template: cannot be empty", ErrConfigParse)
	}

	if c.Browser.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: browser.timeoutSeconds: must be positive, got %d", ErrConfigParse, c.Browser.TimeoutSeconds)
	}

	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path: cannot be empty", ErrConfigParse)
	}

	return nil
}
