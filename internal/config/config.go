// Package config handles preview configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all preview settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Assets  AssetsConfig  `yaml:"assets"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds scene assembly settings.
type ViewerConfig struct {
	HighlightAlpha float32 `yaml:"highlight_alpha"` // Opacity of meshes that are not selected
	SphereSegments int     `yaml:"sphere_segments"`
}

// AssetsConfig holds mesh and texture resolution settings.
type AssetsConfig struct {
	PackagePrefix      string        `yaml:"package_prefix"`
	WorkspaceRoot      string        `yaml:"workspace_root"` // Empty means the description's directory
	MaxConcurrentLoads int           `yaml:"max_concurrent_loads"`
	FetchTimeout       time.Duration `yaml:"fetch_timeout"`
	CacheEntries       int           `yaml:"cache_entries"`
}

// PreviewConfig holds host-side document handling settings.
type PreviewConfig struct {
	Extensions    []string      `yaml:"extensions"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	StateFile     string        `yaml:"state_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			HighlightAlpha: 0.4,
			SphereSegments: 32,
		},
		Assets: AssetsConfig{
			PackagePrefix:      "package://",
			WorkspaceRoot:      "",
			MaxConcurrentLoads: 4,
			FetchTimeout:       10 * time.Second,
			CacheEntries:       64,
		},
		Preview: PreviewConfig{
			Extensions:    []string{"urdf", "xml"},
			Watch:         false,
			WatchDebounce: 150 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Viewer.HighlightAlpha <= 0 || c.Viewer.HighlightAlpha >= 1 {
		errs = append(errs, fmt.Errorf("viewer.highlight_alpha must be in (0, 1), got %v", c.Viewer.HighlightAlpha))
	}
	if c.Viewer.SphereSegments < 3 {
		errs = append(errs, fmt.Errorf("viewer.sphere_segments must be at least 3, got %d", c.Viewer.SphereSegments))
	}
	if c.Assets.MaxConcurrentLoads < 1 {
		errs = append(errs, fmt.Errorf("assets.max_concurrent_loads must be positive, got %d", c.Assets.MaxConcurrentLoads))
	}
	if c.Assets.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("assets.fetch_timeout must be positive, got %v", c.Assets.FetchTimeout))
	}
	if c.Assets.CacheEntries < 0 {
		errs = append(errs, fmt.Errorf("assets.cache_entries must not be negative, got %d", c.Assets.CacheEntries))
	}
	if len(c.Preview.Extensions) == 0 {
		errs = append(errs, errors.New("preview.extensions must not be empty"))
	}
	return errors.Join(errs...)
}
