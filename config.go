package fontsnip

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the pipeline tunables. Components receive their values
// explicitly at construction; there is no package-level configuration.
type Config struct {
	// UpscaleFactor is the integer factor the capture is enlarged by
	// before thresholding. Small anti-aliased text needs the extra
	// resolution.
	UpscaleFactor int `yaml:"upscale_factor"`

	// AdaptiveBlockSize is the neighborhood size for adaptive
	// thresholding. Must be odd and at least 3.
	AdaptiveBlockSize int `yaml:"adaptive_block_size"`

	// AdaptiveC is the bias constant subtracted from the local mean.
	AdaptiveC float64 `yaml:"adaptive_c"`

	// EnableDenoising applies non-local-means denoising before
	// thresholding. Helps noisy sources at a latency cost.
	EnableDenoising bool `yaml:"enable_denoising"`

	// ConfidenceThreshold is the minimum OCR confidence, in [0, 1], for a
	// detection to enter the feature pipeline.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// TopN is the maximum number of ranked matches returned per capture.
	TopN int `yaml:"top_n"`

	// DatabasePath overrides the default font database location.
	DatabasePath string `yaml:"database_path"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		UpscaleFactor:       3,
		AdaptiveBlockSize:   15,
		AdaptiveC:           4,
		EnableDenoising:     false,
		ConfidenceThreshold: 0.60,
		TopN:                5,
	}
}

// LoadConfig reads a YAML config file and merges it over the defaults.
// A missing file is not an error; the defaults are returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c Config) Validate() error {
	if c.UpscaleFactor < 1 {
		return fmt.Errorf("upscale_factor must be at least 1, got %d", c.UpscaleFactor)
	}
	if c.AdaptiveBlockSize < 3 || c.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("adaptive_block_size must be odd and at least 3, got %d", c.AdaptiveBlockSize)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in [0,1], got %g", c.ConfidenceThreshold)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.TopN)
	}
	return nil
}

// AppDir returns the per-user fontsnip directory, creating it if needed.
func AppDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	dir := filepath.Join(base, "fontsnip")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create app dir: %w", err)
	}
	return dir, nil
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultDatabasePath returns the standard font database location.
func DefaultDatabasePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fontsnip.db"), nil
}
