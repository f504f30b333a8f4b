// Package config loads the YAML configuration of the fst tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fst-toolkit/pkg/logging"
)

// Load reads the file at path over the defaults. Keys missing from the file
// keep their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes the default configuration to path, creating its
// directory if needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Padding < 0 || c.Render.StateRadius <= 0 || c.Render.FontSize <= 0 {
		return fmt.Errorf("render padding, state radius and font size must be positive")
	}
	if c.Codegen.Package == "" {
		return fmt.Errorf("codegen package name is empty")
	}
	return nil
}

// Logging returns the logger settings for service.
func (c *Config) Logging(service string) logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{
		Level:   level,
		JSON:    c.Log.JSON,
		Service: service,
	}
}
