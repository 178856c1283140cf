// Package config defines the mdterm configuration model: the settings a
// user can persist in a config file or override through environment
// variables and flags.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdterm/internal/ui/theme"
)

// ColorMode controls when ANSI styling is emitted.
type ColorMode string

const (
	// ColorAuto styles output when it goes to a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways styles output unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever renders plain text.
	ColorNever ColorMode = "never"
)

// Config holds all user-facing rendering settings.
type Config struct {
	// Theme names the color theme.
	Theme string `yaml:"theme"`

	// HighlightStyle names the chroma style for code blocks. Empty means
	// the theme's default.
	HighlightStyle string `yaml:"highlight_style"`

	// Color decides when ANSI styling is emitted.
	Color ColorMode `yaml:"color"`

	// Columns overrides the detected terminal width. Zero means detect.
	Columns int `yaml:"columns"`

	// Pager is the pager command line. Empty falls back to $MDTERM_PAGER,
	// then $PAGER, then "less -R".
	Pager string `yaml:"pager"`

	// AllowRemote permits fetching http and https images.
	AllowRemote bool `yaml:"allow_remote"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme: theme.Default().Name,
		Color: ColorAuto,
	}
}

// Parse unmarshals YAML into a config on top of the defaults, then
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no component can act on.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		return fmt.Errorf("invalid color mode %q: expected auto, always or never", c.Color)
	}
	if c.Columns < 0 {
		return fmt.Errorf("invalid columns %d: must not be negative", c.Columns)
	}
	if c.Theme != "" {
		if _, err := theme.Get(c.Theme); err != nil {
			return err
		}
	}
	return nil
}
