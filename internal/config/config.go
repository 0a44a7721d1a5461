// Package config loads a11y-bridge settings from a YAML file, applying
// environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/errors"
)

// Environment variables that override file settings.
const (
	EnvBackend  = "A11Y_BRIDGE_BACKEND"
	EnvLogLevel = "A11Y_BRIDGE_LOG_LEVEL"
	EnvConfig   = "A11Y_BRIDGE_CONFIG" // read by the C library only
)

// Defaults.
const (
	DefaultBackend    = "auto"
	DefaultMaxNodes   = 65536
	DefaultLogLevel   = "info"
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Config holds bridge and CLI settings.
type Config struct {
	// Backend is "auto", "stub" or a registered platform name.
	Backend  string `yaml:"backend"`
	MaxNodes int    `yaml:"max_nodes"`
	LogLevel string `yaml:"log_level"`
	Cell     Cell   `yaml:"cell"`
}

// Cell is the pixel size of one terminal cell, used to convert node rects
// to screen coordinates.
type Cell struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:  DefaultBackend,
		MaxNodes: DefaultMaxNodes,
		LogLevel: DefaultLogLevel,
		Cell:     Cell{Width: DefaultCellWidth, Height: DefaultCellHeight},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.New(errors.OpConfig, errors.KindInvalidInput).
				Cause(err).Detail("reading config").Build()
		}
		if err := Parse(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// Parse decodes YAML data into cfg. Fields absent from data keep their
// current values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.New(errors.OpConfig, errors.KindInvalidInput).
			Cause(err).Detail("parsing config").Build()
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Backend = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.BackendName() == "" {
		return errors.InvalidInput(errors.OpConfig, "", "backend must not be empty")
	}
	if c.MaxNodes < 0 {
		return errors.InvalidInput(errors.OpConfig, "", "max_nodes must not be negative, got %d", c.MaxNodes)
	}
	if c.Cell.Width <= 0 || c.Cell.Height <= 0 {
		return errors.InvalidInput(errors.OpConfig, "", "cell size must be positive, got %dx%d", c.Cell.Width, c.Cell.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zapcore.InfoLevel, errors.InvalidEnum(errors.OpConfig, c.LogLevel, "log level")
	}
	return lvl, nil
}

// BackendName returns Backend normalized for platform.New.
func (c Config) BackendName() string {
	return strings.ToLower(strings.TrimSpace(c.Backend))
}

func (c Config) String() string {
	return fmt.Sprintf("backend=%s max_nodes=%d log_level=%s cell=%dx%d",
		c.Backend, c.MaxNodes, c.LogLevel, c.Cell.Width, c.Cell.Height)
}
