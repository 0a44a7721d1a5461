package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/mj1618/a11y-bridge/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Backend != "auto" || cfg.MaxNodes != 65536 || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %s", cfg)
	}
	if cfg.Cell != (Cell{Width: 8, Height: 16}) {
		t.Errorf("cell = %+v", cfg.Cell)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestParseKeepsUnsetFields(t *testing.T) {
	cfg := Default()
	if err := Parse([]byte("backend: stub\ncell:\n  width: 10\n"), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "stub" {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.Cell.Width != 10 || cfg.Cell.Height != 16 {
		t.Errorf("cell = %+v", cfg.Cell)
	}
	if cfg.MaxNodes != DefaultMaxNodes {
		t.Errorf("max_nodes = %d", cfg.MaxNodes)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("backend: [unterminated"), &cfg)
	if !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackend:  "linux",
		EnvLogLevel: "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := Default()
	cfg.applyEnv(lookup)
	if cfg.Backend != "linux" {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("empty override applied: %q", cfg.LogLevel)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.yaml")
	if err := os.WriteFile(path, []byte("max_nodes: 128\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBackend, "Stub")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxNodes != 128 || cfg.BackendName() != "stub" {
		t.Errorf("cfg = %s", cfg)
	}
	if lvl, _ := cfg.Level(); lvl != zapcore.DebugLevel {
		t.Errorf("level = %v", lvl)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		kind   error
	}{
		{"empty backend", func(c *Config) { c.Backend = " " }, errors.ErrInvalidInput},
		{"negative max", func(c *Config) { c.MaxNodes = -1 }, errors.ErrInvalidInput},
		{"zero cell", func(c *Config) { c.Cell.Height = 0 }, errors.ErrInvalidInput},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, errors.ErrInvalidEnum},
		{"unbounded", func(c *Config) { c.MaxNodes = 0 }, nil},
		{"upper level", func(c *Config) { c.LogLevel = "WARN" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.kind == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !stderrors.Is(err, tt.kind) {
				t.Errorf("got %v, want %v", err, tt.kind)
			}
		})
	}
}
