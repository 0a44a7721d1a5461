package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/config"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	_ "github.com/mj1618/a11y-bridge/internal/platform/darwin"
	_ "github.com/mj1618/a11y-bridge/internal/platform/linux"
	"github.com/mj1618/a11y-bridge/internal/platform/windows"
	"github.com/mj1618/a11y-bridge/internal/scene"
	"github.com/mj1618/a11y-bridge/internal/version"
)

// settings and logger are populated by the root command before any
// subcommand runs.
var (
	settings = config.Default()
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "a11y-bridge",
	Short: "Mirror terminal UI trees into OS accessibility APIs",
	Long: `a11y-bridge exposes a terminal UI's widget tree to screen readers through
Windows UI Automation, AT-SPI2 and NSAccessibility.

The CLI drives the bridge from a YAML scene file so the mirrored tree, the
platform notifications and action routing can be inspected without a host
application.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	pf := rootCmd.PersistentFlags()
	pf.String("format", "yaml", "Output format: yaml, json, tree")
	pf.Bool("pretty", false, "Pretty-print JSON output")
	pf.String("config", "", "Path to a YAML config file")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.String("backend", "", "Backend: auto, stub, windows, linux, darwin (overrides config)")
	rootCmd.PersistentPreRunE = setup
}

// setup applies the persistent flags: output format, configuration and
// logging.
func setup(cmd *cobra.Command, args []string) error {
	pf := rootCmd.PersistentFlags()

	format, _ := pf.GetString("format")
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	output.OutputFormat = f
	output.PrettyOutput, _ = pf.GetBool("pretty")

	path, _ := pf.GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if level, _ := pf.GetString("log-level"); level != "" {
		c.LogLevel = level
	}
	if backend, _ := pf.GetString("backend"); backend != "" {
		c.Backend = backend
	}
	if err := c.Validate(); err != nil {
		return err
	}
	lvl, err := c.Level()
	if err != nil {
		return err
	}

	settings = c
	logger = newLogger(lvl)
	platform.SetLogger(logger.Named("platform"))
	bridge.SetLogger(logger.Named("bridge"))
	mirror.SetLogger(logger.Named("mirror"))
	windows.DefaultMetrics = windows.Metrics{
		CellWidth:  float64(c.Cell.Width),
		CellHeight: float64(c.Cell.Height),
	}
	logger.Debug("configured", zap.Stringer("config", c))
	return nil
}

// newLogger writes human-readable logs to stderr so stdout stays parseable.
func newLogger(level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// newBridge builds a disabled bridge from the current settings.
func newBridge(opts ...bridge.Option) *bridge.Bridge {
	base := []bridge.Option{
		bridge.WithBackend(settings.BackendName()),
		bridge.WithMaxNodes(settings.MaxNodes),
		bridge.WithLogger(logger.Named("bridge")),
	}
	return bridge.New(append(base, opts...)...)
}

// loadScene reads a scene file and builds its element tree.
func loadScene(path string) (*scene.Scene, *scene.Document, error) {
	doc, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}
	sc, err := scene.FromDocument(doc, logger.Named("scene"))
	if err != nil {
		return nil, nil, err
	}
	return sc, doc, nil
}
