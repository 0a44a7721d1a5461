package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/platform/darwin"
	"github.com/mj1618/a11y-bridge/internal/platform/linux"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scene.yaml>",
	Short: "Apply a scene's steps and report what the backend saw",
	Long: `Mirror a scene, apply its steps in order and print the backend calls
they produced, the notifications an emulated backend would raise and the
final tree.

The linux and darwin backends are emulated on every OS, so
  a11y-bridge replay --backend darwin scene.yaml
shows the NSAccessibility notifications a scene produces from any machine.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("signals", true, "Include emulated platform signals")
	replayCmd.Flags().Int("limit", 0, "Keep only the last N signals (0 = all)")
}

// replayBackend constructs the backend named by the settings. Emulated
// dialects don't depend on the host OS.
func replayBackend(log *zap.Logger) (platform.Backend, error) {
	switch name := platform.Resolve(settings.BackendName()); name {
	case linux.Name:
		return linux.New(log), nil
	case darwin.Name:
		return darwin.New(log), nil
	default:
		return platform.New(name, log)
	}
}

// recording wraps the configured backend in a Recorder and stores it in
// *rec when the bridge is enabled.
func recording(rec **platform.Recorder) bridge.Option {
	return bridge.WithBackendFactory(settings.BackendName(), func(log *zap.Logger) (platform.Backend, error) {
		inner, err := replayBackend(log)
		if err != nil {
			return nil, err
		}
		*rec = platform.NewRecorder(inner)
		return *rec, nil
	})
}

func runReplay(cmd *cobra.Command, args []string) error {
	withSignals, _ := cmd.Flags().GetBool("signals")
	limit, _ := cmd.Flags().GetInt("limit")

	sc, doc, err := loadScene(args[0])
	if err != nil {
		return err
	}

	var rec *platform.Recorder
	b := newBridge(recording(&rec))

	result := output.ReplayResult{Steps: len(doc.Steps)}
	err = withMirror(b, sc, func(m *mirror.Mirror) error {
		handled, err := runSteps(sc, m, doc.Steps)
		if err != nil {
			return err
		}
		result.Handled = handled
		result.Platform = b.PlatformName()
		result.Elements = b.Tree()
		if rec != nil {
			result.Calls = rec.Counts()
			if e, ok := platform.EmulatedOf(rec); ok && withSignals {
				result.Signals = lastSignals(e.Signals(), limit)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return output.Print(result)
}

func lastSignals(sigs []platform.Signal, limit int) []platform.Signal {
	if limit > 0 && len(sigs) > limit {
		return sigs[len(sigs)-limit:]
	}
	return sigs
}
