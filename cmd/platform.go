package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
)

// PlatformResult is the output of the platform command.
type PlatformResult struct {
	OS         string   `yaml:"os"                json:"os"`
	Arch       string   `yaml:"arch"              json:"arch"`
	Configured string   `yaml:"configured"        json:"configured"`
	Resolved   string   `yaml:"resolved"          json:"resolved"`
	Supported  bool     `yaml:"supported"         json:"supported"`
	Backends   []string `yaml:"backends"          json:"backends"`
	Active     string   `yaml:"active,omitempty"  json:"active,omitempty"`
	Probed     bool     `yaml:"probed,omitempty"  json:"probed,omitempty"`
}

var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Show the accessibility backends available on this machine",
	Long: `List the registered backends and the one the configured name resolves to.

With --probe the bridge is enabled once to check that the backend initializes;
a backend that fails falls back to the stub and reports unsupported.`,
	Args: cobra.NoArgs,
	RunE: runPlatform,
}

func init() {
	rootCmd.AddCommand(platformCmd)
	platformCmd.Flags().Bool("probe", false, "Enable the bridge once to verify the backend initializes")
}

func runPlatform(cmd *cobra.Command, args []string) error {
	probe, _ := cmd.Flags().GetBool("probe")

	b := newBridge()
	defer b.Destroy()
	result := PlatformResult{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Configured: settings.BackendName(),
		Resolved:   platform.Resolve(settings.BackendName()),
		Supported:  b.IsPlatformSupported(),
		Backends:   platform.Registered(),
	}
	if probe {
		err := withLockedThread(func() error {
			if err := b.SetEnabled(true); err != nil {
				return err
			}
			result.Probed = true
			result.Active = b.PlatformName()
			result.Supported = b.IsPlatformSupported()
			return b.SetEnabled(false)
		})
		if err != nil {
			return err
		}
	}
	return output.Print(result)
}
