package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scene.yaml>",
	Short: "Mirror a scene and expose it over MCP",
	Long: `Mirror a scene through the platform backend and start a Model Context
Protocol (MCP) server so agents can inspect the accessible tree, move focus,
announce and invoke actions the way assistive technology would.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  a11y-bridge serve scene.yaml
  a11y-bridge serve --transport streamable-http --port 8080 scene.yaml
  a11y-bridge serve --watch --cache-ttl 0 scene.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Element tree cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().Int("tick", 16, "Frame tick interval in milliseconds")
	serveCmd.Flags().Bool("watch", false, "Reload the scene when the file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	tickMs, _ := cmd.Flags().GetInt("tick")
	watch, _ := cmd.Flags().GetBool("watch")

	switch transport {
	case "stdio", "streamable-http":
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}

	sc, _, err := loadScene(args[0])
	if err != nil {
		return err
	}
	cfg := server.Config{
		Transport:    transport,
		Port:         port,
		CacheTTL:     time.Duration(cacheTTLMs) * time.Millisecond,
		TickInterval: time.Duration(tickMs) * time.Millisecond,
	}
	if watch {
		cfg.WatchPath = args[0]
	}

	b := newBridge()
	defer b.Destroy()
	m := mirror.New(b, sc.Root(), mirror.WithLogger(logger.Named("mirror")))
	srv := server.New(m, sc, cfg, logger.Named("server"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx)
}
