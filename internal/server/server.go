// Package server exposes a mirrored scene over the Model Context Protocol so
// agents can inspect what assistive technology sees and drive actions.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/scene"
	"github.com/mj1618/a11y-bridge/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport    string
	Port         int
	CacheTTL     time.Duration
	TickInterval time.Duration
	// WatchPath, when set, reloads the scene whenever the file changes.
	WatchPath string
}

const defaultTick = 16 * time.Millisecond

var errStopped = stderrors.New("ui loop stopped")

type job struct {
	fn   func() error
	done chan error
}

// Server owns the UI loop: the goroutine that enabled the bridge and the
// only one that mutates the scene or the mirror. Tool calls that change
// anything are sent to it as jobs; reads go to the bridge directly.
type Server struct {
	mirror *mirror.Mirror
	bridge *bridge.Bridge
	scene  *scene.Scene
	cache  *TreeCache
	cfg    Config
	log    *zap.Logger
	mcp    *mcpserver.MCPServer

	jobs    chan job
	ready   chan struct{}
	stopped chan struct{}
}

// New creates a server for sc mirrored through m. The mirror is enabled by
// Run.
func New(m *mirror.Mirror, sc *scene.Scene, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTick
	}
	s := &Server{
		mirror:  m,
		bridge:  m.Bridge(),
		scene:   sc,
		cache:   NewTreeCache(cfg.CacheTTL),
		cfg:     cfg,
		log:     log,
		jobs:    make(chan job),
		ready:   make(chan struct{}),
		stopped: make(chan struct{}),
	}
	s.mcp = mcpserver.NewMCPServer("a11y-bridge", version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Ready is closed once Run has enabled the mirror.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Run enables the mirror and services jobs and frame ticks until ctx ends.
// Backends with thread-affine state are created here, so the goroutine is
// pinned to its OS thread.
func (s *Server) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.stopped)

	if err := s.mirror.Enable(); err != nil {
		return err
	}
	defer func() {
		if err := s.mirror.Disable(); err != nil {
			s.log.Warn("disable failed", zap.Error(err))
		}
	}()
	s.log.Info("ui loop started",
		zap.String("platform", s.bridge.PlatformName()),
		zap.Int("nodes", s.bridge.NodeCount()))
	close(s.ready)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.mirror.Tick()
		case j := <-s.jobs:
			err := j.fn()
			s.cache.Invalidate()
			j.done <- err
		}
	}
}

// do runs fn on the UI loop and waits for it.
func (s *Server) do(ctx context.Context, fn func() error) error {
	j := job{fn: fn, done: make(chan error, 1)}
	select {
	case s.jobs <- j:
	case <-s.stopped:
		return errStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload replaces the mirrored scene.
func (s *Server) Reload(ctx context.Context, sc *scene.Scene) error {
	return s.do(ctx, func() error {
		s.scene = sc
		return s.mirror.SetRoot(sc.Root())
	})
}

// Serve runs the UI loop, the optional scene watcher and the configured
// transport until ctx ends or the transport stops.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Run(ctx) })
	if s.cfg.WatchPath != "" {
		g.Go(func() error { return s.Watch(ctx, s.cfg.WatchPath) })
	}
	g.Go(func() error {
		defer cancel()
		select {
		case <-s.ready:
		case <-ctx.Done():
			return nil
		}
		return s.serveTransport(ctx)
	})
	return g.Wait()
}

func (s *Server) serveTransport(ctx context.Context) error {
	switch s.cfg.Transport {
	case "", "stdio":
		return mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdown)
		}()
		err := httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}
