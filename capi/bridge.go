package main

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/config"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/platform"
	_ "github.com/mj1618/a11y-bridge/internal/platform/darwin"
	_ "github.com/mj1618/a11y-bridge/internal/platform/linux"
	"github.com/mj1618/a11y-bridge/internal/platform/windows"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

func main() {}

var (
	handles = newRegistry()

	setupOnce sync.Once
	settings  config.Config
	logger    = zap.NewNop()
)

// setup reads the configuration named by the environment once per process.
// A bad configuration falls back to the defaults.
func setup() {
	setupOnce.Do(func() {
		c, err := config.Load(os.Getenv(config.EnvConfig))
		if err != nil {
			c = config.Default()
		}
		lvl, lerr := c.Level()
		if lerr != nil {
			lvl = zapcore.InfoLevel
		}
		settings = c
		logger = newLogger(lvl)
		if err != nil {
			logger.Warn("ignoring configuration", zap.Error(err))
		}
		platform.SetLogger(logger.Named("platform"))
		bridge.SetLogger(logger.Named("bridge"))
		mirror.SetLogger(logger.Named("mirror"))
		windows.DefaultMetrics = windows.Metrics{
			CellWidth:  float64(c.Cell.Width),
			CellHeight: float64(c.Cell.Height),
		}
	})
}

// newLogger writes JSON logs to stderr; the host owns stdout.
func newLogger(level zapcore.Level) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stderr), level)
	return zap.New(core).Named("capi")
}

func create() uintptr {
	setup()
	b := bridge.New(
		bridge.WithBackend(settings.BackendName()),
		bridge.WithMaxNodes(settings.MaxNodes),
		bridge.WithLogger(logger.Named("bridge")),
	)
	h := handles.put(b)
	logger.Debug("bridge created", zap.Uintptr("handle", h))
	return h
}

func destroy(h uintptr) {
	if b, ok := handles.take(h); ok {
		b.Destroy()
		logger.Debug("bridge destroyed", zap.Uintptr("handle", h))
	}
}

// actionTrampoline encodes a request as a wire action record and hands it
// to call.
func actionTrampoline(call func(req []byte) bool) platform.ActionFunc {
	return func(id string, kind wire.ActionKind, value *string) bool {
		req := wire.AppendActionRequest(nil, wire.ActionRequest{NodeID: id, Kind: kind, Value: value})
		return call(req)
	}
}
