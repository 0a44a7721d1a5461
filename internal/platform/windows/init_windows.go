//go:build windows && (amd64 || arm64)

package windows

import (
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/platform"
)

func init() {
	platform.Register(Name, func(log *zap.Logger) (platform.Backend, error) {
		return New(log, DefaultMetrics)
	})
}

// New creates the UIA host window on the calling goroutine's thread and
// returns a backend serving it. The caller must keep driving the bridge from
// that goroutine.
func New(log *zap.Logger, m Metrics) (*Backend, error) {
	if log == nil {
		log = platform.Logger().Named(Name)
	}
	return newBackend(newHost(log), m, log)
}
