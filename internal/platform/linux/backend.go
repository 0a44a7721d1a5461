package linux

import (
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/platform"
)

// New returns the AT-SPI backend.
func New(log *zap.Logger) *platform.Emulated {
	if log == nil {
		log = platform.Logger().Named(Name)
	}
	log.Info("AT-SPI backend has no bus connection; signals are logged only")
	return platform.NewEmulated(Dialect(), log)
}
