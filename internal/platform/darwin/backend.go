package darwin

import (
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/platform"
)

// New returns the NSAccessibility backend.
func New(log *zap.Logger) *platform.Emulated {
	if log == nil {
		log = platform.Logger().Named(Name)
	}
	log.Info("NSAccessibility backend does not vend elements to AppKit; notifications are logged only")
	return platform.NewEmulated(Dialect(), log)
}
