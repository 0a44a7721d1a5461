//go:build linux

package linux

import (
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/platform"
)

func init() {
	platform.Register(Name, func(log *zap.Logger) (platform.Backend, error) {
		return New(log), nil
	})
}
