package platform

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	bridgeerrors "github.com/mj1618/a11y-bridge/internal/errors"
)

// Names accepted by New besides registered backend names.
const (
	Auto     = "auto"
	StubName = "stub"
)

// ErrUnsupported is returned when no backend is registered for the requested
// platform.
var ErrUnsupported = fmt.Errorf("a11y-bridge has no accessibility backend for %s/%s; supported: windows, linux, darwin", runtime.GOOS, runtime.GOARCH)

// NewBackendFunc constructs a backend. Platform packages register one via
// init(); see internal/platform/windows/init_windows.go.
type NewBackendFunc func(log *zap.Logger) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]NewBackendFunc{}
)

// Register makes a backend constructor available under name. A later
// registration under the same name replaces the earlier one.
func Register(name string, fn NewBackendFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if fn == nil {
		delete(registry, name)
		return
	}
	registry[name] = fn
}

// Registered lists the registered backend names in sorted order.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps a configured backend name to the name New will construct.
// "auto" and "" resolve to the current GOOS.
func Resolve(name string) string {
	if name == "" || name == Auto {
		return runtime.GOOS
	}
	return name
}

// Supported reports whether a backend is registered for the current OS.
func Supported() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[runtime.GOOS]
	return ok
}

// New constructs the backend registered under name. "stub" always succeeds.
// A registered constructor that fails yields an initialization error; an
// unregistered name yields ErrUnsupported.
func New(name string, log *zap.Logger) (Backend, error) {
	if log == nil {
		log = Logger()
	}
	name = Resolve(name)
	if name == StubName {
		return NewStub(), nil
	}

	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrUnsupported
	}

	b, err := fn(log.Named(name))
	if err != nil {
		return nil, bridgeerrors.Initialization(name, err)
	}
	return b, nil
}

// IsRegistered reports whether New can construct name. "stub" is always
// available.
func IsRegistered(name string) bool {
	name = Resolve(name)
	if name == StubName {
		return true
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
