package bridge

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// DefaultMaxNodes bounds the node table when no option overrides it.
const DefaultMaxNodes = 65536

// BackendFactory constructs the backend used when the bridge is enabled.
type BackendFactory func(log *zap.Logger) (platform.Backend, error)

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger for the bridge, its store and its backend.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithBackend selects a registered backend by name ("auto", "stub",
// "windows", ...).
func WithBackend(name string) Option {
	return func(b *Bridge) {
		b.backendName = name
		b.factory = func(log *zap.Logger) (platform.Backend, error) {
			return platform.New(name, log)
		}
	}
}

// WithBackendFactory overrides backend construction. Used by tests and the
// replay command to install a platform.Recorder.
func WithBackendFactory(name string, f BackendFactory) Option {
	return func(b *Bridge) {
		b.backendName = name
		b.factory = f
	}
}

// WithMaxNodes bounds the node table. n <= 0 means unbounded.
func WithMaxNodes(n int) Option {
	return func(b *Bridge) { b.maxNodes = n }
}

// Bridge is one accessibility bridge handle. It starts disabled; while
// disabled every operation is a silent no-op that reports success.
//
// The UI layer drives a Bridge from a single goroutine. The backend is
// created on that goroutine by SetEnabled(true).
type Bridge struct {
	mu          sync.RWMutex
	store       *Store
	callback    platform.ActionFunc
	supported   bool
	destroyed   bool
	backendName string
	factory     BackendFactory
	maxNodes    int
	log         *zap.Logger
}

// New creates a disabled bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		backendName: platform.Auto,
		maxNodes:    DefaultMaxNodes,
		log:         Logger(),
	}
	WithBackend(platform.Auto)(b)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// current returns the live store, or nil when disabled. The bridge lock is
// not held while the store runs so action callbacks may re-enter the bridge.
func (b *Bridge) current() *Store {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.store
}

// SetEnabled switches accessibility on or off. Enabling selects and
// initializes the backend; a backend that fails to initialize is replaced by
// the stub and IsPlatformSupported turns false. Disabling clears the store
// and releases the backend.
func (b *Bridge) SetEnabled(enabled bool) error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return nil
	}
	if enabled == (b.store != nil) {
		b.mu.Unlock()
		return nil
	}

	if !enabled {
		s := b.store
		b.store = nil
		b.mu.Unlock()
		s.Clear()
		s.Destroy()
		b.log.Info("accessibility disabled")
		return nil
	}
	defer b.mu.Unlock()

	backend, err := b.factory(b.log)
	if err != nil || backend == nil {
		if err == nil {
			err = errors.Unsupported(errors.OpCreate, "backend factory returned nil")
		}
		b.log.Warn("accessibility backend unavailable, using stub", zap.String("backend", b.backendName), zap.Error(err))
		backend = platform.NewStub()
	}
	b.supported = !platform.IsStub(backend)
	b.store = NewStore(backend, b.maxNodes, b.log)
	b.store.SetActionCallback(b.callback)
	b.log.Info("accessibility enabled", zap.String("backend", backend.Name()), zap.Bool("supported", b.supported))
	return nil
}

// IsEnabled reports whether the bridge is enabled.
func (b *Bridge) IsEnabled() bool { return b.current() != nil }

// Destroy disables the bridge and drops the action callback. The callback is
// never invoked afterwards and the handle stays disabled.
func (b *Bridge) Destroy() {
	_ = b.SetEnabled(false)
	b.mu.Lock()
	b.destroyed = true
	b.callback = nil
	b.mu.Unlock()
}

// Upsert inserts or updates one node.
func (b *Bridge) Upsert(rec wire.NodeRecord) (model.ChangeType, error) {
	s := b.current()
	if s == nil {
		return model.ChangeUnchanged, nil
	}
	return s.Upsert(rec)
}

// UpsertBytes decodes a wire record and upserts it. The buffer is not
// retained.
func (b *Bridge) UpsertBytes(buf []byte) (model.ChangeType, error) {
	s := b.current()
	if s == nil {
		return model.ChangeUnchanged, nil
	}
	rec, err := wire.DecodeNodeRecord(buf)
	if err != nil {
		return model.ChangeUnchanged, err
	}
	return s.Upsert(rec)
}

// Remove deletes a node. Unknown ids are ignored.
func (b *Bridge) Remove(id string) error {
	if s := b.current(); s != nil {
		return s.Remove(id)
	}
	return nil
}

// SetFocus moves focus; "" clears it.
func (b *Bridge) SetFocus(id string) error {
	if s := b.current(); s != nil {
		return s.SetFocus(id)
	}
	return nil
}

// Announce speaks msg with the given urgency.
func (b *Bridge) Announce(msg string, priority wire.Priority) error {
	if s := b.current(); s != nil {
		return s.Announce(msg, priority)
	}
	return nil
}

// NotifyPropertyChanged signals which property of a node changed.
func (b *Bridge) NotifyPropertyChanged(id string, prop wire.Property) error {
	if s := b.current(); s != nil {
		return s.NotifyPropertyChanged(id, prop)
	}
	return nil
}

// SetActionCallback registers the action handler. It survives disable and
// re-enable; nil clears it.
func (b *Bridge) SetActionCallback(fn platform.ActionFunc) {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.callback = fn
	s := b.store
	b.mu.Unlock()
	if s != nil {
		s.SetActionCallback(fn)
	}
}

// NodeCount returns the number of live nodes, 0 when disabled.
func (b *Bridge) NodeCount() int {
	if s := b.current(); s != nil {
		return s.Len()
	}
	return 0
}

// Clear removes every node.
func (b *Bridge) Clear() {
	if s := b.current(); s != nil {
		s.Clear()
	}
}

// Tick services the backend once. Call it once per rendered frame.
func (b *Bridge) Tick() {
	if s := b.current(); s != nil {
		s.Tick()
	}
}

// IsPlatformSupported reports whether a real backend is active, or, before
// the first enable, whether one is available for the configured name.
func (b *Bridge) IsPlatformSupported() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.store != nil {
		return b.supported
	}
	name := platform.Resolve(b.backendName)
	return name != platform.StubName && platform.IsRegistered(name)
}

// PlatformName returns the active backend's name, or the configured one
// while disabled.
func (b *Bridge) PlatformName() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.store != nil {
		return b.store.Backend().Name()
	}
	return platform.Resolve(b.backendName)
}

// Backend returns the active backend, or nil when disabled.
func (b *Bridge) Backend() platform.Backend {
	if s := b.current(); s != nil {
		return s.Backend()
	}
	return nil
}

// Nodes returns copies of all live nodes in insertion order.
func (b *Bridge) Nodes() []model.Node {
	if s := b.current(); s != nil {
		return s.Nodes()
	}
	return nil
}

// Node returns a copy of one node.
func (b *Bridge) Node(id string) (model.Node, bool) {
	if s := b.current(); s != nil {
		return s.Node(id)
	}
	return model.Node{}, false
}

// RootID returns the root node id, or "".
func (b *Bridge) RootID() string {
	if s := b.current(); s != nil {
		return s.RootID()
	}
	return ""
}

// FocusedID returns the focused node id, or "".
func (b *Bridge) FocusedID() string {
	if s := b.current(); s != nil {
		return s.FocusedID()
	}
	return ""
}

// Tree rebuilds the display tree from the store.
func (b *Bridge) Tree() []model.Element {
	s := b.current()
	if s == nil {
		return nil
	}
	return model.BuildTree(s.Nodes(), s.RootID())
}
