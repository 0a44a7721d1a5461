package windows

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Name is the registry name of the UIA backend.
const Name = "windows"

// host is the OS side of the backend: the hidden window, the COM objects
// wrapping providers and the UiaRaise* calls. The real host only builds on
// Windows; tests use a fake.
type host interface {
	// Open creates the host window. b answers WM_GETOBJECT and every COM
	// call made on wrapped providers.
	Open(b *Backend) error
	// Pump drains the window's message queue without blocking.
	Pump()
	// Wrap allocates the COM object for p.
	Wrap(p *provider)
	// Unwrap frees the COM object once p's last reference is released.
	Unwrap(p *provider)
	// Disconnect tells UIA that p's element no longer exists.
	Disconnect(p *provider) error
	RaiseAutomationEvent(p *provider, event int32) error
	RaisePropertyChanged(p *provider, prop int32, old, cur any) error
	RaiseStructureChanged(p *provider, change int32, runtimeID []int32) error
	RaiseNotification(p *provider, kind, processing int32, msg, activityID string) error
	// Close destroys the window and uninitializes COM.
	Close()
}

// Backend implements platform.Backend on UI Automation.
//
// OS events are raised after the backend lock is released: UIA may call
// straight back into the providers from inside a UiaRaise* call.
type Backend struct {
	host    host
	metrics Metrics
	log     *zap.Logger

	mu        sync.Mutex
	tree      *platform.Tree
	providers map[string]*provider
	nextID    int32
	callback  platform.ActionFunc
	closed    bool
}

var _ platform.Backend = (*Backend)(nil)

func newBackend(h host, m Metrics, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = platform.Logger().Named(Name)
	}
	b := &Backend{
		host:      h,
		metrics:   m,
		log:       log,
		tree:      platform.NewTree(),
		providers: make(map[string]*provider),
	}
	if err := h.Open(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Backend) Name() string { return Name }

// providerLocked returns the provider for id, creating it on first use.
func (b *Backend) providerLocked(id string) *provider {
	if p, ok := b.providers[id]; ok {
		return p
	}
	b.nextID++
	p := newProvider(id, b.nextID, b.host.Unwrap)
	b.host.Wrap(p)
	b.providers[id] = p
	return p
}

func (b *Backend) AddNode(n model.Node) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	if _, exists := b.tree.Get(n.ID); exists {
		b.mu.Unlock()
		return b.UpdateNode(n)
	}
	b.tree.Add(n)
	p := b.providerLocked(n.ID)
	b.mu.Unlock()

	return b.host.RaiseStructureChanged(p, structChildAdded, p.RuntimeID())
}

func (b *Backend) UpdateNode(n model.Node) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	prev, cur := b.tree.Update(n)
	p := b.providerLocked(n.ID)
	changes := diffProperties(&prev, cur, b.metrics)
	var parent *provider
	if prev.ParentID != cur.ParentID {
		parent = b.providers[cur.ParentID]
	}
	live := cur.Live != wire.LiveOff && (prev.Name != cur.Name || prev.Value != cur.Value)
	selected := !prev.State.Has(wire.StateSelected) && cur.State.Has(wire.StateSelected)
	b.mu.Unlock()

	var err error
	for _, c := range changes {
		err = multierr.Append(err, b.host.RaisePropertyChanged(p, c.id, c.old, c.cur))
	}
	if parent != nil {
		err = multierr.Append(err, b.host.RaiseStructureChanged(parent, structChildrenInvalidated, parent.RuntimeID()))
	}
	if selected {
		err = multierr.Append(err, b.host.RaiseAutomationEvent(p, evtElementSelected))
	}
	if live {
		err = multierr.Append(err, b.host.RaiseAutomationEvent(p, evtLiveRegionChanged))
	}
	return err
}

func (b *Backend) RemoveNode(id string) error {
	b.mu.Lock()
	n, ok := b.tree.Get(id)
	if b.closed || !ok {
		b.mu.Unlock()
		return nil
	}
	parent := b.providers[n.ParentID]
	b.tree.Remove(id)
	p := b.providers[id]
	delete(b.providers, id)
	b.mu.Unlock()

	var err error
	if parent != nil && p != nil {
		err = b.host.RaiseStructureChanged(parent, structChildRemoved, p.RuntimeID())
	}
	if p != nil {
		p.disconnect()
		err = multierr.Append(err, b.host.Disconnect(p))
		p.Release()
	}
	return err
}

func (b *Backend) NotifyFocusChanged(id string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.tree.SetFocus(id)
	p := b.providers[b.tree.FocusedID()]
	b.mu.Unlock()

	if p == nil {
		return nil
	}
	return b.host.RaiseAutomationEvent(p, evtFocusChanged)
}

func (b *Backend) NotifyPropertyChanged(id string, prop wire.Property) error {
	b.mu.Lock()
	n, ok := b.tree.Get(id)
	p := b.providers[id]
	if b.closed || !ok || p == nil {
		b.mu.Unlock()
		return nil
	}
	if prop == wire.PropChildren {
		b.mu.Unlock()
		return b.host.RaiseStructureChanged(p, structChildrenInvalidated, p.RuntimeID())
	}
	ids := propertiesFor(prop)
	values := make([]any, len(ids))
	for i, pid := range ids {
		values[i] = propertyValue(n, pid, b.metrics)
	}
	b.mu.Unlock()

	var err error
	for i, pid := range ids {
		err = multierr.Append(err, b.host.RaisePropertyChanged(p, pid, nil, values[i]))
	}
	return err
}

func (b *Backend) Announce(msg string, priority wire.Priority) error {
	if msg == "" || priority == wire.PriorityOff {
		return nil
	}
	b.mu.Lock()
	root := b.providers[b.tree.RootID()]
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil
	}
	if root == nil {
		b.log.Debug("announcement dropped, no root element", zap.String("message", msg))
		return nil
	}

	processing := notifyAll
	if priority == wire.PriorityAssertive {
		processing = notifyImportantMostRecent
	}
	return b.host.RaiseNotification(root, notifyKindOther, processing, msg, "a11y-bridge.announce")
}

func (b *Backend) SetActionCallback(fn platform.ActionFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.callback = fn
}

func (b *Backend) Tick() {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if !closed {
		b.host.Pump()
	}
}

// Destroy disconnects every provider and closes the host window.
func (b *Backend) Destroy() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.callback = nil
	providers := b.providers
	b.providers = make(map[string]*provider)
	b.tree = platform.NewTree()
	b.mu.Unlock()

	for _, p := range providers {
		p.disconnect()
		if err := b.host.Disconnect(p); err != nil {
			b.log.Debug("disconnect failed", zap.String("id", p.id), zap.Error(err))
		}
		p.Release()
	}
	b.host.Close()
}
