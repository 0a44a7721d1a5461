package platform

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Signal is one OS-level notification an emulated backend would emit.
type Signal struct {
	Name   string `json:"name" yaml:"name"`
	NodeID string `json:"id" yaml:"id"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func (s Signal) String() string {
	if s.Detail == "" {
		return fmt.Sprintf("%s %s", s.Name, s.NodeID)
	}
	return fmt.Sprintf("%s %s %s", s.Name, s.NodeID, s.Detail)
}

// Dialect translates backend operations into one platform's native
// vocabulary: role names, event names and action names.
type Dialect interface {
	Name() string
	// Role returns the native role of r. Every wire role has one.
	Role(r wire.Role) string
	Added(n, parent *model.Node) []Signal
	// Updated receives the fields that differ between prev and cur.
	Updated(prev model.Node, cur *model.Node, changed model.Field) []Signal
	Removed(n model.Node) []Signal
	// FocusChanged receives nil for a side that has no focused node.
	FocusChanged(prev, cur *model.Node) []Signal
	PropertyChanged(n *model.Node, p wire.Property) []Signal
	Announcement(root *model.Node, msg string, priority wire.Priority) []Signal
	// Actions lists the native action names n exposes.
	Actions(n *model.Node) []string
	// Action maps a native action name on n to an action kind.
	Action(n *model.Node, native string) (wire.ActionKind, bool)
}

// signalHistory bounds the signals kept for inspection.
const signalHistory = 512

// Emulated is a backend that keeps the full node mirror a native backend
// would keep and logs the OS notifications it would raise, without talking
// to the OS accessibility service. Linux and macOS use it with their own
// Dialect.
type Emulated struct {
	dialect Dialect
	log     *zap.Logger

	mu       sync.Mutex
	tree     *Tree
	callback ActionFunc
	signals  []Signal
	closed   bool
}

var _ Backend = (*Emulated)(nil)

// NewEmulated returns an Emulated backend speaking d.
func NewEmulated(d Dialect, log *zap.Logger) *Emulated {
	if log == nil {
		log = Logger().Named(d.Name())
	}
	return &Emulated{dialect: d, log: log, tree: NewTree()}
}

func (e *Emulated) Name() string { return e.dialect.Name() }

// emitLocked records sigs and logs each one.
func (e *Emulated) emitLocked(sigs []Signal) {
	for _, s := range sigs {
		e.log.Debug("would emit",
			zap.String("signal", s.Name),
			zap.String("id", s.NodeID),
			zap.String("detail", s.Detail))
	}
	e.signals = append(e.signals, sigs...)
	if over := len(e.signals) - signalHistory; over > 0 {
		e.signals = append(e.signals[:0], e.signals[over:]...)
	}
}

func (e *Emulated) AddNode(n model.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	if _, ok := e.tree.Get(n.ID); ok {
		e.updateLocked(n)
		return nil
	}
	cur := e.tree.Add(n)
	parent, _ := e.tree.Parent(n.ID)
	e.emitLocked(e.dialect.Added(cur, parent))
	return nil
}

func (e *Emulated) UpdateNode(n model.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.updateLocked(n)
	return nil
}

func (e *Emulated) updateLocked(n model.Node) {
	prev, cur := e.tree.Update(n)
	if prev.ID == "" {
		parent, _ := e.tree.Parent(n.ID)
		e.emitLocked(e.dialect.Added(cur, parent))
		return
	}
	probe := prev.Clone()
	if changed := probe.Apply(cur.Record()); changed != 0 {
		e.emitLocked(e.dialect.Updated(prev, cur, changed))
	}
}

func (e *Emulated) RemoveNode(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	if n, ok := e.tree.Remove(id); ok {
		e.emitLocked(e.dialect.Removed(n))
	}
	return nil
}

func (e *Emulated) NotifyFocusChanged(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	prevID := e.tree.SetFocus(id)
	if prevID == e.tree.FocusedID() {
		return nil
	}
	prev, _ := e.tree.Get(prevID)
	cur, _ := e.tree.Get(e.tree.FocusedID())
	e.emitLocked(e.dialect.FocusChanged(prev, cur))
	return nil
}

func (e *Emulated) NotifyPropertyChanged(id string, p wire.Property) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	if n, ok := e.tree.Get(id); ok {
		e.emitLocked(e.dialect.PropertyChanged(n, p))
	}
	return nil
}

func (e *Emulated) Announce(msg string, priority wire.Priority) error {
	if msg == "" || priority == wire.PriorityOff {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	root, _ := e.tree.Get(e.tree.RootID())
	e.emitLocked(e.dialect.Announcement(root, msg, priority))
	return nil
}

func (e *Emulated) SetActionCallback(fn ActionFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.callback = fn
}

// Tick has nothing to drain: no OS requests arrive asynchronously.
func (e *Emulated) Tick() {}

func (e *Emulated) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.callback = nil
	e.tree = NewTree()
}

// Perform simulates assistive technology invoking the native action named
// native on id. It reports whether the UI handled it.
func (e *Emulated) Perform(id, native string, value *string) bool {
	e.mu.Lock()
	n, ok := e.tree.Get(id)
	if e.closed || !ok || n.State.Has(wire.StateDisabled) {
		e.mu.Unlock()
		return false
	}
	kind, ok := e.dialect.Action(n, native)
	fn := e.callback
	e.mu.Unlock()

	if !ok {
		e.log.Debug("unknown native action", zap.String("id", id), zap.String("action", native))
		return false
	}
	if fn == nil {
		return false
	}
	return fn(id, kind, value)
}

// Actions returns the native action names id exposes.
func (e *Emulated) Actions(id string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.tree.Get(id)
	if !ok {
		return nil
	}
	return e.dialect.Actions(n)
}

// NativeRole returns the native role of id.
func (e *Emulated) NativeRole(id string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.tree.Get(id)
	if !ok {
		return "", false
	}
	return e.dialect.Role(n.Role), true
}

// Signals returns the most recent signals, oldest first.
func (e *Emulated) Signals() []Signal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Signal(nil), e.signals...)
}

// Len returns the number of mirrored nodes.
func (e *Emulated) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.Len()
}

// EmulatedOf returns the Emulated backend behind b, looking through
// Recorders.
func EmulatedOf(b Backend) (*Emulated, bool) {
	for {
		switch x := b.(type) {
		case *Emulated:
			return x, true
		case *Recorder:
			b = x.Inner()
		default:
			return nil, false
		}
	}
}
