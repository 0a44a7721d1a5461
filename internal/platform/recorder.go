package platform

import (
	"fmt"
	"sync"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Operation names used as Recorder counter keys.
const (
	OpAddNode               = "add"
	OpUpdateNode            = "update"
	OpRemoveNode            = "remove"
	OpNotifyFocusChanged    = "focus"
	OpNotifyPropertyChanged = "property"
	OpAnnounce              = "announce"
	OpTick                  = "tick"
	OpDestroy               = "destroy"
)

// Call is one backend call observed by a Recorder.
type Call struct {
	Op       string
	ID       string
	Property wire.Property
	Message  string
	Priority wire.Priority
}

func (c Call) String() string {
	switch c.Op {
	case OpNotifyPropertyChanged:
		return fmt.Sprintf("%s %s %s", c.Op, c.ID, c.Property)
	case OpAnnounce:
		return fmt.Sprintf("%s %q %s", c.Op, c.Message, c.Priority)
	case OpTick, OpDestroy:
		return c.Op
	}
	return c.Op + " " + c.ID
}

// Recorder wraps a backend and records every call made to it. It is used by
// tests and the replay command to observe exactly what reached the platform.
type Recorder struct {
	inner Backend

	mu       sync.Mutex
	calls    []Call
	counts   map[string]int
	failures map[string]error
	callback ActionFunc
	dead     bool
}

// NewRecorder wraps inner. A nil inner records against a Stub.
func NewRecorder(inner Backend) *Recorder {
	if inner == nil {
		inner = NewStub()
	}
	return &Recorder{
		inner:    inner,
		counts:   make(map[string]int),
		failures: make(map[string]error),
	}
}

// Name returns the wrapped backend's name.
func (r *Recorder) Name() string { return r.inner.Name() }

// Inner returns the wrapped backend.
func (r *Recorder) Inner() Backend { return r.inner }

// FailOn makes every subsequent call of op return err without reaching the
// wrapped backend. A nil err clears the failure.
func (r *Recorder) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, op)
		return
	}
	r.failures[op] = err
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	r.counts[c.Op]++
	return r.failures[c.Op]
}

func (r *Recorder) AddNode(n model.Node) error {
	if err := r.record(Call{Op: OpAddNode, ID: n.ID}); err != nil {
		return err
	}
	return r.inner.AddNode(n)
}

func (r *Recorder) UpdateNode(n model.Node) error {
	if err := r.record(Call{Op: OpUpdateNode, ID: n.ID}); err != nil {
		return err
	}
	return r.inner.UpdateNode(n)
}

func (r *Recorder) RemoveNode(id string) error {
	if err := r.record(Call{Op: OpRemoveNode, ID: id}); err != nil {
		return err
	}
	return r.inner.RemoveNode(id)
}

func (r *Recorder) NotifyFocusChanged(id string) error {
	if err := r.record(Call{Op: OpNotifyFocusChanged, ID: id}); err != nil {
		return err
	}
	return r.inner.NotifyFocusChanged(id)
}

func (r *Recorder) NotifyPropertyChanged(id string, prop wire.Property) error {
	if err := r.record(Call{Op: OpNotifyPropertyChanged, ID: id, Property: prop}); err != nil {
		return err
	}
	return r.inner.NotifyPropertyChanged(id, prop)
}

func (r *Recorder) Announce(msg string, priority wire.Priority) error {
	if err := r.record(Call{Op: OpAnnounce, Message: msg, Priority: priority}); err != nil {
		return err
	}
	return r.inner.Announce(msg, priority)
}

func (r *Recorder) SetActionCallback(fn ActionFunc) {
	r.mu.Lock()
	r.callback = fn
	r.mu.Unlock()
	r.inner.SetActionCallback(fn)
}

func (r *Recorder) Tick() {
	_ = r.record(Call{Op: OpTick})
	r.inner.Tick()
}

func (r *Recorder) Destroy() {
	_ = r.record(Call{Op: OpDestroy})
	r.mu.Lock()
	r.dead = true
	r.callback = nil
	r.mu.Unlock()
	r.inner.Destroy()
}

// Trigger simulates assistive technology requesting an action. It returns
// false when no callback is registered or the recorder was destroyed.
func (r *Recorder) Trigger(nodeID string, kind wire.ActionKind, value *string) bool {
	r.mu.Lock()
	fn, dead := r.callback, r.dead
	r.mu.Unlock()
	if fn == nil || dead {
		return false
	}
	return fn(nodeID, kind, value)
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[op]
}

// Counts returns a copy of all per-operation counters.
func (r *Recorder) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Mutations returns the number of calls that change OS-visible state,
// excluding ticks and destroy.
func (r *Recorder) Mutations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for op, c := range r.counts {
		if op != OpTick && op != OpDestroy {
			n += c
		}
	}
	return n
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.counts = make(map[string]int)
}
