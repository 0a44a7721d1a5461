package platform

import (
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Stub is the no-op backend used on unsupported platforms and after a
// backend fails to initialize. Every call succeeds and has no effect.
type Stub struct{}

// NewStub returns a Stub backend.
func NewStub() *Stub { return &Stub{} }

func (*Stub) Name() string                                      { return StubName }
func (*Stub) AddNode(model.Node) error                          { return nil }
func (*Stub) UpdateNode(model.Node) error                       { return nil }
func (*Stub) RemoveNode(string) error                           { return nil }
func (*Stub) NotifyFocusChanged(string) error                   { return nil }
func (*Stub) NotifyPropertyChanged(string, wire.Property) error { return nil }
func (*Stub) Announce(string, wire.Priority) error              { return nil }
func (*Stub) SetActionCallback(ActionFunc)                      {}
func (*Stub) Tick()                                             {}
func (*Stub) Destroy()                                          {}

// IsStub reports whether b is the no-op backend.
func IsStub(b Backend) bool {
	_, ok := b.(*Stub)
	return ok
}
