package mirror

import "github.com/mj1618/a11y-bridge/internal/wire"

// Element is a node of the live UI tree. Elements are used as map keys, so
// their dynamic type must be comparable; pointers are the usual choice.
type Element interface {
	// Accessible returns the element's current accessible state.
	Accessible() Snapshot
	// Children returns the element's children in display order.
	Children() []Element
}

// Identified is implemented by elements that carry their own stable id.
// Elements without one get a generated id for as long as the mirror knows
// them.
type Identified interface {
	AccessibleID() string
}

// Actionable is implemented by elements that respond to assistive
// technology. PerformAction applies the effect to the UI and reports whether
// it was handled.
type Actionable interface {
	PerformAction(kind wire.ActionKind, value *string) bool
}

// Snapshot is the accessible state of one element. The mirror fills in the
// id and parent link.
type Snapshot struct {
	Role        wire.Role
	Name        string
	Value       string
	Description string
	Hint        string
	Rect        wire.Rect
	State       wire.State
	Live        wire.Live
	Orientation wire.Orientation
	Level       uint8
	Min         float64
	Max         float64
	Current     float64
}

// Record builds the wire record for the snapshot.
func (s Snapshot) Record(id, parentID string, childCount int) wire.NodeRecord {
	return wire.NodeRecord{
		ID:          id,
		Role:        s.Role,
		Name:        wire.Text(s.Name),
		Value:       wire.Text(s.Value),
		Description: wire.Text(s.Description),
		Hint:        wire.Text(s.Hint),
		Rect:        s.Rect,
		State:       s.State,
		ParentID:    wire.Text(parentID),
		ChildCount:  uint32(childCount),
		Live:        s.Live,
		Orientation: s.Orientation,
		Level:       s.Level,
		Min:         s.Min,
		Max:         s.Max,
		Current:     s.Current,
	}
}
