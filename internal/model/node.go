package model

import (
	"math"

	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Node is the canonical record of one accessible element held by the node
// store. Text fields are owned copies; parent and children are ID links into
// the store, never pointers.
type Node struct {
	ID          string
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
	ParentID    string   // "" for the root
	ChildIDs    []string // insertion order
	Dirty       bool     // changed since the last successful backend sync
}

// Field is a bitset naming the fields an upsert changed.
type Field uint32

const (
	FieldRole Field = 1 << iota
	FieldName
	FieldValue
	FieldDescription
	FieldHint
	FieldRect
	FieldState
	FieldLive
	FieldOrientation
	FieldLevel
	FieldRange
	FieldParent
)

var fieldNames = []struct {
	f    Field
	name string
}{
	{FieldRole, "role"},
	{FieldName, "name"},
	{FieldValue, "value"},
	{FieldDescription, "description"},
	{FieldHint, "hint"},
	{FieldRect, "rect"},
	{FieldState, "state"},
	{FieldLive, "live"},
	{FieldOrientation, "orientation"},
	{FieldLevel, "level"},
	{FieldRange, "range"},
	{FieldParent, "parent"},
}

// Names lists the changed fields in declaration order.
func (f Field) Names() []string {
	var names []string
	for _, fn := range fieldNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// NewNode builds a Node from a wire record. The focused bit is dropped:
// focus is owned by the store's SetFocus.
func NewNode(rec wire.NodeRecord) *Node {
	n := &Node{ID: rec.ID, Dirty: true}
	n.Apply(rec)
	n.Dirty = true
	return n
}

// Apply copies every field of rec that differs from n and returns the set of
// changed fields. Child links are not touched; a changed parent is reported
// as FieldParent with ParentID already updated. The focused bit of n.State is
// preserved. Dirty is set when anything changed.
func (n *Node) Apply(rec wire.NodeRecord) Field {
	var changed Field

	if n.Role != rec.Role {
		n.Role = rec.Role
		changed |= FieldRole
	}
	if s := wire.Deref(rec.Name); n.Name != s {
		n.Name = s
		changed |= FieldName
	}
	if s := wire.Deref(rec.Value); n.Value != s {
		n.Value = s
		changed |= FieldValue
	}
	if s := wire.Deref(rec.Description); n.Description != s {
		n.Description = s
		changed |= FieldDescription
	}
	if s := wire.Deref(rec.Hint); n.Hint != s {
		n.Hint = s
		changed |= FieldHint
	}
	if n.Rect != rec.Rect {
		n.Rect = rec.Rect
		changed |= FieldRect
	}
	state := rec.State.With(wire.StateFocused, n.State.Has(wire.StateFocused))
	if n.State != state {
		n.State = state
		changed |= FieldState
	}
	if n.Live != rec.Live {
		n.Live = rec.Live
		changed |= FieldLive
	}
	if n.Orientation != rec.Orientation {
		n.Orientation = rec.Orientation
		changed |= FieldOrientation
	}
	if n.Level != rec.Level {
		n.Level = rec.Level
		changed |= FieldLevel
	}
	if !sameFloat(n.Min, rec.Min) || !sameFloat(n.Max, rec.Max) || !sameFloat(n.Current, rec.Current) {
		n.Min, n.Max, n.Current = rec.Min, rec.Max, rec.Current
		changed |= FieldRange
	}
	if p := wire.Deref(rec.ParentID); n.ParentID != p {
		n.ParentID = p
		changed |= FieldParent
	}

	if changed != 0 {
		n.Dirty = true
	}
	return changed
}

// Focused reports whether the node carries the focused state bit.
func (n *Node) Focused() bool { return n.State.Has(wire.StateFocused) }

// Clone returns a deep copy of n.
func (n *Node) Clone() Node {
	c := *n
	c.ChildIDs = append([]string(nil), n.ChildIDs...)
	return c
}

// Record converts n back into a wire record.
func (n *Node) Record() wire.NodeRecord {
	return wire.NodeRecord{
		ID:          n.ID,
		Role:        n.Role,
		Name:        wire.Text(n.Name),
		Value:       wire.Text(n.Value),
		Description: wire.Text(n.Description),
		Hint:        wire.Text(n.Hint),
		Rect:        n.Rect,
		State:       n.State,
		ParentID:    wire.Text(n.ParentID),
		ChildCount:  uint32(len(n.ChildIDs)),
		Live:        n.Live,
		Orientation: n.Orientation,
		Level:       n.Level,
		Min:         n.Min,
		Max:         n.Max,
		Current:     n.Current,
	}
}

// sameFloat treats two NaNs as equal so a NaN range value does not mark the
// node dirty on every re-render.
func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
