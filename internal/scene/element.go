package scene

import (
	"math"
	"strconv"

	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Element is one node of a scene. It implements mirror.Element,
// mirror.Identified and mirror.Actionable.
type Element struct {
	scene    *Scene
	parent   *Element
	children []*Element

	id   string
	snap mirror.Snapshot
	step float64

	// Presses counts handled invoke actions.
	Presses int
}

var (
	_ mirror.Element    = (*Element)(nil)
	_ mirror.Identified = (*Element)(nil)
	_ mirror.Actionable = (*Element)(nil)
)

func (e *Element) AccessibleID() string { return e.id }

// Accessible returns the element's state. The focused bit follows the
// scene's focus.
func (e *Element) Accessible() mirror.Snapshot {
	s := e.snap
	s.State = s.State.With(wire.StateFocused, e.scene.focus == e)
	return s
}

func (e *Element) Children() []mirror.Element {
	out := make([]mirror.Element, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// Snapshot returns the element's stored state without focus.
func (e *Element) Snapshot() mirror.Snapshot { return e.snap }

// PerformAction applies an assistive technology request to the scene.
func (e *Element) PerformAction(kind wire.ActionKind, value *string) bool {
	s := &e.snap
	if s.State.Has(wire.StateDisabled) {
		return false
	}
	switch kind {
	case wire.ActionInvoke:
		e.Presses++
	case wire.ActionFocus:
		e.scene.focus = e
	case wire.ActionToggle:
		s.State ^= wire.StateChecked
	case wire.ActionSetValue:
		if value == nil || s.State.Has(wire.StateReadonly) {
			return false
		}
		if isRange(s.Role) {
			f, err := strconv.ParseFloat(*value, 64)
			if err != nil {
				return false
			}
			s.Current = e.clamp(f)
			return true
		}
		s.Value = *value
	case wire.ActionExpand:
		s.State |= wire.StateExpanded
	case wire.ActionCollapse:
		s.State &^= wire.StateExpanded
	case wire.ActionSelect:
		e.selectExclusive()
	case wire.ActionIncrement, wire.ActionDecrement:
		if !isRange(s.Role) {
			return false
		}
		step := e.rangeStep()
		if kind == wire.ActionDecrement {
			step = -step
		}
		s.Current = e.clamp(s.Current + step)
	case wire.ActionScrollIntoView:
	default:
		return false
	}
	return true
}

// selectExclusive selects e and, unless the parent allows multiple
// selection, deselects its siblings.
func (e *Element) selectExclusive() {
	if p := e.parent; p != nil && !p.snap.State.Has(wire.StateMultiselectable) {
		for _, sib := range p.children {
			sib.snap.State &^= wire.StateSelected
		}
	}
	e.snap.State |= wire.StateSelected
}

func (e *Element) rangeStep() float64 {
	if e.step > 0 {
		return e.step
	}
	if span := e.snap.Max - e.snap.Min; span > 0 {
		return span / 10
	}
	return 1
}

func (e *Element) clamp(v float64) float64 {
	if e.snap.Max > e.snap.Min {
		return math.Min(math.Max(v, e.snap.Min), e.snap.Max)
	}
	return v
}

func isRange(r wire.Role) bool {
	switch r {
	case wire.RoleSlider, wire.RoleProgressBar, wire.RoleScrollBar:
		return true
	}
	return false
}
