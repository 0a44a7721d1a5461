package linux

import (
	"fmt"
	"strings"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Name is the registry name of the AT-SPI backend.
const Name = "linux"

// Event names on org.a11y.atspi.Event.Object and Event.Window.
const (
	sigChildrenChanged = "object:children-changed"
	sigStateChanged    = "object:state-changed"
	sigPropertyChange  = "object:property-change"
	sigBoundsChanged   = "object:bounds-changed"
	sigTextChanged     = "object:text-changed:insert"
	sigAttributes      = "object:attributes-changed"
	sigAnnouncement    = "object:announcement"
	sigWindowCreate    = "window:create"
	sigWindowDestroy   = "window:destroy"
)

type dialect struct{}

// Dialect returns the AT-SPI vocabulary used by the linux backend.
func Dialect() platform.Dialect { return dialect{} }

func (dialect) Name() string { return Name }

func (dialect) Role(r wire.Role) string { return RoleName(r) }

func childSignal(kind, parent string, index int, child string) platform.Signal {
	return platform.Signal{
		Name:   sigChildrenChanged + ":" + kind,
		NodeID: parent,
		Detail: fmt.Sprintf("%d %s", index, child),
	}
}

func (dialect) Added(n, parent *model.Node) []platform.Signal {
	if parent == nil {
		if n.ParentID == "" {
			return []platform.Signal{{Name: sigWindowCreate, NodeID: n.ID, Detail: RoleName(n.Role)}}
		}
		// Parent not mirrored yet; it will list n when it arrives.
		return nil
	}
	return []platform.Signal{childSignal("add", parent.ID, indexOf(parent, n.ID), n.ID)}
}

func (dialect) Removed(n model.Node) []platform.Signal {
	sigs := []platform.Signal{stateSignal(n.ID, "defunct", true)}
	if n.ParentID == "" {
		return append(sigs, platform.Signal{Name: sigWindowDestroy, NodeID: n.ID})
	}
	return append(sigs, childSignal("remove", n.ParentID, -1, n.ID))
}

func (dialect) Updated(prev model.Node, cur *model.Node, changed model.Field) []platform.Signal {
	var sigs []platform.Signal
	if changed&model.FieldName != 0 {
		sigs = append(sigs, propertySignal(cur.ID, "accessible-name", cur.Name))
	}
	if changed&model.FieldDescription != 0 {
		sigs = append(sigs, propertySignal(cur.ID, "accessible-description", cur.Description))
	}
	if changed&model.FieldHint != 0 {
		sigs = append(sigs, propertySignal(cur.ID, "accessible-help-text", cur.Hint))
	}
	if changed&model.FieldRole != 0 {
		sigs = append(sigs, propertySignal(cur.ID, "accessible-role", RoleName(cur.Role)))
	}
	if changed&model.FieldValue != 0 {
		sigs = append(sigs, valueSignal(cur))
	}
	if changed&model.FieldRange != 0 {
		sigs = append(sigs, propertySignal(cur.ID, "accessible-value", formatFloat(cur.Current)))
	}
	if changed&model.FieldRect != 0 {
		r := cur.Rect
		sigs = append(sigs, platform.Signal{
			Name:   sigBoundsChanged,
			NodeID: cur.ID,
			Detail: fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height),
		})
	}
	if changed&model.FieldState != 0 {
		sigs = append(sigs, stateDiff(cur.ID, prev.State, cur.State)...)
	}
	if changed&model.FieldOrientation != 0 {
		sigs = append(sigs, stateSignal(cur.ID, "vertical", cur.Orientation == wire.OrientationVertical))
	}
	if changed&(model.FieldLevel|model.FieldLive) != 0 {
		sigs = append(sigs, platform.Signal{Name: sigAttributes, NodeID: cur.ID, Detail: attributes(cur)})
	}
	if changed&model.FieldParent != 0 {
		if prev.ParentID != "" {
			sigs = append(sigs, childSignal("remove", prev.ParentID, -1, cur.ID))
		}
		if cur.ParentID != "" {
			sigs = append(sigs, childSignal("add", cur.ParentID, -1, cur.ID))
		}
		sigs = append(sigs, propertySignal(cur.ID, "accessible-parent", cur.ParentID))
	}
	if cur.Live != wire.LiveOff && changed&(model.FieldName|model.FieldValue) != 0 {
		sigs = append(sigs, announcement(cur.ID, liveText(cur), cur.Live))
	}
	return sigs
}

func (dialect) FocusChanged(prev, cur *model.Node) []platform.Signal {
	var sigs []platform.Signal
	if prev != nil {
		sigs = append(sigs, stateSignal(prev.ID, "focused", false))
	}
	if cur != nil {
		sigs = append(sigs, stateSignal(cur.ID, "focused", true))
	}
	return sigs
}

func (dialect) PropertyChanged(n *model.Node, p wire.Property) []platform.Signal {
	switch p {
	case wire.PropName:
		return []platform.Signal{propertySignal(n.ID, "accessible-name", n.Name)}
	case wire.PropDescription:
		return []platform.Signal{propertySignal(n.ID, "accessible-description", n.Description)}
	case wire.PropHint:
		return []platform.Signal{propertySignal(n.ID, "accessible-help-text", n.Hint)}
	case wire.PropRole:
		return []platform.Signal{propertySignal(n.ID, "accessible-role", RoleName(n.Role))}
	case wire.PropValue:
		return []platform.Signal{valueSignal(n)}
	case wire.PropRangeValue, wire.PropRangeMin, wire.PropRangeMax:
		return []platform.Signal{propertySignal(n.ID, "accessible-value", formatFloat(n.Current))}
	case wire.PropBounds:
		return []platform.Signal{{Name: sigBoundsChanged, NodeID: n.ID}}
	case wire.PropChildren:
		return []platform.Signal{{Name: sigChildrenChanged, NodeID: n.ID, Detail: fmt.Sprint(len(n.ChildIDs))}}
	case wire.PropLevel, wire.PropLive:
		return []platform.Signal{{Name: sigAttributes, NodeID: n.ID, Detail: attributes(n)}}
	case wire.PropOrientation:
		return []platform.Signal{stateSignal(n.ID, "vertical", n.Orientation == wire.OrientationVertical)}
	case wire.PropState:
		return stateDiff(n.ID, ^n.State&stateMask(), n.State)
	}
	if bit, ok := propertyState[p]; ok {
		return stateDiff(n.ID, n.State^bit, n.State)
	}
	return nil
}

// propertyState maps single-flag properties to their state bit.
var propertyState = map[wire.Property]wire.State{
	wire.PropChecked:  wire.StateChecked,
	wire.PropSelected: wire.StateSelected,
	wire.PropExpanded: wire.StateExpanded,
	wire.PropDisabled: wire.StateDisabled,
	wire.PropHidden:   wire.StateHidden,
	wire.PropBusy:     wire.StateBusy,
}

func stateMask() wire.State {
	var m wire.State
	for _, s := range atspiStates {
		m |= s.bit
	}
	return m
}

func (dialect) Announcement(root *model.Node, msg string, priority wire.Priority) []platform.Signal {
	id := ""
	if root != nil {
		id = root.ID
	}
	return []platform.Signal{announcement(id, msg, priority)}
}

func (dialect) Actions(n *model.Node) []string { return actionNames(n.Role, n.State) }

func (dialect) Action(n *model.Node, native string) (wire.ActionKind, bool) {
	switch strings.ToLower(native) {
	case "click", "press", "activate", "jump":
		return wire.ActionInvoke, true
	case "toggle":
		return wire.ActionToggle, true
	case "expand or contract":
		if n.State.Has(wire.StateExpanded) {
			return wire.ActionCollapse, true
		}
		return wire.ActionExpand, true
	case "grab-focus":
		return wire.ActionFocus, true
	case "scroll-to":
		return wire.ActionScrollIntoView, true
	case "select-child", "select":
		return wire.ActionSelect, true
	case "set-current-value", "set-text-contents":
		return wire.ActionSetValue, true
	}
	return 0, false
}

func propertySignal(id, property, value string) platform.Signal {
	return platform.Signal{Name: sigPropertyChange + ":" + property, NodeID: id, Detail: value}
}

func stateSignal(id, state string, on bool) platform.Signal {
	detail := "0"
	if on {
		detail = "1"
	}
	return platform.Signal{Name: sigStateChanged + ":" + state, NodeID: id, Detail: detail}
}

// stateDiff emits one state-changed signal per AT-SPI state whose wire bit
// differs between prev and cur. The focused bit is owned by FocusChanged.
func stateDiff(id string, prev, cur wire.State) []platform.Signal {
	var sigs []platform.Signal
	for _, s := range atspiStates {
		if s.bit == wire.StateFocused || prev.Has(s.bit) == cur.Has(s.bit) {
			continue
		}
		sigs = append(sigs, stateSignal(id, s.name, cur.Has(s.bit) != s.inverted))
	}
	return sigs
}

func valueSignal(n *model.Node) platform.Signal {
	if n.Role == wire.RoleTextbox {
		return platform.Signal{Name: sigTextChanged, NodeID: n.ID, Detail: n.Value}
	}
	return propertySignal(n.ID, "accessible-value", n.Value)
}

func announcement(id, msg string, priority wire.Priority) platform.Signal {
	return platform.Signal{Name: sigAnnouncement, NodeID: id, Detail: fmt.Sprintf("%s (%s)", msg, priority)}
}

func liveText(n *model.Node) string {
	if n.Value != "" {
		return n.Value
	}
	return n.Name
}

func attributes(n *model.Node) string {
	var attrs []string
	if n.Level > 0 {
		attrs = append(attrs, fmt.Sprintf("level:%d", n.Level))
	}
	if n.Live != wire.LiveOff {
		attrs = append(attrs, "live:"+n.Live.String())
	}
	return strings.Join(attrs, ";")
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}

func indexOf(parent *model.Node, id string) int {
	for i, c := range parent.ChildIDs {
		if c == id {
			return i
		}
	}
	return -1
}
