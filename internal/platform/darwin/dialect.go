package darwin

import (
	"fmt"
	"strings"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Name is the registry name of the NSAccessibility backend.
const Name = "darwin"

// NSAccessibility notification names.
const (
	notifyCreated          = "AXCreated"
	notifyDestroyed        = "AXUIElementDestroyed"
	notifyFocusChanged     = "AXFocusedUIElementChanged"
	notifyValueChanged     = "AXValueChanged"
	notifyTitleChanged     = "AXTitleChanged"
	notifyLayoutChanged    = "AXLayoutChanged"
	notifyMoved            = "AXMoved"
	notifyResized          = "AXResized"
	notifySelectedChildren = "AXSelectedChildrenChanged"
	notifyRowExpanded      = "AXRowExpanded"
	notifyRowCollapsed     = "AXRowCollapsed"
	notifyBusyChanged      = "AXElementBusyChanged"
	notifyAnnouncement     = "AXAnnouncementRequested"
)

type dialect struct{}

// Dialect returns the NSAccessibility vocabulary used by the darwin backend.
func Dialect() platform.Dialect { return dialect{} }

func (dialect) Name() string { return Name }

func (dialect) Role(r wire.Role) string { return Role(r) }

func (dialect) Added(n, parent *model.Node) []platform.Signal {
	sigs := []platform.Signal{{Name: notifyCreated, NodeID: n.ID, Detail: axDetail(n.Role)}}
	if parent != nil {
		sigs = append(sigs, platform.Signal{Name: notifyLayoutChanged, NodeID: parent.ID})
	}
	return sigs
}

func (dialect) Removed(n model.Node) []platform.Signal {
	sigs := []platform.Signal{{Name: notifyDestroyed, NodeID: n.ID}}
	if n.ParentID != "" {
		sigs = append(sigs, platform.Signal{Name: notifyLayoutChanged, NodeID: n.ParentID})
	}
	return sigs
}

func (dialect) Updated(prev model.Node, cur *model.Node, changed model.Field) []platform.Signal {
	var sigs []platform.Signal
	add := func(name, detail string) {
		sigs = append(sigs, platform.Signal{Name: name, NodeID: cur.ID, Detail: detail})
	}
	if changed&model.FieldName != 0 {
		add(notifyTitleChanged, cur.Name)
	}
	if changed&(model.FieldValue|model.FieldRange) != 0 {
		add(notifyValueChanged, axValue(cur))
	}
	if changed&(model.FieldRole|model.FieldDescription|model.FieldHint|model.FieldLevel|model.FieldOrientation) != 0 {
		add(notifyLayoutChanged, "")
	}
	if changed&model.FieldRect != 0 {
		if prev.Rect.X != cur.Rect.X || prev.Rect.Y != cur.Rect.Y {
			add(notifyMoved, "")
		}
		if prev.Rect.Width != cur.Rect.Width || prev.Rect.Height != cur.Rect.Height {
			add(notifyResized, "")
		}
	}
	if changed&model.FieldState != 0 {
		sigs = append(sigs, stateNotifications(prev, cur)...)
	}
	if changed&model.FieldParent != 0 {
		if prev.ParentID != "" {
			sigs = append(sigs, platform.Signal{Name: notifyLayoutChanged, NodeID: prev.ParentID})
		}
		if cur.ParentID != "" {
			sigs = append(sigs, platform.Signal{Name: notifyLayoutChanged, NodeID: cur.ParentID})
		}
	}
	if cur.Live != wire.LiveOff && changed&(model.FieldName|model.FieldValue) != 0 {
		text := cur.Value
		if text == "" {
			text = cur.Name
		}
		sigs = append(sigs, announcement(cur.ID, text, cur.Live))
	}
	return sigs
}

func stateNotifications(prev model.Node, cur *model.Node) []platform.Signal {
	var sigs []platform.Signal
	flipped := prev.State ^ cur.State
	add := func(name string, id string) {
		sigs = append(sigs, platform.Signal{Name: name, NodeID: id})
	}
	if flipped&(wire.StateChecked|wire.StatePressed) != 0 {
		add(notifyValueChanged, cur.ID)
	}
	if flipped&wire.StateSelected != 0 {
		// Selection is observed on the container.
		id := cur.ParentID
		if id == "" {
			id = cur.ID
		}
		add(notifySelectedChildren, id)
	}
	if flipped&wire.StateExpanded != 0 {
		if cur.State.Has(wire.StateExpanded) {
			add(notifyRowExpanded, cur.ID)
		} else {
			add(notifyRowCollapsed, cur.ID)
		}
	}
	if flipped&wire.StateBusy != 0 {
		add(notifyBusyChanged, cur.ID)
	}
	if flipped&(wire.StateDisabled|wire.StateHidden|wire.StateReadonly|wire.StateRequired|wire.StateInvalid) != 0 {
		add(notifyLayoutChanged, cur.ID)
	}
	return sigs
}

func (dialect) FocusChanged(_, cur *model.Node) []platform.Signal {
	if cur == nil {
		return nil
	}
	return []platform.Signal{{Name: notifyFocusChanged, NodeID: cur.ID}}
}

func (dialect) PropertyChanged(n *model.Node, p wire.Property) []platform.Signal {
	name := notifyLayoutChanged
	detail := ""
	switch p {
	case wire.PropName:
		name, detail = notifyTitleChanged, n.Name
	case wire.PropValue, wire.PropRangeValue, wire.PropRangeMin, wire.PropRangeMax, wire.PropChecked:
		name, detail = notifyValueChanged, axValue(n)
	case wire.PropSelected:
		return []platform.Signal{{Name: notifySelectedChildren, NodeID: n.ParentID}}
	case wire.PropExpanded:
		name = notifyRowCollapsed
		if n.State.Has(wire.StateExpanded) {
			name = notifyRowExpanded
		}
	case wire.PropBusy:
		name = notifyBusyChanged
	case wire.PropBounds:
		return []platform.Signal{{Name: notifyMoved, NodeID: n.ID}, {Name: notifyResized, NodeID: n.ID}}
	}
	return []platform.Signal{{Name: name, NodeID: n.ID, Detail: detail}}
}

func (dialect) Announcement(_ *model.Node, msg string, priority wire.Priority) []platform.Signal {
	// Announcements are posted on the application element.
	return []platform.Signal{announcement("", msg, priority)}
}

func (dialect) Actions(n *model.Node) []string { return axActions(n.Role, n.State) }

func (dialect) Action(n *model.Node, native string) (wire.ActionKind, bool) {
	switch strings.ToLower(strings.TrimPrefix(native, "AX")) {
	case "press", "pick", "confirm":
		if n.Role == wire.RoleCheckbox || n.Role == wire.RoleSwitch {
			return wire.ActionToggle, true
		}
		if n.Role == wire.RoleListItem || n.Role == wire.RoleRow || n.Role == wire.RoleTab {
			return wire.ActionSelect, true
		}
		return wire.ActionInvoke, true
	case "increment":
		return wire.ActionIncrement, true
	case "decrement":
		return wire.ActionDecrement, true
	case "showmenu":
		if n.State.Has(wire.StateExpanded) {
			return wire.ActionCollapse, true
		}
		return wire.ActionExpand, true
	case "scrolltovisible":
		return wire.ActionScrollIntoView, true
	case "focused":
		return wire.ActionFocus, true
	case "value":
		return wire.ActionSetValue, true
	}
	return 0, false
}

func axDetail(r wire.Role) string {
	if sub := Subrole(r); sub != "" {
		return Role(r) + "/" + sub
	}
	return Role(r)
}

// axValue renders AXValue: the check state for toggles, the number for
// range controls, otherwise the text value.
func axValue(n *model.Node) string {
	switch n.Role {
	case wire.RoleCheckbox, wire.RoleSwitch, wire.RoleRadio:
		if n.State.Has(wire.StateChecked) || n.State.Has(wire.StatePressed) {
			return "1"
		}
		return "0"
	case wire.RoleSlider, wire.RoleProgressBar, wire.RoleScrollBar:
		if n.Value == "" {
			return fmt.Sprintf("%g", n.Current)
		}
	}
	return n.Value
}

func announcement(id, msg string, priority wire.Priority) platform.Signal {
	return platform.Signal{
		Name:   notifyAnnouncement,
		NodeID: id,
		Detail: fmt.Sprintf("%s (priority %d)", msg, priorityLevel(priority)),
	}
}
