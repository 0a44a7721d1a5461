package wire

import (
	"strings"

	"github.com/mj1618/a11y-bridge/internal/errors"
)

// Role is the accessible semantic of a node.
type Role uint32

const (
	RoleNone Role = iota
	RoleWindow
	RoleRegion
	RoleGroup
	RoleButton
	RoleCheckbox
	RoleRadio
	RoleTextbox
	RoleText
	RoleHeading
	RoleLink
	RoleImage
	RoleList
	RoleListItem
	RoleTree
	RoleTreeItem
	RoleTable
	RoleRow
	RoleCell
	RoleColumnHeader
	RoleTab
	RoleTabList
	RoleTabPanel
	RoleMenu
	RoleMenuBar
	RoleMenuItem
	RoleSlider
	RoleProgressBar
	RoleScrollBar
	RoleCombobox
	RoleDialog
	RoleAlert
	RoleStatus
	RoleToolbar
	RoleTooltip
	RoleSeparator
	RoleSwitch
	RoleDocument
	RoleCustom

	roleCount
)

var roleNames = [roleCount]string{
	RoleNone:         "none",
	RoleWindow:       "window",
	RoleRegion:       "region",
	RoleGroup:        "group",
	RoleButton:       "button",
	RoleCheckbox:     "checkbox",
	RoleRadio:        "radio",
	RoleTextbox:      "textbox",
	RoleText:         "text",
	RoleHeading:      "heading",
	RoleLink:         "link",
	RoleImage:        "image",
	RoleList:         "list",
	RoleListItem:     "listitem",
	RoleTree:         "tree",
	RoleTreeItem:     "treeitem",
	RoleTable:        "table",
	RoleRow:          "row",
	RoleCell:         "cell",
	RoleColumnHeader: "columnheader",
	RoleTab:          "tab",
	RoleTabList:      "tablist",
	RoleTabPanel:     "tabpanel",
	RoleMenu:         "menu",
	RoleMenuBar:      "menubar",
	RoleMenuItem:     "menuitem",
	RoleSlider:       "slider",
	RoleProgressBar:  "progressbar",
	RoleScrollBar:    "scrollbar",
	RoleCombobox:     "combobox",
	RoleDialog:       "dialog",
	RoleAlert:        "alert",
	RoleStatus:       "status",
	RoleToolbar:      "toolbar",
	RoleTooltip:      "tooltip",
	RoleSeparator:    "separator",
	RoleSwitch:       "switch",
	RoleDocument:     "document",
	RoleCustom:       "custom",
}

// Roles returns every defined role in enum order.
func Roles() []Role {
	roles := make([]Role, roleCount)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}

func (r Role) Valid() bool { return r < roleCount }

func (r Role) String() string {
	if !r.Valid() {
		return "custom"
	}
	return roleNames[r]
}

// ParseRole converts a role name to a Role. Unknown names map to RoleCustom
// with ok=false.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roleNames {
		if name == s {
			return Role(i), true
		}
	}
	return RoleCustom, false
}

// State is the packed state bitset of a node.
type State uint32

const (
	StateChecked State = 1 << iota
	StateSelected
	StateExpanded
	StateDisabled
	StateReadonly
	StateRequired
	StateInvalid
	StatePressed
	StateFocusable
	StateFocused
	StateHidden
	StateBusy
	StateModal
	StateMultiselectable

	stateMask = StateMultiselectable<<1 - 1
)

var stateNames = []struct {
	bit  State
	name string
}{
	{StateChecked, "checked"},
	{StateSelected, "selected"},
	{StateExpanded, "expanded"},
	{StateDisabled, "disabled"},
	{StateReadonly, "readonly"},
	{StateRequired, "required"},
	{StateInvalid, "invalid"},
	{StatePressed, "pressed"},
	{StateFocusable, "focusable"},
	{StateFocused, "focused"},
	{StateHidden, "hidden"},
	{StateBusy, "busy"},
	{StateModal, "modal"},
	{StateMultiselectable, "multiselectable"},
}

// Has reports whether every bit in flag is set.
func (s State) Has(flag State) bool { return s&flag == flag }

// With returns s with flag set or cleared.
func (s State) With(flag State, on bool) State {
	if on {
		return s | flag
	}
	return s &^ flag
}

func (s State) Valid() bool { return s&^stateMask == 0 }

// Names lists the set flags in bit order.
func (s State) Names() []string {
	var names []string
	for _, sn := range stateNames {
		if s.Has(sn.bit) {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s State) String() string { return strings.Join(s.Names(), "|") }

// ParseState builds a State from flag names.
func ParseState(names []string) (State, error) {
	var s State
outer:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for _, sn := range stateNames {
			if sn.name == n {
				s |= sn.bit
				continue outer
			}
		}
		return 0, errors.InvalidEnum(errors.OpDecode, n, "state")
	}
	return s, nil
}

// Live is the announcement urgency of a live region.
type Live uint8

const (
	LiveOff Live = iota
	LivePolite
	LiveAssertive
)

func (l Live) Valid() bool { return l <= LiveAssertive }

func (l Live) String() string {
	switch l {
	case LivePolite:
		return "polite"
	case LiveAssertive:
		return "assertive"
	default:
		return "off"
	}
}

// ParseLive converts "off", "polite" or "assertive" to a Live value.
func ParseLive(s string) (Live, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LiveOff, nil
	case "polite":
		return LivePolite, nil
	case "assertive":
		return LiveAssertive, nil
	default:
		return LiveOff, errors.InvalidEnum(errors.OpDecode, s, "live")
	}
}

// Priority is the urgency of an announcement. It shares Live's encoding.
type Priority = Live

const (
	PriorityOff       = LiveOff
	PriorityPolite    = LivePolite
	PriorityAssertive = LiveAssertive
)

// Orientation applies to sliders, scrollbars and similar controls.
type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

func (o Orientation) Valid() bool { return o <= OrientationVertical }

func (o Orientation) String() string {
	if o == OrientationVertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation converts "horizontal" or "vertical" to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal":
		return OrientationHorizontal, nil
	case "vertical":
		return OrientationVertical, nil
	default:
		return OrientationHorizontal, errors.InvalidEnum(errors.OpDecode, s, "orientation")
	}
}

// Property identifies which field of a node changed in a notification.
type Property uint32

const (
	PropName Property = iota
	PropValue
	PropDescription
	PropHint
	PropRole
	PropBounds
	PropState
	PropChecked
	PropSelected
	PropExpanded
	PropDisabled
	PropHidden
	PropBusy
	PropRangeValue
	PropRangeMin
	PropRangeMax
	PropLevel
	PropLive
	PropOrientation
	PropChildren

	propertyCount
)

var propertyNames = [propertyCount]string{
	PropName:        "name",
	PropValue:       "value",
	PropDescription: "description",
	PropHint:        "hint",
	PropRole:        "role",
	PropBounds:      "bounds",
	PropState:       "state",
	PropChecked:     "checked",
	PropSelected:    "selected",
	PropExpanded:    "expanded",
	PropDisabled:    "disabled",
	PropHidden:      "hidden",
	PropBusy:        "busy",
	PropRangeValue:  "current",
	PropRangeMin:    "min",
	PropRangeMax:    "max",
	PropLevel:       "level",
	PropLive:        "live",
	PropOrientation: "orientation",
	PropChildren:    "children",
}

// propertyAliases are the additional logical names UI code uses.
var propertyAliases = map[string]Property{
	"label":    PropName,
	"title":    PropName,
	"text":     PropValue,
	"rect":     PropBounds,
	"position": PropBounds,
	"size":     PropBounds,
	"pressed":  PropState,
	"readonly": PropState,
	"required": PropState,
	"invalid":  PropState,
	"focused":  PropState,
	"modal":    PropState,
	"progress": PropRangeValue,
	"range":    PropRangeValue,
	"minimum":  PropRangeMin,
	"maximum":  PropRangeMax,
	"visible":  PropHidden,
	"enabled":  PropDisabled,
}

func (p Property) Valid() bool { return p < propertyCount }

func (p Property) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return propertyNames[p]
}

// ParseProperty maps a logical property name to its Property.
func ParseProperty(s string) (Property, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range propertyNames {
		if name == s {
			return Property(i), true
		}
	}
	p, ok := propertyAliases[s]
	return p, ok
}

// ActionKind is an action assistive technology can request on a node.
type ActionKind uint32

const (
	ActionInvoke ActionKind = iota
	ActionFocus
	ActionSetValue
	ActionToggle
	ActionExpand
	ActionCollapse
	ActionSelect
	ActionScrollIntoView
	ActionIncrement
	ActionDecrement

	actionCount
)

var actionNames = [actionCount]string{
	ActionInvoke:         "invoke",
	ActionFocus:          "focus",
	ActionSetValue:       "set-value",
	ActionToggle:         "toggle",
	ActionExpand:         "expand",
	ActionCollapse:       "collapse",
	ActionSelect:         "select",
	ActionScrollIntoView: "scroll-into-view",
	ActionIncrement:      "increment",
	ActionDecrement:      "decrement",
}

func (a ActionKind) Valid() bool { return a < actionCount }

func (a ActionKind) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction converts an action name to an ActionKind. Case, dashes and
// underscores are ignored, so "setValue", "set_value" and "set-value" are
// equivalent. "press" and "click" are accepted for invoke.
func ParseAction(s string) (ActionKind, bool) {
	norm := normalizeActionName(s)
	switch norm {
	case "press", "click", "activate":
		return ActionInvoke, true
	}
	for i, name := range actionNames {
		if normalizeActionName(name) == norm {
			return ActionKind(i), true
		}
	}
	return 0, false
}

func normalizeActionName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}
