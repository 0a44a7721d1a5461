package linux

import "github.com/mj1618/a11y-bridge/internal/wire"

// atspiRoles maps every wire role to an AT-SPI role name as returned by
// Accessible.GetRoleName.
var atspiRoles = map[wire.Role]string{
	wire.RoleNone:         "filler",
	wire.RoleWindow:       "frame",
	wire.RoleRegion:       "landmark",
	wire.RoleGroup:        "panel",
	wire.RoleButton:       "push button",
	wire.RoleCheckbox:     "check box",
	wire.RoleRadio:        "radio button",
	wire.RoleTextbox:      "entry",
	wire.RoleText:         "label",
	wire.RoleHeading:      "heading",
	wire.RoleLink:         "link",
	wire.RoleImage:        "image",
	wire.RoleList:         "list",
	wire.RoleListItem:     "list item",
	wire.RoleTree:         "tree",
	wire.RoleTreeItem:     "tree item",
	wire.RoleTable:        "table",
	wire.RoleRow:          "table row",
	wire.RoleCell:         "table cell",
	wire.RoleColumnHeader: "column header",
	wire.RoleTab:          "page tab",
	wire.RoleTabList:      "page tab list",
	wire.RoleTabPanel:     "scroll pane",
	wire.RoleMenu:         "menu",
	wire.RoleMenuBar:      "menu bar",
	wire.RoleMenuItem:     "menu item",
	wire.RoleSlider:       "slider",
	wire.RoleProgressBar:  "progress bar",
	wire.RoleScrollBar:    "scroll bar",
	wire.RoleCombobox:     "combo box",
	wire.RoleDialog:       "dialog",
	wire.RoleAlert:        "notification",
	wire.RoleStatus:       "status bar",
	wire.RoleToolbar:      "tool bar",
	wire.RoleTooltip:      "tool tip",
	wire.RoleSeparator:    "separator",
	wire.RoleSwitch:       "toggle button",
	wire.RoleDocument:     "document frame",
	wire.RoleCustom:       "unknown",
}

// RoleName returns the AT-SPI role name for r.
func RoleName(r wire.Role) string {
	if name, ok := atspiRoles[r]; ok {
		return name
	}
	return "unknown"
}

// atspiStates names the AT-SPI state each wire state bit drives. Disabled
// and hidden are reported through their positive counterparts.
var atspiStates = []struct {
	bit      wire.State
	name     string
	inverted bool
}{
	{wire.StateChecked, "checked", false},
	{wire.StateSelected, "selected", false},
	{wire.StateExpanded, "expanded", false},
	{wire.StateDisabled, "enabled", true},
	{wire.StateReadonly, "read-only", false},
	{wire.StateRequired, "required", false},
	{wire.StateInvalid, "invalid-entry", false},
	{wire.StatePressed, "pressed", false},
	{wire.StateFocusable, "focusable", false},
	{wire.StateFocused, "focused", false},
	{wire.StateHidden, "showing", true},
	{wire.StateBusy, "busy", false},
	{wire.StateModal, "modal", false},
	{wire.StateMultiselectable, "multiselectable", false},
}

// actionNames are the Action interface names a role exposes.
func actionNames(r wire.Role, s wire.State) []string {
	var names []string
	switch r {
	case wire.RoleButton, wire.RoleLink, wire.RoleMenuItem, wire.RoleRadio, wire.RoleTab:
		names = append(names, "click")
	case wire.RoleCheckbox, wire.RoleSwitch:
		names = append(names, "toggle")
	case wire.RoleTextbox:
		names = append(names, "activate")
	case wire.RoleTreeItem, wire.RoleCombobox:
		names = append(names, "expand or contract")
	}
	if s.Has(wire.StateFocusable) {
		names = append(names, "grab-focus")
	}
	return names
}
