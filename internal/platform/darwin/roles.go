package darwin

import "github.com/mj1618/a11y-bridge/internal/wire"

// axRole is an NSAccessibility role and optional subrole.
type axRole struct {
	role    string
	subrole string
}

// axRoles maps every wire role to its AX role.
var axRoles = map[wire.Role]axRole{
	wire.RoleNone:         {"AXGroup", ""},
	wire.RoleWindow:       {"AXWindow", "AXStandardWindow"},
	wire.RoleRegion:       {"AXGroup", "AXLandmarkRegion"},
	wire.RoleGroup:        {"AXGroup", ""},
	wire.RoleButton:       {"AXButton", ""},
	wire.RoleCheckbox:     {"AXCheckBox", ""},
	wire.RoleRadio:        {"AXRadioButton", ""},
	wire.RoleTextbox:      {"AXTextField", ""},
	wire.RoleText:         {"AXStaticText", ""},
	wire.RoleHeading:      {"AXHeading", ""},
	wire.RoleLink:         {"AXLink", ""},
	wire.RoleImage:        {"AXImage", ""},
	wire.RoleList:         {"AXList", "AXContentList"},
	wire.RoleListItem:     {"AXGroup", "AXListItem"},
	wire.RoleTree:         {"AXOutline", ""},
	wire.RoleTreeItem:     {"AXRow", "AXOutlineRow"},
	wire.RoleTable:        {"AXTable", ""},
	wire.RoleRow:          {"AXRow", "AXTableRow"},
	wire.RoleCell:         {"AXCell", ""},
	wire.RoleColumnHeader: {"AXCell", "AXColumnHeader"},
	wire.RoleTab:          {"AXRadioButton", "AXTabButton"},
	wire.RoleTabList:      {"AXTabGroup", ""},
	wire.RoleTabPanel:     {"AXGroup", "AXTabPanel"},
	wire.RoleMenu:         {"AXMenu", ""},
	wire.RoleMenuBar:      {"AXMenuBar", ""},
	wire.RoleMenuItem:     {"AXMenuItem", ""},
	wire.RoleSlider:       {"AXSlider", ""},
	wire.RoleProgressBar:  {"AXProgressIndicator", ""},
	wire.RoleScrollBar:    {"AXScrollBar", ""},
	wire.RoleCombobox:     {"AXComboBox", ""},
	wire.RoleDialog:       {"AXWindow", "AXDialog"},
	wire.RoleAlert:        {"AXGroup", "AXApplicationAlert"},
	wire.RoleStatus:       {"AXGroup", "AXApplicationStatus"},
	wire.RoleToolbar:      {"AXToolbar", ""},
	wire.RoleTooltip:      {"AXHelpTag", ""},
	wire.RoleSeparator:    {"AXSplitter", ""},
	wire.RoleSwitch:       {"AXCheckBox", "AXSwitch"},
	wire.RoleDocument:     {"AXGroup", "AXDocument"},
	wire.RoleCustom:       {"AXUnknown", ""},
}

// Role returns the AX role for r.
func Role(r wire.Role) string {
	if ax, ok := axRoles[r]; ok {
		return ax.role
	}
	return "AXUnknown"
}

// Subrole returns the AX subrole for r, or "".
func Subrole(r wire.Role) string { return axRoles[r].subrole }

// axActions lists the AX actions a node exposes.
func axActions(r wire.Role, s wire.State) []string {
	var actions []string
	switch r {
	case wire.RoleButton, wire.RoleLink, wire.RoleMenuItem, wire.RoleCheckbox,
		wire.RoleSwitch, wire.RoleRadio, wire.RoleTab, wire.RoleListItem, wire.RoleRow:
		actions = append(actions, "AXPress")
	case wire.RoleSlider, wire.RoleScrollBar:
		actions = append(actions, "AXIncrement", "AXDecrement")
	case wire.RoleTextbox:
		actions = append(actions, "AXConfirm")
	case wire.RoleCombobox:
		actions = append(actions, "AXShowMenu")
	}
	if r == wire.RoleTreeItem || (r != wire.RoleCombobox && s.Has(wire.StateExpanded)) {
		actions = append(actions, "AXShowMenu")
	}
	return append(actions, "AXScrollToVisible")
}

// priorityLevel is NSAccessibilityPriorityLevel for an announcement.
func priorityLevel(p wire.Priority) int {
	if p == wire.PriorityAssertive {
		return 90
	}
	return 50
}
