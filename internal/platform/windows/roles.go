package windows

import "github.com/mj1618/a11y-bridge/internal/wire"

// controlTypes maps every wire role to a UIA control type. Roles without a
// native equivalent fall back to Group or Custom.
var controlTypes = map[wire.Role]int32{
	wire.RoleNone:         ctPane,
	wire.RoleWindow:       ctWindow,
	wire.RoleRegion:       ctPane,
	wire.RoleGroup:        ctGroup,
	wire.RoleButton:       ctButton,
	wire.RoleCheckbox:     ctCheckBox,
	wire.RoleRadio:        ctRadioButton,
	wire.RoleTextbox:      ctEdit,
	wire.RoleText:         ctText,
	wire.RoleHeading:      ctText,
	wire.RoleLink:         ctHyperlink,
	wire.RoleImage:        ctImage,
	wire.RoleList:         ctList,
	wire.RoleListItem:     ctListItem,
	wire.RoleTree:         ctTree,
	wire.RoleTreeItem:     ctTreeItem,
	wire.RoleTable:        ctTable,
	wire.RoleRow:          ctDataItem,
	wire.RoleCell:         ctDataItem,
	wire.RoleColumnHeader: ctHeaderItem,
	wire.RoleTab:          ctTabItem,
	wire.RoleTabList:      ctTab,
	wire.RoleTabPanel:     ctPane,
	wire.RoleMenu:         ctMenu,
	wire.RoleMenuBar:      ctMenuBar,
	wire.RoleMenuItem:     ctMenuItem,
	wire.RoleSlider:       ctSlider,
	wire.RoleProgressBar:  ctProgressBar,
	wire.RoleScrollBar:    ctScrollBar,
	wire.RoleCombobox:     ctComboBox,
	wire.RoleDialog:       ctWindow,
	wire.RoleAlert:        ctText,
	wire.RoleStatus:       ctStatusBar,
	wire.RoleToolbar:      ctToolBar,
	wire.RoleTooltip:      ctToolTip,
	wire.RoleSeparator:    ctSeparator,
	wire.RoleSwitch:       ctButton,
	wire.RoleDocument:     ctDocument,
	wire.RoleCustom:       ctCustom,
}

// localizedTypes overrides the localized control type where the control type
// alone loses meaning.
var localizedTypes = map[wire.Role]string{
	wire.RoleHeading: "heading",
	wire.RoleDialog:  "dialog",
	wire.RoleAlert:   "alert",
	wire.RoleSwitch:  "toggle switch",
	wire.RoleRow:     "row",
	wire.RoleCell:    "cell",
	wire.RoleRegion:  "region",
}

// ControlType returns the UIA control type for role.
func ControlType(role wire.Role) int32 {
	if ct, ok := controlTypes[role]; ok {
		return ct
	}
	return ctCustom
}

// ariaRole lets UIA clients recover the precise role when the control type
// is shared.
func ariaRole(role wire.Role) string {
	switch role {
	case wire.RoleSwitch:
		return "switch"
	case wire.RoleRegion:
		return "region"
	case wire.RoleAlert:
		return "alert"
	case wire.RoleHeading:
		return "heading"
	case wire.RoleDialog:
		return "dialog"
	}
	return ""
}

// patterns returns the control patterns a node with role and state exposes.
func patterns(role wire.Role, state wire.State) []int32 {
	var ps []int32
	switch role {
	case wire.RoleButton, wire.RoleLink, wire.RoleMenuItem:
		ps = append(ps, patInvoke)
	case wire.RoleCheckbox, wire.RoleSwitch:
		ps = append(ps, patToggle)
	case wire.RoleRadio, wire.RoleListItem, wire.RoleTab, wire.RoleRow, wire.RoleCell:
		ps = append(ps, patSelectionItem)
	case wire.RoleTextbox:
		ps = append(ps, patValue)
	case wire.RoleSlider, wire.RoleScrollBar, wire.RoleProgressBar:
		ps = append(ps, patRangeValue, patValue)
	case wire.RoleTreeItem:
		ps = append(ps, patExpandCollapse, patSelectionItem)
	case wire.RoleCombobox:
		ps = append(ps, patExpandCollapse, patValue)
	}
	if role == wire.RoleMenuItem && state.Has(wire.StateExpanded) {
		ps = append(ps, patExpandCollapse)
	}
	return append(ps, patScrollItem)
}

func hasPattern(role wire.Role, state wire.State, id int32) bool {
	for _, p := range patterns(role, state) {
		if p == id {
			return true
		}
	}
	return false
}
