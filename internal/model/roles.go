package model

import "github.com/mj1618/a11y-bridge/internal/wire"

// RoleMap maps wire roles to compact role codes used in display output.
var RoleMap = map[wire.Role]string{
	wire.RoleNone:         "none",
	wire.RoleWindow:       "window",
	wire.RoleRegion:       "region",
	wire.RoleGroup:        "group",
	wire.RoleButton:       "btn",
	wire.RoleCheckbox:     "chk",
	wire.RoleRadio:        "radio",
	wire.RoleTextbox:      "input",
	wire.RoleText:         "txt",
	wire.RoleHeading:      "heading",
	wire.RoleLink:         "lnk",
	wire.RoleImage:        "img",
	wire.RoleList:         "list",
	wire.RoleListItem:     "item",
	wire.RoleTree:         "tree",
	wire.RoleTreeItem:     "treeitem",
	wire.RoleTable:        "table",
	wire.RoleRow:          "row",
	wire.RoleCell:         "cell",
	wire.RoleColumnHeader: "colhdr",
	wire.RoleTab:          "tab",
	wire.RoleTabList:      "tabs",
	wire.RoleTabPanel:     "tabpanel",
	wire.RoleMenu:         "menu",
	wire.RoleMenuBar:      "menu",
	wire.RoleMenuItem:     "menuitem",
	wire.RoleSlider:       "slider",
	wire.RoleProgressBar:  "progress",
	wire.RoleScrollBar:    "scroll",
	wire.RoleCombobox:     "combo",
	wire.RoleDialog:       "dialog",
	wire.RoleAlert:        "alert",
	wire.RoleStatus:       "status",
	wire.RoleToolbar:      "toolbar",
	wire.RoleTooltip:      "tooltip",
	wire.RoleSeparator:    "sep",
	wire.RoleSwitch:       "toggle",
	wire.RoleDocument:     "doc",
	wire.RoleCustom:       "other",
}

// MetaRoles maps meta-role names to the concrete roles they expand to.
var MetaRoles = map[string][]string{
	"interactive": {"btn", "chk", "radio", "input", "lnk", "item", "treeitem", "tab", "menuitem", "slider", "combo", "toggle"},
	"container":   {"window", "region", "group", "list", "tree", "table", "tabs", "tabpanel", "menu", "toolbar", "dialog"},
}

// ExpandRoles expands any meta-roles in the given list to their concrete roles.
// Non-meta roles are passed through unchanged. Duplicates are removed.
func ExpandRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	var expanded []string
	for _, r := range roles {
		if concrete, ok := MetaRoles[r]; ok {
			for _, c := range concrete {
				if !seen[c] {
					seen[c] = true
					expanded = append(expanded, c)
				}
			}
		} else if !seen[r] {
			seen[r] = true
			expanded = append(expanded, r)
		}
	}
	return expanded
}

// MapRole converts a wire role to a compact code.
func MapRole(role wire.Role) string {
	if short, ok := RoleMap[role]; ok {
		return short
	}
	return "other"
}

// hasRange reports whether a role carries min/max/current values.
func hasRange(role wire.Role) bool {
	switch role {
	case wire.RoleSlider, wire.RoleProgressBar, wire.RoleScrollBar:
		return true
	}
	return false
}

// Actions returns the actions assistive technology may request on a node
// with the given role and state. Disabled nodes accept none.
func Actions(role wire.Role, state wire.State) []wire.ActionKind {
	if state.Has(wire.StateDisabled) {
		return nil
	}
	var actions []wire.ActionKind
	switch role {
	case wire.RoleButton, wire.RoleLink, wire.RoleMenuItem, wire.RoleTab:
		actions = append(actions, wire.ActionInvoke)
	case wire.RoleCheckbox, wire.RoleSwitch:
		actions = append(actions, wire.ActionToggle)
	case wire.RoleRadio, wire.RoleListItem, wire.RoleRow, wire.RoleCell:
		actions = append(actions, wire.ActionSelect)
	case wire.RoleTextbox:
		if !state.Has(wire.StateReadonly) {
			actions = append(actions, wire.ActionSetValue)
		}
	case wire.RoleSlider, wire.RoleScrollBar:
		if !state.Has(wire.StateReadonly) {
			actions = append(actions, wire.ActionSetValue, wire.ActionIncrement, wire.ActionDecrement)
		}
	case wire.RoleTreeItem, wire.RoleCombobox:
		actions = append(actions, wire.ActionExpand, wire.ActionCollapse, wire.ActionSelect)
	}
	if state.Has(wire.StateFocusable) {
		actions = append(actions, wire.ActionFocus)
	}
	return append(actions, wire.ActionScrollIntoView)
}

// ActionNames returns the names of Actions(role, state).
func ActionNames(role wire.Role, state wire.State) []string {
	kinds := Actions(role, state)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
