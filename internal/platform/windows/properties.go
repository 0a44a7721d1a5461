package windows

import (
	"math"
	"slices"
	"strconv"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Metrics converts cell coordinates to screen pixels.
type Metrics struct {
	CellWidth  float64
	CellHeight float64
	OriginX    float64
	OriginY    float64
}

// DefaultMetrics matches an 8x16 pixel console font at the screen origin.
var DefaultMetrics = Metrics{CellWidth: 8, CellHeight: 16}

// bounds returns {left, top, width, height} in screen pixels.
func (m Metrics) bounds(r wire.Rect) []float64 {
	return []float64{
		m.OriginX + float64(r.X)*m.CellWidth,
		m.OriginY + float64(r.Y)*m.CellHeight,
		float64(r.Width) * m.CellWidth,
		float64(r.Height) * m.CellHeight,
	}
}

// watchedProperties are compared on every UpdateNode to decide which
// property-changed events to raise.
var watchedProperties = []int32{
	propName,
	propValueValue,
	propFullDescription,
	propHelpText,
	propControlType,
	propBoundingRectangle,
	propToggleState,
	propSelectionItemSelected,
	propExpandCollapseState,
	propIsEnabled,
	propIsKeyboardFocusable,
	propIsOffscreen,
	propItemStatus,
	propIsRequiredForForm,
	propIsDataValidForForm,
	propRangeValueValue,
	propRangeValueMinimum,
	propRangeValueMaximum,
	propHeadingLevel,
	propLiveSetting,
	propOrientation,
}

// propertyValue resolves one UIA property for n. The result is a string,
// int32, bool, float64, []float64 or nil when UIA should use its default.
func propertyValue(n *model.Node, id int32, m Metrics) any {
	disabled := n.State.Has(wire.StateDisabled)
	hidden := n.State.Has(wire.StateHidden)

	switch id {
	case propControlType:
		return ControlType(n.Role)
	case propLocalizedControlType:
		if s, ok := localizedTypes[n.Role]; ok {
			return s
		}
	case propAriaRole:
		if s := ariaRole(n.Role); s != "" {
			return s
		}
	case propName:
		return n.Name
	case propAutomationID:
		return n.ID
	case propClassName:
		return "A11yBridgeNode"
	case propFrameworkID:
		return frameworkID
	case propProviderDescription:
		return "a11y-bridge node provider"
	case propHelpText:
		return n.Hint
	case propFullDescription:
		return n.Description
	case propBoundingRectangle:
		return m.bounds(n.Rect)
	case propHasKeyboardFocus:
		return n.Focused()
	case propIsKeyboardFocusable:
		return n.State.Has(wire.StateFocusable) && !disabled
	case propIsEnabled:
		return !disabled
	case propIsControlElement:
		return !hidden
	case propIsContentElement:
		return !hidden && n.Role != wire.RoleNone && n.Role != wire.RoleSeparator
	case propIsOffscreen:
		return hidden || n.Rect.Width == 0 || n.Rect.Height == 0
	case propIsRequiredForForm:
		return n.State.Has(wire.StateRequired)
	case propIsDataValidForForm:
		return !n.State.Has(wire.StateInvalid)
	case propIsDialog:
		return n.Role == wire.RoleDialog || n.State.Has(wire.StateModal)
	case propItemStatus:
		if n.State.Has(wire.StateBusy) {
			return "busy"
		}
		return ""
	case propLiveSetting:
		return int32(n.Live)
	case propOrientation:
		return orientation(n)
	case propHeadingLevel:
		if n.Role == wire.RoleHeading && n.Level > 0 {
			return headingLevelNone + int32(n.Level)
		}
		return headingLevelNone
	case propValueValue:
		if hasPattern(n.Role, n.State, patValue) {
			return valueText(n)
		}
	case propValueIsReadOnly:
		if hasPattern(n.Role, n.State, patValue) {
			return readOnly(n)
		}
	case propRangeValueValue:
		if hasPattern(n.Role, n.State, patRangeValue) {
			return n.Current
		}
	case propRangeValueMinimum:
		if hasPattern(n.Role, n.State, patRangeValue) {
			return n.Min
		}
	case propRangeValueMaximum:
		if hasPattern(n.Role, n.State, patRangeValue) {
			return n.Max
		}
	case propRangeValueIsReadOnly:
		if hasPattern(n.Role, n.State, patRangeValue) {
			return readOnly(n)
		}
	case propToggleState:
		if hasPattern(n.Role, n.State, patToggle) {
			return toggleState(n)
		}
	case propExpandCollapseState:
		if hasPattern(n.Role, n.State, patExpandCollapse) {
			return expandState(n)
		}
	case propSelectionItemSelected:
		if hasPattern(n.Role, n.State, patSelectionItem) {
			return n.State.Has(wire.StateSelected)
		}
	}
	return nil
}

func valueText(n *model.Node) string {
	if n.Value != "" || !hasPattern(n.Role, n.State, patRangeValue) {
		return n.Value
	}
	return strconv.FormatFloat(n.Current, 'g', -1, 64)
}

func readOnly(n *model.Node) bool {
	return n.State.Has(wire.StateReadonly) || n.State.Has(wire.StateDisabled) || n.Role == wire.RoleProgressBar
}

func toggleState(n *model.Node) int32 {
	if n.State.Has(wire.StateChecked) || n.State.Has(wire.StatePressed) {
		return toggleOn
	}
	return toggleOff
}

func expandState(n *model.Node) int32 {
	switch {
	case n.State.Has(wire.StateExpanded):
		return stateExpanded
	case n.Role == wire.RoleTreeItem && len(n.ChildIDs) == 0:
		return stateLeafNode
	}
	return stateCollapsed
}

func orientation(n *model.Node) int32 {
	switch n.Role {
	case wire.RoleSlider, wire.RoleScrollBar, wire.RoleSeparator, wire.RoleToolbar,
		wire.RoleTabList, wire.RoleMenuBar, wire.RoleList, wire.RoleMenu:
		if n.Orientation == wire.OrientationVertical {
			return orientVertical
		}
		return orientHorizontal
	}
	return orientNone
}

// propertyChange is one UIA property whose value differs between two
// versions of a node.
type propertyChange struct {
	id       int32
	old, cur any
}

// diffProperties lists the watched properties that differ between prev and
// cur.
func diffProperties(prev, cur *model.Node, m Metrics) []propertyChange {
	var changes []propertyChange
	for _, id := range watchedProperties {
		a, b := propertyValue(prev, id, m), propertyValue(cur, id, m)
		if !sameValue(a, b) {
			changes = append(changes, propertyChange{id: id, old: a, cur: b})
		}
	}
	return changes
}

func sameValue(a, b any) bool {
	fa, okA := a.([]float64)
	fb, okB := b.([]float64)
	if okA || okB {
		return okA && okB && slices.Equal(fa, fb)
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok && math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
	}
	return a == b
}

// propertiesFor maps a wire property to the UIA properties that reflect it.
// PropChildren maps to none; it is reported as a structure change.
func propertiesFor(p wire.Property) []int32 {
	switch p {
	case wire.PropName:
		return []int32{propName}
	case wire.PropValue:
		return []int32{propValueValue}
	case wire.PropDescription:
		return []int32{propFullDescription}
	case wire.PropHint:
		return []int32{propHelpText}
	case wire.PropRole:
		return []int32{propControlType, propLocalizedControlType}
	case wire.PropBounds:
		return []int32{propBoundingRectangle}
	case wire.PropState:
		return []int32{propToggleState, propSelectionItemSelected, propExpandCollapseState,
			propIsEnabled, propIsOffscreen, propItemStatus, propIsRequiredForForm, propIsDataValidForForm}
	case wire.PropChecked:
		return []int32{propToggleState}
	case wire.PropSelected:
		return []int32{propSelectionItemSelected}
	case wire.PropExpanded:
		return []int32{propExpandCollapseState}
	case wire.PropDisabled:
		return []int32{propIsEnabled, propIsKeyboardFocusable}
	case wire.PropHidden:
		return []int32{propIsOffscreen}
	case wire.PropBusy:
		return []int32{propItemStatus}
	case wire.PropRangeValue:
		return []int32{propRangeValueValue, propValueValue}
	case wire.PropRangeMin:
		return []int32{propRangeValueMinimum}
	case wire.PropRangeMax:
		return []int32{propRangeValueMaximum}
	case wire.PropLevel:
		return []int32{propHeadingLevel}
	case wire.PropLive:
		return []int32{propLiveSetting}
	case wire.PropOrientation:
		return []int32{propOrientation}
	}
	return nil
}

// largeChange and smallChange are the RangeValue step sizes: a tenth and a
// hundredth of the span, never below 1.
func largeChange(min, max float64) float64 {
	return max1((max - min) / 10)
}

func smallChange(min, max float64) float64 {
	return max1((max - min) / 100)
}

func max1(v float64) float64 {
	if v < 1 || math.IsNaN(v) {
		return 1
	}
	return v
}
