package darwin

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

func TestRoleTableIsTotal(t *testing.T) {
	for _, r := range wire.Roles() {
		if ax, ok := axRoles[r]; !ok || ax.role == "" {
			t.Errorf("no AX role for %s", r)
		}
	}
	if Role(wire.RoleSwitch) != "AXCheckBox" || Subrole(wire.RoleSwitch) != "AXSwitch" {
		t.Error("switch")
	}
}

func TestDialect_Action(t *testing.T) {
	tests := []struct {
		role   wire.Role
		state  wire.State
		native string
		want   wire.ActionKind
	}{
		{wire.RoleButton, 0, "AXPress", wire.ActionInvoke},
		{wire.RoleCheckbox, 0, "AXPress", wire.ActionToggle},
		{wire.RoleListItem, 0, "AXPress", wire.ActionSelect},
		{wire.RoleSlider, 0, "AXIncrement", wire.ActionIncrement},
		{wire.RoleTreeItem, 0, "AXShowMenu", wire.ActionExpand},
		{wire.RoleTreeItem, wire.StateExpanded, "AXShowMenu", wire.ActionCollapse},
		{wire.RoleTextbox, 0, "AXValue", wire.ActionSetValue},
		{wire.RoleText, 0, "AXScrollToVisible", wire.ActionScrollIntoView},
	}
	for _, tt := range tests {
		t.Run(tt.native+"/"+tt.role.String(), func(t *testing.T) {
			got, ok := Dialect().Action(&model.Node{Role: tt.role, State: tt.state}, tt.native)
			if !ok || got != tt.want {
				t.Errorf("Action = %s, %v", got, ok)
			}
		})
	}
	if _, ok := Dialect().Action(&model.Node{}, "AXRaise"); ok {
		t.Error("AXRaise mapped")
	}
}

func TestBackend_Notifications(t *testing.T) {
	b := New(zaptest.NewLogger(t))
	_ = b.AddNode(model.Node{ID: "root", Role: wire.RoleWindow})
	_ = b.AddNode(model.Node{ID: "vol", ParentID: "root", Role: wire.RoleSlider, Max: 10})
	_ = b.UpdateNode(model.Node{ID: "vol", ParentID: "root", Role: wire.RoleSlider, Max: 10, Current: 3,
		Rect: wire.Rect{Width: 10, Height: 1}})
	_ = b.NotifyFocusChanged("vol")
	_ = b.NotifyFocusChanged("")
	_ = b.Announce("Done", wire.PriorityPolite)
	_ = b.RemoveNode("vol")

	want := []platform.Signal{
		{Name: notifyCreated, NodeID: "root", Detail: "AXWindow/AXStandardWindow"},
		{Name: notifyCreated, NodeID: "vol", Detail: "AXSlider"},
		{Name: notifyLayoutChanged, NodeID: "root"},
		{Name: notifyValueChanged, NodeID: "vol", Detail: "3"},
		{Name: notifyResized, NodeID: "vol"},
		{Name: notifyFocusChanged, NodeID: "vol"},
		{Name: notifyAnnouncement, Detail: "Done (priority 50)"},
		{Name: notifyDestroyed, NodeID: "vol"},
		{Name: notifyLayoutChanged, NodeID: "root"},
	}
	if got := b.Signals(); !reflect.DeepEqual(got, want) {
		t.Errorf("signals:\n got %v\nwant %v", got, want)
	}
	if role, _ := b.NativeRole("root"); role != "AXWindow" {
		t.Errorf("native role = %q", role)
	}
}

func TestBackend_SelectionNotifiesContainer(t *testing.T) {
	b := New(nil)
	_ = b.AddNode(model.Node{ID: "list", Role: wire.RoleList})
	_ = b.AddNode(model.Node{ID: "one", ParentID: "list", Role: wire.RoleListItem})
	before := len(b.Signals())

	_ = b.UpdateNode(model.Node{ID: "one", ParentID: "list", Role: wire.RoleListItem, State: wire.StateSelected})
	got := b.Signals()[before:]
	if len(got) != 1 || got[0].Name != notifySelectedChildren || got[0].NodeID != "list" {
		t.Errorf("signals = %v", got)
	}
}
