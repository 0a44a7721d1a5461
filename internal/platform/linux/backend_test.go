package linux

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

func names(sigs []platform.Signal) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.Name + " " + s.NodeID
	}
	return out
}

func newTestBackend(t *testing.T) (*platform.Emulated, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	b := New(zap.New(core))
	for _, n := range []model.Node{
		{ID: "root", Role: wire.RoleWindow, Name: "app"},
		{ID: "ok", ParentID: "root", Role: wire.RoleButton, Name: "OK", State: wire.StateFocusable},
		{ID: "opt", ParentID: "root", Role: wire.RoleCheckbox, Name: "Opt"},
	} {
		if err := b.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	return b, logs
}

func TestRoleTableIsTotal(t *testing.T) {
	for _, r := range wire.Roles() {
		if _, ok := atspiRoles[r]; !ok {
			t.Errorf("no AT-SPI role for %s", r)
		}
	}
	if RoleName(wire.RoleButton) != "push button" {
		t.Error("button")
	}
}

func TestBackend_AddLogsChildrenChanged(t *testing.T) {
	b, logs := newTestBackend(t)

	want := []string{
		"window:create root",
		"object:children-changed:add root",
		"object:children-changed:add root",
	}
	if got := names(b.Signals()); !reflect.DeepEqual(got, want) {
		t.Errorf("signals = %v, want %v", got, want)
	}
	if n := logs.FilterMessage("would emit").Len(); n != 3 {
		t.Errorf("logged %d signals", n)
	}
	if got := b.Signals()[2].Detail; got != "1 opt" {
		t.Errorf("detail = %q", got)
	}
}

func TestBackend_UpdateEmitsPerField(t *testing.T) {
	b, _ := newTestBackend(t)
	before := len(b.Signals())

	err := b.UpdateNode(model.Node{
		ID: "opt", ParentID: "root", Role: wire.RoleCheckbox, Name: "Option",
		State: wire.StateChecked | wire.StateDisabled,
	})
	if err != nil {
		t.Fatal(err)
	}
	got := b.Signals()[before:]
	want := []platform.Signal{
		{Name: "object:property-change:accessible-name", NodeID: "opt", Detail: "Option"},
		{Name: "object:state-changed:checked", NodeID: "opt", Detail: "1"},
		{Name: "object:state-changed:enabled", NodeID: "opt", Detail: "0"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("signals = %v, want %v", got, want)
	}

	// Unchanged update emits nothing.
	before = len(b.Signals())
	_ = b.UpdateNode(model.Node{
		ID: "opt", ParentID: "root", Role: wire.RoleCheckbox, Name: "Option",
		State: wire.StateChecked | wire.StateDisabled,
	})
	if len(b.Signals()) != before {
		t.Errorf("unchanged update emitted %v", b.Signals()[before:])
	}
}

func TestBackend_FocusAndRemove(t *testing.T) {
	b, _ := newTestBackend(t)
	before := len(b.Signals())

	_ = b.NotifyFocusChanged("ok")
	_ = b.NotifyFocusChanged("opt")
	_ = b.NotifyFocusChanged("opt")
	_ = b.RemoveNode("opt")

	want := []string{
		"object:state-changed:focused ok",
		"object:state-changed:focused ok",
		"object:state-changed:focused opt",
		"object:state-changed:defunct opt",
		"object:children-changed:remove root",
	}
	if got := names(b.Signals()[before:]); !reflect.DeepEqual(got, want) {
		t.Errorf("signals = %v, want %v", got, want)
	}
}

func TestBackend_Announce(t *testing.T) {
	b, _ := newTestBackend(t)
	before := len(b.Signals())

	_ = b.Announce("Saved", wire.PriorityAssertive)
	_ = b.Announce("ignored", wire.PriorityOff)

	got := b.Signals()[before:]
	if len(got) != 1 || got[0].Name != "object:announcement" || got[0].Detail != "Saved (assertive)" {
		t.Errorf("signals = %v", got)
	}
}

func TestBackend_Perform(t *testing.T) {
	b, _ := newTestBackend(t)
	if b.Perform("ok", "click", nil) {
		t.Error("handled without a callback")
	}

	var got []wire.ActionKind
	b.SetActionCallback(func(id string, kind wire.ActionKind, _ *string) bool {
		got = append(got, kind)
		return true
	})
	if !b.Perform("ok", "click", nil) || !b.Perform("opt", "toggle", nil) {
		t.Fatal("actions not handled")
	}
	if b.Perform("ok", "dance", nil) || b.Perform("ghost", "click", nil) {
		t.Error("unknown action or node handled")
	}
	if want := []wire.ActionKind{wire.ActionInvoke, wire.ActionToggle}; !reflect.DeepEqual(got, want) {
		t.Errorf("kinds = %v", got)
	}
	if acts := b.Actions("ok"); !reflect.DeepEqual(acts, []string{"click", "grab-focus"}) {
		t.Errorf("actions = %v", acts)
	}

	b.Destroy()
	if b.Perform("ok", "click", nil) {
		t.Error("handled after destroy")
	}
}

func TestDialect_ExpandOrContract(t *testing.T) {
	n := &model.Node{Role: wire.RoleTreeItem}
	if k, _ := Dialect().Action(n, "expand or contract"); k != wire.ActionExpand {
		t.Errorf("collapsed node: %s", k)
	}
	n.State = wire.StateExpanded
	if k, _ := Dialect().Action(n, "expand or contract"); k != wire.ActionCollapse {
		t.Errorf("expanded node: %s", k)
	}
}
