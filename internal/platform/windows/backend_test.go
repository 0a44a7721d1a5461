package windows

import (
	stderrors "errors"
	"reflect"
	"testing"

	"go.uber.org/multierr"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

func node(id, parent string, role wire.Role, name string) model.Node {
	return model.Node{ID: id, ParentID: parent, Role: role, Name: name}
}

// addTree adds root with children a, b and c.
func addTree(t *testing.T, b *Backend) {
	t.Helper()
	for _, n := range []model.Node{
		node("root", "", wire.RoleRegion, "app"),
		node("a", "root", wire.RoleButton, "A"),
		node("b", "root", wire.RoleCheckbox, "B"),
		node("c", "root", wire.RoleText, "C"),
	} {
		if err := b.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
}

func TestBackend_OpenFailure(t *testing.T) {
	h := newFakeHost()
	h.openErr = stderrors.New("no desktop")
	if _, err := newBackend(h, DefaultMetrics, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestBackend_AddRaisesChildAdded(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)

	for _, id := range []string{"root", "a", "b", "c"} {
		if !h.has("structure", id, structChildAdded) {
			t.Errorf("no ChildAdded for %s", id)
		}
		if h.wrapped[id] != 1 {
			t.Errorf("%s wrapped %d times", id, h.wrapped[id])
		}
	}
	if got := b.tree.Children("root"); len(got) != 3 {
		t.Errorf("root children = %d", len(got))
	}
}

func TestBackend_AddExistingIsUpdate(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	h.take()

	if err := b.AddNode(node("a", "root", wire.RoleButton, "renamed")); err != nil {
		t.Fatal(err)
	}
	if h.has("structure", "a", structChildAdded) {
		t.Error("re-adding raised ChildAdded")
	}
	if !h.has("property", "a", propName) {
		t.Errorf("events = %v", h.take())
	}
}

func TestBackend_UpdateRaisesChangedProperties(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	h.take()

	// Identical update raises nothing.
	if err := b.UpdateNode(node("b", "root", wire.RoleCheckbox, "B")); err != nil {
		t.Fatal(err)
	}
	if ev := h.take(); len(ev) != 0 {
		t.Fatalf("identical update raised %v", ev)
	}

	checked := node("b", "root", wire.RoleCheckbox, "B")
	checked.State = wire.StateChecked
	if err := b.UpdateNode(checked); err != nil {
		t.Fatal(err)
	}
	ev := h.take()
	if len(ev) != 1 || ev[0].code != propToggleState || ev[0].value != toggleOn {
		t.Errorf("events = %v", ev)
	}
}

func TestBackend_UpdateReparentInvalidatesNewParent(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	if err := b.AddNode(node("g", "root", wire.RoleGroup, "")); err != nil {
		t.Fatal(err)
	}
	h.take()

	if err := b.UpdateNode(node("a", "g", wire.RoleButton, "A")); err != nil {
		t.Fatal(err)
	}
	if !h.has("structure", "g", structChildrenInvalidated) {
		t.Errorf("events = %v", h.take())
	}
	if got := b.tree.Children("g"); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("g children = %v", got)
	}
}

func TestBackend_SelectionAndLiveRegion(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	if err := b.AddNode(node("item", "root", wire.RoleListItem, "one")); err != nil {
		t.Fatal(err)
	}
	status := node("status", "root", wire.RoleStatus, "idle")
	status.Live = wire.LivePolite
	if err := b.AddNode(status); err != nil {
		t.Fatal(err)
	}
	h.take()

	item := node("item", "root", wire.RoleListItem, "one")
	item.State = wire.StateSelected
	if err := b.UpdateNode(item); err != nil {
		t.Fatal(err)
	}
	if !h.has("event", "item", evtElementSelected) {
		t.Error("no ElementSelected")
	}

	status.Name = "saving"
	if err := b.UpdateNode(status); err != nil {
		t.Fatal(err)
	}
	if !h.has("event", "status", evtLiveRegionChanged) {
		t.Error("no LiveRegionChanged")
	}
}

func TestBackend_RaiseErrorsAreCombined(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	h.raiseErr = stderrors.New("rpc failed")

	n := node("a", "root", wire.RoleButton, "renamed")
	n.Hint = "press me"
	err := b.UpdateNode(n)
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("combined %d errors, want 2: %v", got, err)
	}
}

func TestBackend_RemoveDisconnects(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	p := b.providers["a"]
	h.take()

	if err := b.RemoveNode("a"); err != nil {
		t.Fatal(err)
	}
	if !h.has("structure", "root", structChildRemoved) || !h.has("disconnect", "a", 0) {
		t.Errorf("events = %v", h.take())
	}
	if h.freed["a"] != 1 {
		t.Errorf("freed %d times", h.freed["a"])
	}
	if _, hr := b.node(p); hr != uiaElementNotAvailable {
		t.Errorf("stale provider hr = %#x", hr)
	}
	if hr := b.requestAction(p, wire.ActionInvoke, nil); hr != uiaElementNotAvailable {
		t.Errorf("stale action hr = %#x", hr)
	}
	if err := b.RemoveNode("a"); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestBackend_ClientReferenceOutlivesNode(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	p := b.providers["c"]
	p.AddRef()

	if err := b.RemoveNode("c"); err != nil {
		t.Fatal(err)
	}
	if h.freed["c"] != 0 {
		t.Fatal("freed while a client still holds a reference")
	}
	if _, hr := b.property(p, propName); hr != uiaElementNotAvailable {
		t.Errorf("hr = %#x", hr)
	}
	p.Release()
	if h.freed["c"] != 1 {
		t.Errorf("freed %d times after last release", h.freed["c"])
	}
}

func TestBackend_Navigate(t *testing.T) {
	b, _ := newTestBackend(t)
	addTree(t, b)
	root, a, bb, c := b.providers["root"], b.providers["a"], b.providers["b"], b.providers["c"]

	tests := []struct {
		name string
		from *provider
		dir  int32
		want *provider
	}{
		{"first child", root, navFirstChild, a},
		{"last child", root, navLastChild, c},
		{"next", a, navNextSibling, bb},
		{"previous", bb, navPreviousSibling, a},
		{"past last", c, navNextSibling, nil},
		{"before first", a, navPreviousSibling, nil},
		{"parent", bb, navParent, root},
		{"root has no parent", root, navParent, nil},
		{"leaf has no children", a, navFirstChild, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hr := b.navigate(tt.from, tt.dir)
			if hr != sOK || got != tt.want {
				t.Errorf("navigate = %v, %#x", got, hr)
			}
		})
	}

	if _, hr := b.navigate(a, 42); hr != eInvalidArg {
		t.Errorf("bad direction hr = %#x", hr)
	}
	if got, _ := b.fragmentRoot(c); got != root {
		t.Errorf("fragmentRoot = %v", got)
	}
	if !b.isRoot(root) || b.isRoot(a) {
		t.Error("isRoot")
	}
}

func TestBackend_RequestAction(t *testing.T) {
	b, _ := newTestBackend(t)
	addTree(t, b)
	disabled := node("off", "root", wire.RoleButton, "Off")
	disabled.State = wire.StateDisabled
	if err := b.AddNode(disabled); err != nil {
		t.Fatal(err)
	}

	if hr := b.requestAction(b.providers["a"], wire.ActionInvoke, nil); hr != uiaInvalidOperation {
		t.Errorf("no callback hr = %#x", hr)
	}

	type call struct {
		id    string
		kind  wire.ActionKind
		value string
	}
	var calls []call
	b.SetActionCallback(func(id string, kind wire.ActionKind, value *string) bool {
		calls = append(calls, call{id, kind, wire.Deref(value)})
		return id != "c"
	})

	if hr := b.requestAction(b.providers["b"], wire.ActionSetValue, wire.Text("42")); hr != sOK {
		t.Errorf("handled hr = %#x", hr)
	}
	if hr := b.requestAction(b.providers["c"], wire.ActionInvoke, nil); hr != uiaInvalidOperation {
		t.Errorf("unhandled hr = %#x", hr)
	}
	if hr := b.requestAction(b.providers["off"], wire.ActionInvoke, nil); hr != uiaElementNotEnabled {
		t.Errorf("disabled hr = %#x", hr)
	}

	want := []call{{"b", wire.ActionSetValue, "42"}, {"c", wire.ActionInvoke, ""}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestBackend_Focus(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	h.take()

	if err := b.NotifyFocusChanged("b"); err != nil {
		t.Fatal(err)
	}
	if !h.has("event", "b", evtFocusChanged) {
		t.Errorf("events = %v", h.take())
	}
	if got := b.focusedProvider(); got != b.providers["b"] {
		t.Errorf("focused = %v", got)
	}
	if v, _ := b.property(b.providers["b"], propHasKeyboardFocus); v != true {
		t.Errorf("HasKeyboardFocus = %v", v)
	}

	h.take()
	if err := b.NotifyFocusChanged(""); err != nil {
		t.Fatal(err)
	}
	if ev := h.take(); len(ev) != 0 {
		t.Errorf("clearing focus raised %v", ev)
	}
	if b.focusedProvider() != nil {
		t.Error("focus not cleared")
	}
}

func TestBackend_NotifyPropertyChanged(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	h.take()

	if err := b.NotifyPropertyChanged("root", wire.PropChildren); err != nil {
		t.Fatal(err)
	}
	if err := b.NotifyPropertyChanged("a", wire.PropName); err != nil {
		t.Fatal(err)
	}
	if err := b.NotifyPropertyChanged("ghost", wire.PropName); err != nil {
		t.Fatal(err)
	}
	ev := h.take()
	if len(ev) != 2 {
		t.Fatalf("events = %v", ev)
	}
	if ev[0].kind != "structure" || ev[0].code != structChildrenInvalidated {
		t.Errorf("children event = %v", ev[0])
	}
	if ev[1].kind != "property" || ev[1].code != propName || ev[1].value != "A" {
		t.Errorf("name event = %v", ev[1])
	}
}

func TestBackend_Announce(t *testing.T) {
	b, h := newTestBackend(t)

	// No root yet: dropped.
	if err := b.Announce("early", wire.PriorityPolite); err != nil {
		t.Fatal(err)
	}
	if ev := h.take(); len(ev) != 0 {
		t.Fatalf("events = %v", ev)
	}

	addTree(t, b)
	h.take()
	for _, tc := range []struct {
		msg      string
		priority wire.Priority
	}{
		{"saved", wire.PriorityPolite},
		{"error", wire.PriorityAssertive},
		{"quiet", wire.PriorityOff},
		{"", wire.PriorityAssertive},
	} {
		if err := b.Announce(tc.msg, tc.priority); err != nil {
			t.Fatal(err)
		}
	}
	ev := h.take()
	want := []raised{
		{kind: "notify", id: "root", code: notifyAll, value: "saved"},
		{kind: "notify", id: "root", code: notifyImportantMostRecent, value: "error"},
	}
	if !reflect.DeepEqual(ev, want) {
		t.Errorf("events = %v, want %v", ev, want)
	}
}

func TestBackend_BoundingRect(t *testing.T) {
	b, _ := newTestBackend(t)
	n := node("root", "", wire.RoleRegion, "")
	n.Rect = wire.Rect{X: 2, Y: 3, Width: 10, Height: 1}
	if err := b.AddNode(n); err != nil {
		t.Fatal(err)
	}
	got, hr := b.boundingRect(b.providers["root"])
	if hr != sOK || !reflect.DeepEqual(got, []float64{16, 48, 80, 16}) {
		t.Errorf("bounds = %v, %#x", got, hr)
	}

	n.State = wire.StateHidden
	if err := b.UpdateNode(n); err != nil {
		t.Fatal(err)
	}
	got, _ = b.boundingRect(b.providers["root"])
	if !reflect.DeepEqual(got, []float64{0, 0, 0, 0}) {
		t.Errorf("hidden bounds = %v", got)
	}
}

func TestBackend_Destroy(t *testing.T) {
	b, h := newTestBackend(t)
	addTree(t, b)
	b.SetActionCallback(func(string, wire.ActionKind, *string) bool { return true })
	a := b.providers["a"]

	b.Destroy()
	if !h.closed {
		t.Error("host not closed")
	}
	for _, id := range []string{"root", "a", "b", "c"} {
		if h.freed[id] != 1 {
			t.Errorf("%s freed %d times", id, h.freed[id])
		}
	}
	if hr := b.requestAction(a, wire.ActionInvoke, nil); hr != uiaElementNotAvailable {
		t.Errorf("action after destroy hr = %#x", hr)
	}

	h.take()
	_ = b.AddNode(node("x", "", wire.RoleRegion, ""))
	_ = b.Announce("late", wire.PriorityAssertive)
	b.Tick()
	b.Destroy()
	if ev := h.take(); len(ev) != 0 || h.pumps != 0 {
		t.Errorf("calls after destroy: %v, pumps %d", ev, h.pumps)
	}
}

func TestBackend_TickPumps(t *testing.T) {
	b, h := newTestBackend(t)
	b.Tick()
	b.Tick()
	if h.pumps != 2 {
		t.Errorf("pumps = %d", h.pumps)
	}
}
