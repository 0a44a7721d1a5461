package platform

import (
	"fmt"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// echoDialect emits one signal per operation, named after it.
type echoDialect struct{}

func (echoDialect) Name() string            { return "echo" }
func (echoDialect) Role(r wire.Role) string { return r.String() }

func (echoDialect) Added(n, _ *model.Node) []Signal {
	return []Signal{{Name: "added", NodeID: n.ID}}
}

func (echoDialect) Updated(_ model.Node, cur *model.Node, changed model.Field) []Signal {
	return []Signal{{Name: "updated", NodeID: cur.ID, Detail: fmt.Sprint(changed.Names())}}
}

func (echoDialect) Removed(n model.Node) []Signal {
	return []Signal{{Name: "removed", NodeID: n.ID}}
}

func (echoDialect) FocusChanged(_, cur *model.Node) []Signal {
	if cur == nil {
		return []Signal{{Name: "blur"}}
	}
	return []Signal{{Name: "focus", NodeID: cur.ID}}
}

func (echoDialect) PropertyChanged(n *model.Node, p wire.Property) []Signal {
	return []Signal{{Name: "property", NodeID: n.ID, Detail: p.String()}}
}

func (echoDialect) Announcement(_ *model.Node, msg string, _ wire.Priority) []Signal {
	return []Signal{{Name: "announce", Detail: msg}}
}

func (echoDialect) Actions(*model.Node) []string { return []string{"go"} }

func (echoDialect) Action(_ *model.Node, native string) (wire.ActionKind, bool) {
	return wire.ActionInvoke, native == "go"
}

func TestEmulated_Signals(t *testing.T) {
	e := NewEmulated(echoDialect{}, nil)
	_ = e.AddNode(model.Node{ID: "r"})
	_ = e.AddNode(model.Node{ID: "r", Name: "renamed"})
	_ = e.UpdateNode(model.Node{ID: "x", ParentID: "r"})
	_ = e.NotifyFocusChanged("x")
	_ = e.NotifyFocusChanged("")
	_ = e.NotifyPropertyChanged("x", wire.PropName)
	_ = e.NotifyPropertyChanged("ghost", wire.PropName)
	_ = e.Announce("hi", wire.PriorityPolite)
	_ = e.Announce("", wire.PriorityPolite)
	_ = e.RemoveNode("x")
	_ = e.RemoveNode("x")

	want := []string{
		"added r",
		"updated r [name]",
		"added x",
		"focus x",
		"blur ",
		"property x name",
		"announce  hi",
		"removed x",
	}
	got := e.Signals()
	if len(got) != len(want) {
		t.Fatalf("signals = %v", got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("signal %d = %q, want %q", i, got[i], want[i])
		}
	}
	if e.Len() != 1 {
		t.Errorf("Len = %d", e.Len())
	}
}

func TestEmulated_HistoryIsBounded(t *testing.T) {
	e := NewEmulated(echoDialect{}, nil)
	for i := 0; i < signalHistory+10; i++ {
		_ = e.AddNode(model.Node{ID: fmt.Sprintf("n%d", i), ParentID: "r"})
	}
	got := e.Signals()
	if len(got) != signalHistory {
		t.Fatalf("kept %d signals", len(got))
	}
	if got[0].NodeID != "n10" {
		t.Errorf("oldest = %s", got[0].NodeID)
	}
}

func TestEmulated_PerformAndDestroy(t *testing.T) {
	e := NewEmulated(echoDialect{}, nil)
	_ = e.AddNode(model.Node{ID: "b"})
	_ = e.AddNode(model.Node{ID: "off", ParentID: "b", State: wire.StateDisabled})

	calls := 0
	e.SetActionCallback(func(string, wire.ActionKind, *string) bool {
		calls++
		return true
	})
	if !e.Perform("b", "go", nil) {
		t.Error("go not handled")
	}
	if e.Perform("b", "stop", nil) || e.Perform("off", "go", nil) {
		t.Error("unknown action or disabled node handled")
	}

	e.Destroy()
	if e.Perform("b", "go", nil) || calls != 1 {
		t.Errorf("calls = %d", calls)
	}
	_ = e.AddNode(model.Node{ID: "late"})
	if e.Len() != 0 {
		t.Error("add after destroy")
	}
}

func TestEmulatedOf(t *testing.T) {
	e := NewEmulated(echoDialect{}, nil)
	tests := []struct {
		name string
		b    Backend
		want bool
	}{
		{"direct", e, true},
		{"recorded", NewRecorder(e), true},
		{"nested", NewRecorder(NewRecorder(e)), true},
		{"stub", NewStub(), false},
		{"recorded stub", NewRecorder(NewStub()), false},
	}
	for _, tt := range tests {
		got, ok := EmulatedOf(tt.b)
		if ok != tt.want {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.want)
			continue
		}
		if ok && got != e {
			t.Errorf("%s: returned a different backend", tt.name)
		}
	}
}
