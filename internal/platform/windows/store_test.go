package windows

import (
	stderrors "errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

func record(id, parent string, role wire.Role, name string) wire.NodeRecord {
	r := wire.NodeRecord{ID: id, Role: role, Name: wire.Text(name)}
	if parent != "" {
		r.ParentID = wire.Text(parent)
	}
	return r
}

func TestStore_FailedAddIsRemovedFromUIA(t *testing.T) {
	b, h := newTestBackend(t)
	s := bridge.NewStore(b, 0, zaptest.NewLogger(t))
	if _, err := s.Upsert(record("root", "", wire.RoleRegion, "app")); err != nil {
		t.Fatal(err)
	}

	h.raiseErr = stderrors.New("rpc failed")
	if _, err := s.Upsert(record("btn", "root", wire.RoleButton, "OK")); err != nil {
		t.Fatal(err)
	}
	h.raiseErr = nil

	if err := s.Remove("btn"); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.tree.Get("btn"); ok {
		t.Error("removed node still in the UIA tree")
	}
	if b.providers["btn"] != nil {
		t.Error("removed node still has a provider")
	}
	if got := b.tree.Children("root"); len(got) != 0 {
		t.Errorf("root children = %d, want 0", len(got))
	}
}

func TestStore_PatternCallDuringRaiseIsQueued(t *testing.T) {
	b, h := newTestBackend(t)
	s := bridge.NewStore(b, 0, zaptest.NewLogger(t))
	for _, r := range []wire.NodeRecord{
		record("root", "", wire.RoleRegion, "app"),
		record("chk", "root", wire.RoleCheckbox, "Wrap"),
	} {
		if _, err := s.Upsert(r); err != nil {
			t.Fatal(err)
		}
	}

	s.SetActionCallback(func(id string, kind wire.ActionKind, _ *string) bool {
		r := record(id, "root", wire.RoleCheckbox, "Wrap lines")
		r.State = wire.StateChecked
		_, err := s.Upsert(r)
		return err == nil
	})

	var hr uint32 = 0xFFFFFFFF
	h.onProperty = func(p *provider) {
		if p.id == "chk" && hr == 0xFFFFFFFF {
			hr = b.requestAction(p, wire.ActionToggle, nil)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Upsert(record("chk", "root", wire.RoleCheckbox, "Wrap lines")); err != nil {
			t.Errorf("Upsert: %v", err)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("upsert deadlocked on a pattern call raised inside it")
	}

	if hr != sOK {
		t.Errorf("pattern call HRESULT = 0x%08x", hr)
	}
	if n, ok := b.tree.Get("chk"); !ok || !n.State.Has(wire.StateChecked) {
		t.Error("queued toggle did not reach the backend")
	}
}
