package main

import (
	"fmt"
	"math"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/config"
	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int32
	}{
		{"nil", nil, statusOK},
		{"invalid input", errors.InvalidInput(errors.OpUpsert, "a", "bad"), statusInvalidInput},
		{"not found", errors.NotFound(errors.OpRemove, "a"), statusNotFound},
		{"enum", errors.InvalidEnum(errors.OpAnnounce, 9, "priority"), statusInvalidEnum},
		{"wrapped", fmt.Errorf("upsert: %w", errors.Truncated("name", 4, 2)), statusTruncated},
		{"foreign", fmt.Errorf("boom"), statusInternal},
	}
	for _, tt := range tests {
		if got := status(tt.err); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestUpsertStatus(t *testing.T) {
	if got := upsertStatus(model.ChangeAdded, nil); got != statusCreated {
		t.Errorf("added = %d", got)
	}
	if got := upsertStatus(model.ChangeChanged, nil); got != statusUpdated {
		t.Errorf("changed = %d", got)
	}
	if got := upsertStatus(model.ChangeUnchanged, nil); got != statusOK {
		t.Errorf("unchanged = %d", got)
	}
	if got := upsertStatus(model.ChangeAdded, errors.NotFound(errors.OpUpsert, "p")); got != statusNotFound {
		t.Errorf("error = %d", got)
	}
}

func TestRegistry(t *testing.T) {
	r := newRegistry()
	h1 := r.put(nil)
	h2 := r.put(nil)
	if h1 == 0 || h1 == h2 {
		t.Fatalf("handles %d, %d", h1, h2)
	}
	if _, ok := r.get(h1); !ok {
		t.Error("h1 not found")
	}
	if _, ok := r.take(h1); !ok {
		t.Error("take h1 failed")
	}
	if _, ok := r.take(h1); ok {
		t.Error("h1 taken twice")
	}
	if _, ok := r.get(0); ok {
		t.Error("handle 0 resolved")
	}
	if r.len() != 1 {
		t.Errorf("len = %d", r.len())
	}
}

func TestCopyName(t *testing.T) {
	buf := make([]byte, 3)
	if n := copyName(buf, "windows"); n != 7 || string(buf) != "win" {
		t.Errorf("short buffer: n=%d buf=%q", n, buf)
	}
	if n := copyName(nil, "stub"); n != 4 {
		t.Errorf("nil buffer: n=%d", n)
	}
}

func TestLengthOK(t *testing.T) {
	for n, want := range map[uint64]bool{
		0:                 true,
		4096:              true,
		math.MaxInt32:     true,
		math.MaxInt32 + 1: false,
		math.MaxUint32:    false,
		math.MaxUint64:    false,
	} {
		if got := lengthOK(n); got != want {
			t.Errorf("lengthOK(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestActionTrampoline(t *testing.T) {
	var got wire.ActionRequest
	fn := actionTrampoline(func(req []byte) bool {
		var err error
		got, err = wire.DecodeActionRequest(req)
		if err != nil {
			t.Fatal(err)
		}
		return true
	})
	if !fn("slider", wire.ActionSetValue, wire.Text("42")) {
		t.Fatal("callback result lost")
	}
	if got.NodeID != "slider" || got.Kind != wire.ActionSetValue || wire.Deref(got.Value) != "42" {
		t.Errorf("request = %+v", got)
	}
}

func TestCreateDestroy(t *testing.T) {
	t.Setenv(config.EnvBackend, "stub")
	h := create()
	b, ok := handles.get(h)
	if !ok {
		t.Fatal("handle not registered")
	}
	if err := b.SetEnabled(true); err != nil {
		t.Fatal(err)
	}
	rec := wire.NodeRecord{ID: "root", Role: wire.RoleWindow, Name: wire.Text("Main")}
	if got := upsertStatus(b.UpsertBytes(wire.EncodeNodeRecord(rec))); got != statusCreated {
		t.Errorf("upsert = %d", got)
	}
	if b.PlatformName() != "stub" || b.NodeCount() != 1 {
		t.Errorf("platform %q, nodes %d", b.PlatformName(), b.NodeCount())
	}
	destroy(h)
	if _, ok := handles.get(h); ok {
		t.Error("handle survived destroy")
	}
	destroy(h)
}
