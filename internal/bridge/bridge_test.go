package bridge

import (
	stderrors "errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

func recorderBridge(t *testing.T, opts ...Option) (*Bridge, **platform.Recorder) {
	t.Helper()
	var current *platform.Recorder
	factory := func(*zap.Logger) (platform.Backend, error) {
		current = platform.NewRecorder(nil)
		return current, nil
	}
	b := New(append([]Option{WithBackendFactory("recorder", factory)}, opts...)...)
	t.Cleanup(b.Destroy)
	return b, &current
}

func TestBridge_DisabledIsSilentNoOp(t *testing.T) {
	b, backend := recorderBridge(t)

	if b.IsEnabled() {
		t.Fatal("bridge should start disabled")
	}
	change, err := b.Upsert(wire.NodeRecord{ID: "root"})
	if err != nil || change != model.ChangeUnchanged {
		t.Errorf("disabled upsert = %s, %v", change, err)
	}
	if _, err := b.UpsertBytes([]byte{1, 2}); err != nil {
		t.Errorf("disabled UpsertBytes should not decode: %v", err)
	}
	for name, err := range map[string]error{
		"remove":   b.Remove("root"),
		"focus":    b.SetFocus("root"),
		"announce": b.Announce("x", wire.PriorityPolite),
		"notify":   b.NotifyPropertyChanged("root", wire.PropName),
	} {
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	b.Tick()
	b.Clear()
	if b.NodeCount() != 0 || *backend != nil {
		t.Error("disabled bridge created a backend or stored nodes")
	}
}

func TestBridge_DisableMidSessionAndReenable(t *testing.T) {
	b, backend := recorderBridge(t)
	if err := b.SetEnabled(true); err != nil {
		t.Fatal(err)
	}
	first := *backend
	_, _ = b.Upsert(rec("root", "", wire.RoleRegion, ""))
	_, _ = b.Upsert(rec("btn", "root", wire.RoleButton, "OK"))
	if b.NodeCount() != 2 {
		t.Fatalf("NodeCount = %d", b.NodeCount())
	}

	_ = b.SetEnabled(false)
	if first.Count(platform.OpRemoveNode) != 2 || first.Count(platform.OpDestroy) != 1 {
		t.Errorf("disable did not clear and release backend: %v", first.Counts())
	}
	if _, err := b.Upsert(rec("late", "", wire.RoleRegion, "")); err != nil {
		t.Errorf("disabled upsert: %v", err)
	}

	_ = b.SetEnabled(true)
	if b.NodeCount() != 0 {
		t.Errorf("re-enable resurrected %d nodes", b.NodeCount())
	}
	if *backend == first {
		t.Error("re-enable should construct a fresh backend")
	}
}

func TestBridge_CallbackSurvivesReenable(t *testing.T) {
	b, backend := recorderBridge(t)
	handled := 0
	b.SetActionCallback(func(id string, kind wire.ActionKind, _ *string) bool {
		handled++
		return true
	})

	_ = b.SetEnabled(true)
	_ = b.SetEnabled(false)
	_ = b.SetEnabled(true)
	if !(*backend).Trigger("x", wire.ActionInvoke, nil) || handled != 1 {
		t.Errorf("callback lost across re-enable (handled=%d)", handled)
	}

	b.SetActionCallback(nil)
	if (*backend).Trigger("x", wire.ActionInvoke, nil) {
		t.Error("cleared callback still handles actions")
	}
}

func TestBridge_DestroyStopsCallbacks(t *testing.T) {
	b, backend := recorderBridge(t)
	called := false
	b.SetActionCallback(func(string, wire.ActionKind, *string) bool { called = true; return true })
	_ = b.SetEnabled(true)
	r := *backend

	b.Destroy()
	if r.Trigger("x", wire.ActionInvoke, nil) || called {
		t.Error("callback invoked after destroy")
	}
	_ = b.SetEnabled(true)
	if b.IsEnabled() {
		t.Error("destroyed bridge re-enabled")
	}
}

func TestBridge_InitializationFailureFallsBackToStub(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := New(
		WithLogger(zap.New(core)),
		WithBackendFactory("broken", func(*zap.Logger) (platform.Backend, error) {
			return nil, stderrors.New("RegisterClassExW failed")
		}),
	)
	defer b.Destroy()

	if err := b.SetEnabled(true); err != nil {
		t.Fatalf("initialization failure must be non-fatal: %v", err)
	}
	if b.IsPlatformSupported() || b.PlatformName() != platform.StubName {
		t.Errorf("supported=%v name=%s", b.IsPlatformSupported(), b.PlatformName())
	}
	if logs.FilterMessage("accessibility backend unavailable, using stub").Len() != 1 {
		t.Error("fallback not logged")
	}

	// The store still tracks nodes.
	_, _ = b.Upsert(rec("root", "", wire.RoleRegion, ""))
	if b.NodeCount() != 1 || b.RootID() != "root" {
		t.Errorf("count=%d root=%q", b.NodeCount(), b.RootID())
	}
}

func TestBridge_UpsertBytes(t *testing.T) {
	b, backend := recorderBridge(t)
	_ = b.SetEnabled(true)

	buf := wire.EncodeNodeRecord(rec("root", "", wire.RoleRegion, "Main"))
	change, err := b.UpsertBytes(buf)
	if err != nil || change != model.ChangeAdded {
		t.Fatalf("UpsertBytes = %s, %v", change, err)
	}
	// The store must not alias the caller's buffer.
	for i := range buf {
		buf[i] = 0
	}
	if n, _ := b.Node("root"); n.Name != "Main" {
		t.Errorf("name = %q after buffer reuse", n.Name)
	}
	if (*backend).Count(platform.OpAddNode) != 1 {
		t.Error("AddNode not forwarded")
	}

	if _, err := b.UpsertBytes(buf[:3]); err == nil {
		t.Error("expected decode error for truncated buffer")
	}
}

func TestBridge_Tree(t *testing.T) {
	b, _ := recorderBridge(t)
	_ = b.SetEnabled(true)
	_, _ = b.Upsert(rec("root", "", wire.RoleRegion, ""))
	_, _ = b.Upsert(rec("btn", "root", wire.RoleButton, "Go"))
	_ = b.SetFocus("btn")

	tree := b.Tree()
	if len(tree) != 1 || len(tree[0].Children) != 1 {
		t.Fatalf("tree = %+v", tree)
	}
	if btn := tree[0].Children[0]; btn.Title != "Go" || !btn.Focused {
		t.Errorf("btn = %+v", btn)
	}
	if b.FocusedID() != "btn" || len(b.Nodes()) != 2 {
		t.Errorf("focused=%q nodes=%d", b.FocusedID(), len(b.Nodes()))
	}
}

func TestBridge_PlatformNameWhileDisabled(t *testing.T) {
	b := New(WithBackend(platform.StubName))
	if b.PlatformName() != "stub" || b.IsPlatformSupported() {
		t.Errorf("name=%s supported=%v", b.PlatformName(), b.IsPlatformSupported())
	}
}
