package windows

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

type raised struct {
	kind  string
	id    string
	code  int32
	value any
}

func (r raised) String() string {
	return fmt.Sprintf("%s %s %d", r.kind, r.id, r.code)
}

// fakeHost records every call the backend makes on its host.
type fakeHost struct {
	mu       sync.Mutex
	opened   bool
	closed   bool
	pumps    int
	wrapped  map[string]int
	freed    map[string]int
	events   []raised
	openErr  error
	raiseErr error
	// onProperty runs before a property change is recorded, outside h.mu.
	onProperty func(p *provider)
}

func newFakeHost() *fakeHost {
	return &fakeHost{wrapped: map[string]int{}, freed: map[string]int{}}
}

func (h *fakeHost) Open(*Backend) error {
	if h.openErr != nil {
		return h.openErr
	}
	h.opened = true
	return nil
}

func (h *fakeHost) Pump() {
	h.mu.Lock()
	h.pumps++
	h.mu.Unlock()
}

func (h *fakeHost) Wrap(p *provider) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wrapped[p.id]++
	p.native = p.id
}

func (h *fakeHost) Unwrap(p *provider) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.freed[p.id]++
	p.native = nil
}

func (h *fakeHost) record(r raised) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, r)
	return h.raiseErr
}

func (h *fakeHost) Disconnect(p *provider) error {
	return h.record(raised{kind: "disconnect", id: p.id})
}

func (h *fakeHost) RaiseAutomationEvent(p *provider, event int32) error {
	return h.record(raised{kind: "event", id: p.id, code: event})
}

func (h *fakeHost) RaisePropertyChanged(p *provider, prop int32, _, cur any) error {
	if h.onProperty != nil {
		h.onProperty(p)
	}
	return h.record(raised{kind: "property", id: p.id, code: prop, value: cur})
}

func (h *fakeHost) RaiseStructureChanged(p *provider, change int32, _ []int32) error {
	return h.record(raised{kind: "structure", id: p.id, code: change})
}

func (h *fakeHost) RaiseNotification(p *provider, _, processing int32, msg, _ string) error {
	return h.record(raised{kind: "notify", id: p.id, code: processing, value: msg})
}

func (h *fakeHost) Close() { h.closed = true }

// take returns and forgets the recorded events.
func (h *fakeHost) take() []raised {
	h.mu.Lock()
	defer h.mu.Unlock()
	ev := h.events
	h.events = nil
	return ev
}

func (h *fakeHost) has(kind, id string, code int32) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.events {
		if e.kind == kind && e.id == id && e.code == code {
			return true
		}
	}
	return false
}

func newTestBackend(t *testing.T) (*Backend, *fakeHost) {
	t.Helper()
	h := newFakeHost()
	b, err := newBackend(h, DefaultMetrics, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("newBackend: %v", err)
	}
	return b, h
}
