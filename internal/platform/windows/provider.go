package windows

import (
	"sync/atomic"
)

// provider is the UIA element for one node. Its lifetime is governed by a
// reference count shared between the backend (one reference while the node
// is live) and UIA clients. When the node is removed the provider is
// disconnected but may outlive it until the last client reference is
// released.
type provider struct {
	id        string
	runtimeID int32
	refs      atomic.Int32
	gone      atomic.Bool

	// native is the COM object wrapping this provider; set by the host.
	native any

	// free runs once when the last reference is released.
	free func(*provider)
}

func newProvider(id string, runtimeID int32, free func(*provider)) *provider {
	p := &provider{id: id, runtimeID: runtimeID, free: free}
	p.refs.Store(1)
	return p
}

// AddRef takes a reference and returns the new count. A provider that was
// already freed is not resurrected.
func (p *provider) AddRef() int32 {
	for {
		n := p.refs.Load()
		if n <= 0 {
			return 0
		}
		if p.refs.CompareAndSwap(n, n+1) {
			return n + 1
		}
	}
}

// Release drops a reference and frees the provider when none remain.
func (p *provider) Release() int32 {
	n := p.refs.Add(-1)
	if n == 0 && p.free != nil {
		p.free(p)
	}
	if n < 0 {
		p.refs.Store(0)
		return 0
	}
	return n
}

// disconnect marks the provider's node as gone. Queries on a disconnected
// provider fail with UIA_E_ELEMENTNOTAVAILABLE.
func (p *provider) disconnect() { p.gone.Store(true) }

func (p *provider) alive() bool { return !p.gone.Load() }

// RuntimeID is the id UIA uses to identify the element across calls.
func (p *provider) RuntimeID() []int32 {
	return []int32{uiaAppendRuntimeID, p.runtimeID}
}
