package windows

import (
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// The methods below serve COM calls made on providers. They run on the
// thread that pumps the host window, take the backend lock briefly and
// return an HRESULT.

// rootProvider returns the provider for the store's root node, or nil.
func (b *Backend) rootProvider() *provider {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	return b.providers[b.tree.RootID()]
}

// node returns a copy of p's node, or UIA_E_ELEMENTNOTAVAILABLE once p has
// been disconnected.
func (b *Backend) node(p *provider) (model.Node, uint32) {
	if !p.alive() {
		return model.Node{}, uiaElementNotAvailable
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.tree.Get(p.id)
	if b.closed || !ok {
		return model.Node{}, uiaElementNotAvailable
	}
	return n.Clone(), sOK
}

// property resolves a UIA property. A nil value means VT_EMPTY.
func (b *Backend) property(p *provider, id int32) (any, uint32) {
	n, hr := b.node(p)
	if hr != sOK {
		return nil, hr
	}
	return propertyValue(&n, id, b.metrics), sOK
}

// supportsPattern reports whether p exposes the control pattern id.
func (b *Backend) supportsPattern(p *provider, id int32) (bool, uint32) {
	n, hr := b.node(p)
	if hr != sOK {
		return false, hr
	}
	return hasPattern(n.Role, n.State, id), sOK
}

// boundingRect returns p's bounds in screen pixels.
func (b *Backend) boundingRect(p *provider) ([]float64, uint32) {
	n, hr := b.node(p)
	if hr != sOK {
		return nil, hr
	}
	if n.State.Has(wire.StateHidden) {
		return []float64{0, 0, 0, 0}, sOK
	}
	return b.metrics.bounds(n.Rect), sOK
}

// navigate walks the tree from p. A nil result with S_OK means there is no
// element in that direction.
func (b *Backend) navigate(p *provider, dir int32) (*provider, uint32) {
	if !p.alive() {
		return nil, uiaElementNotAvailable
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tree.Get(p.id); b.closed || !ok {
		return nil, uiaElementNotAvailable
	}

	var target *model.Node
	switch dir {
	case navParent:
		target, _ = b.tree.Parent(p.id)
	case navNextSibling:
		target, _ = b.tree.Sibling(p.id, 1)
	case navPreviousSibling:
		target, _ = b.tree.Sibling(p.id, -1)
	case navFirstChild, navLastChild:
		children := b.tree.Children(p.id)
		if len(children) == 0 {
			break
		}
		target = children[0]
		if dir == navLastChild {
			target = children[len(children)-1]
		}
	default:
		return nil, eInvalidArg
	}
	if target == nil {
		return nil, sOK
	}
	return b.providers[target.ID], sOK
}

// fragmentRoot returns the root provider for any live provider.
func (b *Backend) fragmentRoot(p *provider) (*provider, uint32) {
	if !p.alive() {
		return nil, uiaElementNotAvailable
	}
	return b.rootProvider(), sOK
}

// focusedProvider answers IRawElementProviderFragmentRoot::GetFocus.
func (b *Backend) focusedProvider() *provider {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	return b.providers[b.tree.FocusedID()]
}

// isRoot reports whether p is the fragment root.
func (b *Backend) isRoot(p *provider) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return p.id == b.tree.RootID()
}

// requestAction forwards a control-pattern call to the action callback.
func (b *Backend) requestAction(p *provider, kind wire.ActionKind, value *string) uint32 {
	if !p.alive() {
		return uiaElementNotAvailable
	}
	b.mu.Lock()
	n, ok := b.tree.Get(p.id)
	if b.closed || !ok {
		b.mu.Unlock()
		return uiaElementNotAvailable
	}
	if n.State.Has(wire.StateDisabled) {
		b.mu.Unlock()
		return uiaElementNotEnabled
	}
	fn := b.callback
	b.mu.Unlock()

	if fn == nil || !fn(p.id, kind, value) {
		b.log.Debug("action not handled", zap.String("id", p.id), zap.Stringer("kind", kind))
		return uiaInvalidOperation
	}
	return sOK
}
