package platform

import (
	"slices"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Tree is a backend-local copy of the node store. Backends receive nodes by
// value and replay the store's add/update/remove sequence into a Tree so they
// can answer OS queries (parent, children, siblings, focus) without calling
// back into the store.
//
// Tree is not safe for concurrent use; backends guard it with their own lock.
type Tree struct {
	nodes     map[string]*model.Node
	rootID    string
	focusedID string
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*model.Node)}
}

// Len returns the number of tracked nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// RootID returns the parentless node, or "".
func (t *Tree) RootID() string { return t.rootID }

// FocusedID returns the focused node, or "".
func (t *Tree) FocusedID() string { return t.focusedID }

// Get returns the tracked copy of id.
func (t *Tree) Get(id string) (*model.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Add stores a copy of n and links it under its parent when the parent is
// already tracked. n.ChildIDs is taken as authoritative.
func (t *Tree) Add(n model.Node) *model.Node {
	c := n.Clone()
	t.nodes[c.ID] = &c
	t.link(&c)
	return &c
}

// Update replaces the tracked copy of n and returns the previous one. A
// changed parent is relinked. Unknown nodes are added.
func (t *Tree) Update(n model.Node) (prev model.Node, cur *model.Node) {
	old, ok := t.nodes[n.ID]
	if !ok {
		return model.Node{}, t.Add(n)
	}
	prev = old.Clone()
	c := n.Clone()
	if focused := old.Focused(); focused != c.Focused() {
		c.State = c.State.With(wire.StateFocused, focused)
	}
	*old = c
	if prev.ParentID != c.ParentID {
		t.unlink(prev.ID, prev.ParentID)
		t.link(old)
	}
	return prev, old
}

// Remove drops id and unlinks it from its parent. Children keep their
// ParentID, matching the store's orphaning policy.
func (t *Tree) Remove(id string) (model.Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return model.Node{}, false
	}
	t.unlink(id, n.ParentID)
	delete(t.nodes, id)
	if t.focusedID == id {
		t.focusedID = ""
	}
	return *n, true
}

// SetFocus moves the focused bit to id and returns the previously focused
// node. An unknown or empty id clears focus.
func (t *Tree) SetFocus(id string) (prev string) {
	prev = t.focusedID
	if n, ok := t.nodes[prev]; ok {
		n.State = n.State.With(wire.StateFocused, false)
	}
	t.focusedID = ""
	if n, ok := t.nodes[id]; ok {
		n.State = n.State.With(wire.StateFocused, true)
		t.focusedID = id
	}
	return prev
}

// Parent returns the tracked parent of id.
func (t *Tree) Parent(id string) (*model.Node, bool) {
	n, ok := t.nodes[id]
	if !ok || n.ParentID == "" {
		return nil, false
	}
	return t.Get(n.ParentID)
}

// Children returns the tracked children of id in order.
func (t *Tree) Children(id string) []*model.Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	out := make([]*model.Node, 0, len(n.ChildIDs))
	for _, cid := range n.ChildIDs {
		if c, ok := t.nodes[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Sibling returns the child of id's parent at offset delta from id
// (+1 next, -1 previous).
func (t *Tree) Sibling(id string, delta int) (*model.Node, bool) {
	p, ok := t.Parent(id)
	if !ok {
		return nil, false
	}
	i := slices.Index(p.ChildIDs, id)
	if i < 0 {
		return nil, false
	}
	for j := i + delta; j >= 0 && j < len(p.ChildIDs); j += delta {
		if s, ok := t.nodes[p.ChildIDs[j]]; ok {
			return s, true
		}
	}
	return nil, false
}

// Each calls fn for every tracked node in no particular order.
func (t *Tree) Each(fn func(*model.Node)) {
	for _, n := range t.nodes {
		fn(n)
	}
}

func (t *Tree) link(n *model.Node) {
	if n.ParentID == "" {
		t.rootID = n.ID
		return
	}
	if p, ok := t.nodes[n.ParentID]; ok && !slices.Contains(p.ChildIDs, n.ID) {
		p.ChildIDs = append(p.ChildIDs, n.ID)
	}
}

func (t *Tree) unlink(id, parentID string) {
	if parentID == "" {
		if t.rootID == id {
			t.rootID = ""
		}
		return
	}
	if p, ok := t.nodes[parentID]; ok {
		p.ChildIDs = slices.DeleteFunc(p.ChildIDs, func(c string) bool { return c == id })
	}
}
