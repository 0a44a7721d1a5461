package bridge

import (
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Store is the canonical node table. Every operation holds the store lock for
// its full duration, including the backend call it makes.
type Store struct {
	mu        sync.Mutex
	nodes     map[string]*model.Node
	order     []string            // insertion order
	pending   map[string][]string // parent id -> children waiting for it
	synced    map[string]bool     // backend accepted AddNode
	rootID    string
	focusedID string
	maxNodes  int
	backend   platform.Backend
	log       *zap.Logger

	held atomic.Bool // a mutating operation holds mu

	actionMu sync.Mutex
	callback platform.ActionFunc
	queued   []wire.ActionRequest
	closed   bool
}

// NewStore returns an empty store bound to backend. maxNodes <= 0 means
// unbounded.
func NewStore(backend platform.Backend, maxNodes int, log *zap.Logger) *Store {
	if backend == nil {
		backend = platform.NewStub()
	}
	if log == nil {
		log = Logger()
	}
	s := &Store{
		nodes:    make(map[string]*model.Node),
		pending:  make(map[string][]string),
		synced:   make(map[string]bool),
		maxNodes: maxNodes,
		backend:  backend,
		log:      log,
	}
	backend.SetActionCallback(s.routeAction)
	return s
}

// Backend returns the backend the store forwards to.
func (s *Store) Backend() platform.Backend { return s.backend }

// Upsert creates the node described by rec or diffs it against the existing
// one. Unchanged records make no backend call.
func (s *Store) Upsert(rec wire.NodeRecord) (model.ChangeType, error) {
	if err := wire.Validate(rec); err != nil {
		return model.ChangeUnchanged, errors.New(errors.OpUpsert, errors.KindInvalidInput).
			ID(rec.ID).Cause(err).Detail("invalid node record").Build()
	}
	parentID := wire.Deref(rec.ParentID)
	if parentID == rec.ID {
		return model.ChangeUnchanged, errors.InvalidInput(errors.OpUpsert, rec.ID, "node cannot be its own parent")
	}

	s.lock()
	defer s.unlock()

	n, exists := s.nodes[rec.ID]
	if err := s.checkLink(rec.ID, parentID, exists && n.ParentID == parentID); err != nil {
		return model.ChangeUnchanged, err
	}

	if !exists {
		if s.maxNodes > 0 && len(s.nodes) >= s.maxNodes {
			return model.ChangeUnchanged, errors.Allocation(errors.OpUpsert, rec.ID, s.maxNodes)
		}
		s.create(rec)
		return model.ChangeAdded, nil
	}

	oldParent := n.ParentID
	changed := n.Apply(rec)
	if changed == 0 {
		return model.ChangeUnchanged, nil
	}
	if changed&model.FieldParent != 0 {
		s.unlink(n.ID, oldParent)
		s.link(n)
	}
	s.log.Debug("node updated", zap.String("id", n.ID), zap.Strings("fields", changed.Names()))
	s.sync(n)
	return model.ChangeChanged, nil
}

// checkLink rejects a second root and parent chains that would form a cycle.
func (s *Store) checkLink(id, parentID string, unchanged bool) error {
	if unchanged {
		return nil
	}
	if parentID == "" {
		if s.rootID != "" && s.rootID != id {
			return errors.InvalidInput(errors.OpUpsert, id, "root already set to %q", s.rootID)
		}
		return nil
	}
	for cur, steps := parentID, 0; cur != "" && steps <= len(s.nodes); steps++ {
		if cur == id {
			return errors.InvalidInput(errors.OpUpsert, id, "parent %q would create a cycle", parentID)
		}
		p, ok := s.nodes[cur]
		if !ok {
			break
		}
		cur = p.ParentID
	}
	return nil
}

func (s *Store) create(rec wire.NodeRecord) {
	n := model.NewNode(rec)
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	s.link(n)

	// Adopt children that arrived before this node.
	for _, cid := range s.pending[n.ID] {
		if c, ok := s.nodes[cid]; ok && c.ParentID == n.ID && !slices.Contains(n.ChildIDs, cid) {
			n.ChildIDs = append(n.ChildIDs, cid)
		}
	}
	delete(s.pending, n.ID)

	s.log.Debug("node added", zap.String("id", n.ID), zap.Stringer("role", n.Role))
	s.sync(n)
}

// link attaches n under its parent, as root, or parks it until the parent
// appears.
func (s *Store) link(n *model.Node) {
	switch p, ok := s.nodes[n.ParentID]; {
	case n.ParentID == "":
		s.rootID = n.ID
	case ok:
		if !slices.Contains(p.ChildIDs, n.ID) {
			p.ChildIDs = append(p.ChildIDs, n.ID)
		}
	default:
		if !slices.Contains(s.pending[n.ParentID], n.ID) {
			s.pending[n.ParentID] = append(s.pending[n.ParentID], n.ID)
		}
	}
}

func (s *Store) unlink(id, parentID string) {
	if parentID == "" {
		if s.rootID == id {
			s.rootID = ""
		}
		return
	}
	drop := func(c string) bool { return c == id }
	if p, ok := s.nodes[parentID]; ok {
		p.ChildIDs = slices.DeleteFunc(p.ChildIDs, drop)
		return
	}
	if rest := slices.DeleteFunc(s.pending[parentID], drop); len(rest) > 0 {
		s.pending[parentID] = rest
	} else {
		delete(s.pending, parentID)
	}
}

// sync forwards n to the backend. A failed call leaves n dirty so Tick can
// retry it.
func (s *Store) sync(n *model.Node) {
	var err error
	call := "UpdateNode"
	if s.synced[n.ID] {
		err = s.backend.UpdateNode(n.Clone())
	} else {
		call = "AddNode"
		err = s.backend.AddNode(n.Clone())
	}
	if err != nil {
		s.logBackend(call, n.ID, err)
		return
	}
	s.synced[n.ID] = true
	n.Dirty = false
}

// Remove deletes id. Its children are orphaned: they keep their ParentID and
// are re-linked if a node with that ID is created again. Unknown ids are
// ignored.
func (s *Store) Remove(id string) error {
	s.lock()
	defer s.unlock()
	s.remove(id)
	return nil
}

func (s *Store) remove(id string) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	s.unlink(id, n.ParentID)
	if s.focusedID == id {
		s.focusedID = ""
	}
	for _, cid := range n.ChildIDs {
		if c, ok := s.nodes[cid]; ok && c.ParentID == id {
			s.pending[id] = append(s.pending[id], cid)
		}
	}

	delete(s.nodes, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	delete(s.synced, id)

	// A failed AddNode may still have left the node in the backend.
	if err := s.backend.RemoveNode(id); err != nil {
		s.logBackend("RemoveNode", id, err)
	}
	s.log.Debug("node removed", zap.String("id", id), zap.Int("orphans", len(n.ChildIDs)))
}

// SetFocus moves focus to id. "" or an unknown id clears focus.
func (s *Store) SetFocus(id string) error {
	s.lock()
	defer s.unlock()

	next := ""
	if _, ok := s.nodes[id]; ok {
		next = id
	}
	if next == s.focusedID {
		return nil
	}
	if prev, ok := s.nodes[s.focusedID]; ok {
		prev.State = prev.State.With(wire.StateFocused, false)
	}
	if n, ok := s.nodes[next]; ok {
		n.State = n.State.With(wire.StateFocused, true)
	}
	s.focusedID = next

	if err := s.backend.NotifyFocusChanged(next); err != nil {
		s.logBackend("NotifyFocusChanged", next, err)
	}
	return nil
}

// NotifyPropertyChanged forwards a property change for a known node.
func (s *Store) NotifyPropertyChanged(id string, prop wire.Property) error {
	if !prop.Valid() {
		return errors.InvalidEnum(errors.OpNotify, uint32(prop), "property")
	}
	s.lock()
	defer s.unlock()
	if _, ok := s.nodes[id]; !ok {
		return nil
	}
	if err := s.backend.NotifyPropertyChanged(id, prop); err != nil {
		s.logBackend("NotifyPropertyChanged", id, err)
	}
	return nil
}

// Announce passes msg to the backend. It never touches the node table.
func (s *Store) Announce(msg string, priority wire.Priority) error {
	if !priority.Valid() {
		return errors.InvalidEnum(errors.OpAnnounce, uint8(priority), "priority")
	}
	s.lock()
	defer s.unlock()
	if err := s.backend.Announce(msg, priority); err != nil {
		s.logBackend("Announce", "", err)
	}
	return nil
}

// Clear removes every node, children before parents. Backend errors are
// logged and ignored.
func (s *Store) Clear() {
	s.lock()
	defer s.unlock()

	ids := slices.Clone(s.order)
	depth := make(map[string]int, len(ids))
	for _, id := range ids {
		depth[id] = s.depth(id)
	}
	sort.SliceStable(ids, func(i, j int) bool { return depth[ids[i]] > depth[ids[j]] })
	for _, id := range ids {
		s.remove(id)
	}

	s.pending = make(map[string][]string)
	s.rootID = ""
	s.focusedID = ""
}

func (s *Store) depth(id string) int {
	d := 0
	for n, ok := s.nodes[id]; ok && n.ParentID != "" && d <= len(s.nodes); d++ {
		n, ok = s.nodes[n.ParentID]
	}
	return d
}

// lock takes the store lock for a mutating operation. Actions the backend
// raises while it is held are queued.
func (s *Store) lock() {
	s.mu.Lock()
	s.held.Store(true)
}

// unlock releases the store lock, then runs the queued actions so the
// callback may mutate the store.
func (s *Store) unlock() {
	s.held.Store(false)
	s.mu.Unlock()

	s.actionMu.Lock()
	queued := s.queued
	s.queued = nil
	s.actionMu.Unlock()

	for _, req := range queued {
		s.invoke(req.NodeID, req.Kind, req.Value)
	}
}

// Tick lets the backend service its OS event queue, retries nodes whose last
// backend call failed, then dispatches actions the backend queued meanwhile.
func (s *Store) Tick() {
	s.lock()
	defer s.unlock()
	s.backend.Tick()
	for _, id := range s.order {
		if n := s.nodes[id]; n.Dirty {
			s.sync(n)
		}
	}
}

// SetActionCallback registers the function that performs actions requested
// by assistive technology. nil clears it.
func (s *Store) SetActionCallback(fn platform.ActionFunc) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	if s.closed {
		return
	}
	s.callback = fn
}

// routeAction is the callback the backend sees. Requests raised while a
// mutating operation holds the store lock are queued and reported as
// accepted; any other request runs the callback directly.
func (s *Store) routeAction(id string, kind wire.ActionKind, value *string) bool {
	if !kind.Valid() {
		return false
	}
	if s.held.Load() {
		s.actionMu.Lock()
		defer s.actionMu.Unlock()
		if s.closed || s.callback == nil {
			return false
		}
		var v *string
		if value != nil {
			c := *value
			v = &c
		}
		s.queued = append(s.queued, wire.ActionRequest{NodeID: id, Kind: kind, Value: v})
		return true
	}
	return s.invoke(id, kind, value)
}

func (s *Store) invoke(id string, kind wire.ActionKind, value *string) bool {
	s.actionMu.Lock()
	fn, closed := s.callback, s.closed
	s.actionMu.Unlock()
	if closed || fn == nil {
		return false
	}
	handled := fn(id, kind, value)
	s.log.Debug("action routed", zap.String("id", id), zap.Stringer("kind", kind), zap.Bool("handled", handled))
	return handled
}

// Destroy detaches the action callback and releases the backend. The
// callback is never invoked afterwards.
func (s *Store) Destroy() {
	s.actionMu.Lock()
	s.closed = true
	s.callback = nil
	s.queued = nil
	s.actionMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend.SetActionCallback(nil)
	s.backend.Destroy()
}

func (s *Store) logBackend(call, id string, err error) {
	s.log.Warn("backend call failed", zap.String("backend", s.backend.Name()), zap.Error(errors.Backend(call, id, err)))
}

// Len returns the number of live nodes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (model.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return model.Node{}, false
	}
	return n.Clone(), true
}

// Nodes returns copies of all live nodes in insertion order.
func (s *Store) Nodes() []model.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// RootID returns the root node's id, or "".
func (s *Store) RootID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rootID
}

// FocusedID returns the focused node's id, or "".
func (s *Store) FocusedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusedID
}

// Pending returns the ids of children waiting for parentID to be created.
func (s *Store) Pending(parentID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pending[parentID])
}
