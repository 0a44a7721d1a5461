package mirror

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

type entry struct {
	el       Element
	parentID string
	childIDs []string
}

// Mirror reflects one UI tree into a bridge. It is either disabled or
// enabled; while disabled every change notification is a no-op.
//
// Change notifications must be made from the UI goroutine, once per logical
// change and before the next frame is presented.
type Mirror struct {
	bridge *bridge.Bridge
	log    *zap.Logger
	newID  func() string

	mu      sync.Mutex
	root    Element
	enabled bool
	ids     map[Element]string
	entries map[string]*entry
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the mirror's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mirror) {
		if l != nil {
			m.log = l
		}
	}
}

// WithIDGenerator replaces the generator used for elements that do not
// implement Identified.
func WithIDGenerator(fn func() string) Option {
	return func(m *Mirror) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// New creates a disabled mirror of root over b and installs the mirror as
// b's action callback.
func New(b *bridge.Bridge, root Element, opts ...Option) *Mirror {
	m := &Mirror{
		bridge:  b,
		log:     Logger(),
		newID:   uuid.NewString,
		root:    root,
		ids:     make(map[Element]string),
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	b.SetActionCallback(m.perform)
	return m
}

// Bridge returns the mirrored bridge.
func (m *Mirror) Bridge() *bridge.Bridge { return m.bridge }

// IsEnabled reports whether the mirror is enabled.
func (m *Mirror) IsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Enable enables the bridge and upserts the whole UI tree, parents before
// children. The focused element, if any, is focused last.
func (m *Mirror) Enable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enabled {
		return nil
	}
	if err := m.bridge.SetEnabled(true); err != nil {
		return err
	}
	m.enabled = true
	if m.root == nil {
		return nil
	}
	return m.addLocked(m.root, "")
}

// Disable clears the bridge and releases its backend. Generated ids are
// kept so an element keeps its id across a disable/enable cycle.
func (m *Mirror) Disable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return nil
	}
	m.enabled = false
	m.entries = make(map[string]*entry)
	return m.bridge.SetEnabled(false)
}

// SetRoot replaces the mirrored UI tree. When enabled, the store is cleared
// and the new tree walked.
func (m *Mirror) SetRoot(root Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = root
	m.ids = make(map[Element]string)
	m.entries = make(map[string]*entry)
	if !m.enabled {
		return nil
	}
	m.bridge.Clear()
	if root == nil {
		return nil
	}
	return m.addLocked(root, "")
}

// ID returns the id the mirror uses for el.
func (m *Mirror) ID(el Element) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupLocked(el)
}

// Element returns the live element mirrored under id.
func (m *Mirror) Element(id string) (Element, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return e.el, true
}

// Len returns the number of mirrored elements.
func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Mirror) lookupLocked(el Element) (string, bool) {
	if el == nil {
		return "", false
	}
	if ided, ok := el.(Identified); ok {
		if id := ided.AccessibleID(); id != "" {
			return id, true
		}
	}
	id, ok := m.ids[el]
	return id, ok
}

func (m *Mirror) idLocked(el Element) string {
	if id, ok := m.lookupLocked(el); ok {
		return id
	}
	id := m.newID()
	m.ids[el] = id
	return id
}

// addLocked upserts el and its subtree under parentID, then applies focus if
// an element of the subtree reports it.
func (m *Mirror) addLocked(el Element, parentID string) error {
	var focused string
	err := m.walkLocked(el, parentID, &focused)
	if focused != "" {
		err = multierr.Append(err, m.bridge.SetFocus(focused))
	}
	return err
}

func (m *Mirror) walkLocked(el Element, parentID string, focused *string) error {
	id := m.idLocked(el)
	snap := el.Accessible()
	children := el.Children()
	if _, err := m.bridge.Upsert(snap.Record(id, parentID, len(children))); err != nil {
		return err
	}
	if snap.State.Has(wire.StateFocused) {
		*focused = id
	}

	e := &entry{el: el, parentID: parentID}
	if old, ok := m.entries[id]; ok {
		e.childIDs = old.childIDs
	}
	m.entries[id] = e
	if p, ok := m.entries[parentID]; ok && !slices.Contains(p.childIDs, id) {
		p.childIDs = append(p.childIDs, id)
	}

	var errs error
	for _, c := range children {
		errs = multierr.Append(errs, m.walkLocked(c, id, focused))
	}
	return errs
}

// removeLocked removes id's descendants deepest first, then id itself.
func (m *Mirror) removeLocked(id string) error {
	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	var errs error
	for _, cid := range slices.Clone(e.childIDs) {
		errs = multierr.Append(errs, m.removeLocked(cid))
	}
	errs = multierr.Append(errs, m.bridge.Remove(id))
	if p, ok := m.entries[e.parentID]; ok {
		p.childIDs = slices.DeleteFunc(p.childIDs, func(c string) bool { return c == id })
	}
	delete(m.entries, id)
	delete(m.ids, e.el)
	return errs
}

// BuildTreeSnapshot walks the live UI and returns its display tree. It does
// not touch the bridge and works while disabled.
func (m *Mirror) BuildTreeSnapshot() []model.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return nil
	}
	return []model.Element{m.snapshotLocked(m.root, "")}
}

func (m *Mirror) snapshotLocked(el Element, parentID string) model.Element {
	id := m.idLocked(el)
	snap := el.Accessible()
	children := el.Children()
	n := model.NewNode(snap.Record(id, parentID, len(children)))
	n.State = snap.State
	out := model.ElementFromNode(*n)
	for _, c := range children {
		out.Children = append(out.Children, m.snapshotLocked(c, id))
	}
	return out
}

// AddNode mirrors el and its subtree under parent. A nil parent makes el the
// root.
func (m *Mirror) AddNode(el, parent Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return nil
	}
	parentID := ""
	if parent != nil {
		parentID = m.idLocked(parent)
	}
	return m.addLocked(el, parentID)
}

// RemoveNode removes el and every mirrored descendant, deepest first. The
// store itself only orphans children, so the cascade is driven from here.
func (m *Mirror) RemoveNode(el Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return nil
	}
	id, ok := m.lookupLocked(el)
	if !ok {
		return nil
	}
	return m.removeLocked(id)
}

// UpdateNode re-sends el's current snapshot. Unchanged snapshots cost no
// backend call.
func (m *Mirror) UpdateNode(el Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return nil
	}
	id, ok := m.lookupLocked(el)
	if !ok {
		return errors.NotFound(errors.OpUpsert, "")
	}
	return m.updateLocked(id)
}

func (m *Mirror) updateLocked(id string) error {
	e, ok := m.entries[id]
	if !ok {
		return errors.NotFound(errors.OpUpsert, id)
	}
	snap := e.el.Accessible()
	_, err := m.bridge.Upsert(snap.Record(id, e.parentID, len(e.childIDs)))
	return err
}

// UpdateNodeChildren reconciles el's mirrored children with el.Children():
// dropped children are removed with their subtrees, new ones added, and
// children moved from another parent are relinked.
func (m *Mirror) UpdateNodeChildren(el Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return nil
	}
	id, ok := m.lookupLocked(el)
	if !ok {
		return errors.NotFound(errors.OpUpsert, "")
	}
	e, ok := m.entries[id]
	if !ok {
		return errors.NotFound(errors.OpUpsert, id)
	}

	children := el.Children()
	want := make([]string, len(children))
	for i, c := range children {
		want[i] = m.idLocked(c)
	}

	var errs error
	for _, cid := range slices.Clone(e.childIDs) {
		if !slices.Contains(want, cid) {
			errs = multierr.Append(errs, m.removeLocked(cid))
		}
	}

	var focused string
	for i, c := range children {
		cid := want[i]
		ce, known := m.entries[cid]
		switch {
		case !known:
			errs = multierr.Append(errs, m.walkLocked(c, id, &focused))
		case ce.parentID != id:
			if old, ok := m.entries[ce.parentID]; ok {
				old.childIDs = slices.DeleteFunc(old.childIDs, func(s string) bool { return s == cid })
			}
			ce.parentID = id
			errs = multierr.Append(errs, m.updateLocked(cid))
		}
	}
	e.childIDs = want
	if focused != "" {
		errs = multierr.Append(errs, m.bridge.SetFocus(focused))
	}
	return multierr.Append(errs, m.bridge.NotifyPropertyChanged(id, wire.PropChildren))
}

// NotifyPropertyChanged tells assistive technology that the named property
// of el changed. Property names are the logical names accepted by
// wire.ParseProperty ("name", "value", "checked", "label", ...).
func (m *Mirror) NotifyPropertyChanged(el Element, property string) error {
	p, ok := wire.ParseProperty(property)
	if !ok {
		return errors.InvalidEnum(errors.OpNotify, property, "property")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return nil
	}
	id, ok := m.lookupLocked(el)
	if !ok {
		return nil
	}
	return m.bridge.NotifyPropertyChanged(id, p)
}

// NotifyFocusChanged moves focus to el. A nil or unknown element clears
// focus.
func (m *Mirror) NotifyFocusChanged(el Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return nil
	}
	id, _ := m.lookupLocked(el)
	return m.bridge.SetFocus(id)
}

// Announce queues a message for screen readers.
func (m *Mirror) Announce(msg string, priority wire.Priority) error {
	if !m.IsEnabled() {
		return nil
	}
	return m.bridge.Announce(msg, priority)
}

// Tick services pending OS requests. Call once per frame.
func (m *Mirror) Tick() {
	m.bridge.Tick()
}

// PerformAction runs the named action on the element mirrored under id.
// Unknown actions, ids and elements that do not handle the action report
// false.
func (m *Mirror) PerformAction(id, action string, value *string) bool {
	kind, ok := wire.ParseAction(action)
	if !ok {
		m.log.Debug("unknown action", zap.String("id", id), zap.String("action", action))
		return false
	}
	return m.perform(id, kind, value)
}

// perform is the bridge's action callback. A handled action re-syncs the
// element, and its siblings after a selection.
func (m *Mirror) perform(id string, kind wire.ActionKind, value *string) bool {
	m.mu.Lock()
	e, ok := m.entries[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	act, ok := e.el.(Actionable)
	if !ok || !act.PerformAction(kind, value) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return true
	}
	ids := []string{id}
	if kind == wire.ActionSelect {
		if p, ok := m.entries[e.parentID]; ok {
			ids = p.childIDs
		}
	}
	for _, sid := range ids {
		if err := m.updateLocked(sid); err != nil {
			m.log.Warn("resync after action failed", zap.String("id", sid), zap.Error(err))
		}
	}
	if kind == wire.ActionFocus {
		if err := m.bridge.SetFocus(id); err != nil {
			m.log.Warn("focus after action failed", zap.String("id", id), zap.Error(err))
		}
	}
	return true
}
