package scene

import (
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Scene is a live element tree built from a Spec. It is not safe for
// concurrent use; callers serialize access the same way they serialize a UI.
type Scene struct {
	root  *Element
	byID  map[string]*Element
	focus *Element
	log   *zap.Logger
}

// New builds a scene from root. Ids must be unique; elements without an id
// can't be addressed by steps but are still mirrored.
func New(root *Spec, log *zap.Logger) (*Scene, error) {
	if root == nil {
		return nil, errors.InvalidInput(errors.OpScene, "", "scene has no root")
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{byID: make(map[string]*Element), log: log}
	el, err := s.build(root, nil)
	if err != nil {
		return nil, err
	}
	s.root = el
	return s, nil
}

// FromDocument builds the scene declared by doc.
func FromDocument(doc *Document, log *zap.Logger) (*Scene, error) {
	return New(doc.Root, log)
}

func (s *Scene) build(spec *Spec, parent *Element) (*Element, error) {
	if spec == nil {
		return nil, errors.InvalidInput(errors.OpScene, "", "empty element")
	}
	snap, err := spec.snapshot()
	if err != nil {
		return nil, errors.New(errors.OpScene, errors.KindInvalidInput).
			ID(spec.ID).Cause(err).Build()
	}
	el := &Element{scene: s, parent: parent, id: spec.ID, step: spec.Step}
	if snap.State.Has(wire.StateFocused) {
		s.focus = el
		snap.State &^= wire.StateFocused
	}
	el.snap = snap
	if spec.ID != "" {
		if _, dup := s.byID[spec.ID]; dup {
			return nil, errors.InvalidInput(errors.OpScene, spec.ID, "duplicate element id")
		}
		s.byID[spec.ID] = el
	}
	for _, c := range spec.Children {
		child, err := s.build(c, el)
		if err != nil {
			return nil, err
		}
		el.children = append(el.children, child)
	}
	return el, nil
}

// Root returns the root element.
func (s *Scene) Root() *Element { return s.root }

// Focused returns the focused element, or nil.
func (s *Scene) Focused() *Element { return s.focus }

// Find returns the element with the given id.
func (s *Scene) Find(id string) (*Element, bool) {
	el, ok := s.byID[id]
	return el, ok
}

func (s *Scene) find(id string) (*Element, error) {
	el, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFound(errors.OpScene, id)
	}
	return el, nil
}

// Outcome describes an applied step.
type Outcome struct {
	Kind string
	// Handled is set for action steps the element accepted.
	Handled bool
}

// Apply performs one step on the scene and reports it through m.
func (s *Scene) Apply(m *mirror.Mirror, step Step) (Outcome, error) {
	kind, err := step.Kind()
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Kind: kind}
	switch kind {
	case StepFocus:
		err = s.applyFocus(m, *step.Focus)
	case StepAnnounce:
		err = s.applyAnnounce(m, step.Announce)
	case StepSet:
		err = s.applySet(m, step.Set)
	case StepAdd:
		err = s.applyAdd(m, step.Add)
	case StepRemove:
		err = s.applyRemove(m, *step.Remove)
	case StepAction:
		out.Handled, err = s.applyAction(m, step.Action)
	case StepNotify:
		err = s.applyNotify(m, step.Notify)
	case StepTick:
		n := max(*step.Tick, 1)
		for range n {
			m.Tick()
		}
	}
	return out, err
}

// Run applies steps in order, stopping at the first error. each, when not
// nil, is called after every applied step.
func (s *Scene) Run(m *mirror.Mirror, steps []Step, each func(i int, out Outcome)) error {
	for i, step := range steps {
		out, err := s.Apply(m, step)
		if err != nil {
			return errors.New(errors.OpScene, errors.KindInvalidInput).
				Cause(err).Detail("step %d (%s)", i+1, out.Kind).Build()
		}
		s.log.Debug("step applied", zap.Int("step", i+1), zap.String("kind", out.Kind), zap.Bool("handled", out.Handled))
		if each != nil {
			each(i, out)
		}
	}
	return nil
}

func (s *Scene) applyFocus(m *mirror.Mirror, id string) error {
	if id == "" {
		s.focus = nil
		return m.NotifyFocusChanged(nil)
	}
	el, err := s.find(id)
	if err != nil {
		return err
	}
	s.focus = el
	return m.NotifyFocusChanged(el)
}

func (s *Scene) applyAnnounce(m *mirror.Mirror, a *Announcement) error {
	priority := wire.PriorityPolite
	if a.Priority != "" {
		p, err := wire.ParseLive(a.Priority)
		if err != nil {
			return err
		}
		priority = p
	}
	return m.Announce(a.Message, priority)
}

func (s *Scene) applySet(m *mirror.Mirror, set *Set) error {
	el, err := s.find(set.ID)
	if err != nil {
		return err
	}
	snap := el.snap
	if set.Name != nil {
		snap.Name = *set.Name
	}
	if set.Value != nil {
		snap.Value = *set.Value
	}
	if set.Description != nil {
		snap.Description = *set.Description
	}
	if set.Hint != nil {
		snap.Hint = *set.Hint
	}
	if set.Rect != nil {
		if snap.Rect, err = parseRect(set.Rect); err != nil {
			return err
		}
	}
	if set.State != nil {
		state, err := wire.ParseState(*set.State)
		if err != nil {
			return err
		}
		snap.State = state &^ wire.StateFocused
	}
	if set.Current != nil {
		snap.Current = el.clamp(*set.Current)
	}
	el.snap = snap
	return m.UpdateNode(el)
}

func (s *Scene) applyAdd(m *mirror.Mirror, add *Add) error {
	parent, err := s.find(add.Parent)
	if err != nil {
		return err
	}
	focus := s.focus
	child, err := s.build(add.Element, parent)
	if err != nil {
		s.focus = focus
		return err
	}
	parent.children = append(parent.children, child)
	return m.UpdateNodeChildren(parent)
}

func (s *Scene) applyRemove(m *mirror.Mirror, id string) error {
	el, err := s.find(id)
	if err != nil {
		return err
	}
	if el.parent == nil {
		return errors.InvalidInput(errors.OpScene, id, "cannot remove the root")
	}
	if err := m.RemoveNode(el); err != nil {
		return err
	}
	p := el.parent
	for i, c := range p.children {
		if c == el {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	s.forget(el)
	return nil
}

// forget drops el's subtree from the id index and focus.
func (s *Scene) forget(el *Element) {
	if s.focus == el {
		s.focus = nil
	}
	if el.id != "" {
		delete(s.byID, el.id)
	}
	for _, c := range el.children {
		s.forget(c)
	}
}

func (s *Scene) applyAction(m *mirror.Mirror, a *Action) (bool, error) {
	if _, err := s.find(a.ID); err != nil {
		return false, err
	}
	if _, ok := wire.ParseAction(a.Action); !ok {
		return false, errors.InvalidEnum(errors.OpScene, a.Action, "action")
	}
	return m.PerformAction(a.ID, a.Action, a.Value), nil
}

func (s *Scene) applyNotify(m *mirror.Mirror, n *Notify) error {
	el, err := s.find(n.ID)
	if err != nil {
		return err
	}
	return m.NotifyPropertyChanged(el, n.Property)
}
