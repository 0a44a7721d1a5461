// Package scene describes a UI tree and a script of changes to it in YAML.
// The CLI mirrors scenes through the bridge to exercise backends without a
// real terminal UI.
package scene

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// Document is a parsed scene file.
type Document struct {
	Root  *Spec  `yaml:"root"`
	Steps []Step `yaml:"steps,omitempty"`
}

// Spec declares one element and its subtree.
type Spec struct {
	ID          string   `yaml:"id,omitempty"`
	Role        string   `yaml:"role"`
	Name        string   `yaml:"name,omitempty"`
	Value       string   `yaml:"value,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Hint        string   `yaml:"hint,omitempty"`
	Rect        []int    `yaml:"rect,flow,omitempty"` // [x, y, width, height]
	State       []string `yaml:"state,flow,omitempty"`
	Live        string   `yaml:"live,omitempty"`
	Orientation string   `yaml:"orientation,omitempty"`
	Level       uint8    `yaml:"level,omitempty"`
	Min         float64  `yaml:"min,omitempty"`
	Max         float64  `yaml:"max,omitempty"`
	Current     float64  `yaml:"current,omitempty"`
	// Step is the increment/decrement amount of range controls. Defaults to
	// one tenth of the range.
	Step     float64 `yaml:"step,omitempty"`
	Children []*Spec `yaml:"children,omitempty"`
}

// Load reads and parses a scene file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.OpScene, errors.KindInvalidInput).
			Cause(err).Detail("reading scene").Build()
	}
	return Parse(data)
}

// Parse decodes a scene document and checks every step.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.OpScene, errors.KindInvalidInput).
			Cause(err).Detail("parsing scene").Build()
	}
	if doc.Root == nil {
		return nil, errors.InvalidInput(errors.OpScene, "", "scene has no root")
	}
	for i, s := range doc.Steps {
		if _, err := s.Kind(); err != nil {
			return nil, errors.New(errors.OpScene, errors.KindInvalidInput).
				Cause(err).Detail("step %d", i+1).Build()
		}
	}
	return &doc, nil
}

// snapshot resolves the textual enums of s.
func (s *Spec) snapshot() (mirror.Snapshot, error) {
	role, ok := wire.ParseRole(s.Role)
	if !ok {
		return mirror.Snapshot{}, errors.InvalidEnum(errors.OpScene, s.Role, "role")
	}
	state, err := wire.ParseState(s.State)
	if err != nil {
		return mirror.Snapshot{}, err
	}
	live, err := wire.ParseLive(s.Live)
	if err != nil {
		return mirror.Snapshot{}, err
	}
	orientation, err := wire.ParseOrientation(s.Orientation)
	if err != nil {
		return mirror.Snapshot{}, err
	}
	rect, err := parseRect(s.Rect)
	if err != nil {
		return mirror.Snapshot{}, err
	}
	if s.Level > wire.MaxLevel {
		return mirror.Snapshot{}, errors.InvalidInput(errors.OpScene, s.ID, "level %d exceeds %d", s.Level, wire.MaxLevel)
	}
	return mirror.Snapshot{
		Role:        role,
		Name:        s.Name,
		Value:       s.Value,
		Description: s.Description,
		Hint:        s.Hint,
		Rect:        rect,
		State:       state,
		Live:        live,
		Orientation: orientation,
		Level:       s.Level,
		Min:         s.Min,
		Max:         s.Max,
		Current:     s.Current,
	}, nil
}

func parseRect(r []int) (wire.Rect, error) {
	switch len(r) {
	case 0:
		return wire.Rect{}, nil
	case 4:
	default:
		return wire.Rect{}, errors.InvalidInput(errors.OpScene, "", "rect needs 4 values [x, y, width, height], got %d", len(r))
	}
	if r[2] < 0 || r[3] < 0 {
		return wire.Rect{}, errors.InvalidInput(errors.OpScene, "", "rect size must not be negative: %v", r)
	}
	return wire.Rect{X: int32(r[0]), Y: int32(r[1]), Width: uint32(r[2]), Height: uint32(r[3])}, nil
}

// Step is one scripted change. Exactly one field is set.
type Step struct {
	Focus    *string       `yaml:"focus,omitempty"`
	Announce *Announcement `yaml:"announce,omitempty"`
	Set      *Set          `yaml:"set,omitempty"`
	Add      *Add          `yaml:"add,omitempty"`
	Remove   *string       `yaml:"remove,omitempty"`
	Action   *Action       `yaml:"action,omitempty"`
	Notify   *Notify       `yaml:"notify,omitempty"`
	Tick     *int          `yaml:"tick,omitempty"`
}

// Step kinds.
const (
	StepFocus    = "focus"
	StepAnnounce = "announce"
	StepSet      = "set"
	StepAdd      = "add"
	StepRemove   = "remove"
	StepAction   = "action"
	StepNotify   = "notify"
	StepTick     = "tick"
)

// Kind names the field set on s.
func (s Step) Kind() (string, error) {
	var kinds []string
	if s.Focus != nil {
		kinds = append(kinds, StepFocus)
	}
	if s.Announce != nil {
		kinds = append(kinds, StepAnnounce)
	}
	if s.Set != nil {
		kinds = append(kinds, StepSet)
	}
	if s.Add != nil {
		kinds = append(kinds, StepAdd)
	}
	if s.Remove != nil {
		kinds = append(kinds, StepRemove)
	}
	if s.Action != nil {
		kinds = append(kinds, StepAction)
	}
	if s.Notify != nil {
		kinds = append(kinds, StepNotify)
	}
	if s.Tick != nil {
		kinds = append(kinds, StepTick)
	}
	if len(kinds) != 1 {
		return "", errors.InvalidInput(errors.OpScene, "", "step must have exactly one action, got %v", kinds)
	}
	return kinds[0], nil
}

// Announcement queues a screen reader message.
type Announcement struct {
	Message  string `yaml:"message"`
	Priority string `yaml:"priority,omitempty"`
}

// Set changes fields of an existing element. Nil fields are left alone.
type Set struct {
	ID          string    `yaml:"id"`
	Name        *string   `yaml:"name,omitempty"`
	Value       *string   `yaml:"value,omitempty"`
	Description *string   `yaml:"description,omitempty"`
	Hint        *string   `yaml:"hint,omitempty"`
	Rect        []int     `yaml:"rect,flow,omitempty"`
	State       *[]string `yaml:"state,flow,omitempty"`
	Current     *float64  `yaml:"current,omitempty"`
}

// Add inserts a subtree under an existing element.
type Add struct {
	Parent  string `yaml:"parent"`
	Element *Spec  `yaml:"element"`
}

// Action performs an action as assistive technology would.
type Action struct {
	ID     string  `yaml:"id"`
	Action string  `yaml:"action"`
	Value  *string `yaml:"value,omitempty"`
}

// Notify sends a property change notification.
type Notify struct {
	ID       string `yaml:"id"`
	Property string `yaml:"property"`
}
