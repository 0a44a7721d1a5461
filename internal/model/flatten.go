package model

// FlatElement is an element without children. Path holds the role codes
// from the root down to the element, joined by " > ".
type FlatElement struct {
	ID          string      `yaml:"i"                 json:"i"`
	Role        string      `yaml:"r"                 json:"r"`
	Title       string      `yaml:"t,omitempty"       json:"t,omitempty"`
	Value       string      `yaml:"v,omitempty"       json:"v,omitempty"`
	Description string      `yaml:"d,omitempty"       json:"d,omitempty"`
	Hint        string      `yaml:"h,omitempty"       json:"h,omitempty"`
	Bounds      [4]int      `yaml:"b,flow"            json:"b"`
	Focused     bool        `yaml:"f,omitempty"       json:"f,omitempty"`
	Enabled     *bool       `yaml:"e,omitempty"       json:"e,omitempty"`
	Selected    bool        `yaml:"s,omitempty"       json:"s,omitempty"`
	States      []string    `yaml:"st,flow,omitempty" json:"st,omitempty"`
	Level       int         `yaml:"l,omitempty"       json:"l,omitempty"`
	Live        string      `yaml:"lv,omitempty"      json:"lv,omitempty"`
	Range       *[3]float64 `yaml:"rg,flow,omitempty" json:"rg,omitempty"`
	Actions     []string    `yaml:"a,flow,omitempty"  json:"a,omitempty"`
	Path        string      `yaml:"p,omitempty"       json:"p,omitempty"`
}

// Flat returns el without its children, under the given path.
func (el Element) Flat(path string) FlatElement {
	return FlatElement{
		ID:          el.ID,
		Role:        el.Role,
		Title:       el.Title,
		Value:       el.Value,
		Description: el.Description,
		Hint:        el.Hint,
		Bounds:      el.Bounds,
		Focused:     el.Focused,
		Enabled:     el.Enabled,
		Selected:    el.Selected,
		States:      el.States,
		Level:       el.Level,
		Live:        el.Live,
		Range:       el.Range,
		Actions:     el.Actions,
		Path:        path,
	}
}

// FlattenElements lists every element of the forest in depth-first order.
func FlattenElements(elements []Element) []FlatElement {
	var out []FlatElement
	var walk func(els []Element, parent string)
	walk = func(els []Element, parent string) {
		for _, el := range els {
			path := el.Role
			if parent != "" {
				path = parent + " > " + el.Role
			}
			out = append(out, el.Flat(path))
			walk(el.Children, path)
		}
	}
	walk(elements, "")
	return out
}
