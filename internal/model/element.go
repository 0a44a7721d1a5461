package model

// Element is the display form of an accessible node, used by the mirror's
// read APIs and the CLI output.
type Element struct {
	ID          string      `yaml:"i"                 json:"i"`            // Node ID
	Role        string      `yaml:"r"                 json:"r"`            // Abbreviated role code
	Title       string      `yaml:"t,omitempty"       json:"t,omitempty"`  // Accessible name
	Value       string      `yaml:"v,omitempty"       json:"v,omitempty"`  // Current value
	Description string      `yaml:"d,omitempty"       json:"d,omitempty"`  // Accessibility description
	Hint        string      `yaml:"h,omitempty"       json:"h,omitempty"`  // Usage hint
	Bounds      [4]int      `yaml:"b,flow"            json:"b"`            // [x, y, width, height] in cells
	Focused     bool        `yaml:"f,omitempty"       json:"f,omitempty"`  // Has keyboard focus
	Enabled     *bool       `yaml:"e,omitempty"       json:"e,omitempty"`  // nil = enabled (omit); false = disabled
	Selected    bool        `yaml:"s,omitempty"       json:"s,omitempty"`  // Is selected
	States      []string    `yaml:"st,flow,omitempty" json:"st,omitempty"` // Remaining state flags
	Level       int         `yaml:"l,omitempty"       json:"l,omitempty"`  // Heading level
	Live        string      `yaml:"lv,omitempty"      json:"lv,omitempty"` // Live setting when not off
	Range       *[3]float64 `yaml:"rg,flow,omitempty" json:"rg,omitempty"` // [min, max, current]
	Children    []Element   `yaml:"c,omitempty"       json:"c,omitempty"`  // Child elements
	Actions     []string    `yaml:"a,flow,omitempty"  json:"a,omitempty"`  // Available actions
}

// Count returns the number of elements in the tree rooted at el.
func (el Element) Count() int {
	n := 1
	for _, c := range el.Children {
		n += c.Count()
	}
	return n
}
