package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Query bundles the display filters shared by the tree command and the MCP
// tree tools.
type Query struct {
	Roles   []string
	Text    string
	Focused bool
	BBox    *[4]int
	Prune   bool
}

// Apply runs q's filters over elements. Pruning runs first so role and text
// filters see the promoted children.
func (q Query) Apply(elements []Element) []Element {
	if q.Prune {
		elements = PruneEmptyGroups(elements)
	}
	elements = FilterElements(elements, q.Roles, q.BBox)
	elements = FilterByText(elements, q.Text)
	if q.Focused {
		elements = FilterByFocused(elements)
	}
	return elements
}

// hoist keeps the elements for which keep is true. A rejected element is
// replaced by its surviving descendants.
func hoist(elements []Element, keep func(Element) bool) []Element {
	var out []Element
	for _, el := range elements {
		children := hoist(el.Children, keep)
		if !keep(el) {
			out = append(out, children...)
			continue
		}
		el.Children = children
		out = append(out, el)
	}
	return out
}

// ancestry keeps the elements for which match is true together with all of
// their ancestors. Non-matching subtrees are dropped.
func ancestry(elements []Element, match func(Element) bool) []Element {
	var out []Element
	for _, el := range elements {
		children := ancestry(el.Children, match)
		if !match(el) && len(children) == 0 {
			continue
		}
		el.Children = children
		out = append(out, el)
	}
	return out
}

// FilterElements keeps elements with one of roles (meta-roles expanded)
// that intersect bbox. Nil filters match everything.
func FilterElements(elements []Element, roles []string, bbox *[4]int) []Element {
	if len(roles) == 0 && bbox == nil {
		return elements
	}
	want := make(map[string]bool, len(roles))
	for _, r := range ExpandRoles(roles) {
		want[r] = true
	}
	return hoist(elements, func(el Element) bool {
		if len(want) > 0 && !want[el.Role] {
			return false
		}
		return bbox == nil || boundsIntersect(el.Bounds, *bbox)
	})
}

// FilterByText keeps elements whose name, value, description or hint
// contains text, case-insensitively, and their ancestors.
func FilterByText(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	needle := strings.ToLower(text)
	return ancestry(elements, func(el Element) bool {
		for _, s := range [...]string{el.Title, el.Value, el.Description, el.Hint} {
			if strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false
	})
}

// FilterByFocused keeps the focused element and its ancestors.
func FilterByFocused(elements []Element) []Element {
	return ancestry(elements, func(el Element) bool { return el.Focused })
}

// PruneEmptyGroups drops anonymous containers (none, group or other with no
// name, value or description), promoting their children. Terminal layouts
// produce many of these.
func PruneEmptyGroups(elements []Element) []Element {
	return hoist(elements, func(el Element) bool { return !isEmptyGroup(el) })
}

func isEmptyGroup(el Element) bool {
	switch el.Role {
	case "none", "group", "other":
		return el.Title == "" && el.Value == "" && el.Description == ""
	}
	return false
}

// boundsIntersect reports whether two [x, y, width, height] boxes overlap.
func boundsIntersect(a, b [4]int) bool {
	return a[0] < b[0]+b[2] && b[0] < a[0]+a[2] &&
		a[1] < b[1]+b[3] && b[1] < a[1]+a[3]
}

// ParseBounds parses an "x,y,w,h" box in cells.
func ParseBounds(s string) (*[4]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bounds %q: expected x,y,w,h", s)
	}
	var b [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bounds %q: %w", s, err)
		}
		b[i] = v
	}
	if b[2] < 0 || b[3] < 0 {
		return nil, fmt.Errorf("invalid bounds %q: negative size", s)
	}
	return &b, nil
}

// SplitRoles parses a comma-separated role list.
func SplitRoles(s string) []string {
	var roles []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
