package model

import "github.com/mj1618/a11y-bridge/internal/wire"

// ElementFromNode converts a canonical node to its display form without
// children.
func ElementFromNode(n Node) Element {
	el := Element{
		ID:          n.ID,
		Role:        MapRole(n.Role),
		Title:       n.Name,
		Value:       n.Value,
		Description: n.Description,
		Hint:        n.Hint,
		Bounds:      [4]int{int(n.Rect.X), int(n.Rect.Y), int(n.Rect.Width), int(n.Rect.Height)},
		Focused:     n.State.Has(wire.StateFocused),
		Selected:    n.State.Has(wire.StateSelected),
		Level:       int(n.Level),
		Actions:     ActionNames(n.Role, n.State),
	}
	if n.State.Has(wire.StateDisabled) {
		enabled := false
		el.Enabled = &enabled
	}
	rest := n.State &^ (wire.StateFocused | wire.StateSelected | wire.StateDisabled)
	el.States = rest.Names()
	if n.Live != wire.LiveOff {
		el.Live = n.Live.String()
	}
	if hasRange(n.Role) {
		el.Range = &[3]float64{n.Min, n.Max, n.Current}
	}
	return el
}

// BuildTree reconstructs the nested element tree from a flat node list.
// The tree rooted at rootID comes first; nodes unreachable from the root
// (orphans whose parent was removed, or subtrees whose parent has not been
// seen yet) follow as additional top-level trees in input order.
func BuildTree(nodes []Node, rootID string) []Element {
	byID := make(map[string]*Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	visited := make(map[string]bool, len(nodes))
	var build func(id string) (Element, bool)
	build = func(id string) (Element, bool) {
		n, ok := byID[id]
		if !ok || visited[id] {
			return Element{}, false
		}
		visited[id] = true
		el := ElementFromNode(*n)
		for _, cid := range n.ChildIDs {
			if child, ok := build(cid); ok {
				el.Children = append(el.Children, child)
			}
		}
		return el, true
	}

	var result []Element
	if rootID != "" {
		if el, ok := build(rootID); ok {
			result = append(result, el)
		}
	}
	for i := range nodes {
		n := &nodes[i]
		if visited[n.ID] {
			continue
		}
		// Start detached trees at their topmost reachable ancestor.
		if _, parentKnown := byID[n.ParentID]; parentKnown && n.ParentID != "" {
			continue
		}
		if el, ok := build(n.ID); ok {
			result = append(result, el)
		}
	}
	return result
}

// FindElementByID searches the element tree recursively for an element with
// the given ID.
func FindElementByID(elements []Element, id string) *Element {
	for i := range elements {
		if elements[i].ID == id {
			return &elements[i]
		}
		if found := FindElementByID(elements[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}
