package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ChangeType represents the kind of change an upsert or a tree diff found.
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeChanged   ChangeType = "changed"
	ChangeUnchanged ChangeType = "unchanged"
)

// UIChange represents a single change between two snapshots of the mirror.
type UIChange struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	TS      int64                `yaml:"ts"                json:"ts"`
	Element *FlatElement         `yaml:"el,omitempty"      json:"el,omitempty"`      // added
	Path    string               `yaml:"p,omitempty"       json:"p,omitempty"`       // added
	ID      string               `yaml:"id,omitempty"      json:"id,omitempty"`      // removed, changed
	Role    string               `yaml:"r,omitempty"       json:"r,omitempty"`       // removed
	Title   string               `yaml:"t,omitempty"       json:"t,omitempty"`       // removed
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // changed: key -> [old, new]
}

// flatField is one comparable field of a FlatElement, keyed by its compact
// output name. Identity fields make up ElementHash.
type flatField struct {
	key      string
	identity bool
	format   func(FlatElement) string
}

var flatFields = []flatField{
	{"r", true, func(e FlatElement) string { return e.Role }},
	{"t", true, func(e FlatElement) string { return e.Title }},
	{"d", true, func(e FlatElement) string { return e.Description }},
	{"p", true, func(e FlatElement) string { return e.Path }},
	{"v", false, func(e FlatElement) string { return e.Value }},
	{"h", false, func(e FlatElement) string { return e.Hint }},
	{"b", false, func(e FlatElement) string { return fmt.Sprint(e.Bounds) }},
	{"f", false, func(e FlatElement) string { return strconv.FormatBool(e.Focused) }},
	{"e", false, func(e FlatElement) string { return strconv.FormatBool(isEnabled(e)) }},
	{"s", false, func(e FlatElement) string { return strconv.FormatBool(e.Selected) }},
	{"st", false, func(e FlatElement) string { return strings.Join(e.States, ",") }},
	{"l", false, func(e FlatElement) string { return strconv.Itoa(e.Level) }},
	{"lv", false, func(e FlatElement) string { return e.Live }},
	{"rg", false, formatRange},
}

func formatRange(e FlatElement) string {
	if e.Range == nil {
		return ""
	}
	r := e.Range
	return fmt.Sprintf("%g (%g..%g)", r[2], r[0], r[1])
}

func isEnabled(el FlatElement) bool {
	return el.Enabled == nil || *el.Enabled
}

// compareFields returns the fields that differ, skipping identity fields
// when mutableOnly is set. It returns nil when nothing differs.
func compareFields(prev, curr FlatElement, mutableOnly bool) map[string][2]string {
	var diffs map[string][2]string
	for _, f := range flatFields {
		if mutableOnly && f.identity {
			continue
		}
		a, b := f.format(prev), f.format(curr)
		if a == b {
			continue
		}
		if diffs == nil {
			diffs = make(map[string][2]string)
		}
		diffs[f.key] = [2]string{a, b}
	}
	return diffs
}

// DiffElements compares two flat element lists matched by node ID. Added
// and changed elements are reported in curr order, then removed ones in
// prev order.
func DiffElements(prev, curr []FlatElement) []UIChange {
	before := make(map[string]FlatElement, len(prev))
	for _, el := range prev {
		before[el.ID] = el
	}
	after := make(map[string]bool, len(curr))
	now := time.Now().Unix()

	var changes []UIChange
	for _, el := range curr {
		after[el.ID] = true
		old, ok := before[el.ID]
		if !ok {
			added := el
			changes = append(changes, UIChange{Type: ChangeAdded, TS: now, Element: &added, Path: el.Path})
			continue
		}
		if diffs := compareFields(old, el, false); diffs != nil {
			changes = append(changes, UIChange{Type: ChangeChanged, TS: now, ID: el.ID, Changes: diffs})
		}
	}
	for _, el := range prev {
		if !after[el.ID] {
			changes = append(changes, UIChange{Type: ChangeRemoved, TS: now, ID: el.ID, Role: el.Role, Title: el.Title})
		}
	}
	return changes
}
