package model

import (
	"crypto/sha256"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BaselineChange is an element whose mutable fields differ from the
// baseline.
type BaselineChange struct {
	ID      string               `yaml:"i"           json:"i"`
	Role    string               `yaml:"r,omitempty" json:"r,omitempty"`
	Title   string               `yaml:"t,omitempty" json:"t,omitempty"`
	Changes map[string][2]string `yaml:"changes"     json:"changes"`
}

// BaselineDiff compares a mirrored tree against a saved baseline.
type BaselineDiff struct {
	Added          []FlatElement    `yaml:"added,omitempty"   json:"added,omitempty"`
	Removed        []FlatElement    `yaml:"removed,omitempty" json:"removed,omitempty"`
	Changed        []BaselineChange `yaml:"changed,omitempty" json:"changed,omitempty"`
	UnchangedCount int              `yaml:"unchanged_count"   json:"unchanged_count"`
}

// Empty reports whether the trees matched.
func (d BaselineDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// ElementHash identifies an element by role, name, description and tree
// path. Generated node ids differ between runs, so baselines never match on
// them.
func ElementHash(el FlatElement) string {
	h := sha256.New()
	for _, f := range flatFields {
		if f.identity {
			fmt.Fprintf(h, "%s|", f.format(el))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// hashAll keys elements by hash. Identical siblings get an occurrence
// suffix so the second "OK" button matches the second one in the baseline.
func hashAll(elements []FlatElement) ([]string, map[string]FlatElement) {
	keys := make([]string, len(elements))
	byKey := make(map[string]FlatElement, len(elements))
	seen := make(map[string]int, len(elements))
	for i, el := range elements {
		h := ElementHash(el)
		if n := seen[h]; n > 0 {
			keys[i] = fmt.Sprintf("%s#%d", h, n)
		} else {
			keys[i] = h
		}
		seen[h]++
		byKey[keys[i]] = el
	}
	return keys, byKey
}

// DiffBaseline compares curr against the baseline prev. Added elements are
// reported in curr order, removed ones in prev order.
func DiffBaseline(prev, curr []FlatElement) BaselineDiff {
	prevKeys, prevByKey := hashAll(prev)
	currKeys, currByKey := hashAll(curr)

	var diff BaselineDiff
	for i, el := range curr {
		prevEl, existed := prevByKey[currKeys[i]]
		if !existed {
			diff.Added = append(diff.Added, el)
			continue
		}
		if changes := compareFields(prevEl, el, true); len(changes) > 0 {
			diff.Changed = append(diff.Changed, BaselineChange{
				ID:      el.ID,
				Role:    el.Role,
				Title:   el.Title,
				Changes: changes,
			})
		} else {
			diff.UnchangedCount++
		}
	}
	for i, el := range prev {
		if _, exists := currByKey[prevKeys[i]]; !exists {
			diff.Removed = append(diff.Removed, el)
		}
	}
	return diff
}

// SaveBaseline writes elements to path as YAML.
func SaveBaseline(path string, elements []FlatElement) error {
	data, err := yaml.Marshal(elements)
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBaseline reads a baseline written by SaveBaseline.
func LoadBaseline(path string) ([]FlatElement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	var elements []FlatElement
	if err := yaml.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("unmarshal baseline: %w", err)
	}
	return elements, nil
}
