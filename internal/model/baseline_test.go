package model

import (
	"path/filepath"
	"testing"
)

func TestElementHash_IgnoresIDAndValue(t *testing.T) {
	el1 := FlatElement{ID: "a", Role: "input", Title: "Search", Value: "old", Path: "window"}
	el2 := FlatElement{ID: "b", Role: "input", Title: "Search", Value: "new", Path: "window"}
	if ElementHash(el1) != ElementHash(el2) {
		t.Error("hash should depend on neither id nor value")
	}
}

func TestElementHash_Differs(t *testing.T) {
	base := FlatElement{Role: "btn", Title: "OK", Path: "window > toolbar"}
	tests := []struct {
		name string
		el   FlatElement
	}{
		{"role", FlatElement{Role: "lnk", Title: "OK", Path: "window > toolbar"}},
		{"title", FlatElement{Role: "btn", Title: "Cancel", Path: "window > toolbar"}},
		{"path", FlatElement{Role: "btn", Title: "OK", Path: "window > footer"}},
	}
	for _, tt := range tests {
		if ElementHash(base) == ElementHash(tt.el) {
			t.Errorf("different %s should produce different hashes", tt.name)
		}
	}
}

func TestDiffBaseline_NoChanges(t *testing.T) {
	elements := []FlatElement{
		{ID: "ok", Role: "btn", Title: "OK", Bounds: [4]int{10, 20, 10, 1}, Path: "window"},
	}
	diff := DiffBaseline(elements, elements)
	if !diff.Empty() {
		t.Errorf("expected empty diff, got %+v", diff)
	}
	if diff.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged, got %d", diff.UnchangedCount)
	}
}

func TestDiffBaseline_AddedRemoved(t *testing.T) {
	prev := []FlatElement{
		{ID: "1", Role: "btn", Title: "OK", Path: "window"},
		{ID: "2", Role: "txt", Title: "Loading...", Path: "window"},
	}
	curr := []FlatElement{
		{ID: "9", Role: "btn", Title: "OK", Path: "window"},
		{ID: "3", Role: "btn", Title: "Cancel", Path: "window"},
	}
	diff := DiffBaseline(prev, curr)
	if len(diff.Added) != 1 || diff.Added[0].Title != "Cancel" {
		t.Errorf("added = %+v, want Cancel", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].Title != "Loading..." {
		t.Errorf("removed = %+v, want Loading...", diff.Removed)
	}
	if diff.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged, got %d", diff.UnchangedCount)
	}
}

func TestDiffBaseline_Changed(t *testing.T) {
	disabled := false
	prev := []FlatElement{
		{ID: "q", Role: "input", Title: "Search", Path: "window"},
		{ID: "go", Role: "btn", Title: "Go", Path: "window"},
	}
	curr := []FlatElement{
		{ID: "q", Role: "input", Title: "Search", Value: "hello", Focused: true, Path: "window"},
		{ID: "go", Role: "btn", Title: "Go", Enabled: &disabled, Path: "window"},
	}
	diff := DiffBaseline(prev, curr)
	if len(diff.Changed) != 2 {
		t.Fatalf("expected 2 changed, got %d", len(diff.Changed))
	}
	if got := diff.Changed[0].Changes["v"]; got != [2]string{"", "hello"} {
		t.Errorf("value change = %v", got)
	}
	if got := diff.Changed[0].Changes["f"]; got != [2]string{"false", "true"} {
		t.Errorf("focus change = %v", got)
	}
	if got := diff.Changed[1].Changes["e"]; got != [2]string{"true", "false"} {
		t.Errorf("enabled change = %v", got)
	}
}

func TestDiffBaseline_DuplicateSiblings(t *testing.T) {
	prev := []FlatElement{
		{ID: "a", Role: "btn", Title: "OK", Path: "window", Bounds: [4]int{0, 0, 4, 1}},
		{ID: "b", Role: "btn", Title: "OK", Path: "window", Bounds: [4]int{0, 1, 4, 1}},
	}
	curr := []FlatElement{
		{ID: "c", Role: "btn", Title: "OK", Path: "window", Bounds: [4]int{0, 0, 4, 1}},
		{ID: "d", Role: "btn", Title: "OK", Path: "window", Bounds: [4]int{0, 2, 4, 1}},
	}
	diff := DiffBaseline(prev, curr)
	if diff.UnchangedCount != 1 || len(diff.Changed) != 1 {
		t.Fatalf("unchanged=%d changed=%d, want 1 and 1", diff.UnchangedCount, len(diff.Changed))
	}
	if diff.Changed[0].ID != "d" {
		t.Errorf("changed id = %s, want d", diff.Changed[0].ID)
	}
}

func TestDiffBaseline_Empty(t *testing.T) {
	if diff := DiffBaseline(nil, nil); !diff.Empty() || diff.UnchangedCount != 0 {
		t.Errorf("expected empty diff for nil inputs, got %+v", diff)
	}
}

func TestSaveLoadBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.yaml")
	elements := []FlatElement{
		{ID: "ok", Role: "btn", Title: "OK", Bounds: [4]int{10, 20, 10, 1}, Path: "window"},
		{ID: "q", Role: "input", Title: "Search", Value: "hello", States: []string{"required"}, Path: "window"},
	}
	if err := SaveBaseline(path, elements); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadBaseline(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := DiffBaseline(elements, loaded); !diff.Empty() || diff.UnchangedCount != 2 {
		t.Errorf("round trip changed the baseline: %+v", diff)
	}
}

func TestLoadBaseline_NotFound(t *testing.T) {
	if _, err := LoadBaseline(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing baseline")
	}
}
