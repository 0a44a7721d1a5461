package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
)

func TestTreeCommand_Flags(t *testing.T) {
	flags := treeCmd.Flags()
	tests := []struct {
		name     string
		flagType string
	}{
		{"roles", "string"},
		{"text", "string"},
		{"focused", "bool"},
		{"bbox", "string"},
		{"prune", "bool"},
		{"flat", "bool"},
		{"steps", "bool"},
		{"offline", "bool"},
		{"save", "string"},
	}
	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestTreeCommand_YAML(t *testing.T) {
	path := writeFile(t, "scene.yaml", settingsScene)
	out, err := execute(t, "tree", path, "--backend", "stub")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"platform: stub", "root: root", "focused: light", "count: 7", "t: Volume"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeCommand_StepsJSON(t *testing.T) {
	path := writeFile(t, "scene.yaml", settingsScene)
	out, err := execute(t, "tree", path, "--backend", "stub", "--format", "json", "--steps")
	if err != nil {
		t.Fatal(err)
	}
	var res output.TreeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	volume := model.FindElementByID(res.Elements, "volume")
	if volume == nil || volume.Range == nil || volume.Range[2] != 55 {
		t.Fatalf("volume = %+v", volume)
	}
	if root := model.FindElementByID(res.Elements, "root"); root == nil || root.Title != "Settings*" {
		t.Errorf("root = %+v", root)
	}
	if dark := model.FindElementByID(res.Elements, "dark"); dark == nil || !dark.Selected {
		t.Errorf("dark = %+v", dark)
	}
}

func TestTreeCommand_Offline(t *testing.T) {
	path := writeFile(t, "scene.yaml", settingsScene)
	out, err := execute(t, "tree", path, "--offline", "--backend", "stub")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"root: root", "focused: light", "count: 7"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeCommand_FlatRoles(t *testing.T) {
	path := writeFile(t, "scene.yaml", settingsScene)
	out, err := execute(t, "tree", path, "--backend", "stub", "--flat", "--roles", "btn", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var res output.FlatResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(res.Elements) != 1 || res.Elements[0].ID != "apply" {
		t.Fatalf("elements = %+v", res.Elements)
	}
}

func TestTreeCommand_TreeFormat(t *testing.T) {
	path := writeFile(t, "scene.yaml", settingsScene)
	out, err := execute(t, "tree", path, "--backend", "stub", "--format", "tree")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 7 {
		t.Errorf("expected 7 lines, got %d:\n%s", lines, out)
	}
}

func TestTreeCommand_BadBBox(t *testing.T) {
	path := writeFile(t, "scene.yaml", settingsScene)
	if _, err := execute(t, "tree", path, "--backend", "stub", "--bbox", "1,2"); err == nil {
		t.Error("expected error for malformed bbox")
	}
}

func TestTreeCommand_SaveBaseline(t *testing.T) {
	path := writeFile(t, "scene.yaml", settingsScene)
	baseline := filepath.Join(t.TempDir(), "baseline.yaml")
	if _, err := execute(t, "tree", path, "--backend", "stub", "--save", baseline); err != nil {
		t.Fatal(err)
	}
	saved, err := model.LoadBaseline(baseline)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 7 {
		t.Fatalf("baseline has %d elements", len(saved))
	}

	if _, err := execute(t, "assert", path, "--backend", "stub", "--baseline", baseline); err != nil {
		t.Errorf("unchanged scene should match its baseline: %v", err)
	}
	out, err := execute(t, "assert", path, "--backend", "stub", "--baseline", baseline, "--steps")
	if err == nil {
		t.Fatalf("steps should change the tree:\n%s", out)
	}
	if !strings.Contains(out, "baseline:") {
		t.Errorf("output missing baseline diff:\n%s", out)
	}
}
