package output

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/model"
)

func sampleTree() TreeResult {
	return TreeResult{
		Platform: "stub",
		Root:     "win",
		Count:    2,
		Elements: []model.Element{{
			ID: "win", Role: "window", Title: "App",
			Children: []model.Element{
				{ID: "ok", Role: "btn", Title: "OK", Bounds: [4]int{10, 20, 4, 1}, Focused: true},
			},
		}},
	}
}

// capture redirects Stdout for the duration of fn.
func capture(t *testing.T, format Format, fn func() error) string {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldFormat := Stdout, OutputFormat
	Stdout, OutputFormat = &buf, format
	t.Cleanup(func() { Stdout, OutputFormat = oldOut, oldFormat })
	if err := fn(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPrintYAML(t *testing.T) {
	out := capture(t, FormatYAML, func() error { return Print(sampleTree()) })

	if strings.Count(out, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", out)
	}
	var decoded TreeResult
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Root != "win" || len(decoded.Elements) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if got := decoded.Elements[0].Children[0].Bounds; got != [4]int{10, 20, 4, 1} {
		t.Errorf("bounds = %v", got)
	}
}

func TestTreeResult_OmitEmpty(t *testing.T) {
	data, err := yaml.Marshal(TreeResult{Platform: "stub", Elements: []model.Element{}})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["root"]; ok {
		t.Error("empty root should be omitted")
	}
	if _, ok := m["focused"]; ok {
		t.Error("empty focused should be omitted")
	}
	if _, ok := m["count"]; !ok {
		t.Error("count should always be present")
	}
}

func TestPrintTree(t *testing.T) {
	out := capture(t, FormatTree, func() error { return Print(sampleTree()) })
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d:\n%s", len(lines), out)
	}
	for _, want := range []string{"window", `"App"`, "#win"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("root line %q missing %q", lines[0], want)
		}
	}
	for _, want := range []string{"btn", `"OK"`, "*focused*", "#ok"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("child line %q missing %q", lines[1], want)
		}
	}
}

func TestPrintTree_FallsBackToYAML(t *testing.T) {
	out := capture(t, FormatTree, func() error { return Print(map[string]int{"nodes": 3}) })
	if strings.TrimSpace(out) != "nodes: 3" {
		t.Errorf("got %q", out)
	}
}

func TestLabel(t *testing.T) {
	disabled := false
	el := model.Element{
		ID: "vol", Role: "slider", Title: "Volume", Value: "loud",
		Range:   &[3]float64{0, 100, 40},
		States:  []string{"checked"},
		Enabled: &disabled,
	}
	got := Label(el)
	for _, want := range []string{"slider", `"Volume"`, "= loud", "40/100", "checked", "disabled", "#vol"} {
		if !strings.Contains(got, want) {
			t.Errorf("label %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "focused") {
		t.Errorf("unfocused label %q mentions focus", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"tree", FormatTree, false},
		{"agent", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
