package cmd

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font"

	"github.com/mj1618/a11y-bridge/internal/model"
)

func TestParseLabelMode(t *testing.T) {
	tests := []struct {
		in      string
		want    LabelMode
		wantErr bool
	}{
		{"", LabelNames, false},
		{"names", LabelNames, false},
		{"ids", LabelIDs, false},
		{"none", LabelNone, false},
		{"roles", LabelNames, true},
	}
	for _, tt := range tests {
		got, err := ParseLabelMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLabelMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLabelMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderElements(t *testing.T) {
	elements := []model.Element{{
		ID: "root", Role: "window", Title: "Main", Bounds: [4]int{0, 0, 10, 4},
		Children: []model.Element{
			{ID: "ok", Role: "btn", Title: "OK", Bounds: [4]int{1, 1, 4, 1}, Focused: true},
		},
	}}
	img := renderElements(elements, 8, 16, LabelNames)
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 64 {
		t.Fatalf("bounds = %v, want 80x64", b)
	}
	if got := img.RGBAAt(8, 16); got != focusColor {
		t.Errorf("focused box corner = %v, want %v", got, focusColor)
	}
	if got := img.RGBAAt(0, 63); got != boxColor {
		t.Errorf("root box corner = %v, want %v", got, boxColor)
	}
}

func TestRenderElements_Empty(t *testing.T) {
	img := renderElements(nil, 8, 16, LabelNone)
	if b := img.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("bounds = %v, want 1x1", b)
	}
}

func TestElementLabel(t *testing.T) {
	el := model.Element{ID: "ok", Role: "btn", Title: "OK"}
	if got := elementLabel(el, LabelNames); got != "btn OK" {
		t.Errorf("names = %q", got)
	}
	if got := elementLabel(el, LabelIDs); got != "#ok" {
		t.Errorf("ids = %q", got)
	}
	if got := elementLabel(el, LabelNone); got != "" {
		t.Errorf("none = %q", got)
	}
	if got := elementLabel(model.Element{Role: "group"}, LabelNames); got != "group" {
		t.Errorf("untitled = %q", got)
	}
}

func TestFitLabel(t *testing.T) {
	s := "a fairly long label"
	got := fitLabel(s, 35)
	if !strings.HasPrefix(s, got) || len(got) >= len(s) {
		t.Fatalf("fitLabel = %q", got)
	}
	if w := font.MeasureString(labelFace, got).Ceil(); w > 35 {
		t.Errorf("label width %d exceeds 35", w)
	}
	if got := fitLabel(s, 1000); got != s {
		t.Errorf("short label was truncated: %q", got)
	}
}

func TestRenderCommand_File(t *testing.T) {
	scenePath := writeFile(t, "scene.yaml", settingsScene)
	out := filepath.Join(t.TempDir(), "tree.png")
	res, err := execute(t, "render", scenePath, "--backend", "stub", "--output", out, "--scale", "0.5")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res, "elements: 7") {
		t.Errorf("output missing element count:\n%s", res)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	// 40x12 cells at the default cell size, halved.
	wantW := 40 * settings.Cell.Width / 2
	wantH := 12 * settings.Cell.Height / 2
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("image = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestRenderCommand_RejectsBadFlags(t *testing.T) {
	scenePath := writeFile(t, "scene.yaml", settingsScene)
	if _, err := execute(t, "render", scenePath, "--backend", "stub", "--scale", "9"); err == nil {
		t.Error("expected error for out-of-range scale")
	}
	if _, err := execute(t, "render", scenePath, "--backend", "stub", "--labels", "roles"); err == nil {
		t.Error("expected error for unknown label mode")
	}
}
