package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// LabelMode controls what text is drawn on each element box.
type LabelMode int

const (
	// LabelNames draws the role code and accessible name.
	LabelNames LabelMode = iota
	// LabelIDs draws "#id".
	LabelIDs
	// LabelNone draws boxes only.
	LabelNone
)

// ParseLabelMode parses a --labels value.
func ParseLabelMode(s string) (LabelMode, error) {
	switch s {
	case "", "names":
		return LabelNames, nil
	case "ids":
		return LabelIDs, nil
	case "none":
		return LabelNone, nil
	}
	return LabelNames, fmt.Errorf("unsupported label mode: %s (use names, ids, or none)", s)
}

var (
	backgroundColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	boxColor        = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	focusColor      = color.RGBA{R: 60, G: 200, B: 255, A: 255}
	disabledColor   = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor    = color.RGBA{A: 200}
)

var labelFace = basicfont.Face7x13

// cellExtent returns the width and height in cells covering every element.
func cellExtent(elements []model.Element) (int, int) {
	w, h := 0, 0
	var walk func([]model.Element)
	walk = func(els []model.Element) {
		for _, el := range els {
			w = max(w, el.Bounds[0]+el.Bounds[2])
			h = max(h, el.Bounds[1]+el.Bounds[3])
			walk(el.Children)
		}
	}
	walk(elements)
	return w, h
}

// renderElements draws every element's box on a canvas sized to the tree,
// parents before children so nested boxes stay visible.
func renderElements(elements []model.Element, cellW, cellH int, mode LabelMode) *image.RGBA {
	w, h := cellExtent(elements)
	img := image.NewRGBA(image.Rect(0, 0, max(w*cellW, 1), max(h*cellH, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	var walk func([]model.Element)
	walk = func(els []model.Element) {
		for _, el := range els {
			drawElement(img, el, cellW, cellH, mode)
			walk(el.Children)
		}
	}
	walk(elements)
	return img
}

func drawElement(img *image.RGBA, el model.Element, cellW, cellH int, mode LabelMode) {
	x := el.Bounds[0] * cellW
	y := el.Bounds[1] * cellH
	w := el.Bounds[2] * cellW
	h := el.Bounds[3] * cellH

	c := boxColor
	switch {
	case el.Focused:
		c = focusColor
	case el.Enabled != nil && !*el.Enabled:
		c = disabledColor
	}
	drawRectangle(img, x, y, x+w, y+h, c)
	if el.Focused {
		drawRectangle(img, x+1, y+1, x+w-1, y+h-1, c)
	}

	label := elementLabel(el, mode)
	if label == "" || w < 8 {
		return
	}
	label = fitLabel(label, w-4)
	ascent := labelFace.Metrics().Ascent.Ceil()
	drawTextWithOutline(img, label, x+2, y+1+ascent, textColor, outlineColor)
}

func elementLabel(el model.Element, mode LabelMode) string {
	switch mode {
	case LabelIDs:
		return "#" + el.ID
	case LabelNames:
		if el.Title == "" {
			return el.Role
		}
		return el.Role + " " + el.Title
	}
	return ""
}

// fitLabel truncates s to at most width pixels.
func fitLabel(s string, width int) string {
	r := []rune(s)
	for len(r) > 0 && font.MeasureString(labelFace, string(r)).Ceil() > width {
		r = r[:len(r)-1]
	}
	return string(r)
}

// drawRectangle draws a one-pixel outline clipped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawTextWithOutline draws text with its baseline at (x, y) over a
// one-pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, fg, outline color.Color) {
	d := &font.Drawer{Dst: img, Face: labelFace}
	d.Src = image.NewUniform(outline)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(fg)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
