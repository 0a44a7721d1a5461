package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"

	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/scene"
)

// RenderResult is the output of the render command when writing a file.
type RenderResult struct {
	Path     string `yaml:"path"     json:"path"`
	Width    int    `yaml:"width"    json:"width"`
	Height   int    `yaml:"height"   json:"height"`
	Elements int    `yaml:"elements" json:"elements"`
}

var renderCmd = &cobra.Command{
	Use:   "render <scene.yaml>",
	Short: "Draw the mirrored node rects as a PNG",
	Long: `Mirror a scene and draw every node's bounding box at the configured cell
size, labelled with its role and name. The focused node is highlighted.

Without --output the PNG is written to stdout as base64.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addQueryFlags(renderCmd)
	renderCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	renderCmd.Flags().String("labels", "names", "Box labels: names, ids, none")
	renderCmd.Flags().Float64("scale", 1.0, "Scale factor 0.1-4.0")
	renderCmd.Flags().Bool("steps", false, "Apply the scene's steps before rendering")
}

func runRender(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("output")
	labels, _ := cmd.Flags().GetString("labels")
	scale, _ := cmd.Flags().GetFloat64("scale")
	steps, _ := cmd.Flags().GetBool("steps")

	mode, err := ParseLabelMode(labels)
	if err != nil {
		return err
	}
	if scale < 0.1 || scale > 4 {
		return fmt.Errorf("scale must be between 0.1 and 4.0, got %g", scale)
	}

	var elements []model.Element
	err = mirrorScene(args[0], steps, func(_ *scene.Scene, m *mirror.Mirror) error {
		elements = q.Apply(m.Bridge().Tree())
		return nil
	})
	if err != nil {
		return err
	}

	img := image.Image(renderElements(elements, settings.Cell.Width, settings.Cell.Height, mode))
	if scale != 1 {
		img = scaleImage(img, scale)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	if path == "" {
		enc := base64.NewEncoder(base64.StdEncoding, output.Stdout)
		if _, err := enc.Write(buf.Bytes()); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(output.Stdout)
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	count := 0
	for _, el := range elements {
		count += el.Count()
	}
	return output.Print(RenderResult{
		Path:     path,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Elements: count,
	})
}

func scaleImage(src image.Image, scale float64) image.Image {
	b := src.Bounds()
	w := max(int(float64(b.Dx())*scale), 1)
	h := max(int(float64(b.Dy())*scale), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
