package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTree Format = "tree"
)

// ParseFormat validates a --format value. "" selects YAML.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatJSON, FormatTree:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format: %s (use yaml, json, or tree)", s)
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where Print writes.
var Stdout io.Writer = os.Stdout

// TreeResult is the output of the `tree` command and the MCP tree tool.
type TreeResult struct {
	Platform string          `yaml:"platform"          json:"platform"`
	Root     string          `yaml:"root,omitempty"    json:"root,omitempty"`
	Focused  string          `yaml:"focused,omitempty" json:"focused,omitempty"`
	Count    int             `yaml:"count"             json:"count"`
	Elements []model.Element `yaml:"elements"          json:"elements"`
}

// FlatResult is the output of the `tree --flat` command.
type FlatResult struct {
	Platform string              `yaml:"platform"          json:"platform"`
	Focused  string              `yaml:"focused,omitempty" json:"focused,omitempty"`
	Count    int                 `yaml:"count"             json:"count"`
	Elements []model.FlatElement `yaml:"elements"          json:"elements"`
}

// ReplayResult is the output of the `replay` command.
type ReplayResult struct {
	Platform string            `yaml:"platform"          json:"platform"`
	Steps    int               `yaml:"steps"             json:"steps"`
	Handled  int               `yaml:"handled"           json:"handled"`
	Calls    map[string]int    `yaml:"calls"             json:"calls"`
	Signals  []platform.Signal `yaml:"signals,omitempty" json:"signals,omitempty"`
	Elements []model.Element   `yaml:"elements"          json:"elements"`
}

// Print serializes v to Stdout in the current output format. The tree format
// applies to results carrying an element tree; anything else prints as YAML.
func Print(v any) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(Stdout, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(Stdout, v)
	case FormatTree:
		if els, ok := treeOf(v); ok {
			_, err := io.WriteString(Stdout, RenderTree(els)+"\n")
			return err
		}
		return WriteYAML(Stdout, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

func treeOf(v any) ([]model.Element, bool) {
	switch r := v.(type) {
	case TreeResult:
		return r.Elements, true
	case *TreeResult:
		return r.Elements, true
	case ReplayResult:
		return r.Elements, true
	case []model.Element:
		return r, true
	}
	return nil, false
}
