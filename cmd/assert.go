package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/scene"
)

// AssertResult is the output of an assert command.
type AssertResult struct {
	Pass     bool                `yaml:"pass"               json:"pass"`
	Error    string              `yaml:"error,omitempty"    json:"error,omitempty"`
	Element  *model.FlatElement  `yaml:"element,omitempty"  json:"element,omitempty"`
	Baseline *model.BaselineDiff `yaml:"baseline,omitempty" json:"baseline,omitempty"`
}

var assertCmd = &cobra.Command{
	Use:   "assert <scene.yaml>",
	Short: "Assert what assistive technology sees in a mirrored scene",
	Long: `Mirror a scene and check that a node exists with the expected properties,
or that the whole tree matches a baseline saved with 'tree --save'.

Exits 0 when every assertion passes and 1 otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssert,
}

func init() {
	rootCmd.AddCommand(assertCmd)
	assertCmd.Flags().String("id", "", "Find element by node ID")
	assertCmd.Flags().String("text", "", "Find element by name/value/description/hint text")
	assertCmd.Flags().String("roles", "", "Restrict --text matches to these roles")
	assertCmd.Flags().Bool("exact", false, "Require an exact --text match")
	assertCmd.Flags().Bool("steps", false, "Apply the scene's steps before checking")
	assertCmd.Flags().String("baseline", "", "Compare the whole tree against a baseline file")

	assertCmd.Flags().String("role", "", "Assert element has this role code")
	assertCmd.Flags().String("name", "", "Assert element name equals this string")
	assertCmd.Flags().String("value", "", "Assert element value equals this string")
	assertCmd.Flags().String("value-contains", "", "Assert element value contains this substring")
	assertCmd.Flags().Bool("checked", false, "Assert element is checked")
	assertCmd.Flags().Bool("unchecked", false, "Assert element is NOT checked")
	assertCmd.Flags().Bool("selected", false, "Assert element is selected")
	assertCmd.Flags().Bool("disabled", false, "Assert element is disabled")
	assertCmd.Flags().Bool("enabled", false, "Assert element is enabled")
	assertCmd.Flags().Bool("is-focused", false, "Assert element has keyboard focus")
	assertCmd.Flags().Bool("gone", false, "Assert element does NOT exist")
}

type assertOptions struct {
	id            string
	text          string
	roles         string
	exact         bool
	role          string
	name          string
	hasNameCheck  bool
	value         string
	hasValueCheck bool
	valueContains string
	checked       bool
	unchecked     bool
	selected      bool
	disabled      bool
	enabled       bool
	isFocused     bool
	gone          bool
}

func runAssert(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	var opts assertOptions
	opts.id, _ = f.GetString("id")
	opts.text, _ = f.GetString("text")
	opts.roles, _ = f.GetString("roles")
	opts.exact, _ = f.GetBool("exact")
	opts.role, _ = f.GetString("role")
	opts.name, _ = f.GetString("name")
	opts.hasNameCheck = f.Changed("name")
	opts.value, _ = f.GetString("value")
	opts.hasValueCheck = f.Changed("value")
	opts.valueContains, _ = f.GetString("value-contains")
	opts.checked, _ = f.GetBool("checked")
	opts.unchecked, _ = f.GetBool("unchecked")
	opts.selected, _ = f.GetBool("selected")
	opts.disabled, _ = f.GetBool("disabled")
	opts.enabled, _ = f.GetBool("enabled")
	opts.isFocused, _ = f.GetBool("is-focused")
	opts.gone, _ = f.GetBool("gone")
	steps, _ := f.GetBool("steps")
	baselinePath, _ := f.GetString("baseline")

	if opts.text == "" && opts.id == "" && baselinePath == "" {
		return fmt.Errorf("specify --id, --text or --baseline")
	}
	var baseline []model.FlatElement
	if baselinePath != "" {
		var err error
		if baseline, err = model.LoadBaseline(baselinePath); err != nil {
			return err
		}
	}

	var result AssertResult
	err := mirrorScene(args[0], steps, func(_ *scene.Scene, m *mirror.Mirror) error {
		tree := m.Bridge().Tree()
		result = AssertResult{Pass: true}
		if opts.id != "" || opts.text != "" {
			result = checkAssert(tree, opts)
		}
		if baseline != nil && result.Pass {
			diff := model.DiffBaseline(baseline, model.FlattenElements(tree))
			if !diff.Empty() {
				result.Pass = false
				result.Error = fmt.Sprintf("tree differs from baseline: %d added, %d removed, %d changed",
					len(diff.Added), len(diff.Removed), len(diff.Changed))
				result.Baseline = &diff
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("assert failed: %s", result.Error)
	}
	return nil
}

// checkAssert performs the element assertions against tree.
func checkAssert(tree []model.Element, opts assertOptions) AssertResult {
	elem, err := findAssertElement(tree, opts)
	if opts.gone {
		if err != nil {
			return AssertResult{Pass: true}
		}
		return AssertResult{
			Error:   "expected element to be gone but found: " + describeElement(elem),
			Element: flatElement(elem),
		}
	}
	if err != nil {
		return AssertResult{Error: err.Error()}
	}
	if err := checkPropertyAssertions(elem, opts); err != nil {
		return AssertResult{Error: err.Error(), Element: flatElement(elem)}
	}
	return AssertResult{Pass: true, Element: flatElement(elem)}
}

func findAssertElement(tree []model.Element, opts assertOptions) (*model.Element, error) {
	if opts.text != "" {
		return resolveByText(tree, opts.text, opts.roles, opts.exact)
	}
	elem := model.FindElementByID(tree, opts.id)
	if elem == nil {
		return nil, fmt.Errorf("element with id %q not found", opts.id)
	}
	return elem, nil
}

// checkPropertyAssertions validates element properties against the
// assertion flags.
func checkPropertyAssertions(elem *model.Element, opts assertOptions) error {
	if opts.role != "" && elem.Role != opts.role {
		return fmt.Errorf("expected role %q but got %q", opts.role, elem.Role)
	}
	if opts.hasNameCheck && elem.Title != opts.name {
		return fmt.Errorf("expected name %q but got %q", opts.name, elem.Title)
	}
	if opts.hasValueCheck && elem.Value != opts.value {
		return fmt.Errorf("expected value %q but got %q", opts.value, elem.Value)
	}
	if opts.valueContains != "" && !strings.Contains(strings.ToLower(elem.Value), strings.ToLower(opts.valueContains)) {
		return fmt.Errorf("expected value to contain %q but got %q", opts.valueContains, elem.Value)
	}
	checked := slices.Contains(elem.States, "checked")
	if opts.checked && !checked {
		return fmt.Errorf("expected element to be checked but it is not")
	}
	if opts.unchecked && checked {
		return fmt.Errorf("expected element to be unchecked but it is checked")
	}
	if opts.selected && !elem.Selected {
		return fmt.Errorf("expected element to be selected but it is not")
	}
	enabled := elem.Enabled == nil || *elem.Enabled
	if opts.disabled && enabled {
		return fmt.Errorf("expected element to be disabled but it is enabled")
	}
	if opts.enabled && !enabled {
		return fmt.Errorf("expected element to be enabled but it is disabled")
	}
	if opts.isFocused && !elem.Focused {
		return fmt.Errorf("expected element to be focused but it is not")
	}
	return nil
}

// flatElement returns el without children or path.
func flatElement(el *model.Element) *model.FlatElement {
	flat := el.Flat("")
	return &flat
}
