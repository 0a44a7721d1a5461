package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/scene"
)

var findCmd = &cobra.Command{
	Use:   "find <scene.yaml>",
	Short: "Search the mirrored tree by text",
	Long: `Mirror a scene and list the elements whose name, value, description or
hint contains the text. Only the most specific matches are listed: a group
whose child matches is left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().String("text", "", "Text to search for (case-insensitive substring match)")
	findCmd.Flags().String("roles", "", "Filter by role (e.g. \"btn\", \"btn,lnk,input\", \"interactive\")")
	findCmd.Flags().Int("limit", 10, "Max matching elements to return")
	findCmd.Flags().Bool("exact", false, "Require exact match instead of substring")
	findCmd.Flags().Bool("steps", false, "Apply the scene's steps before searching")
}

// findResult is the output of the find command.
type findResult struct {
	Text     string              `yaml:"text"     json:"text"`
	Total    int                 `yaml:"total"    json:"total"`
	Elements []model.FlatElement `yaml:"elements" json:"elements"`
}

func runFind(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	roles, _ := cmd.Flags().GetString("roles")
	limit, _ := cmd.Flags().GetInt("limit")
	exact, _ := cmd.Flags().GetBool("exact")
	steps, _ := cmd.Flags().GetBool("steps")
	if text == "" {
		return fmt.Errorf("--text is required")
	}

	var found []*model.Element
	err := mirrorScene(args[0], steps, func(_ *scene.Scene, m *mirror.Mirror) error {
		found = collectLeafMatches(m.Bridge().Tree(), strings.ToLower(text), roleSet(roles), exact)
		return nil
	})
	if err != nil {
		return err
	}

	result := findResult{Text: text, Total: len(found), Elements: []model.FlatElement{}}
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	for _, el := range found {
		result.Elements = append(result.Elements, el.Flat(""))
	}
	return output.Print(result)
}

// roleSet parses a comma-separated role list, expanding meta-roles.
func roleSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, r := range model.ExpandRoles(model.SplitRoles(s)) {
		set[r] = true
	}
	return set
}

// collectLeafMatches returns the deepest elements matching textLower,
// optionally restricted to roles. An element is skipped when one of its
// descendants matches.
func collectLeafMatches(elements []model.Element, textLower string, roles map[string]bool, exact bool) []*model.Element {
	var results []*model.Element
	for i := range elements {
		el := &elements[i]
		childMatches := collectLeafMatches(el.Children, textLower, roles, exact)
		selfMatch := textMatchesElement(*el, textLower, exact) && (len(roles) == 0 || roles[el.Role])
		if selfMatch && len(childMatches) == 0 {
			results = append(results, el)
		} else {
			results = append(results, childMatches...)
		}
	}
	return results
}

func textMatchesElement(el model.Element, textLower string, exact bool) bool {
	fields := []string{el.Title, el.Value, el.Description, el.Hint}
	for _, f := range fields {
		if exact && exactFieldMatch(f, textLower) {
			return true
		}
		if !exact && strings.Contains(strings.ToLower(f), textLower) {
			return true
		}
	}
	return false
}

// exactFieldMatch matches field case-insensitively, also after stripping a
// trailing key hint like " (Ctrl+S)".
func exactFieldMatch(field, textLower string) bool {
	if strings.EqualFold(field, textLower) {
		return true
	}
	if idx := strings.LastIndex(field, "("); idx > 0 && strings.HasSuffix(field, ")") {
		return strings.EqualFold(strings.TrimRight(field[:idx], " "), textLower)
	}
	return false
}

// resolveByText finds the single element matching text. Several matches are
// narrowed to the focused one when possible; otherwise the error lists the
// candidates.
func resolveByText(elements []model.Element, text, roles string, exact bool) (*model.Element, error) {
	matches := collectLeafMatches(elements, strings.ToLower(text), roleSet(roles), exact)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no element matches %q", text)
	case 1:
		return matches[0], nil
	}
	for _, el := range matches {
		if el.Focused {
			return el, nil
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d elements match %q; use --id or --roles to pick one:", len(matches), text)
	for _, el := range matches {
		b.WriteString("\n  " + describeElement(el))
	}
	return nil, fmt.Errorf("%s", b.String())
}

// describeElement returns a brief human-readable description of an element.
func describeElement(el *model.Element) string {
	parts := []string{"id=" + el.ID, "role=" + el.Role}
	if el.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", el.Title))
	}
	if el.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%q", el.Value))
	}
	return strings.Join(parts, " ")
}
