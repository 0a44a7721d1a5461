package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/mj1618/a11y-bridge/internal/model"
)

var (
	roleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	stateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
	disabledMark = "disabled"
)

// RenderTree draws elements as an indented tree, one line per element.
func RenderTree(elements []model.Element) string {
	var out []string
	for _, el := range elements {
		out = append(out, buildTree(el).String())
	}
	return strings.Join(out, "\n")
}

func buildTree(el model.Element) *tree.Tree {
	t := tree.Root(Label(el)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)
	for _, c := range el.Children {
		if len(c.Children) == 0 {
			t.Child(Label(c))
			continue
		}
		t.Child(buildTree(c))
	}
	return t
}

// Label renders one element as "role "name" = value [states] #id".
func Label(el model.Element) string {
	var b strings.Builder
	b.WriteString(roleStyle.Render(el.Role))
	if el.Title != "" {
		b.WriteByte(' ')
		b.WriteString(nameStyle.Render(fmt.Sprintf("%q", el.Title)))
	}
	if el.Value != "" {
		b.WriteString(" = ")
		b.WriteString(valueStyle.Render(el.Value))
	}
	if el.Range != nil {
		b.WriteString(valueStyle.Render(fmt.Sprintf(" %g/%g", el.Range[2], el.Range[1])))
	}
	states := append([]string(nil), el.States...)
	if el.Selected {
		states = append(states, "selected")
	}
	if el.Enabled != nil && !*el.Enabled {
		states = append(states, disabledMark)
	}
	if len(states) > 0 {
		b.WriteByte(' ')
		b.WriteString(stateStyle.Render("[" + strings.Join(states, " ") + "]"))
	}
	if el.Focused {
		b.WriteByte(' ')
		b.WriteString(focusStyle.Render("*focused*"))
	}
	b.WriteByte(' ')
	b.WriteString(idStyle.Render("#" + el.ID))
	return b.String()
}
