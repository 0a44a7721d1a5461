package cmd

import (
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
)

var observeCmd = &cobra.Command{
	Use:   "observe <scene.yaml>",
	Short: "Apply a scene's steps and stream tree diffs as JSONL",
	Long: `Mirror a scene, then apply its steps one at a time and emit the changes
each step made to the mirrored tree (added, removed, changed nodes) as JSONL
on stdout.

Output is always JSONL regardless of the --format flag.`,
	Args: cobra.ExactArgs(1),
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	observeCmd.Flags().String("roles", "", "Comma-separated roles to include (e.g. \"btn,input\")")
	observeCmd.Flags().Bool("ignore-bounds", false, "Ignore element position changes")
	observeCmd.Flags().Bool("ignore-focus", false, "Ignore focus changes")
}

// observeEvent frames the change stream.
type observeEvent struct {
	Type    string `json:"type"`
	Step    int    `json:"step,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Handled bool   `json:"handled,omitempty"`
	Count   int    `json:"count,omitempty"`
	Events  int    `json:"events,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runObserve(cmd *cobra.Command, args []string) error {
	roles, _ := cmd.Flags().GetString("roles")
	ignoreBounds, _ := cmd.Flags().GetBool("ignore-bounds")
	ignoreFocus, _ := cmd.Flags().GetBool("ignore-focus")
	q := model.Query{Roles: model.SplitRoles(roles)}

	sc, doc, err := loadScene(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(output.Stdout)
	enc.SetEscapeHTML(false)

	return withMirror(newBridge(), sc, func(m *mirror.Mirror) error {
		read := func() []model.FlatElement {
			return model.FlattenElements(q.Apply(m.Bridge().Tree()))
		}
		prev := read()
		if err := enc.Encode(observeEvent{Type: "snapshot", Count: len(prev)}); err != nil {
			return err
		}

		events := 0
		for i, step := range doc.Steps {
			out, err := sc.Apply(m, step)
			if err != nil {
				_ = enc.Encode(observeEvent{Type: "error", Step: i + 1, Kind: out.Kind, Error: err.Error()})
				return err
			}
			if err := enc.Encode(observeEvent{Type: "step", Step: i + 1, Kind: out.Kind, Handled: out.Handled}); err != nil {
				return err
			}
			curr := read()
			for _, change := range filterChanges(model.DiffElements(prev, curr), ignoreBounds, ignoreFocus) {
				if err := enc.Encode(change); err != nil {
					return err
				}
				events++
			}
			prev = curr
		}
		return enc.Encode(observeEvent{Type: "done", Count: len(doc.Steps), Events: events})
	})
}

// filterChanges drops the ignored fields from changed events, and events
// left with nothing to report.
func filterChanges(changes []model.UIChange, ignoreBounds, ignoreFocus bool) []model.UIChange {
	var out []model.UIChange
	for _, change := range changes {
		if change.Type == model.ChangeChanged {
			if ignoreBounds {
				delete(change.Changes, "b")
			}
			if ignoreFocus {
				delete(change.Changes, "f")
			}
			if len(change.Changes) == 0 {
				continue
			}
		}
		out = append(out, change)
	}
	return out
}
