package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/scene"
)

var treeCmd = &cobra.Command{
	Use:   "tree <scene.yaml>",
	Short: "Mirror a scene and print the accessible tree",
	Long: `Load a scene file, mirror it through the bridge and print the node tree
the platform backend was given.

With --steps the scene's steps are applied first. With --offline the tree is
built from the scene without enabling the bridge. --save writes the
flattened tree as a baseline for 'assert --baseline'.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	addQueryFlags(treeCmd)
	treeCmd.Flags().Bool("flat", false, "Flatten the tree into a list with path breadcrumbs")
	treeCmd.Flags().Bool("steps", false, "Apply the scene's steps before printing")
	treeCmd.Flags().Bool("offline", false, "Build the tree without enabling the bridge")
	treeCmd.Flags().String("save", "", "Write the flattened, filtered tree to this baseline file")
}

// treeView is what the tree command captured from the mirror.
type treeView struct {
	platform string
	root     string
	focused  string
	count    int
	elements []model.Element
}

func runTree(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	flat, _ := cmd.Flags().GetBool("flat")
	steps, _ := cmd.Flags().GetBool("steps")
	offline, _ := cmd.Flags().GetBool("offline")
	save, _ := cmd.Flags().GetString("save")

	var v treeView
	if offline {
		v, err = offlineTree(args[0])
	} else {
		err = mirrorScene(args[0], steps, func(_ *scene.Scene, m *mirror.Mirror) error {
			b := m.Bridge()
			v = treeView{
				platform: b.PlatformName(),
				root:     b.RootID(),
				focused:  b.FocusedID(),
				count:    b.NodeCount(),
				elements: b.Tree(),
			}
			return nil
		})
	}
	if err != nil {
		return err
	}

	elements := q.Apply(v.elements)
	if save != "" {
		if err := model.SaveBaseline(save, model.FlattenElements(elements)); err != nil {
			return err
		}
		logger.Info("baseline saved", zap.String("path", save))
	}
	if flat {
		return output.Print(output.FlatResult{
			Platform: v.platform,
			Focused:  v.focused,
			Count:    v.count,
			Elements: model.FlattenElements(elements),
		})
	}
	return output.Print(output.TreeResult{
		Platform: v.platform,
		Root:     v.root,
		Focused:  v.focused,
		Count:    v.count,
		Elements: elements,
	})
}

// offlineTree walks the scene through a disabled mirror.
func offlineTree(path string) (treeView, error) {
	sc, _, err := loadScene(path)
	if err != nil {
		return treeView{}, err
	}
	m := mirror.New(newBridge(), sc.Root(), mirror.WithLogger(logger.Named("mirror")))
	v := treeView{
		platform: platform.Resolve(settings.BackendName()),
		elements: m.BuildTreeSnapshot(),
	}
	v.root, _ = m.ID(sc.Root())
	if el := sc.Focused(); el != nil {
		v.focused, _ = m.ID(el)
	}
	for _, el := range v.elements {
		v.count += el.Count()
	}
	return v, nil
}
