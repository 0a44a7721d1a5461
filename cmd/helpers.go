package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/scene"
)

// addQueryFlags registers the display filters shared by tree-producing
// commands.
func addQueryFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("roles", "", "Comma-separated role codes to include (e.g. \"btn,chk,input\")")
	f.String("text", "", "Only elements whose name, value, description or hint contains this text")
	f.Bool("focused", false, "Only the focused element and its ancestors")
	f.String("bbox", "", "Only elements intersecting this cell box (x,y,w,h)")
	f.Bool("prune", false, "Drop anonymous groups, promoting their children")
}

func queryFromFlags(cmd *cobra.Command) (model.Query, error) {
	f := cmd.Flags()
	roles, _ := f.GetString("roles")
	text, _ := f.GetString("text")
	focused, _ := f.GetBool("focused")
	prune, _ := f.GetBool("prune")
	q := model.Query{
		Roles:   model.SplitRoles(roles),
		Text:    text,
		Focused: focused,
		Prune:   prune,
	}
	if bbox, _ := f.GetString("bbox"); bbox != "" {
		b, err := model.ParseBounds(bbox)
		if err != nil {
			return q, err
		}
		q.BBox = b
	}
	return q, nil
}

// withLockedThread runs fn pinned to one OS thread. Backends with
// thread-affine state must be created, driven and destroyed there.
func withLockedThread(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return fn()
}

// withMirror mirrors sc through b for the duration of fn, then destroys b.
func withMirror(b *bridge.Bridge, sc *scene.Scene, fn func(m *mirror.Mirror) error) error {
	return withLockedThread(func() (err error) {
		defer b.Destroy()
		m := mirror.New(b, sc.Root(), mirror.WithLogger(logger.Named("mirror")))
		if err := m.Enable(); err != nil {
			return err
		}
		defer func() {
			if derr := m.Disable(); derr != nil && err == nil {
				err = derr
			}
		}()
		logger.Debug("mirror enabled",
			zap.String("platform", b.PlatformName()),
			zap.Int("nodes", b.NodeCount()))
		return fn(m)
	})
}

// runSteps applies steps and reports how many of them handled an action.
func runSteps(sc *scene.Scene, m *mirror.Mirror, steps []scene.Step) (int, error) {
	handled := 0
	err := sc.Run(m, steps, func(_ int, out scene.Outcome) {
		if out.Handled {
			handled++
		}
	})
	return handled, err
}

// mirrorScene loads the scene at path, mirrors it and calls fn with the live
// mirror. With steps set, the scene's steps are applied first.
func mirrorScene(path string, steps bool, fn func(sc *scene.Scene, m *mirror.Mirror) error, opts ...bridge.Option) error {
	sc, doc, err := loadScene(path)
	if err != nil {
		return err
	}
	return withMirror(newBridge(opts...), sc, func(m *mirror.Mirror) error {
		if steps {
			if _, err := runSteps(sc, m, doc.Steps); err != nil {
				return err
			}
		}
		return fn(sc, m)
	})
}
