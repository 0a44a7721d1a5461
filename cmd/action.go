package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/mirror"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/scene"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// ActionResult is the output of the action command.
type ActionResult struct {
	Handled bool               `yaml:"handled"           json:"handled"`
	Action  string             `yaml:"action"            json:"action"`
	Native  string             `yaml:"native,omitempty"  json:"native,omitempty"`
	ID      string             `yaml:"id"                json:"id"`
	Target  *model.FlatElement `yaml:"target,omitempty"  json:"target,omitempty"`
	Focused string             `yaml:"focused,omitempty" json:"focused,omitempty"`
	Signals []platform.Signal  `yaml:"signals,omitempty" json:"signals,omitempty"`
}

var actionCmd = &cobra.Command{
	Use:   "action <scene.yaml>",
	Short: "Invoke an action on a node the way assistive technology would",
	Long: `Mirror a scene and deliver an action request through the backend's action
callback, as a screen reader would. The scene element handles it and the
bridge is updated with the result.

Actions: invoke (press), toggle, expand, collapse, focus, select,
set-value, increment, decrement, scroll-into-view.

With --native the request is given as the platform's own action name (for
example "click" or "grab-focus" on linux, "AXPress" on darwin) and mapped by
the emulated backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(actionCmd)
	actionCmd.Flags().String("id", "", "Target node ID")
	actionCmd.Flags().String("text", "", "Find the target by name/value/description/hint text")
	actionCmd.Flags().String("roles", "", "Restrict --text matches to these roles")
	actionCmd.Flags().String("action", "invoke", "Action to perform")
	actionCmd.Flags().String("value", "", "Value for set-value")
	actionCmd.Flags().String("native", "", "Native action name to map through the emulated backend")
	actionCmd.Flags().Bool("steps", false, "Apply the scene's steps first")
}

func runAction(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	id, _ := f.GetString("id")
	text, _ := f.GetString("text")
	roles, _ := f.GetString("roles")
	action, _ := f.GetString("action")
	native, _ := f.GetString("native")
	steps, _ := f.GetBool("steps")
	var value *string
	if f.Changed("value") {
		v, _ := f.GetString("value")
		value = &v
	}

	if id == "" && text == "" {
		return fmt.Errorf("specify --id or --text to target an element")
	}
	kind, ok := wire.ParseAction(action)
	if native == "" && !ok {
		return errors.InvalidEnum(errors.OpAction, action, "action")
	}

	var rec *platform.Recorder
	var result ActionResult
	err := mirrorScene(args[0], steps, func(_ *scene.Scene, m *mirror.Mirror) error {
		b := m.Bridge()
		if text != "" {
			el, err := resolveByText(b.Tree(), text, roles, false)
			if err != nil {
				return err
			}
			id = el.ID
		}
		if _, ok := b.Node(id); !ok {
			return errors.NotFound(errors.OpAction, id)
		}
		if rec == nil {
			return fmt.Errorf("backend %s failed to initialize", settings.BackendName())
		}

		emu, emulated := platform.EmulatedOf(rec)
		before := 0
		if emulated {
			before = len(emu.Signals())
		}

		result = ActionResult{Action: kind.String(), ID: id}
		if native != "" {
			if !emulated {
				return errors.Unsupported(errors.OpAction, "native actions on backend "+b.PlatformName())
			}
			result.Action = ""
			result.Native = native
			result.Handled = emu.Perform(id, native, value)
		} else {
			result.Handled = rec.Trigger(id, kind, value)
		}
		logger.Debug("action delivered",
			zap.String("id", id),
			zap.String("action", action),
			zap.String("native", native),
			zap.Bool("handled", result.Handled))

		if el := model.FindElementByID(b.Tree(), id); el != nil {
			result.Target = flatElement(el)
		}
		result.Focused = b.FocusedID()
		if emulated {
			if sigs := emu.Signals(); len(sigs) > before {
				result.Signals = sigs[before:]
			}
		}
		return nil
	}, recording(&rec))
	if err != nil {
		return err
	}
	return output.Print(result)
}
