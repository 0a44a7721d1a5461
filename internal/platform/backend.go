package platform

import (
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/wire"
)

// ActionFunc is invoked by a backend when assistive technology requests an
// action on a node. It reports whether the action was handled. value is nil
// unless the action carries one (set-value).
type ActionFunc func(nodeID string, kind wire.ActionKind, value *string) bool

// Backend exposes canonical nodes to one OS accessibility API.
//
// The node store calls every method while holding its lock, so a backend must
// not call back into the store and must keep each call bounded. Nodes are
// passed by value; a backend that needs them later keeps its own copy.
type Backend interface {
	// Name is the backend's registry name ("windows", "linux", "darwin", "stub").
	Name() string

	// AddNode exposes a newly created node.
	AddNode(n model.Node) error

	// UpdateNode refreshes a node after at least one field changed.
	UpdateNode(n model.Node) error

	// RemoveNode withdraws a node. Unknown IDs are ignored.
	RemoveNode(id string) error

	// NotifyFocusChanged reports the newly focused node; "" means focus was
	// cleared.
	NotifyFocusChanged(id string) error

	// NotifyPropertyChanged signals which property of a node changed.
	NotifyPropertyChanged(id string, prop wire.Property) error

	// Announce speaks a message through the platform's notification channel.
	Announce(msg string, priority wire.Priority) error

	// SetActionCallback registers the action handler, replacing any previous
	// one. nil clears it.
	SetActionCallback(fn ActionFunc)

	// Tick services any OS event queue the backend owns. It never blocks.
	Tick()

	// Destroy releases OS resources. The backend must not invoke the action
	// callback afterwards.
	Destroy()
}
