// Package bridge holds the canonical accessibility node store and the
// process-facing Bridge handle.
//
// The Store receives node snapshots, diffs them field by field against its
// canonical copy and forwards only real changes to the active platform
// backend. The Bridge adds the enable/disable lifecycle, backend selection
// and the action callback that survives re-enabling.
package bridge
