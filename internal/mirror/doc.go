// Package mirror keeps a bridge in step with a live UI tree.
//
// A Mirror walks the UI when accessibility is enabled and forwards every
// later structural, property and focus change to the bridge as it happens.
// Requests from assistive technology come back through the bridge's action
// callback and are resolved against the UI elements, not the node store.
package mirror
