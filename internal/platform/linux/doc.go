// Package linux maps the node store onto the AT-SPI2 object model.
//
// There is no D-Bus connection: the backend mirrors the tree, translates
// every change into the AT-SPI signal it would emit on the accessibility bus
// and logs it. Assistive-technology requests can be simulated with Perform.
package linux
