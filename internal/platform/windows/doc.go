// Package windows exposes the node store to Windows UI Automation.
//
// Each node gets a provider implementing IRawElementProviderSimple and
// IRawElementProviderFragment (the root also implements
// IRawElementProviderFragmentRoot) plus the control patterns its role
// supports. A hidden top-level window answers WM_GETOBJECT with the root
// provider. Providers are reference counted independently of nodes; a
// provider whose node was removed answers UIA_E_ELEMENTNOTAVAILABLE.
//
// Role tables, property resolution, navigation and reference counting are
// plain Go and build on every OS. COM vtables, the host window and the
// UiaRaise* calls live in the _windows.go files.
package windows
