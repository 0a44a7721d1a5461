// Package wire defines the fixed-layout records exchanged between the UI
// layer and the accessibility bridge: node snapshots, action requests, and
// the role, state, live-setting, orientation, property, action and priority
// enumerations they carry.
//
// Records have a stable little-endian binary layout (see codec.go) so that a
// caller on the far side of the C ABI can build them without knowing Go.
// Variable-length byte fields are length-prefixed with a u32; optional ones
// use the length 0xFFFFFFFF to mean null.
package wire
