// Package darwin maps the node store onto the NSAccessibility protocol.
//
// Elements are not vended to the AppKit accessibility hierarchy. The backend
// mirrors the tree and logs the NSAccessibility notification each change
// would post; Perform simulates VoiceOver invoking an AX action.
package darwin
