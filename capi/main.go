// Command capi builds the a11y-bridge C library:
//
//	go build -buildmode=c-shared -o liba11ybridge.so ./capi
//
// Every function takes the handle returned by a11y_create. Status results
// are 0 on success and negative on error; a11y_upsert_node returns 1 for a
// created node and 2 for an updated one. Strings are passed as pointer and
// length and are copied before the call returns.
//
// Environment: A11Y_BRIDGE_CONFIG names a YAML config file;
// A11Y_BRIDGE_BACKEND and A11Y_BRIDGE_LOG_LEVEL override it.
package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>

typedef bool (*a11y_action_fn)(void *user, const uint8_t *request, size_t len);

static inline bool a11y_call_action(a11y_action_fn fn, void *user, const uint8_t *request, size_t len) {
	return fn(user, request, len);
}
*/
import "C"

import (
	"unsafe"

	"github.com/mj1618/a11y-bridge/internal/wire"
)

// goString copies n bytes at p. It fails for lengths cgo cannot copy.
func goString(p *C.char, n C.size_t) (string, bool) {
	if p == nil || n == 0 {
		return "", true
	}
	if !lengthOK(uint64(n)) {
		return "", false
	}
	return C.GoStringN(p, C.int(n)), true
}

//export a11y_create
func a11y_create() C.uintptr_t {
	return C.uintptr_t(create())
}

//export a11y_destroy
func a11y_destroy(h C.uintptr_t) {
	destroy(uintptr(h))
}

//export a11y_set_enabled
func a11y_set_enabled(h C.uintptr_t, enabled C.bool) C.int32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return statusBadHandle
	}
	return C.int32_t(status(b.SetEnabled(bool(enabled))))
}

//export a11y_is_enabled
func a11y_is_enabled(h C.uintptr_t) C.bool {
	b, ok := handles.get(uintptr(h))
	return C.bool(ok && b.IsEnabled())
}

//export a11y_upsert_node
func a11y_upsert_node(h C.uintptr_t, buf *C.uint8_t, n C.size_t) C.int32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return statusBadHandle
	}
	if buf == nil || !lengthOK(uint64(n)) {
		return statusInvalidInput
	}
	data := C.GoBytes(unsafe.Pointer(buf), C.int(n))
	return C.int32_t(upsertStatus(b.UpsertBytes(data)))
}

//export a11y_remove_node
func a11y_remove_node(h C.uintptr_t, id *C.char, n C.size_t) C.int32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return statusBadHandle
	}
	s, ok := goString(id, n)
	if !ok {
		return statusInvalidInput
	}
	return C.int32_t(status(b.Remove(s)))
}

// a11y_set_focus clears focus when id is NULL.
//
//export a11y_set_focus
func a11y_set_focus(h C.uintptr_t, id *C.char, n C.size_t) C.int32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return statusBadHandle
	}
	s, ok := goString(id, n)
	if !ok {
		return statusInvalidInput
	}
	return C.int32_t(status(b.SetFocus(s)))
}

//export a11y_announce
func a11y_announce(h C.uintptr_t, msg *C.char, n C.size_t, priority C.uint8_t) C.int32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return statusBadHandle
	}
	s, ok := goString(msg, n)
	if !ok {
		return statusInvalidInput
	}
	return C.int32_t(status(b.Announce(s, wire.Priority(priority))))
}

//export a11y_notify_property_changed
func a11y_notify_property_changed(h C.uintptr_t, id *C.char, n C.size_t, property C.uint32_t) C.int32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return statusBadHandle
	}
	s, ok := goString(id, n)
	if !ok {
		return statusInvalidInput
	}
	return C.int32_t(status(b.NotifyPropertyChanged(s, wire.Property(property))))
}

// a11y_set_action_callback registers fn, called with user and an encoded
// action request. A NULL fn clears the callback.
//
//export a11y_set_action_callback
func a11y_set_action_callback(h C.uintptr_t, fn C.a11y_action_fn, user unsafe.Pointer) C.int32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return statusBadHandle
	}
	if fn == nil {
		b.SetActionCallback(nil)
		return statusOK
	}
	b.SetActionCallback(actionTrampoline(func(req []byte) bool {
		return bool(C.a11y_call_action(fn, user, (*C.uint8_t)(unsafe.Pointer(&req[0])), C.size_t(len(req))))
	}))
	return statusOK
}

//export a11y_get_node_count
func a11y_get_node_count(h C.uintptr_t) C.uint32_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return 0
	}
	return C.uint32_t(b.NodeCount())
}

//export a11y_clear
func a11y_clear(h C.uintptr_t) {
	if b, ok := handles.get(uintptr(h)); ok {
		b.Clear()
	}
}

//export a11y_tick
func a11y_tick(h C.uintptr_t) {
	if b, ok := handles.get(uintptr(h)); ok {
		b.Tick()
	}
}

//export a11y_is_platform_supported
func a11y_is_platform_supported(h C.uintptr_t) C.bool {
	b, ok := handles.get(uintptr(h))
	return C.bool(ok && b.IsPlatformSupported())
}

// a11y_get_platform_name copies the backend name into out and returns its
// full length.
//
//export a11y_get_platform_name
func a11y_get_platform_name(h C.uintptr_t, out *C.char, n C.size_t) C.size_t {
	b, ok := handles.get(uintptr(h))
	if !ok {
		return 0
	}
	var dst []byte
	if out != nil && n > 0 {
		dst = unsafe.Slice((*byte)(unsafe.Pointer(out)), int(n))
	}
	return C.size_t(copyName(dst, b.PlatformName()))
}
