//go:build windows && (amd64 || arm64)

package windows

import (
	"fmt"
	"unsafe"

	winapi "golang.org/x/sys/windows"
)

var (
	oleaut32                = winapi.NewLazySystemDLL("oleaut32.dll")
	procSysAllocString      = oleaut32.NewProc("SysAllocString")
	procSysFreeString       = oleaut32.NewProc("SysFreeString")
	procSafeArrayCreateVec  = oleaut32.NewProc("SafeArrayCreateVector")
	procSafeArrayPutElement = oleaut32.NewProc("SafeArrayPutElement")
	procVariantClear        = oleaut32.NewProc("VariantClear")
)

const (
	vtEmpty uint16 = 0
	vtI4    uint16 = 3
	vtR8    uint16 = 5
	vtBSTR  uint16 = 8
	vtBool  uint16 = 11
	vtArray uint16 = 0x2000

	variantTrue  int16 = -1
	variantFalse int16 = 0
)

// variant mirrors the 24-byte 64-bit VARIANT layout.
type variant struct {
	vt       uint16
	reserved [3]uint16
	val      uint64
	_        uint64
}

// uiaRect mirrors UiaRect.
type uiaRect struct {
	left, top, width, height float64
}

// sysAllocString returns a BSTR owned by the caller (or by UIA once handed
// out through an out parameter).
func sysAllocString(s string) uintptr {
	p, err := winapi.UTF16PtrFromString(s)
	if err != nil {
		p, _ = winapi.UTF16PtrFromString("")
	}
	r, _, _ := procSysAllocString.Call(uintptr(unsafe.Pointer(p)))
	return r
}

func safeArrayI4(values []int32) uintptr {
	psa, _, _ := procSafeArrayCreateVec.Call(uintptr(vtI4), 0, uintptr(len(values)))
	if psa == 0 {
		return 0
	}
	for i := range values {
		idx := int32(i)
		procSafeArrayPutElement.Call(psa, uintptr(unsafe.Pointer(&idx)), uintptr(unsafe.Pointer(&values[i])))
	}
	return psa
}

func safeArrayR8(values []float64) uintptr {
	psa, _, _ := procSafeArrayCreateVec.Call(uintptr(vtR8), 0, uintptr(len(values)))
	if psa == 0 {
		return 0
	}
	for i := range values {
		idx := int32(i)
		procSafeArrayPutElement.Call(psa, uintptr(unsafe.Pointer(&idx)), uintptr(unsafe.Pointer(&values[i])))
	}
	return psa
}

// setVariant stores a property value resolved by propertyValue into v.
func setVariant(v *variant, value any) error {
	*v = variant{}
	switch x := value.(type) {
	case nil:
		v.vt = vtEmpty
	case string:
		v.vt = vtBSTR
		v.val = uint64(sysAllocString(x))
	case int32:
		v.vt = vtI4
		*(*int32)(unsafe.Pointer(&v.val)) = x
	case bool:
		v.vt = vtBool
		b := variantFalse
		if x {
			b = variantTrue
		}
		*(*int16)(unsafe.Pointer(&v.val)) = b
	case float64:
		v.vt = vtR8
		*(*float64)(unsafe.Pointer(&v.val)) = x
	case []float64:
		v.vt = vtR8 | vtArray
		v.val = uint64(safeArrayR8(x))
	default:
		return fmt.Errorf("unsupported property value %T", value)
	}
	return nil
}

func clearVariant(v *variant) {
	procVariantClear.Call(uintptr(unsafe.Pointer(v)))
}

func boolOut(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// out writes v through an out-parameter pointer received from COM.
func out[T any](ptr uintptr, v T) uint32 {
	if ptr == 0 {
		return ePointer
	}
	*(*T)(unsafe.Pointer(ptr)) = v
	return sOK
}
