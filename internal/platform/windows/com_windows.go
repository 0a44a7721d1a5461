//go:build windows && (amd64 || arm64)

package windows

import (
	"runtime"
	"syscall"
	"unsafe"

	winapi "golang.org/x/sys/windows"

	"github.com/mj1618/a11y-bridge/internal/wire"
)

var (
	iidIUnknown           = winapi.GUID{Data1: 0x00000000, Data2: 0x0000, Data3: 0x0000, Data4: [8]byte{0xc0, 0, 0, 0, 0, 0, 0, 0x46}}
	iidSimple             = winapi.GUID{Data1: 0xd6dd68d1, Data2: 0x86fd, Data3: 0x4332, Data4: [8]byte{0x86, 0x66, 0x9a, 0xbe, 0xde, 0xa2, 0xd2, 0x4c}}
	iidFragment           = winapi.GUID{Data1: 0xf7063da8, Data2: 0x8359, Data3: 0x439c, Data4: [8]byte{0x92, 0x97, 0xbb, 0xc5, 0x29, 0x9a, 0x7d, 0x87}}
	iidFragmentRoot       = winapi.GUID{Data1: 0x620ce2a5, Data2: 0xab8f, Data3: 0x40a9, Data4: [8]byte{0x86, 0xcb, 0xde, 0x3c, 0x75, 0x59, 0x9b, 0x58}}
	iidInvokeProvider     = winapi.GUID{Data1: 0x54fcb24b, Data2: 0xe18e, Data3: 0x47a2, Data4: [8]byte{0xb4, 0xd3, 0xec, 0xcb, 0xe7, 0x75, 0x99, 0xa2}}
	iidToggleProvider     = winapi.GUID{Data1: 0x56d00bd0, Data2: 0xc4f4, Data3: 0x433c, Data4: [8]byte{0xa8, 0x36, 0x1a, 0x52, 0xa5, 0x7e, 0x08, 0x92}}
	iidValueProvider      = winapi.GUID{Data1: 0xc7935180, Data2: 0x6fb3, Data3: 0x4201, Data4: [8]byte{0xb1, 0x74, 0x7d, 0xf7, 0x3a, 0xdb, 0xf6, 0x4a}}
	iidExpandCollapse     = winapi.GUID{Data1: 0xd847d3a5, Data2: 0xcab0, Data3: 0x4a98, Data4: [8]byte{0x8c, 0x32, 0xec, 0xb4, 0x5c, 0x59, 0xad, 0x24}}
	iidScrollItemProvider = winapi.GUID{Data1: 0x2360c714, Data2: 0x4bf1, Data3: 0x4b26, Data4: [8]byte{0xba, 0x65, 0x9b, 0x21, 0x31, 0x61, 0x27, 0xeb}}
	iidSelectionItem      = winapi.GUID{Data1: 0x2acad808, Data2: 0xb2d4, Data3: 0x452d, Data4: [8]byte{0xa4, 0x07, 0x91, 0xff, 0x1a, 0xd1, 0x67, 0xb2}}
	iidRangeValueProvider = winapi.GUID{Data1: 0x36dc7aef, Data2: 0x33e6, Data3: 0x4691, Data4: [8]byte{0xaf, 0xe1, 0x2b, 0xe7, 0x27, 0x4b, 0x3d, 0x33}}
)

// iface is one COM interface pointer into a comObject. UIA sees the address
// of an iface; its first word is the vtable.
type iface struct {
	vtbl *uintptr
	obj  *comObject
}

// comObject is the COM identity of one provider. It is pinned while any
// reference is outstanding so the interface addresses stay valid.
type comObject struct {
	simple     iface
	fragment   iface
	root       iface
	invoke     iface
	toggle     iface
	value      iface
	expand     iface
	scrollItem iface
	selection  iface
	rangeValue iface

	p      *provider
	b      *Backend
	pinner runtime.Pinner
}

func newComObject(b *Backend, p *provider) *comObject {
	o := &comObject{p: p, b: b}
	for _, f := range []struct {
		i    *iface
		vtbl []uintptr
	}{
		{&o.simple, simpleVtbl},
		{&o.fragment, fragmentVtbl},
		{&o.root, rootVtbl},
		{&o.invoke, invokeVtbl},
		{&o.toggle, toggleVtbl},
		{&o.value, valueVtbl},
		{&o.expand, expandVtbl},
		{&o.scrollItem, scrollItemVtbl},
		{&o.selection, selectionVtbl},
		{&o.rangeValue, rangeValueVtbl},
	} {
		f.i.vtbl = &f.vtbl[0]
		f.i.obj = o
	}
	o.pinner.Pin(o)
	return o
}

func (o *comObject) release() {
	o.pinner.Unpin()
}

func ptr(i *iface) uintptr { return uintptr(unsafe.Pointer(i)) }

// self recovers the comObject from the this pointer of any interface.
func self(this uintptr) *comObject {
	return (*iface)(unsafe.Pointer(this)).obj
}

// ifaceOf returns the interface pointer of p's COM object selected by pick,
// with a reference taken for the caller.
func ifaceOf(p *provider, pick func(*comObject) *iface) uintptr {
	if p == nil {
		return 0
	}
	o, ok := p.native.(*comObject)
	if !ok || p.AddRef() == 0 {
		return 0
	}
	return ptr(pick(o))
}

func pickSimple(o *comObject) *iface   { return &o.simple }
func pickFragment(o *comObject) *iface { return &o.fragment }
func pickRoot(o *comObject) *iface     { return &o.root }

var (
	simpleVtbl     []uintptr
	fragmentVtbl   []uintptr
	rootVtbl       []uintptr
	invokeVtbl     []uintptr
	toggleVtbl     []uintptr
	valueVtbl      []uintptr
	expandVtbl     []uintptr
	scrollItemVtbl []uintptr
	selectionVtbl  []uintptr
	rangeValueVtbl []uintptr
)

func init() {
	unknown := []uintptr{
		syscall.NewCallback(comQueryInterface),
		syscall.NewCallback(comAddRef),
		syscall.NewCallback(comRelease),
	}
	vtbl := func(methods ...any) []uintptr {
		v := append([]uintptr(nil), unknown...)
		for _, m := range methods {
			v = append(v, syscall.NewCallback(m))
		}
		return v
	}

	simpleVtbl = vtbl(simpleProviderOptions, simpleGetPatternProvider, simpleGetPropertyValue, simpleHostRawElementProvider)
	fragmentVtbl = vtbl(fragmentNavigate, fragmentGetRuntimeID, fragmentBoundingRectangle,
		fragmentEmbeddedRoots, fragmentSetFocus, fragmentRootOf)
	fromPoint := any(rootElementFromPoint)
	if runtime.GOARCH == "arm64" {
		// Floating point arguments travel in separate registers on arm64.
		fromPoint = rootElementFromPointARM
	}
	rootVtbl = vtbl(fromPoint, rootGetFocus)
	invokeVtbl = vtbl(invokeInvoke)
	toggleVtbl = vtbl(toggleToggle, toggleGetState)
	valueVtbl = vtbl(valueSetValue, valueGetValue, valueIsReadOnly)
	expandVtbl = vtbl(expandExpand, expandCollapse, expandGetState)
	scrollItemVtbl = vtbl(scrollItemScrollIntoView)
	selectionVtbl = vtbl(selectionSelect, selectionSelect, selectionRemove, selectionIsSelected, selectionContainer)
	rangeValueVtbl = vtbl(rangeSetValue, rangeGetValue, rangeIsReadOnly, rangeMaximum, rangeMinimum, rangeLargeChange, rangeSmallChange)
}

// IUnknown

func comQueryInterface(this, riid, ppv uintptr) uintptr {
	if ppv == 0 || riid == 0 {
		return uintptr(ePointer)
	}
	o := self(this)
	iid := *(*winapi.GUID)(unsafe.Pointer(riid))

	var target *iface
	switch iid {
	case iidIUnknown, iidSimple:
		target = &o.simple
	case iidFragment:
		target = &o.fragment
	case iidFragmentRoot:
		if o.b.isRoot(o.p) {
			target = &o.root
		}
	case iidInvokeProvider:
		target = o.patternIface(patInvoke)
	case iidToggleProvider:
		target = o.patternIface(patToggle)
	case iidValueProvider:
		target = o.patternIface(patValue)
	case iidExpandCollapse:
		target = o.patternIface(patExpandCollapse)
	case iidScrollItemProvider:
		target = o.patternIface(patScrollItem)
	case iidSelectionItem:
		target = o.patternIface(patSelectionItem)
	case iidRangeValueProvider:
		target = o.patternIface(patRangeValue)
	}
	if target == nil {
		*(*uintptr)(unsafe.Pointer(ppv)) = 0
		return uintptr(eNoInterface)
	}
	o.p.AddRef()
	*(*uintptr)(unsafe.Pointer(ppv)) = ptr(target)
	return uintptr(sOK)
}

func comAddRef(this uintptr) uintptr {
	return uintptr(self(this).p.AddRef())
}

func comRelease(this uintptr) uintptr {
	return uintptr(self(this).p.Release())
}

func (o *comObject) patternIface(id int32) *iface {
	if ok, _ := o.b.supportsPattern(o.p, id); !ok {
		return nil
	}
	switch id {
	case patInvoke:
		return &o.invoke
	case patToggle:
		return &o.toggle
	case patValue:
		return &o.value
	case patExpandCollapse:
		return &o.expand
	case patScrollItem:
		return &o.scrollItem
	case patSelectionItem:
		return &o.selection
	case patRangeValue:
		return &o.rangeValue
	}
	return nil
}

// IRawElementProviderSimple

func simpleProviderOptions(this, ret uintptr) uintptr {
	return uintptr(out(ret, optServerSideProvider|optUseComThreading))
}

func simpleGetPatternProvider(this, patternID, ret uintptr) uintptr {
	o := self(this)
	if _, hr := o.b.node(o.p); hr != sOK {
		out[uintptr](ret, 0)
		return uintptr(hr)
	}
	target := o.patternIface(int32(patternID))
	if target == nil {
		return uintptr(out[uintptr](ret, 0))
	}
	o.p.AddRef()
	return uintptr(out(ret, ptr(target)))
}

func simpleGetPropertyValue(this, propertyID, ret uintptr) uintptr {
	if ret == 0 {
		return uintptr(ePointer)
	}
	o := self(this)
	v := (*variant)(unsafe.Pointer(ret))
	*v = variant{}
	value, hr := o.b.property(o.p, int32(propertyID))
	if hr != sOK {
		return uintptr(hr)
	}
	if err := setVariant(v, value); err != nil {
		return uintptr(eInvalidArg)
	}
	return uintptr(sOK)
}

func simpleHostRawElementProvider(this, ret uintptr) uintptr {
	o := self(this)
	if !o.b.isRoot(o.p) {
		return uintptr(out[uintptr](ret, 0))
	}
	h, ok := o.b.host.(*uiaHost)
	if !ok {
		return uintptr(out[uintptr](ret, 0))
	}
	return h.hostProvider(ret)
}

// IRawElementProviderFragment

func fragmentNavigate(this, direction, ret uintptr) uintptr {
	o := self(this)
	target, hr := o.b.navigate(o.p, int32(direction))
	if hr != sOK {
		out[uintptr](ret, 0)
		return uintptr(hr)
	}
	return uintptr(out(ret, ifaceOf(target, pickFragment)))
}

func fragmentGetRuntimeID(this, ret uintptr) uintptr {
	o := self(this)
	if !o.p.alive() {
		out[uintptr](ret, 0)
		return uintptr(uiaElementNotAvailable)
	}
	return uintptr(out(ret, safeArrayI4(o.p.RuntimeID())))
}

func fragmentBoundingRectangle(this, ret uintptr) uintptr {
	o := self(this)
	r, hr := o.b.boundingRect(o.p)
	if hr != sOK {
		return uintptr(hr)
	}
	return uintptr(out(ret, uiaRect{left: r[0], top: r[1], width: r[2], height: r[3]}))
}

func fragmentEmbeddedRoots(this, ret uintptr) uintptr {
	return uintptr(out[uintptr](ret, 0))
}

func fragmentSetFocus(this uintptr) uintptr {
	o := self(this)
	return uintptr(o.b.requestAction(o.p, wire.ActionFocus, nil))
}

func fragmentRootOf(this, ret uintptr) uintptr {
	o := self(this)
	root, hr := o.b.fragmentRoot(o.p)
	if hr != sOK {
		out[uintptr](ret, 0)
		return uintptr(hr)
	}
	return uintptr(out(ret, ifaceOf(root, pickRoot)))
}

// IRawElementProviderFragmentRoot
//
// ElementProviderFromPoint receives its coordinates as doubles, which
// syscall.NewCallback cannot read. Returning no element makes UIA treat the
// root as the hit and walk down by BoundingRectangle.

func rootElementFromPoint(this, x, y, ret uintptr) uintptr {
	return uintptr(out[uintptr](ret, 0))
}

func rootElementFromPointARM(this, ret uintptr) uintptr {
	return uintptr(out[uintptr](ret, 0))
}

func rootGetFocus(this, ret uintptr) uintptr {
	o := self(this)
	return uintptr(out(ret, ifaceOf(o.b.focusedProvider(), pickFragment)))
}

// Control patterns

func invokeInvoke(this uintptr) uintptr {
	o := self(this)
	return uintptr(o.b.requestAction(o.p, wire.ActionInvoke, nil))
}

func toggleToggle(this uintptr) uintptr {
	o := self(this)
	return uintptr(o.b.requestAction(o.p, wire.ActionToggle, nil))
}

func toggleGetState(this, ret uintptr) uintptr {
	return propertyOut[int32](this, propToggleState, ret)
}

func valueSetValue(this, str uintptr) uintptr {
	o := self(this)
	if str == 0 {
		return uintptr(eInvalidArg)
	}
	s := winapi.UTF16PtrToString((*uint16)(unsafe.Pointer(str)))
	return uintptr(o.b.requestAction(o.p, wire.ActionSetValue, &s))
}

func valueGetValue(this, ret uintptr) uintptr {
	o := self(this)
	v, hr := o.b.property(o.p, propValueValue)
	if hr != sOK {
		return uintptr(hr)
	}
	s, _ := v.(string)
	return uintptr(out(ret, sysAllocString(s)))
}

func valueIsReadOnly(this, ret uintptr) uintptr {
	return boolPropertyOut(this, propValueIsReadOnly, ret)
}

func expandExpand(this uintptr) uintptr {
	o := self(this)
	return uintptr(o.b.requestAction(o.p, wire.ActionExpand, nil))
}

func expandCollapse(this uintptr) uintptr {
	o := self(this)
	return uintptr(o.b.requestAction(o.p, wire.ActionCollapse, nil))
}

func expandGetState(this, ret uintptr) uintptr {
	return propertyOut[int32](this, propExpandCollapseState, ret)
}

func scrollItemScrollIntoView(this uintptr) uintptr {
	o := self(this)
	return uintptr(o.b.requestAction(o.p, wire.ActionScrollIntoView, nil))
}

func selectionSelect(this uintptr) uintptr {
	o := self(this)
	return uintptr(o.b.requestAction(o.p, wire.ActionSelect, nil))
}

func selectionRemove(this uintptr) uintptr {
	return uintptr(uiaInvalidOperation)
}

func selectionIsSelected(this, ret uintptr) uintptr {
	return boolPropertyOut(this, propSelectionItemSelected, ret)
}

func selectionContainer(this, ret uintptr) uintptr {
	o := self(this)
	parent, hr := o.b.navigate(o.p, navParent)
	if hr != sOK {
		out[uintptr](ret, 0)
		return uintptr(hr)
	}
	return uintptr(out(ret, ifaceOf(parent, pickSimple)))
}

// rangeSetValue cannot read its double argument; clients fall back to the
// Value pattern, which every range role also exposes.
func rangeSetValue(this uintptr) uintptr {
	return uintptr(eNotImpl)
}

func rangeGetValue(this, ret uintptr) uintptr {
	return propertyOut[float64](this, propRangeValueValue, ret)
}

func rangeIsReadOnly(this, ret uintptr) uintptr {
	return boolPropertyOut(this, propRangeValueIsReadOnly, ret)
}

func rangeMaximum(this, ret uintptr) uintptr {
	return propertyOut[float64](this, propRangeValueMaximum, ret)
}

func rangeMinimum(this, ret uintptr) uintptr {
	return propertyOut[float64](this, propRangeValueMinimum, ret)
}

func rangeLargeChange(this, ret uintptr) uintptr {
	o := self(this)
	n, hr := o.b.node(o.p)
	if hr != sOK {
		return uintptr(hr)
	}
	return uintptr(out(ret, largeChange(n.Min, n.Max)))
}

func rangeSmallChange(this, ret uintptr) uintptr {
	o := self(this)
	n, hr := o.b.node(o.p)
	if hr != sOK {
		return uintptr(hr)
	}
	return uintptr(out(ret, smallChange(n.Min, n.Max)))
}

// propertyOut writes a typed property value through ret.
func propertyOut[T int32 | float64](this uintptr, id int32, ret uintptr) uintptr {
	o := self(this)
	v, hr := o.b.property(o.p, id)
	if hr != sOK {
		return uintptr(hr)
	}
	t, _ := v.(T)
	return uintptr(out(ret, t))
}

func boolPropertyOut(this uintptr, id int32, ret uintptr) uintptr {
	o := self(this)
	v, hr := o.b.property(o.p, id)
	if hr != sOK {
		return uintptr(hr)
	}
	b, _ := v.(bool)
	return uintptr(out(ret, boolOut(b)))
}
