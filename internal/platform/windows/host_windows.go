//go:build windows && (amd64 || arm64)

package windows

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"go.uber.org/zap"
	winapi "golang.org/x/sys/windows"
)

var (
	user32               = winapi.NewLazySystemDLL("user32.dll")
	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procUnregisterClassW = user32.NewProc("UnregisterClassW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procPeekMessageW     = user32.NewProc("PeekMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")

	kernel32             = winapi.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procGetWindowRect    = user32.NewProc("GetWindowRect")

	uiautomationcore      = winapi.NewLazySystemDLL("uiautomationcore.dll")
	procUiaReturnProvider = uiautomationcore.NewProc("UiaReturnRawElementProvider")
	procUiaHostProvider   = uiautomationcore.NewProc("UiaHostProviderFromHwnd")
	procUiaRaiseEvent     = uiautomationcore.NewProc("UiaRaiseAutomationEvent")
	procUiaRaiseProperty  = uiautomationcore.NewProc("UiaRaiseAutomationPropertyChangedEvent")
	procUiaRaiseStructure = uiautomationcore.NewProc("UiaRaiseStructureChangedEvent")
	procUiaRaiseNotify    = uiautomationcore.NewProc("UiaRaiseNotificationEvent")
	procUiaDisconnect     = uiautomationcore.NewProc("UiaDisconnectProvider")
	procUiaClientsListen  = uiautomationcore.NewProc("UiaClientsAreListening")
)

const (
	hostClassName = "A11yBridgeHost"
	pmRemove      = 0x0001
	sFalse        = 1
)

type wndClassEx struct {
	size       uint32
	style      uint32
	wndProc    uintptr
	clsExtra   int32
	wndExtra   int32
	instance   uintptr
	icon       uintptr
	cursor     uintptr
	background uintptr
	menuName   *uint16
	className  *uint16
	iconSm     uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
	private uint32
}

type rect struct {
	left, top, right, bottom int32
}

// Windows dispatch WM_GETOBJECT through one shared window procedure, so
// hosts are looked up by handle.
var (
	hostsMu     sync.Mutex
	hosts       = map[uintptr]*uiaHost{}
	wndProcOnce sync.Once
	wndProcPtr  uintptr
)

// uiaHost is the real host: an STA, a hidden top-level window and the
// uiautomationcore exports.
type uiaHost struct {
	b        *Backend
	hwnd     uintptr
	instance uintptr
	comInit  bool
	log      *zap.Logger
}

func newHost(log *zap.Logger) *uiaHost {
	return &uiaHost{log: log}
}

func (h *uiaHost) Open(b *Backend) error {
	h.b = b
	runtime.LockOSThread()

	if err := winapi.CoInitializeEx(0, winapi.COINIT_APARTMENTTHREADED); err != nil {
		if errno, ok := err.(syscall.Errno); !ok || errno != sFalse {
			runtime.UnlockOSThread()
			return fmt.Errorf("CoInitializeEx: %w", err)
		}
	}
	h.comInit = true

	wndProcOnce.Do(func() { wndProcPtr = syscall.NewCallback(hostWndProc) })

	h.instance, _, _ = procGetModuleHandleW.Call(0)
	className, _ := winapi.UTF16PtrFromString(hostClassName)
	wc := wndClassEx{
		wndProc:   wndProcPtr,
		instance:  h.instance,
		className: className,
	}
	wc.size = uint32(unsafe.Sizeof(wc))
	// A second bridge in the same process finds the class already registered.
	if r, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r == 0 && err != winapi.ERROR_CLASS_ALREADY_EXISTS {
		h.Close()
		return fmt.Errorf("RegisterClassExW: %w", err)
	}

	title, _ := winapi.UTF16PtrFromString("a11y-bridge")
	hwnd, _, err := procCreateWindowExW.Call(0,
		uintptr(unsafe.Pointer(className)), uintptr(unsafe.Pointer(title)),
		0, 0, 0, 0, 0, 0, 0, h.instance, 0)
	if hwnd == 0 {
		h.Close()
		return fmt.Errorf("CreateWindowExW: %w", err)
	}
	h.hwnd = hwnd

	hostsMu.Lock()
	hosts[hwnd] = h
	hostsMu.Unlock()

	b.metrics = consoleMetrics(b.metrics)
	h.log.Debug("uia host window created", zap.Uintptr("hwnd", hwnd))
	return nil
}

// consoleMetrics anchors cell coordinates at the console window's origin.
func consoleMetrics(m Metrics) Metrics {
	console, _, _ := procGetConsoleWindow.Call()
	if console == 0 {
		return m
	}
	var r rect
	if ok, _, _ := procGetWindowRect.Call(console, uintptr(unsafe.Pointer(&r))); ok != 0 {
		m.OriginX, m.OriginY = float64(r.left), float64(r.top)
	}
	return m
}

func hostWndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	if message == wmGetObject && int32(lParam) == uiaRootObject {
		hostsMu.Lock()
		h := hosts[hwnd]
		hostsMu.Unlock()
		if h != nil {
			if root := h.b.rootProvider(); root != nil {
				if o, ok := root.native.(*comObject); ok {
					r, _, _ := procUiaReturnProvider.Call(hwnd, wParam, lParam, ptr(&o.simple))
					return r
				}
			}
		}
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return r
}

// hostProvider answers get_HostRawElementProvider for the root.
func (h *uiaHost) hostProvider(ret uintptr) uintptr {
	if h.hwnd == 0 {
		return uintptr(out[uintptr](ret, 0))
	}
	r, _, _ := procUiaHostProvider.Call(h.hwnd, ret)
	return r
}

func (h *uiaHost) Pump() {
	var m msg
	for {
		if r, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove); r == 0 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (h *uiaHost) Wrap(p *provider) {
	p.native = newComObject(h.b, p)
}

func (h *uiaHost) Unwrap(p *provider) {
	if o, ok := p.native.(*comObject); ok {
		o.release()
	}
	p.native = nil
}

func simple(p *provider) uintptr {
	if o, ok := p.native.(*comObject); ok {
		return ptr(&o.simple)
	}
	return 0
}

func listening() bool {
	r, _, _ := procUiaClientsListen.Call()
	return r != 0
}

func hresult(call string, r uintptr) error {
	if uint32(r) == sOK {
		return nil
	}
	return fmt.Errorf("%s: HRESULT 0x%08x", call, uint32(r))
}

func (h *uiaHost) Disconnect(p *provider) error {
	s := simple(p)
	if s == 0 {
		return nil
	}
	r, _, _ := procUiaDisconnect.Call(s)
	return hresult("UiaDisconnectProvider", r)
}

func (h *uiaHost) RaiseAutomationEvent(p *provider, event int32) error {
	s := simple(p)
	if s == 0 || !listening() {
		return nil
	}
	r, _, _ := procUiaRaiseEvent.Call(s, uintptr(event))
	return hresult("UiaRaiseAutomationEvent", r)
}

func (h *uiaHost) RaisePropertyChanged(p *provider, prop int32, old, cur any) error {
	s := simple(p)
	if s == 0 || !listening() {
		return nil
	}
	var ov, nv variant
	if err := setVariant(&ov, old); err != nil {
		return err
	}
	defer clearVariant(&ov)
	if err := setVariant(&nv, cur); err != nil {
		return err
	}
	defer clearVariant(&nv)

	// VARIANT arguments are passed by reference on amd64 and arm64.
	r, _, _ := procUiaRaiseProperty.Call(s, uintptr(prop), uintptr(unsafe.Pointer(&ov)), uintptr(unsafe.Pointer(&nv)))
	return hresult("UiaRaiseAutomationPropertyChangedEvent", r)
}

func (h *uiaHost) RaiseStructureChanged(p *provider, change int32, runtimeID []int32) error {
	s := simple(p)
	if s == 0 || !listening() {
		return nil
	}
	var ids uintptr
	if len(runtimeID) > 0 {
		ids = uintptr(unsafe.Pointer(&runtimeID[0]))
	}
	r, _, _ := procUiaRaiseStructure.Call(s, uintptr(change), ids, uintptr(len(runtimeID)))
	return hresult("UiaRaiseStructureChangedEvent", r)
}

func (h *uiaHost) RaiseNotification(p *provider, kind, processing int32, message, activityID string) error {
	s := simple(p)
	if s == 0 || !listening() {
		return nil
	}
	display := sysAllocString(message)
	activity := sysAllocString(activityID)
	defer procSysFreeString.Call(display)
	defer procSysFreeString.Call(activity)
	r, _, _ := procUiaRaiseNotify.Call(s, uintptr(kind), uintptr(processing), display, activity)
	return hresult("UiaRaiseNotificationEvent", r)
}

func (h *uiaHost) Close() {
	if h.hwnd != 0 {
		hostsMu.Lock()
		delete(hosts, h.hwnd)
		hostsMu.Unlock()
		// UiaReturnRawElementProvider(hwnd, 0, 0, nil) releases UIA's
		// references to this window.
		procUiaReturnProvider.Call(h.hwnd, 0, 0, 0)
		procDestroyWindow.Call(h.hwnd)
		h.hwnd = 0
		className, _ := winapi.UTF16PtrFromString(hostClassName)
		procUnregisterClassW.Call(uintptr(unsafe.Pointer(className)), h.instance)
	}
	if h.comInit {
		winapi.CoUninitialize()
		h.comInit = false
		runtime.UnlockOSThread()
	}
}
