//go:build windows

package win

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"winauto-mcp/internal/platform"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procEnumChildWindows         = user32.NewProc("EnumChildWindows")
	procGetParent                = user32.NewProc("GetParent")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsIconic                 = user32.NewProc("IsIconic")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procPostMessageW             = user32.NewProc("PostMessageW")

	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const (
	bmClick = 0x00F5
	wmClose = 0x0010

	dwmwaExtendedFrameBounds = 9
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// windowOps implements platform.WindowOps over user32/dwmapi.
type windowOps struct{}

// NewWindowOps returns the win32-backed raw window accessor.
func NewWindowOps() platform.WindowOps {
	return &windowOps{}
}

// enumCollector carries per-enumeration state through the lParam. The
// enumerations are synchronous, so a pointer to a caller-local
// collector stays valid for the whole callback sequence.
type enumCollector struct {
	parent  uintptr
	handles []uintptr
}

// The callbacks are registered once at init: the runtime never releases
// callback slots and the table is fixed-size, so registering a closure
// per enumeration would exhaust it in a long-running session.
var (
	enumTopLevelCallback = windows.NewCallback(func(hwnd, lparam uintptr) uintptr {
		c := (*enumCollector)(unsafe.Pointer(lparam))
		c.handles = append(c.handles, hwnd)
		return 1
	})

	// EnumChildWindows yields ALL descendants; keep direct children only.
	enumChildCallback = windows.NewCallback(func(hwnd, lparam uintptr) uintptr {
		c := (*enumCollector)(unsafe.Pointer(lparam))
		if p, _, _ := procGetParent.Call(hwnd); p == c.parent {
			c.handles = append(c.handles, hwnd)
		}
		return 1
	})
)

func (w *windowOps) TopLevelWindows() ([]uintptr, error) {
	var c enumCollector
	ret, _, err := procEnumWindows.Call(enumTopLevelCallback, uintptr(unsafe.Pointer(&c)))
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows failed: %v", err)
	}
	return c.handles, nil
}

func (w *windowOps) ChildWindows(parent uintptr) ([]uintptr, error) {
	c := enumCollector{parent: parent}
	procEnumChildWindows.Call(parent, enumChildCallback, uintptr(unsafe.Pointer(&c)))
	return c.handles, nil
}

func (w *windowOps) WindowPID(hwnd uintptr) int {
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return int(pid)
}

func (w *windowOps) IsWindow(hwnd uintptr) bool {
	ret, _, _ := procIsWindow.Call(hwnd)
	return ret != 0
}

func (w *windowOps) IsVisible(hwnd uintptr) bool {
	ret, _, _ := procIsWindowVisible.Call(hwnd)
	return ret != 0
}

func (w *windowOps) IsMinimized(hwnd uintptr) bool {
	ret, _, _ := procIsIconic.Call(hwnd)
	return ret != 0
}

func (w *windowOps) WindowText(hwnd uintptr) string {
	buf := make([]uint16, 256)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func (w *windowOps) ClassName(hwnd uintptr) string {
	buf := make([]uint16, 256)
	procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func (w *windowOps) PostClick(hwnd uintptr) error {
	ret, _, err := procPostMessageW.Call(hwnd, bmClick, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostMessage(BM_CLICK) failed: %v", err)
	}
	return nil
}

func (w *windowOps) SetForeground(hwnd uintptr) error {
	ret, _, _ := procSetForegroundWindow.Call(hwnd)
	if ret == 0 {
		return fmt.Errorf("SetForegroundWindow failed for handle %#x", hwnd)
	}
	return nil
}

func (w *windowOps) PostClose(hwnd uintptr) error {
	ret, _, err := procPostMessageW.Call(hwnd, wmClose, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostMessage(WM_CLOSE) failed: %v", err)
	}
	return nil
}

func (w *windowOps) WindowRect(hwnd uintptr) (platform.Rect, error) {
	var r rect
	ret, _, err := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return platform.Rect{}, fmt.Errorf("GetWindowRect failed: %v", err)
	}
	return platform.Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}, nil
}

func (w *windowOps) VisibleBounds(hwnd uintptr) (platform.Rect, error) {
	var r rect
	hr, _, _ := procDwmGetWindowAttribute.Call(
		hwnd,
		dwmwaExtendedFrameBounds,
		uintptr(unsafe.Pointer(&r)),
		unsafe.Sizeof(r),
	)
	if hr != 0 { // S_OK
		return platform.Rect{}, fmt.Errorf("DwmGetWindowAttribute failed: HRESULT %#x", hr)
	}
	return platform.Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}, nil
}
