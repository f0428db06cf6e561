//go:build windows && (amd64 || arm64)

package windows

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	shell32  = windows.NewLazySystemDLL("shell32.dll")

	procFindWindowW         = user32.NewProc("FindWindowW")
	procFindWindowExW       = user32.NewProc("FindWindowExW")
	procSendMessageW        = user32.NewProc("SendMessageW")
	procWindowFromPoint     = user32.NewProc("WindowFromPoint")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procShowWindow          = user32.NewProc("ShowWindow")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
	procGetDoubleClickTime  = user32.NewProc("GetDoubleClickTime")
	procGetSystemMetrics    = user32.NewProc("GetSystemMetrics")

	procVirtualAllocEx = kernel32.NewProc("VirtualAllocEx")
	procVirtualFreeEx  = kernel32.NewProc("VirtualFreeEx")

	procSHChangeNotify = shell32.NewProc("SHChangeNotify")
)

const (
	whMouseLL = 14
	hcAction  = 0

	wmQuit        = 0x0012
	wmCommand     = 0x0111
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202

	lvmHitTest = 0x1012

	// Explorer's "refresh" command on the desktop view.
	cmdRefreshDesktop = 0x7103

	shcneAssocChanged = 0x08000000
	shcnfFlush        = 0x1000

	swHide = 0
	swShow = 5

	pmNoRemove = 0

	smCxDoubleClk = 36
	smCyDoubleClk = 37
	smCxDrag      = 68
	smCyDrag      = 69

	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
)

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    windows.HWND
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

func utf16Ptr(s string) uintptr {
	if s == "" {
		return 0
	}
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return 0
	}
	return uintptr(unsafe.Pointer(p))
}

func findWindow(class string) windows.HWND {
	r, _, _ := procFindWindowW.Call(utf16Ptr(class), 0)
	return windows.HWND(r)
}

func findWindowEx(parent, after windows.HWND, class string) windows.HWND {
	r, _, _ := procFindWindowExW.Call(uintptr(parent), uintptr(after), utf16Ptr(class), 0)
	return windows.HWND(r)
}

func sendMessage(hwnd windows.HWND, m uint32, wParam, lParam uintptr) uintptr {
	r, _, _ := procSendMessageW.Call(uintptr(hwnd), uintptr(m), wParam, lParam)
	return r
}

// windowFromPoint passes POINT by value, which the 64-bit calling
// convention packs into one register.
func windowFromPoint(x, y int32) windows.HWND {
	packed := uintptr(uint32(x)) | uintptr(uint32(y))<<32
	r, _, _ := procWindowFromPoint.Call(packed)
	return windows.HWND(r)
}

func windowRect(hwnd windows.HWND) (windows.Rect, bool) {
	var rect windows.Rect
	r, _, _ := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&rect)))
	return rect, r != 0
}

func className(hwnd windows.HWND) string {
	buf := make([]uint16, 256)
	n, err := windows.GetClassName(hwnd, &buf[0], int32(len(buf)))
	if err != nil || n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func systemMetric(index int) int {
	r, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int(int32(r))
}

func keyDown(vk int) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(r)&0x8000 != 0
}
