//go:build windows && (amd64 || arm64)

package windows

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"github.com/mj1618/desktop-fences/internal/model"
	"github.com/mj1618/desktop-fences/internal/platform"
)

// Classifier implements platform.PointClassifier against the live desktop.
type Classifier struct {
	log zerolog.Logger
}

// NewClassifier creates a desktop point classifier.
func NewClassifier(log zerolog.Logger) *Classifier {
	return &Classifier{log: log}
}

// ClassifyPoint reports whether p is over a desktop icon, empty desktop
// or some other window. Hit-test failures count as empty desktop.
func (c *Classifier) ClassifyPoint(p model.Point) platform.PointClass {
	hwnd := windowFromPoint(int32(p.X), int32(p.Y))
	if hwnd == 0 || !isDesktopClass(className(hwnd)) {
		return platform.PointOnOtherWindow
	}
	onIcon, err := iconAt(p)
	if err != nil {
		c.log.Debug().Err(err).Str("point", fmt.Sprintf("%d,%d", p.X, p.Y)).Msg("icon hit test failed")
		return platform.PointOnEmptyDesktop
	}
	if onIcon {
		return platform.PointOnIcon
	}
	return platform.PointOnEmptyDesktop
}

// iconAt asks Explorer's list view whether an icon occupies the screen
// point p. LVM_HITTEST takes a pointer, so the query record has to live in
// Explorer's address space.
func iconAt(p model.Point) (bool, error) {
	listView := findDesktopListView()
	if listView == 0 {
		return false, errNoDesktopView
	}
	rect, ok := windowRect(listView)
	if !ok {
		return false, fmt.Errorf("GetWindowRect failed")
	}

	buf, err := openRemoteBuffer(listView, hitTestInfoSize)
	if err != nil {
		return false, err
	}
	defer buf.Close()

	query := encodeHitTest(int32(p.X)-rect.Left, int32(p.Y)-rect.Top)
	if err := buf.Write(query); err != nil {
		return false, err
	}
	sendMessage(listView, lvmHitTest, 0, buf.addr)
	if err := buf.Read(query); err != nil {
		return false, err
	}
	return decodeHitItem(query) >= 0, nil
}

// remoteBuffer is memory allocated inside the process owning a window.
// Close releases the allocation and the process handle.
type remoteBuffer struct {
	process windows.Handle
	addr    uintptr
	size    uintptr
}

func openRemoteBuffer(hwnd windows.HWND, size int) (*remoteBuffer, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
		return nil, fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}
	access := uint32(windows.PROCESS_VM_OPERATION | windows.PROCESS_VM_READ | windows.PROCESS_VM_WRITE)
	process, err := windows.OpenProcess(access, false, pid)
	if err != nil {
		return nil, fmt.Errorf("OpenProcess %d: %w", pid, err)
	}
	addr, _, callErr := procVirtualAllocEx.Call(
		uintptr(process), 0, uintptr(size),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE,
	)
	if addr == 0 {
		windows.CloseHandle(process)
		return nil, fmt.Errorf("VirtualAllocEx: %w", callErr)
	}
	return &remoteBuffer{process: process, addr: addr, size: uintptr(size)}, nil
}

func (b *remoteBuffer) Write(data []byte) error {
	if err := windows.WriteProcessMemory(b.process, b.addr, &data[0], uintptr(len(data)), nil); err != nil {
		return fmt.Errorf("WriteProcessMemory: %w", err)
	}
	return nil
}

func (b *remoteBuffer) Read(data []byte) error {
	if err := windows.ReadProcessMemory(b.process, b.addr, &data[0], uintptr(len(data)), nil); err != nil {
		return fmt.Errorf("ReadProcessMemory: %w", err)
	}
	return nil
}

func (b *remoteBuffer) Close() {
	procVirtualFreeEx.Call(uintptr(b.process), b.addr, 0, windows.MEM_RELEASE)
	windows.CloseHandle(b.process)
}
