//go:build windows

// Package win32 provides low-level Windows API wrappers using syscall (NO CGO).
// This is the only module allowed to use unsafe operations.
package win32

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"
)

// Lazy-loaded Windows DLLs
var user32 = syscall.NewLazyDLL("user32.dll")

// Windows API functions
var (
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
)

// RECT structure for GetWindowRect
type RECT struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// TextBufferPool manages reusable buffers for window text to minimize allocations
type TextBufferPool struct {
	pool sync.Pool
}

// NewTextBufferPool creates a new pool of text buffers
func NewTextBufferPool() *TextBufferPool {
	return &TextBufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				// Allocate buffer for 512 UTF-16 characters (1024 bytes)
				// This should cover most window titles
				buf := make([]uint16, 512)
				return buf
			},
		},
	}
}

// Get retrieves a buffer from the pool
func (p *TextBufferPool) Get() []uint16 {
	return p.pool.Get().([]uint16)
}

// Put returns a buffer to the pool
func (p *TextBufferPool) Put(buf []uint16) {
	p.pool.Put(buf)
}

// Global text buffer pool for window titles
var textBufferPool = NewTextBufferPool()

// GetForegroundWindow retrieves the handle to the foreground window.
// Returns 0 if no foreground window exists (e.g., workstation locked).
func GetForegroundWindow() (syscall.Handle, error) {
	ret, _, err := procGetForegroundWindow.Call()
	if ret == 0 {
		return 0, fmt.Errorf("no foreground window: %w", err)
	}
	return syscall.Handle(ret), nil
}

// GetWindowThreadProcessId retrieves the identifier of the thread
// that created the specified window and, optionally, the identifier
// of the process that created the window.
func GetWindowThreadProcessId(hwnd syscall.Handle) (uint32, uint32, error) {
	var pid uint32
	ret, _, err := procGetWindowThreadProcessId.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&pid)),
	)
	if ret == 0 {
		return 0, 0, fmt.Errorf("failed to get thread/process ID: %w", err)
	}
	return uint32(ret), pid, nil
}

// GetWindowText retrieves the text of the specified window's title bar.
// Uses a reusable buffer from the pool to minimize allocations.
func GetWindowText(hwnd syscall.Handle) (string, error) {
	buf := textBufferPool.Get()
	defer textBufferPool.Put(buf)

	ret, _, err := procGetWindowTextW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if ret == 0 {
		return "", fmt.Errorf("failed to get window text: %w", err)
	}

	// Convert UTF-16 to Go string
	// Find null terminator
	length := int(ret)
	if length > len(buf) {
		length = len(buf)
	}

	// Convert to string
	str := syscall.UTF16ToString(buf[:length])
	return str, nil
}

// GetWindowRect retrieves the dimensions of the bounding rectangle of the specified window.
func GetWindowRect(hwnd syscall.Handle) (*RECT, error) {
	var rect RECT
	ret, _, err := procGetWindowRect.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&rect)),
	)
	if ret == 0 {
		return nil, fmt.Errorf("failed to get window rect: %w", err)
	}
	return &rect, nil
}

// IsWindowVisible reports whether hwnd is currently visible (not
// minimized to an invisible state, not a hidden helper window).
func IsWindowVisible(hwnd syscall.Handle) bool {
	ret, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
	return ret != 0
}

// GetClassName retrieves the window class name, used to filter out
// shell/helper windows that EnumWindows otherwise surfaces.
func GetClassName(hwnd syscall.Handle) (string, error) {
	buf := textBufferPool.Get()
	defer textBufferPool.Put(buf)

	ret, _, err := procGetClassNameW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if ret == 0 {
		return "", fmt.Errorf("failed to get class name: %w", err)
	}
	return syscall.UTF16ToString(buf[:int(ret)]), nil
}

// EnumWindows enumerates all top-level windows, invoking fn for each.
// fn returning false stops enumeration early. This is the multi-window
// generalization of the teacher's single foreground-window polling:
// the capture pipeline needs every window passing the filter, not
// just the one with input focus.
func EnumWindows(fn func(hwnd syscall.Handle) bool) error {
	cb := syscall.NewCallback(func(hwnd syscall.Handle, lparam uintptr) uintptr {
		if fn(hwnd) {
			return 1
		}
		return 0
	})
	ret, _, err := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		return fmt.Errorf("EnumWindows failed: %w", err)
	}
	return nil
}
