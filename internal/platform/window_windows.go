//go:build windows

package platform

import (
	"image"
	"syscall"

	"github.com/vel5id/vigil/internal/procname"
	"github.com/vel5id/vigil/internal/win32"
)

// EnumWindows lists every visible top-level window via the Win32
// EnumWindows callback, adapted from the teacher's single
// foreground-window polling (internal/win32, internal/monitor) into a
// full enumeration. Each window's bounds and process id are read at
// enumeration time, matching spec §4.B's "current on-screen bounds at
// capture time" guarantee.
func EnumWindows() ([]WindowInfo, error) {
	foreground, _ := win32.GetForegroundWindow()

	var windows []WindowInfo
	err := win32.EnumWindows(func(hwnd syscall.Handle) bool {
		if !win32.IsWindowVisible(hwnd) {
			return true
		}
		title, err := win32.GetWindowText(hwnd)
		if err != nil || title == "" {
			return true
		}
		class, _ := win32.GetClassName(hwnd)
		if class == "Progman" || class == "Shell_TrayWnd" {
			return true
		}

		rect, err := win32.GetWindowRect(hwnd)
		if err != nil {
			return true
		}
		bounds := image.Rect(int(rect.Left), int(rect.Top), int(rect.Right), int(rect.Bottom))
		if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
			return true
		}

		_, pid, err := win32.GetWindowThreadProcessId(hwnd)
		if err != nil {
			pid = 0
		}

		windows = append(windows, WindowInfo{
			Handle:    uintptr(hwnd),
			Title:     title,
			AppName:   procname.Lookup(int(pid)),
			ProcessID: int(pid),
			Bounds:    bounds,
			Focused:   hwnd == foreground,
		})
		return true
	})
	return windows, err
}
