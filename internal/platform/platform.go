// Package platform provides OS-specific window enumeration used by the
// Screenshot Acquirer (spec §4.B) to list per-window capture targets.
// Each build-tagged variant implements EnumWindows; this file holds
// the shared, platform-independent type.
package platform

import "image"

// WindowInfo describes one top-level window as observed at the
// moment of enumeration. Bounds are re-read fresh each call — callers
// must not cache a WindowInfo across ticks.
type WindowInfo struct {
	Handle    uintptr
	Title     string
	AppName   string
	ProcessID int
	Bounds    image.Rectangle
	Focused   bool
}
