// Package monitorreg resolves monitor handles by a stable id, re-resolving
// from the OS on every call so display hot-plug is tolerated without any
// handle caching (spec §4.A).
package monitorreg

import (
	"image"

	"github.com/kbinani/screenshot"
)

// ID is the stable identifier of a display. It is the display's index
// as reported by the OS's display enumeration; GetByID re-reads the
// current enumeration every call rather than trusting a cached handle,
// so a disconnect/reconnect cycle is observed as a GetByID failure
// followed by the monitor reappearing (possibly at the same index).
type ID int

// Handle is a live, just-resolved reference to a monitor. It is a
// value type: safe to discard, never reused across ticks.
type Handle struct {
	ID     ID
	Bounds image.Rectangle
}

// Registry resolves monitor handles. It holds no state of its own —
// every call goes straight to the OS — so the zero value is usable.
type Registry struct{}

// New returns a ready-to-use Registry.
func New() *Registry {
	return &Registry{}
}

// GetByID re-resolves id from the OS's current display enumeration.
// It MUST NOT cache handles across calls: that is what lets display
// hot-plug recover without special-casing in the capture loop.
func (r *Registry) GetByID(id ID) (Handle, bool) {
	n := screenshot.NumActiveDisplays()
	if int(id) < 0 || int(id) >= n {
		return Handle{}, false
	}
	bounds := screenshot.GetDisplayBounds(int(id))
	return Handle{ID: id, Bounds: bounds}, true
}

// All lists every currently active display.
func (r *Registry) All() []Handle {
	n := screenshot.NumActiveDisplays()
	handles := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		handles = append(handles, Handle{ID: ID(i), Bounds: screenshot.GetDisplayBounds(i)})
	}
	return handles
}
