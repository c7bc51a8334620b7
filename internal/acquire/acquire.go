// Package acquire captures one full-monitor frame plus per-window
// sub-images, filtered by a winfilter.Filter (spec §4.B).
package acquire

import (
	"fmt"
	"image"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/kbinani/screenshot"

	"github.com/vel5id/vigil/internal/model"
	"github.com/vel5id/vigil/internal/monitorreg"
	"github.com/vel5id/vigil/internal/platform"
	"github.com/vel5id/vigil/internal/winfilter"
)

// Frame is the output of one Capture call: a full-monitor image, the
// filtered per-window sub-images, a debug fingerprint, and how long
// capture took.
type Frame struct {
	Image     image.Image
	Windows   []model.CapturedWindow
	ImageHash uint64
	Duration  time.Duration
}

// FrameImage satisfies diff.Framed so a Frame can drive BurstState
// directly.
func (f Frame) FrameImage() image.Image { return f.Image }

// Acquirer captures frames from a live monitor handle.
type Acquirer struct{}

// New returns a ready-to-use Acquirer. It holds no state: every
// capture re-reads window geometry from the OS (spec §4.B).
func New() *Acquirer {
	return &Acquirer{}
}

// Capture returns one Frame for handle, restricted by filter and
// includeUnfocused. Any OS-level capture failure is returned as an
// error; callers must treat it as transient (spec §4.B Errors).
func (a *Acquirer) Capture(handle monitorreg.Handle, filter winfilter.Filter, includeUnfocused bool) (Frame, error) {
	start := time.Now()

	full, err := screenshot.CaptureRect(handle.Bounds)
	if err != nil {
		return Frame{}, fmt.Errorf("capture monitor %d: %w", handle.ID, err)
	}

	hash, err := goimagehash.AverageHash(full)
	var imgHash uint64
	if err == nil {
		imgHash = hash.GetHash()
	}

	all, err := platform.EnumWindows()
	if err != nil {
		// Window enumeration failure degrades to "no per-window
		// images this tick" rather than failing the whole capture —
		// the full-monitor frame is still useful for burst scoring.
		all = nil
	}

	windows := make([]model.CapturedWindow, 0, len(all))
	for _, w := range all {
		if !handle.Bounds.Overlaps(w.Bounds) {
			continue
		}
		if !filter.Accept(w.AppName, w.Title) {
			continue
		}
		if !includeUnfocused && !w.Focused {
			continue
		}

		clip := w.Bounds.Intersect(handle.Bounds)
		if clip.Empty() {
			continue
		}
		winImg, err := screenshot.CaptureRect(clip)
		if err != nil {
			continue
		}
		encoded, err := model.EncodeImageBytes(winImg)
		if err != nil {
			continue
		}

		windows = append(windows, model.CapturedWindow{
			Image:      encoded,
			WindowName: w.Title,
			AppName:    w.AppName,
			ProcessID:  w.ProcessID,
			IsFocused:  w.Focused,
		})
	}

	return Frame{
		Image:     full,
		Windows:   windows,
		ImageHash: imgHash,
		Duration:  time.Since(start),
	}, nil
}

// TriggerPermission performs a single throwaway capture on the
// primary display to prompt the OS screen-capture permission dialog
// on platforms that require one (spec §6). It returns success iff at
// least one display could be enumerated and captured.
func TriggerPermission() error {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return fmt.Errorf("no displays available")
	}
	bounds := screenshot.GetDisplayBounds(0)
	if _, err := screenshot.CaptureRect(bounds); err != nil {
		return fmt.Errorf("trigger permission capture: %w", err)
	}
	return nil
}
