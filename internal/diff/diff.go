// Package diff scores similarity between two full-monitor frames and
// maintains the per-monitor burst-peak state described in spec §4.D.
package diff

import (
	"image"

	"github.com/disintegration/imaging"
)

// LowChangeThreshold is the score below which two frames are
// considered indistinguishable for processing purposes.
const LowChangeThreshold = 0.006

// downsampleSize is the edge length of the square grayscale
// projection frames are reduced to before scoring. Small enough to be
// cheap every tick, large enough that a single-pixel UI change still
// moves the mean.
const downsampleSize = 64

// Score returns the mean absolute normalized per-pixel difference
// between previous and current on a downsampled gray projection. If
// previous is nil the score is defined as 1.0, forcing processing of
// the first frame.
func Score(previous, current image.Image) float64 {
	if previous == nil {
		return 1.0
	}
	a := project(previous)
	b := project(current)

	var total float64
	n := len(a)
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		total += float64(d) / 255.0
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// project downsamples img to a fixed small grayscale grid so Score
// runs in constant time regardless of the monitor's resolution.
func project(img image.Image) []uint8 {
	small := imaging.Resize(img, downsampleSize, downsampleSize, imaging.Box)
	gray := imaging.Grayscale(small)
	bounds := gray.Bounds()
	out := make([]uint8, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := gray.At(x, y).RGBA()
			out = append(out, uint8(r>>8))
		}
	}
	return out
}
