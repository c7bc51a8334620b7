package diff

import "image"

// Framed is satisfied by any frame type the capture loop wants to run
// through burst-peak selection. Keeping BurstState generic over this
// interface (rather than depending on a concrete frame struct) avoids
// a dependency from diff -> loop/acquire.
type Framed interface {
	FrameImage() image.Image
}

// BurstState tracks, per monitor, everything needed to pick the peak
// frame of a burst and suppress quiescent ticks (spec §3, §4.D).
//
// Invariants maintained by Observe:
//   - PeakScore == 0 whenever Peak is nil.
//   - If Peak is non-nil, its score equals PeakScore and is strictly
//     greater than LowChangeThreshold.
//   - FrameCounter increases within a burst and resets to 0 when a
//     peak is flushed.
type BurstState[F Framed] struct {
	previous     image.Image
	Peak         *F
	PeakScore    float64
	FrameCounter uint64
}

// New returns an empty BurstState, born with the capture loop and
// living until loop termination.
func New[F Framed]() *BurstState[F] {
	return &BurstState[F]{}
}

// Observe runs one tick of the burst-peak algorithm (spec §4.D) against
// frame, using the flush-on-every-new-peak discipline: a frame that
// beats the running peak score is flushed in the same call that set
// it, rather than deferred to the next low-change tick. Returns the
// frame to hand to the OCR stage, or nil if this tick produced no
// emission (suppressed as low-change).
func (b *BurstState[F]) Observe(frame F) *F {
	score := Score(b.previous, frame.FrameImage())
	return b.ObserveScored(frame, score)
}

// ObserveScored is Observe with an externally computed score, used by
// tests that want to drive BurstState with a deterministic score
// sequence without constructing real images.
func (b *BurstState[F]) ObserveScored(frame F, score float64) *F {
	if score < LowChangeThreshold && b.previous != nil {
		b.FrameCounter++
		return nil
	}

	if score > b.PeakScore {
		f := frame
		b.Peak = &f
		b.PeakScore = score
	}
	b.previous = frame.FrameImage()

	if b.Peak != nil {
		out := b.Peak
		b.Peak = nil
		b.PeakScore = 0
		b.FrameCounter = 0
		return out
	}
	return nil
}

// ResetAfterCompareFailure clears the previous-image reference,
// forcing the next tick's score to 1.0 (spec §7: image comparison
// failure never aborts the loop).
func (b *BurstState[F]) ResetAfterCompareFailure() {
	b.previous = nil
}
