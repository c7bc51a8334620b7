package diff_test

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vel5id/vigil/internal/diff"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func noisyImage(w, h int, seed int64) image.Image {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(r.Intn(256)),
				G: uint8(r.Intn(256)),
				B: uint8(r.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func TestScoreNoPreviousForcesOne(t *testing.T) {
	img := solidImage(100, 100, color.White)
	assert.Equal(t, 1.0, diff.Score(nil, img))
}

func TestScoreIdenticalImagesBelowThreshold(t *testing.T) {
	img := solidImage(200, 150, color.RGBA{R: 40, G: 120, B: 200, A: 255})
	clone := solidImage(200, 150, color.RGBA{R: 40, G: 120, B: 200, A: 255})

	s := diff.Score(img, clone)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.Less(t, s, diff.LowChangeThreshold)
}

func TestScoreIsSymmetric(t *testing.T) {
	a := noisyImage(120, 90, 1)
	b := noisyImage(120, 90, 2)

	sab := diff.Score(a, b)
	sba := diff.Score(b, a)

	assert.InDelta(t, sab, sba, 1e-9)
}

func TestScoreDifferentImagesExceedsThreshold(t *testing.T) {
	a := solidImage(100, 100, color.Black)
	b := solidImage(100, 100, color.White)

	s := diff.Score(a, b)
	assert.Greater(t, s, diff.LowChangeThreshold)
}
