package model_test

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vel5id/vigil/internal/model"
)

func sampleImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x40, A: 0xff})
		}
	}
	return img
}

// TestEncodeDecodeImageRoundTripPreservesDimensions is property #7:
// decode(encode(img)) produces an image of identical dimensions.
func TestEncodeDecodeImageRoundTripPreservesDimensions(t *testing.T) {
	src := sampleImage(37, 21)

	encoded, err := model.EncodeImage(src)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := model.DecodeImage(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, src.Bounds().Dx(), decoded.Bounds().Dx())
	assert.Equal(t, src.Bounds().Dy(), decoded.Bounds().Dy())
}

// TestDecodeImageEmptyStringRoundTripsToNone is the other half of
// property #7: the empty-string case round-trips to None.
func TestDecodeImageEmptyStringRoundTripsToNone(t *testing.T) {
	img, err := model.DecodeImage("")
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestEncodeImageNilImageRoundTripsToEmptyString(t *testing.T) {
	encoded, err := model.EncodeImage(nil)
	require.NoError(t, err)
	assert.Empty(t, encoded)
}

func TestDecodeImageInvalidBase64IsHardError(t *testing.T) {
	_, err := model.DecodeImage("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestDecodeImageNonJPEGPayloadIsHardError(t *testing.T) {
	_, err := model.DecodeImage("aGVsbG8gd29ybGQ=") // base64("hello world")
	assert.Error(t, err)
}

// TestEncodeDecodeImageBytesRoundTripPreservesDimensions mirrors the
// base64 round-trip for the raw-bytes codec used by CapturedWindow.Image.
func TestEncodeDecodeImageBytesRoundTripPreservesDimensions(t *testing.T) {
	src := sampleImage(12, 44)

	raw, err := model.EncodeImageBytes(src)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	decoded, err := model.DecodeImageBytes(raw)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, src.Bounds().Dx(), decoded.Bounds().Dx())
	assert.Equal(t, src.Bounds().Dy(), decoded.Bounds().Dy())
}

func TestDecodeImageBytesEmptyRoundTripsToNone(t *testing.T) {
	img, err := model.DecodeImageBytes(nil)
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestEncodeTimestampDecodeTimestampRoundTrip(t *testing.T) {
	now, err := time.Parse(time.RFC3339, "2026-07-31T12:00:00Z")
	require.NoError(t, err)
	ms := model.EncodeTimestamp(now)
	decoded := model.DecodeTimestamp(ms)
	assert.Equal(t, now.UnixMilli(), decoded.UnixMilli())
}
