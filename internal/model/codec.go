package model

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"time"
)

// JPEGQuality is the fixed quality used whenever a full-monitor or
// window image is serialized for transport (spec §4.H, §6).
const JPEGQuality = 80

// EncodeImage JPEG-encodes img at JPEGQuality and wraps it in base64
// with no line wrapping.
func EncodeImage(img image.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeImageBytes is EncodeImage without the base64 wrapping, used
// when the caller stores raw JPEG bytes (e.g. in CapturedWindow.Image).
func EncodeImageBytes(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage reverses EncodeImage. An empty string decodes to a nil
// image with no error; invalid base64 or a non-JPEG payload is a hard
// error.
func DecodeImage(s string) (image.Image, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return img, nil
}

// DecodeImageBytes reverses EncodeImageBytes. Nil input decodes to a
// nil image with no error.
func DecodeImageBytes(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return img, nil
}

// EncodeTimestamp returns t as unsigned milliseconds since the Unix
// epoch. On read, reconstruct relative to the local monotonic clock
// (DecodeTimestamp) — absolute wall-clock alignment across processes
// is not guaranteed.
func EncodeTimestamp(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

// DecodeTimestamp reconstructs a timestamp relative to time.Now(),
// preserving relative durations rather than absolute epoch alignment.
func DecodeTimestamp(ms uint64) time.Time {
	now := time.Now()
	age := time.Duration(now.UnixMilli()-int64(ms)) * time.Millisecond
	return now.Add(-age)
}
