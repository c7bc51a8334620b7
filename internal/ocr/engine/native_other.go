//go:build !windows && !darwin

package engine

import "github.com/vel5id/vigil/internal/ocr"

// NewNative returns Tesseract on this platform, which has no OS-native
// OCR surface to drive, so selecting windows-native or apple-native
// here runs Tesseract.
func NewNative() ocr.Engine {
	return Tesseract{}
}
