//go:build windows

package engine

import "github.com/vel5id/vigil/internal/ocr"

// NewNative returns the OS-native OCR engine for this build.
func NewNative() ocr.Engine {
	return WindowsNative{}
}
