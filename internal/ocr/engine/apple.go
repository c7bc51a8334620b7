//go:build darwin

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vel5id/vigil/internal/model"
)

// AppleNative shells out to a Shortcuts workflow that wraps Vision's
// text recognizer, the same non-cgo rationale as Tesseract: no
// pure-Go binding to Vision exists in the retrieved pack, and the
// codebase avoids cgo throughout.
type AppleNative struct {
	// ShortcutName names the installed Shortcut that takes an image
	// file path as input and prints recognized text to stdout. Defaults
	// to "vigil-ocr" when empty.
	ShortcutName string
}

func (a AppleNative) shortcutName() string {
	if a.ShortcutName == "" {
		return "vigil-ocr"
	}
	return a.ShortcutName
}

func (a AppleNative) PerformOCR(ctx context.Context, img image.Image, languages []string) (string, string, *float64, error) {
	if img == nil {
		return "", "", nil, fmt.Errorf("apple native ocr: nil image")
	}

	jpegBytes, err := model.EncodeImageBytes(img)
	if err != nil {
		return "", "", nil, fmt.Errorf("apple native ocr: encode image: %w", err)
	}

	tmpImg, err := os.CreateTemp("", "vigil-ocr-*.jpg")
	if err != nil {
		return "", "", nil, fmt.Errorf("apple native ocr: create temp image: %w", err)
	}
	defer os.Remove(tmpImg.Name())
	if _, err := tmpImg.Write(jpegBytes); err != nil {
		tmpImg.Close()
		return "", "", nil, fmt.Errorf("apple native ocr: write temp image: %w", err)
	}
	tmpImg.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "shortcuts", "run", a.shortcutName(), "--input-path", tmpImg.Name())
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", "", nil, fmt.Errorf("apple native ocr: run %q shortcut: %w", a.shortcutName(), err)
	}

	text := strings.TrimSpace(stdout.String())
	textJSON, err := json.Marshal([]map[string]string{{"text": text}})
	if err != nil {
		return "", "", nil, fmt.Errorf("apple native ocr: marshal text_json: %w", err)
	}
	return text, string(textJSON), nil, nil
}
