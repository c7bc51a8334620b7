// Package engine holds the concrete OCR engines dispatched by
// ocr.Dispatcher (spec §4.E).
package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Tesseract shells out to the tesseract CLI binary. This is the only
// non-cgo way to reach the real engine: the retrieved example pack
// carries no pure-Go tesseract binding, and the teacher's win32
// package explicitly documents a no-cgo constraint for this codebase.
// Shelling out to the system binary via os/exec preserves that
// constraint.
type Tesseract struct {
	// BinaryPath is the tesseract executable, defaulting to "tesseract"
	// (resolved via PATH) when empty.
	BinaryPath string
}

func (t Tesseract) binary() string {
	if t.BinaryPath == "" {
		return "tesseract"
	}
	return t.BinaryPath
}

func (t Tesseract) PerformOCR(ctx context.Context, img image.Image, languages []string) (string, string, *float64, error) {
	if img == nil {
		return "", "", nil, fmt.Errorf("tesseract: nil image")
	}

	tmp, err := os.CreateTemp("", "vigil-ocr-*.png")
	if err != nil {
		return "", "", nil, fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := png.Encode(tmp, img); err != nil {
		return "", "", nil, fmt.Errorf("encode temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", nil, fmt.Errorf("flush temp image: %w", err)
	}

	lang := "eng"
	if len(languages) > 0 {
		lang = strings.Join(languages, "+")
	}

	cmd := exec.CommandContext(ctx, t.binary(), tmp.Name(), "stdout", "--psm", "6", "-l", lang, "tsv")
	out, err := cmd.Output()
	if err != nil {
		return "", "", nil, fmt.Errorf("run tesseract: %w", err)
	}

	return parseTSV(out)
}

// parseTSV consumes tesseract's "tsv" output format: a header row
// followed by one row per detected token, tab-separated, with
// columns level, page_num, block_num, par_num, line_num, word_num,
// left, top, width, height, conf, text.
func parseTSV(out []byte) (string, string, *float64, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	var header []string
	var words []string
	regions := []map[string]interface{}{}
	var confSum float64
	var confCount int

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			continue
		}
		if len(fields) != len(header) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = fields[i]
		}
		text := strings.TrimSpace(row["text"])
		if text == "" {
			continue
		}
		conf, _ := strconv.ParseFloat(row["conf"], 64)
		left, _ := strconv.Atoi(row["left"])
		top, _ := strconv.Atoi(row["top"])
		width, _ := strconv.Atoi(row["width"])
		height, _ := strconv.Atoi(row["height"])

		words = append(words, text)
		regions = append(regions, map[string]interface{}{
			"text":   text,
			"left":   left,
			"top":    top,
			"width":  width,
			"height": height,
			"conf":   conf,
		})
		if conf >= 0 {
			confSum += conf / 100.0
			confCount++
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", nil, fmt.Errorf("scan tesseract output: %w", err)
	}

	textJSON, err := json.Marshal(regions)
	if err != nil {
		return "", "", nil, fmt.Errorf("marshal text_json: %w", err)
	}

	var confidence *float64
	if confCount > 0 {
		mean := confSum / float64(confCount)
		confidence = &mean
	}
	return strings.Join(words, " "), string(textJSON), confidence, nil
}
