// Package ocr dispatches a peak frame's window images to a selected
// OCR engine and assembles the per-window results (spec §4.E).
package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"strconv"

	"github.com/vel5id/vigil/internal/model"
)

// Engine performs OCR on a single decoded image and returns plain
// text, a raw JSON array of per-region detections, and an optional
// confidence score in [0, 1].
type Engine interface {
	PerformOCR(ctx context.Context, img image.Image, languages []string) (text string, textJSON string, confidence *float64, err error)
}

// Dispatcher runs one Engine across a frame's window images.
type Dispatcher struct {
	engine Engine
}

// NewDispatcher wraps engine for use by the capture loop.
func NewDispatcher(engine Engine) *Dispatcher {
	return &Dispatcher{engine: engine}
}

// Run OCRs each window in windows, in order. A per-window engine
// failure degrades that window to confidence 0 / empty text / empty
// text_json rather than aborting the frame (spec §4.E, §7). The
// running mean confidence across windows that reported one is logged
// once at the end, never attached to the returned results.
func (d *Dispatcher) Run(ctx context.Context, windows []model.CapturedWindow, languages []string) []model.WindowOcrResult {
	results := make([]model.WindowOcrResult, 0, len(windows))
	var confSum float64
	var confCount int

	for _, w := range windows {
		result := model.WindowOcrResult{
			Image:      w.Image,
			WindowName: w.WindowName,
			AppName:    w.AppName,
			Focused:    w.IsFocused,
		}

		img, err := model.DecodeImageBytes(w.Image)
		if err != nil {
			log.Printf("ocr: decode window image for %q: %v", w.WindowName, err)
			results = append(results, result)
			continue
		}

		text, textJSON, confidence, err := d.engine.PerformOCR(ctx, img, languages)
		if err != nil {
			log.Printf("ocr: engine failed for window %q: %v", w.WindowName, err)
			results = append(results, result)
			continue
		}

		result.Text = text
		result.TextJSON = ParseTextJSON(textJSON)
		if confidence != nil {
			result.Confidence = *confidence
			confSum += *confidence
			confCount++
		}
		results = append(results, result)
	}

	if confCount > 0 {
		log.Printf("ocr: frame mean confidence %.3f over %d window(s)", confSum/float64(confCount), confCount)
	}
	return results
}

// ParseTextJSON decodes an engine's raw JSON array of per-region
// detections into the map form WindowOcrResult carries. Malformed
// JSON is logged and degrades to an empty slice rather than failing
// the enclosing result (spec §7).
func ParseTextJSON(raw string) []map[string]string {
	if raw == "" {
		return nil
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		log.Printf("ocr: malformed text_json, discarding: %v", err)
		return nil
	}
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		converted := make(map[string]string, len(row))
		for k, v := range row {
			converted[k] = stringify(v)
		}
		out = append(out, converted)
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
