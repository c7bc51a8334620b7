package ocr_test

import (
	"context"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vel5id/vigil/internal/model"
	"github.com/vel5id/vigil/internal/ocr"
)

type fakeEngine struct {
	text       string
	textJSON   string
	confidence *float64
	err        error
}

func (f fakeEngine) PerformOCR(ctx context.Context, img image.Image, languages []string) (string, string, *float64, error) {
	return f.text, f.textJSON, f.confidence, f.err
}

func solidWindow(t *testing.T, name string) model.CapturedWindow {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	encoded, err := model.EncodeImageBytes(img)
	assert.NoError(t, err)
	return model.CapturedWindow{Image: encoded, WindowName: name, AppName: "TestApp", IsFocused: true}
}

func TestDispatcherRunPopulatesResults(t *testing.T) {
	conf := 0.92
	d := ocr.NewDispatcher(fakeEngine{text: "hello", textJSON: `[{"text":"hello","conf":92}]`, confidence: &conf})
	results := d.Run(context.Background(), []model.CapturedWindow{solidWindow(t, "Main")}, []string{"eng"})
	assert.Len(t, results, 1)
	assert.Equal(t, "hello", results[0].Text)
	assert.Equal(t, 0.92, results[0].Confidence)
	assert.Equal(t, []map[string]string{{"text": "hello", "conf": "92"}}, results[0].TextJSON)
}

func TestDispatcherRunDegradesSingleWindowOnEngineError(t *testing.T) {
	d := ocr.NewDispatcher(fakeEngine{err: fmt.Errorf("engine exploded")})
	results := d.Run(context.Background(), []model.CapturedWindow{solidWindow(t, "Broken")}, nil)
	assert.Len(t, results, 1)
	assert.Equal(t, "", results[0].Text)
	assert.Equal(t, float64(0), results[0].Confidence)
	assert.Nil(t, results[0].TextJSON)
}

func TestDispatcherRunNeverAbortsOnOneWindowFailure(t *testing.T) {
	d := ocr.NewDispatcher(fakeEngine{text: "ok"})
	windows := []model.CapturedWindow{solidWindow(t, "A"), solidWindow(t, "B")}
	windows[0].Image = []byte("not a jpeg")
	results := d.Run(context.Background(), windows, nil)
	assert.Len(t, results, 2)
	assert.Equal(t, "", results[0].Text)
	assert.Equal(t, "ok", results[1].Text)
}

func TestParseTextJSONHandlesMalformedInput(t *testing.T) {
	assert.Nil(t, ocr.ParseTextJSON(""))
	assert.Nil(t, ocr.ParseTextJSON("not json"))
	rows := ocr.ParseTextJSON(`[{"text":"a","left":1,"conf":88.5}]`)
	assert.Equal(t, []map[string]string{{"text": "a", "left": "1", "conf": "88.5"}}, rows)
}
