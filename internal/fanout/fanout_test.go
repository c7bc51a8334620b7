package fanout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vel5id/vigil/internal/model"
)

func TestFlattenOcrEvent(t *testing.T) {
	url := "https://example.com"
	event := model.RealtimeVisionEvent{
		Kind: model.RealtimeEventOcr,
		Ocr: &model.WindowOcr{
			WindowName: "Main",
			AppName:    "Safari",
			Text:       "hello",
			Focused:    true,
			Confidence: 0.5,
			Timestamp:  time.Now(),
			BrowserURL: &url,
		},
	}

	values, err := flatten(event)
	assert.NoError(t, err)
	assert.Equal(t, "ocr", values["kind"])
	assert.Equal(t, "Safari", values["app_name"])
	assert.Equal(t, url, values["browser_url"])
}

func TestFlattenOcrEventMissingPayload(t *testing.T) {
	_, err := flatten(model.RealtimeVisionEvent{Kind: model.RealtimeEventOcr})
	assert.Error(t, err)
}

func TestFlattenUIEvent(t *testing.T) {
	event := model.RealtimeVisionEvent{
		Kind: model.RealtimeEventUI,
		UI:   &model.UIFrame{Window: "Main", App: "Finder", TextOutput: "text"},
	}
	values, err := flatten(event)
	assert.NoError(t, err)
	assert.Equal(t, "ui", values["kind"])
	assert.Equal(t, "Finder", values["app"])
}
