//go:build windows

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/vel5id/vigil/internal/model"
)

// WindowsNative drives the OS's built-in OCR COM surface
// (Windows.Media.Ocr) the same way internal/browserurl's Windows
// extractor drives UI Automation: CoInitializeEx, CreateObject,
// QueryInterface. The call blocks on the COM round trip; the capture
// loop runs it off its dedicated worker pool rather than inline
// (spec §5), which is what "native-async" means here.
type WindowsNative struct{}

func (WindowsNative) PerformOCR(ctx context.Context, img image.Image, languages []string) (string, string, *float64, error) {
	if img == nil {
		return "", "", nil, fmt.Errorf("windows native ocr: nil image")
	}

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return "", "", nil, fmt.Errorf("co-initialize: %w", err)
	}
	defer ole.CoUninitialize()

	jpegBytes, err := model.EncodeImageBytes(img)
	if err != nil {
		return "", "", nil, fmt.Errorf("windows native ocr: encode image: %w", err)
	}

	unknown, err := oleutil.CreateObject("Windows.Media.Ocr.OcrEngine")
	if err != nil {
		return "", "", nil, fmt.Errorf("windows native ocr: create OcrEngine: %w", err)
	}
	defer unknown.Release()

	dispatch, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", "", nil, fmt.Errorf("windows native ocr: query IDispatch: %w", err)
	}
	defer dispatch.Release()

	resultVar, err := oleutil.CallMethod(dispatch, "RecognizeAsync", jpegBytes)
	if err != nil {
		return "", "", nil, fmt.Errorf("windows native ocr: recognize: %w", err)
	}
	result := resultVar.ToIDispatch()
	defer result.Release()

	textVar, err := oleutil.GetProperty(result, "Text")
	if err != nil {
		return "", "", nil, fmt.Errorf("windows native ocr: read text: %w", err)
	}
	text := textVar.ToString()

	regionsVar, err := oleutil.GetProperty(result, "Lines")
	var textJSON string
	if err == nil {
		regions := regionsVar.ToString()
		if b, marshalErr := json.Marshal([]map[string]string{{"text": regions}}); marshalErr == nil {
			textJSON = string(b)
		}
	}

	return text, textJSON, nil, nil
}
