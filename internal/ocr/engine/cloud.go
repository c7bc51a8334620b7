package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vel5id/vigil/internal/model"
)

// cloudResponse is the JSON body a Cloud OCR endpoint is expected to
// return.
type cloudResponse struct {
	Text       string          `json:"text"`
	TextJSON   json.RawMessage `json:"text_json"`
	Confidence *float64        `json:"confidence"`
}

// Cloud posts the JPEG-encoded image to a remote OCR endpoint and
// parses its JSON response. Engine/network failures propagate to the
// caller (spec §4.E), as they do for every engine.
type Cloud struct {
	Client    *resty.Client
	Endpoint  string
	AuthToken string
}

// NewCloud builds a Cloud engine with sane request timeouts.
func NewCloud(endpoint, authToken string) *Cloud {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2)
	return &Cloud{Client: client, Endpoint: endpoint, AuthToken: authToken}
}

func (c *Cloud) PerformOCR(ctx context.Context, img image.Image, languages []string) (string, string, *float64, error) {
	if c.Endpoint == "" {
		return "", "", nil, fmt.Errorf("cloud ocr: no endpoint configured")
	}

	payload, err := model.EncodeImageBytes(img)
	if err != nil {
		return "", "", nil, fmt.Errorf("cloud ocr: encode image: %w", err)
	}

	req := c.Client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"image":     payload,
			"languages": strings.Join(languages, ","),
		})
	if c.AuthToken != "" {
		req.SetHeader("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := req.Post(c.Endpoint)
	if err != nil {
		return "", "", nil, fmt.Errorf("cloud ocr: request: %w", err)
	}
	if resp.IsError() {
		return "", "", nil, fmt.Errorf("cloud ocr: endpoint returned %s", resp.Status())
	}

	var parsed cloudResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", "", nil, fmt.Errorf("cloud ocr: decode response: %w", err)
	}

	return parsed.Text, string(parsed.TextJSON), parsed.Confidence, nil
}
