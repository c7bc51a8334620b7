package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vel5id/vigil/internal/enginecfg"
	"github.com/vel5id/vigil/internal/model"
)

// Custom dispatches to a user-configured engine record loaded from
// internal/enginecfg: either a subprocess plugin (image on stdin,
// JSON result on stdout) or an HTTP endpoint using the same response
// shape as Cloud.
type Custom struct {
	Store  *enginecfg.Store
	Name   string
	client *resty.Client
}

// NewCustom builds a Custom engine reading record Name from store.
func NewCustom(store *enginecfg.Store, name string) *Custom {
	return &Custom{
		Store:  store,
		Name:   name,
		client: resty.New().SetTimeout(15 * time.Second),
	}
}

func (c *Custom) PerformOCR(ctx context.Context, img image.Image, languages []string) (string, string, *float64, error) {
	rec, ok, err := c.Store.Get(ctx, c.Name)
	if err != nil {
		return "", "", nil, fmt.Errorf("custom ocr: load config %q: %w", c.Name, err)
	}
	if !ok {
		return "", "", nil, fmt.Errorf("custom ocr: no config named %q", c.Name)
	}

	switch rec.Kind {
	case enginecfg.KindHTTP:
		return c.performHTTP(ctx, rec, img, languages)
	case enginecfg.KindSubprocess:
		return c.performSubprocess(ctx, rec, img)
	default:
		return "", "", nil, fmt.Errorf("custom ocr: unknown kind %q for config %q", rec.Kind, rec.Name)
	}
}

func (c *Custom) performHTTP(ctx context.Context, rec enginecfg.Record, img image.Image, languages []string) (string, string, *float64, error) {
	payload, err := model.EncodeImageBytes(img)
	if err != nil {
		return "", "", nil, fmt.Errorf("custom ocr: encode image: %w", err)
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{"image": payload})
	if rec.AuthToken != "" {
		req.SetHeader("Authorization", "Bearer "+rec.AuthToken)
	}

	resp, err := req.Post(rec.Endpoint)
	if err != nil {
		return "", "", nil, fmt.Errorf("custom ocr: request: %w", err)
	}
	if resp.IsError() {
		return "", "", nil, fmt.Errorf("custom ocr: endpoint returned %s", resp.Status())
	}

	var parsed struct {
		Text       string          `json:"text"`
		TextJSON   json.RawMessage `json:"text_json"`
		Confidence *float64        `json:"confidence"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", "", nil, fmt.Errorf("custom ocr: decode response: %w", err)
	}
	return parsed.Text, string(parsed.TextJSON), parsed.Confidence, nil
}

func (c *Custom) performSubprocess(ctx context.Context, rec enginecfg.Record, img image.Image) (string, string, *float64, error) {
	var imgBuf bytes.Buffer
	if err := png.Encode(&imgBuf, img); err != nil {
		return "", "", nil, fmt.Errorf("custom ocr: encode image for plugin: %w", err)
	}

	cmd := exec.CommandContext(ctx, rec.Command, rec.Args...)
	cmd.Stdin = &imgBuf
	out, err := cmd.Output()
	if err != nil {
		return "", "", nil, fmt.Errorf("custom ocr: run plugin %q: %w", rec.Command, err)
	}

	var parsed struct {
		Text       string          `json:"text"`
		TextJSON   json.RawMessage `json:"text_json"`
		Confidence *float64        `json:"confidence"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		return "", "", nil, fmt.Errorf("custom ocr: decode plugin output: %w", err)
	}
	return parsed.Text, string(parsed.TextJSON), parsed.Confidence, nil
}
