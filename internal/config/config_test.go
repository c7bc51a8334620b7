package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vel5id/vigil/internal/config"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := config.ParseFlags(nil)
	assert.NoError(t, err)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, config.EngineTesseract, cfg.OCREngine)
	assert.Equal(t, []string{"eng"}, cfg.Languages)
}

func TestParseFlagsOverridesAndLists(t *testing.T) {
	cfg, err := config.ParseFlags([]string{
		"-tick", "2s",
		"-monitors", "0,1",
		"-include", "Safari, Chrome",
		"-exclude", "Private",
		"-languages", "eng,deu",
		"-capture-unfocused-windows",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Equal(t, []int{0, 1}, cfg.MonitorIDs)
	assert.Equal(t, []string{"Safari", "Chrome"}, cfg.IncludeFilters)
	assert.Equal(t, []string{"Private"}, cfg.ExcludeFilters)
	assert.Equal(t, []string{"eng", "deu"}, cfg.Languages)
	assert.True(t, cfg.CaptureUnfocusedWindows)
}

func TestParseFlagsCloudEngineRequiresEndpoint(t *testing.T) {
	_, err := config.ParseFlags([]string{"-ocr-engine", "cloud"})
	assert.Error(t, err)

	cfg, err := config.ParseFlags([]string{"-ocr-engine", "cloud", "-cloud-endpoint", "https://ocr.example.com"})
	assert.NoError(t, err)
	assert.Equal(t, "https://ocr.example.com", cfg.CloudEndpoint)
}

func TestParseFlagsRejectsUnknownEngine(t *testing.T) {
	_, err := config.ParseFlags([]string{"-ocr-engine", "bogus"})
	assert.Error(t, err)
}

func TestParseFlagsLoadsFiltersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("include:\n  - Safari\nexclude:\n  - Private\n"), 0o644))

	cfg, err := config.ParseFlags([]string{"-filters-file", path})
	assert.NoError(t, err)
	assert.Contains(t, cfg.IncludeFilters, "Safari")
	assert.Contains(t, cfg.ExcludeFilters, "Private")
}
