// Package config parses the command-line configuration for the vigil
// daemon, generalizing the teacher's flat flag.* parseFlags pattern
// (cmd/watcher/main.go) to this pipeline's per-monitor options
// (spec §6) plus an optional YAML window-filter rule file.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OCREngineKind selects which ocr.Engine implementation a Loop uses.
type OCREngineKind string

const (
	EngineTesseract     OCREngineKind = "tesseract"
	EngineWindowsNative OCREngineKind = "windows-native"
	EngineAppleNative   OCREngineKind = "apple-native"
	EngineCloud         OCREngineKind = "cloud"
	EngineCustom        OCREngineKind = "custom"
)

// Config is the fully resolved daemon configuration.
type Config struct {
	TickInterval            time.Duration
	OCREngine               OCREngineKind
	MonitorIDs              []int // empty means "all currently active displays"
	IncludeFilters          []string
	ExcludeFilters          []string
	Languages               []string
	CaptureUnfocusedWindows bool

	CloudEndpoint  string
	CloudAuthToken string

	CustomEngineName string
	EngineConfigPath string // SQLite database backing internal/enginecfg

	RealtimeRedisAddr   string
	RealtimeRedisStream string

	OutChannelCapacity int
}

// FilterRules is the optional YAML document loadable via
// -filters-file, letting window include/exclude lists live outside
// the command line for long lists.
type FilterRules struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Default returns the spec-mandated defaults (spec §6, §4.G).
func Default() Config {
	return Config{
		TickInterval:        time.Second,
		OCREngine:           EngineTesseract,
		Languages:           []string{"eng"},
		EngineConfigPath:    ".vigil/engine-config.db",
		RealtimeRedisStream: "vigil:vision-events",
		OutChannelCapacity:  100,
	}
}

// ParseFlags parses args (typically os.Args[1:]) into a Config,
// mirroring the teacher's parseFlags but against this pipeline's
// option set.
func ParseFlags(args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("vigil", flag.ContinueOnError)

	tick := fs.Duration("tick", cfg.TickInterval, "interval between capture attempts")
	engine := fs.String("ocr-engine", string(cfg.OCREngine), "tesseract|windows-native|apple-native|cloud|custom")
	monitors := fs.String("monitors", "", "comma-separated monitor ids to capture (empty = all active displays)")
	include := fs.String("include", "", "comma-separated window include substrings")
	exclude := fs.String("exclude", "", "comma-separated window exclude substrings")
	filtersFile := fs.String("filters-file", "", "optional YAML file with include/exclude window filter lists")
	languages := fs.String("languages", strings.Join(cfg.Languages, ","), "comma-separated OCR language tags")
	captureUnfocused := fs.Bool("capture-unfocused-windows", cfg.CaptureUnfocusedWindows, "capture windows that are not focused")

	cloudEndpoint := fs.String("cloud-endpoint", "", "Cloud OCR engine endpoint URL")
	cloudAuthToken := fs.String("cloud-auth-token", "", "Cloud OCR engine bearer token")

	customEngineName := fs.String("custom-engine-name", "", "Custom OCR engine config record name")
	engineConfigPath := fs.String("engine-config-db", cfg.EngineConfigPath, "path to the Custom OCR engine config SQLite database")

	realtimeRedisAddr := fs.String("realtime-redis-addr", "", "Redis address for realtime vision-event fan-out (empty disables)")
	realtimeRedisStream := fs.String("realtime-redis-stream", cfg.RealtimeRedisStream, "Redis stream name for realtime vision-event fan-out")

	outCapacity := fs.Int("out-capacity", cfg.OutChannelCapacity, "downstream CaptureResult channel capacity")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.TickInterval = *tick
	cfg.OCREngine = OCREngineKind(*engine)
	cfg.CaptureUnfocusedWindows = *captureUnfocused
	cfg.CloudEndpoint = *cloudEndpoint
	cfg.CloudAuthToken = *cloudAuthToken
	cfg.CustomEngineName = *customEngineName
	cfg.EngineConfigPath = *engineConfigPath
	cfg.RealtimeRedisAddr = *realtimeRedisAddr
	cfg.RealtimeRedisStream = *realtimeRedisStream
	cfg.OutChannelCapacity = *outCapacity

	if *languages != "" {
		cfg.Languages = splitCSV(*languages)
	}
	if *monitors != "" {
		ids, err := parseMonitorIDs(*monitors)
		if err != nil {
			return Config{}, err
		}
		cfg.MonitorIDs = ids
	}

	cfg.IncludeFilters = splitCSV(*include)
	cfg.ExcludeFilters = splitCSV(*exclude)

	if *filtersFile != "" {
		rules, err := loadFilterRules(*filtersFile)
		if err != nil {
			return Config{}, fmt.Errorf("load filters file %q: %w", *filtersFile, err)
		}
		cfg.IncludeFilters = append(cfg.IncludeFilters, rules.Include...)
		cfg.ExcludeFilters = append(cfg.ExcludeFilters, rules.Exclude...)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.OCREngine {
	case EngineTesseract, EngineWindowsNative, EngineAppleNative, EngineCloud, EngineCustom:
	default:
		return fmt.Errorf("unknown ocr-engine %q", c.OCREngine)
	}
	if c.OCREngine == EngineCloud && c.CloudEndpoint == "" {
		return fmt.Errorf("ocr-engine cloud requires -cloud-endpoint")
	}
	if c.OCREngine == EngineCustom && c.CustomEngineName == "" {
		return fmt.Errorf("ocr-engine custom requires -custom-engine-name")
	}
	return nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMonitorIDs(s string) ([]int, error) {
	var ids []int
	for _, p := range splitCSV(s) {
		var id int
		if _, err := fmt.Sscanf(p, "%d", &id); err != nil {
			return nil, fmt.Errorf("invalid monitor id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func loadFilterRules(path string) (FilterRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FilterRules{}, err
	}
	var rules FilterRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return FilterRules{}, fmt.Errorf("parse yaml: %w", err)
	}
	return rules, nil
}
