/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"pagegrid/internal/anim"
	"pagegrid/internal/geom"
	"pagegrid/internal/gesture"
	"pagegrid/internal/history"
	applog "pagegrid/internal/log"
	"pagegrid/internal/panel"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown top-level sections are ignored; unknown keys inside a known section are rejected
// by the schema so typos do not silently fall back to defaults.

type PanelConfig struct {
	Orientation  string  `yaml:"orientation"`
	PageWidth    float32 `yaml:"page_width"`
	PageHeight   float32 `yaml:"page_height"`
	CellWidth    float32 `yaml:"cell_width"`
	CellHeight   float32 `yaml:"cell_height"`
	TransitionMs int     `yaml:"transition_ms"`
	Easing       string  `yaml:"easing"` // "" is linear
	DragScale    float32 `yaml:"drag_scale"`
	// DragOpacity is a pointer so an explicit 0 is kept and clamped to 0.1.
	DragOpacity *float32 `yaml:"drag_opacity,omitempty"`
	DesignMode  bool     `yaml:"design_mode"`
}

type GestureConfig struct {
	DragButton  string `yaml:"drag_button"`
	HoldDelayMs int    `yaml:"hold_delay_ms"`
}

type HistoryConfig struct {
	MaxDepth   int `yaml:"max_depth"`
	CoalesceMs int `yaml:"coalesce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Panel         PanelConfig   `yaml:"panel"`
	Gesture       GestureConfig `yaml:"gesture"`
	History       HistoryConfig `yaml:"history"`
	Logging       LoggingConfig `yaml:"logging"`
}

// ErrInvalid is returned when a config document does not match the schema.
var ErrInvalid = errors.New("invalid config")

//go:embed schema.json
var schemaJSON string

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Panel: PanelConfig{
			Orientation:  "horizontal",
			PageWidth:    800,
			PageHeight:   600,
			CellWidth:    100,
			CellHeight:   100,
			TransitionMs: int(panel.DefaultTransitionDuration / time.Millisecond),
			DragScale:    panel.DefaultDragScale,
			DragOpacity:  panel.Opacity(panel.DefaultDragOpacity),
		},
		Gesture: GestureConfig{DragButton: "left", HoldDelayMs: int(gesture.DefaultHoldDelay / time.Millisecond)},
		History: HistoryConfig{MaxDepth: 100},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath  = "PAGEGRID_CONFIG"
	EnvOrientation = "PAGEGRID_ORIENTATION"
	EnvPageSize    = "PAGEGRID_PAGE_SIZE" // WxH, e.g. 800x600
	EnvCellSize    = "PAGEGRID_CELL_SIZE"
	EnvHoldDelayMs = "PAGEGRID_HOLD_DELAY_MS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "PAGEGRID_LOG_LEVEL"
	EnvLogFormat = "PAGEGRID_LOG_FORMAT"
	EnvLogSource = "PAGEGRID_LOG_SOURCE"
	EnvLogFile   = "PAGEGRID_LOG_FILE"
)

// ConfigPath returns the per-user config file path. PAGEGRID_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PageGrid")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PageGrid")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "pagegrid")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "pagegrid")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		fileCfg, err := Parse(data)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Parse validates a YAML document against the embedded schema and decodes it.
// Fields the document leaves out are zero.
func Parse(data []byte) (AppConfig, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return AppConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	res, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return AppConfig{}, fmt.Errorf("schema validate: %w", err)
	}
	if !res.Valid() {
		var msgs []string
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return AppConfig{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

// Save writes the user config YAML to ConfigPath.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// panel
	if v := strings.ToLower(strings.TrimSpace(src.Panel.Orientation)); v != "" {
		dst.Panel.Orientation = v
	}
	setPositive(&dst.Panel.PageWidth, src.Panel.PageWidth)
	setPositive(&dst.Panel.PageHeight, src.Panel.PageHeight)
	setPositive(&dst.Panel.CellWidth, src.Panel.CellWidth)
	setPositive(&dst.Panel.CellHeight, src.Panel.CellHeight)
	setPositive(&dst.Panel.DragScale, src.Panel.DragScale)
	if src.Panel.TransitionMs != 0 {
		dst.Panel.TransitionMs = src.Panel.TransitionMs
	}
	if v := strings.ToLower(strings.TrimSpace(src.Panel.Easing)); v != "" {
		dst.Panel.Easing = v
	}
	if src.Panel.DragOpacity != nil {
		dst.Panel.DragOpacity = panel.Opacity(*src.Panel.DragOpacity)
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Panel.DesignMode = src.Panel.DesignMode
	// gesture
	if v := strings.ToLower(strings.TrimSpace(src.Gesture.DragButton)); v != "" {
		dst.Gesture.DragButton = v
	}
	if src.Gesture.HoldDelayMs != 0 {
		dst.Gesture.HoldDelayMs = src.Gesture.HoldDelayMs
	}
	// history
	if src.History.MaxDepth != 0 {
		dst.History.MaxDepth = src.History.MaxDepth
	}
	if src.History.CoalesceMs != 0 {
		dst.History.CoalesceMs = src.History.CoalesceMs
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func setPositive(dst *float32, v float32) {
	if v > 0 {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvOrientation)); v != "" {
		if _, err := geom.ParseOrientation(v); err == nil {
			cfg.Panel.Orientation = strings.ToLower(v)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPageSize)); v != "" {
		if w, h, err := ParseSize(v); err == nil {
			cfg.Panel.PageWidth, cfg.Panel.PageHeight = w, h
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCellSize)); v != "" {
		if w, h, err := ParseSize(v); err == nil {
			cfg.Panel.CellWidth, cfg.Panel.CellHeight = w, h
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvHoldDelayMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Gesture.HoldDelayMs = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "panel.orientation":
		env = EnvOrientation
	case "panel.page_width", "panel.page_height":
		env = EnvPageSize
	case "panel.cell_width", "panel.cell_height":
		env = EnvCellSize
	case "gesture.hold_delay_ms":
		env = EnvHoldDelayMs
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// ParseSize parses "WxH" into two positive dimensions.
func ParseSize(s string) (w, h float32, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	fw, err := strconv.ParseFloat(strings.TrimSpace(ws), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	fh, err := strconv.ParseFloat(strings.TrimSpace(hs), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if fw <= 0 || fh <= 0 {
		return 0, 0, fmt.Errorf("size %q: dimensions must be positive", s)
	}
	return float32(fw), float32(fh), nil
}

// PanelOptions converts the panel and history sections into panel.Options.
func (c AppConfig) PanelOptions() (panel.Options, error) {
	o, err := geom.ParseOrientation(c.Panel.Orientation)
	if err != nil {
		return panel.Options{}, err
	}
	e, err := anim.ByName(c.Panel.Easing)
	if err != nil {
		return panel.Options{}, err
	}
	return panel.Options{
		Orientation:        o,
		PageWidth:          c.Panel.PageWidth,
		PageHeight:         c.Panel.PageHeight,
		CellWidth:          c.Panel.CellWidth,
		CellHeight:         c.Panel.CellHeight,
		TransitionDuration: time.Duration(c.Panel.TransitionMs) * time.Millisecond,
		Easing:             e,
		DragScale:          c.Panel.DragScale,
		DragOpacity:        opacity(c.Panel.DragOpacity),
		DesignMode:         c.Panel.DesignMode,
		History: history.NewManager(history.Config{
			MaxDepth:    c.History.MaxDepth,
			MinInterval: time.Duration(c.History.CoalesceMs) * time.Millisecond,
		}),
	}, nil
}

func opacity(v *float32) *float32 {
	if v == nil {
		return nil
	}
	return panel.Opacity(*v)
}

// GestureOptions converts the gesture section into gesture.Options.
func (c AppConfig) GestureOptions() (gesture.Options, error) {
	b, err := gesture.ParseButton(c.Gesture.DragButton)
	if err != nil {
		return gesture.Options{}, err
	}
	return gesture.Options{
		DragButton: b,
		HoldDelay:  time.Duration(c.Gesture.HoldDelayMs) * time.Millisecond,
	}, nil
}

// LogOptions converts the logging section into logger options.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}
