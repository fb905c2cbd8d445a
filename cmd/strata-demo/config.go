package main

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/phanxgames/strata"
)

// Config is the demo configuration, read from TOML.
type Config struct {
	Title         string          `toml:"title"`
	Width         int             `toml:"width"`
	Height        int             `toml:"height"`
	Density       float64         `toml:"density"`
	ScreenshotDir string          `toml:"screenshot_dir"`
	Background    Color           `toml:"background"`
	Inspector     InspectorConfig `toml:"inspector"`
	Layers        []LayerConfig   `toml:"layer"`
}

// InspectorConfig configures the layer panel.
type InspectorConfig struct {
	Enabled  bool    `toml:"enabled"`
	ShowFPS  bool    `toml:"show_fps"`
	BudgetMS float64 `toml:"budget_ms"`
}

// LayerConfig describes one layer and what the demo draws into it.
type LayerConfig struct {
	Name    string           `toml:"name"`
	Blend   strata.BlendMode `toml:"blend"`
	Opacity *float64         `toml:"opacity"`
	ZIndex  *int             `toml:"z"`
	Hidden  bool             `toml:"hidden"`
	Color   Color            `toml:"color"`
	// Pattern is "fill", "stripes" or "checker".
	Pattern string `toml:"pattern"`
	// Width and Height give the layer a custom size; zero tracks the window.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Pulse, when positive, fades the layer's opacity down and back up
	// over that many seconds.
	Pulse float32 `toml:"pulse"`
}

// Color is an opaque RGB color written as "#rrggbb" or an 8-digit
// "#rrggbbaa".
type Color color.NRGBA

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(text)), "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", text)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("color %q: %w", text, err)
	}
	*c = Color{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)), nil
}

// NRGBA returns c as a color.NRGBA.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA(c) }

// DefaultConfig reproduces the classic three-layer stack: red base,
// half-opaque white multiply, blue screen on top.
func DefaultConfig() Config {
	half := 0.5
	return Config{
		Title:         "strata demo",
		Width:         640,
		Height:        480,
		Density:       1,
		ScreenshotDir: "screenshots",
		Background:    Color{A: 255},
		Inspector:     InspectorConfig{Enabled: true, ShowFPS: true, BudgetMS: 2},
		Layers: []LayerConfig{
			{Name: "base", Blend: strata.BlendNormal, Color: Color{R: 255, A: 255}, Pattern: "fill"},
			{Name: "shade", Blend: strata.BlendMultiply, Opacity: &half, Color: Color{R: 255, G: 255, B: 255, A: 255}, Pattern: "checker"},
			{Name: "tint", Blend: strata.BlendScreen, Color: Color{B: 255, A: 255}, Pattern: "stripes", Pulse: 3},
		},
	}
}

// LoadConfig reads path over the defaults. Keys missing from the file keep
// their default values; a [[layer]] table replaces the default layers.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	var file Config
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	merge(&cfg, &file, md)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// merge copies every key defined in the file onto cfg.
func merge(cfg, file *Config, md toml.MetaData) {
	if md.IsDefined("title") {
		cfg.Title = file.Title
	}
	if md.IsDefined("width") {
		cfg.Width = file.Width
	}
	if md.IsDefined("height") {
		cfg.Height = file.Height
	}
	if md.IsDefined("density") {
		cfg.Density = file.Density
	}
	if md.IsDefined("screenshot_dir") {
		cfg.ScreenshotDir = file.ScreenshotDir
	}
	if md.IsDefined("background") {
		cfg.Background = file.Background
	}
	if md.IsDefined("inspector", "enabled") {
		cfg.Inspector.Enabled = file.Inspector.Enabled
	}
	if md.IsDefined("inspector", "show_fps") {
		cfg.Inspector.ShowFPS = file.Inspector.ShowFPS
	}
	if md.IsDefined("inspector", "budget_ms") {
		cfg.Inspector.BudgetMS = file.Inspector.BudgetMS
	}
	if md.IsDefined("layer") {
		cfg.Layers = file.Layers
	}
}

// Validate checks sizes and layer names.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Width, c.Height, strata.ErrInvalidSize)
	}
	if c.Density <= 0 {
		return fmt.Errorf("density %g: %w", c.Density, strata.ErrInvalidSize)
	}
	seen := make(map[string]bool, len(c.Layers))
	for i, l := range c.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer %d: missing name", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("layer %q: duplicate name", l.Name)
		}
		seen[l.Name] = true
		switch l.Pattern {
		case "", "fill", "stripes", "checker":
		default:
			return fmt.Errorf("layer %q: unknown pattern %q", l.Name, l.Pattern)
		}
	}
	return nil
}

// Options converts the layer description to creation options.
func (l LayerConfig) Options() []strata.LayerOption {
	opts := []strata.LayerOption{strata.WithBlendMode(l.Blend), strata.Visible(!l.Hidden)}
	if l.Opacity != nil {
		opts = append(opts, strata.WithOpacity(*l.Opacity))
	}
	if l.ZIndex != nil {
		opts = append(opts, strata.WithZIndex(*l.ZIndex))
	}
	switch {
	case l.Width > 0 && l.Height > 0:
		opts = append(opts, strata.WithSize(l.Width, l.Height))
	case l.Width > 0:
		opts = append(opts, strata.WithWidth(l.Width))
	case l.Height > 0:
		opts = append(opts, strata.WithHeight(l.Height))
	}
	return opts
}
