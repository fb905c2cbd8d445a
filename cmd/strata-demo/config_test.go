package main

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/strata"
	"github.com/phanxgames/strata/softhost"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 640 || cfg.Height != 480 || len(cfg.Layers) != 3 {
		t.Errorf("defaults = %dx%d with %d layers", cfg.Width, cfg.Height, len(cfg.Layers))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
width = 320
background = "#102030"

[inspector]
enabled = false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 320x480", cfg.Width, cfg.Height)
	}
	if cfg.Inspector.Enabled {
		t.Error("inspector.enabled should be overridden")
	}
	if !cfg.Inspector.ShowFPS || cfg.Inspector.BudgetMS != 2 {
		t.Error("keys missing from the file should keep defaults")
	}
	if want := (color.NRGBA{0x10, 0x20, 0x30, 255}); cfg.Background.NRGBA() != want {
		t.Errorf("background = %v, want %v", cfg.Background, want)
	}
	if len(cfg.Layers) != 3 || cfg.Title != "strata demo" {
		t.Error("default layers and title should be kept")
	}
}

func TestLoadConfigLayers(t *testing.T) {
	path := writeConfig(t, `
[[layer]]
name = "bg"
color = "#00ff0080"

[[layer]]
name = "fx"
blend = "soft-light"
opacity = 0.25
z = -1
width = 100
hidden = true
pattern = "stripes"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(cfg.Layers))
	}
	bg, fx := cfg.Layers[0], cfg.Layers[1]
	if bg.Blend != strata.BlendNormal || bg.Opacity != nil || bg.ZIndex != nil {
		t.Errorf("bg should use defaults: %+v", bg)
	}
	if bg.Color.A != 0x80 {
		t.Errorf("bg alpha = %#x, want 0x80", bg.Color.A)
	}
	if fx.Blend != strata.BlendSoftLight || *fx.Opacity != 0.25 || *fx.ZIndex != -1 || !fx.Hidden {
		t.Errorf("fx = %+v", fx)
	}

	host := softhost.New(8, 8, 1)
	sys, err := strata.NewSystem(host)
	if err != nil {
		t.Fatal(err)
	}
	defer sys.Dispose()
	l, err := sys.CreateLayer(fx.Name, fx.Options()...)
	if err != nil {
		t.Fatal(err)
	}
	if l.Visible() || l.Opacity() != 0.25 || l.ZIndex() != -1 || l.BlendMode() != strata.BlendSoftLight {
		t.Errorf("layer = %+v", l.Info())
	}
	if !l.CustomSize() || l.Width() != 100 || l.Height() != 8 {
		t.Errorf("size = %dx%d custom=%v, want 100x8 custom", l.Width(), l.Height(), l.CustomSize())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		size bool
	}{
		{"syntax", "width = ", false},
		{"zero width", "width = 0", true},
		{"negative density", "density = -1.0", true},
		{"bad color", "background = \"#12\"", false},
		{"missing name", "[[layer]]\ncolor = \"#ffffff\"", false},
		{"duplicate name", "[[layer]]\nname = \"a\"\n[[layer]]\nname = \"a\"", false},
		{"unknown pattern", "[[layer]]\nname = \"a\"\npattern = \"dots\"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.size && !errors.Is(err, strata.ErrInvalidSize) {
				t.Errorf("err = %v, want ErrInvalidSize", err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestColorText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte(" #FF8000 ")); err != nil {
		t.Fatal(err)
	}
	if c != (Color{255, 128, 0, 255}) {
		t.Errorf("color = %v", c)
	}
	text, _ := c.MarshalText()
	if string(text) != "#ff8000ff" {
		t.Errorf("MarshalText = %s", text)
	}
	if err := c.UnmarshalText([]byte("#zzzzzz")); err == nil {
		t.Error("expected error for non-hex color")
	}
}

func TestDrawPattern(t *testing.T) {
	host := softhost.New(4, 4, 1)
	red := color.NRGBA{255, 0, 0, 255}
	tests := []struct {
		pattern string
		x, y    int
		want    color.NRGBA
	}{
		{"fill", 200, 100, red},
		{"stripes", 10, 50, red},
		{"stripes", stripeWidth + 1, 50, color.NRGBA{}},
		{"checker", 1, 1, red},
		{"checker", checkerSize + 1, 1, color.NRGBA{}},
		{"checker", checkerSize + 1, checkerSize + 1, red},
	}
	for _, tt := range tests {
		buf, err := host.NewFramebuffer(strata.FramebufferOptions{Width: 256, Height: 128, Density: 1})
		if err != nil {
			t.Fatal(err)
		}
		fb := buf.(*softhost.Framebuffer)
		drawPattern(fb, tt.pattern, 256, 128, red)
		if got := fb.NRGBA().NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s at (%d,%d) = %v, want %v", tt.pattern, tt.x, tt.y, got, tt.want)
		}
		fb.Dispose()
	}
}
