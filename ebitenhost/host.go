package ebitenhost

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
	"go.uber.org/zap"
)

// Host implements strata.Host on Ebitengine. It must be used from the
// goroutine running the game loop.
type Host struct {
	width   int
	height  int
	density float64

	screen *Screen
	pool   scratchPool

	// ScreenshotDir is the directory FlushScreenshots writes into.
	// Defaults to "screenshots".
	ScreenshotDir string

	screenshotQueue []string
	live            int
}

// New creates a host with a logical surface of width x height at the given
// pixel density (0 or less means 1).
func New(width, height int, density float64) *Host {
	if density <= 0 {
		density = 1
	}
	return &Host{
		width:         width,
		height:        height,
		density:       density,
		screen:        &Screen{density: density},
		ScreenshotDir: "screenshots",
	}
}

// Width implements strata.Host.
func (h *Host) Width() int { return h.width }

// Height implements strata.Host.
func (h *Host) Height() int { return h.height }

// PixelDensity implements strata.Host.
func (h *Host) PixelDensity() float64 { return h.density }

// Capabilities implements strata.Host. Ebitengine always provides
// off-screen images and Kage shaders.
func (h *Host) Capabilities() strata.Capability { return strata.CapRequired }

// Screen implements strata.Host.
func (h *Host) Screen() strata.Screen { return h.screen }

// Surface returns the main surface with its concrete type.
func (h *Host) Surface() *Screen { return h.screen }

// LiveBuffers returns the number of framebuffers not yet disposed.
func (h *Host) LiveBuffers() int { return h.live }

// SetSize changes the logical surface size and density. Layers follow on
// the next Render.
func (h *Host) SetSize(width, height int, density float64) {
	if density <= 0 {
		density = 1
	}
	h.width, h.height, h.density = width, height, density
	h.screen.density = density
}

// Layout records the outside size as the logical surface and returns the
// screen size in device pixels. Call it from Game.Layout.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		h.SetSize(outsideWidth, outsideHeight, h.density)
	}
	return strata.PixelSize(h.width, h.height, h.density)
}

// SetScreen sets the image the compositor draws the frame onto. Call it at
// the top of Game.Draw.
func (h *Host) SetScreen(img *ebiten.Image) {
	h.screen.img = img
}

// NewFramebuffer implements strata.Host.
func (h *Host) NewFramebuffer(opts strata.FramebufferOptions) (strata.Framebuffer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("ebitenhost: framebuffer %dx%d: %w", opts.Width, opts.Height, strata.ErrInvalidSize)
	}
	if opts.Density <= 0 {
		opts.Density = h.density
	}
	pw, ph := opts.PixelSize()
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, pw, ph), nil)
	h.live++
	return &Framebuffer{host: h, img: img, opts: opts}, nil
}

// CompileProgram implements strata.Host. The fragment source must be Kage.
func (h *Host) CompileProgram(src strata.ProgramSource) (strata.Program, error) {
	shader, err := ebiten.NewShader(src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: compile %s: %w", src.Name, err)
	}
	strata.Logger().Debug("compiled kage program", zap.String("program", src.Name))
	return &Program{
		host:     h,
		name:     src.Name,
		shader:   shader,
		uniforms: make(map[string]any, 4),
	}, nil
}

// Dispose releases pooled scratch images.
func (h *Host) Dispose() {
	h.pool.Drain()
}

// --- White pixel for solid fills ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// fillRect draws c over the logical rectangle using the white pixel.
func fillRect(dst *ebiten.Image, geo ebiten.GeoM, blend ebiten.Blend, x, y, w, h, density float64, c color.Color, filter ebiten.Filter) {
	if w <= 0 || h <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w*density, h*density)
	op.GeoM.Translate(x*density, y*density)
	op.GeoM.Concat(geo)
	op.ColorScale.ScaleWithColor(c)
	op.Blend = blend
	op.Filter = filter
	dst.DrawImage(ensureWhitePixel(), &op)
}

// stretchInto draws src scaled to fill dst. Both are expected to have
// their bounds at the origin.
func stretchInto(dst, src *ebiten.Image) {
	sb, db := src.Bounds(), dst.Bounds()
	if sb.Empty() || db.Empty() {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.Blend = ebiten.BlendCopy
	dst.DrawImage(src, &op)
}
