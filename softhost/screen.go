package softhost

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/phanxgames/strata"
	"golang.org/x/image/draw"
)

type screenState struct {
	dx, dy float64
	op     draw.Op
}

// Screen is the host's main surface.
type Screen struct {
	img     *image.NRGBA
	density float64
	state   screenState
	stack   []screenState
	blits   int
}

func newScreen(pw, ph int, density float64) *Screen {
	return &Screen{
		img:     image.NewNRGBA(image.Rect(0, 0, pw, ph)),
		density: density,
		state:   screenState{op: draw.Over},
	}
}

func (s *Screen) resize(pw, ph int, density float64) {
	s.img = image.NewNRGBA(image.Rect(0, 0, pw, ph))
	s.density = density
}

// NRGBA returns the surface pixels.
func (s *Screen) NRGBA() *image.NRGBA { return s.img }

// Bounds returns the surface size in device pixels.
func (s *Screen) Bounds() image.Rectangle { return s.img.Bounds() }

// At returns the straight-alpha color at device pixel (x, y).
func (s *Screen) At(x, y int) color.NRGBA { return s.img.NRGBAAt(x, y) }

// Blits returns how many times Blit has been called.
func (s *Screen) Blits() int { return s.blits }

// Depth returns the number of pushed states.
func (s *Screen) Depth() int { return len(s.stack) }

// Clear sets every pixel to transparent black.
func (s *Screen) Clear() { clear(s.img.Pix) }

// Fill replaces every pixel with c.
func (s *Screen) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect draws c over the logical rectangle, offset by the current
// translation.
func (s *Screen) FillRect(x, y, w, h float64, c color.Color) {
	r := deviceRect(x+s.state.dx, y+s.state.dy, w, h, s.density).Intersect(s.img.Bounds())
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, s.state.op)
}

// Push saves the transform and blend state.
func (s *Screen) Push() { s.stack = append(s.stack, s.state) }

// Pop restores the last pushed state. Extra pops are ignored.
func (s *Screen) Pop() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Translate offsets subsequent drawing by (dx, dy) logical units.
func (s *Screen) Translate(dx, dy float64) {
	s.state.dx += dx
	s.state.dy += dy
}

// SetOp selects the Porter-Duff operator for subsequent drawing.
func (s *Screen) SetOp(op draw.Op) { s.state.op = op }

// ResetTransform implements strata.Screen.
func (s *Screen) ResetTransform() { s.state.dx, s.state.dy = 0, 0 }

// ResetBlendMode implements strata.Screen.
func (s *Screen) ResetBlendMode() { s.state.op = draw.Over }

// Blit implements strata.Screen. Textures not created by softhost are
// ignored.
func (s *Screen) Blit(t strata.Texture) {
	src, ok := t.(pixelSource)
	if !ok || src.NRGBA() == nil {
		return
	}
	s.blits++
	b := s.img.Bounds()
	off := image.Pt(int(s.state.dx*s.density), int(s.state.dy*s.density))
	draw.NearestNeighbor.Scale(s.img, b.Add(off), src.NRGBA(), src.NRGBA().Bounds(), s.state.op, nil)
}

// WritePNG encodes the surface as PNG.
func (s *Screen) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}
