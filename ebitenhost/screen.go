package ebitenhost

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
)

type screenState struct {
	geoM  ebiten.GeoM
	blend ebiten.Blend
}

// Screen is the frame's main surface. It draws onto the image passed to
// Host.SetScreen; with no image set every call is a no-op.
type Screen struct {
	img     *ebiten.Image
	density float64
	state   screenState
	stack   []screenState
}

// Image returns the current screen image.
func (s *Screen) Image() *ebiten.Image { return s.img }

// Depth returns the number of pushed states.
func (s *Screen) Depth() int { return len(s.stack) }

// Clear implements strata.Canvas.
func (s *Screen) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

// Fill implements strata.Canvas.
func (s *Screen) Fill(c color.Color) {
	if s.img != nil {
		s.img.Fill(c)
	}
}

// FillRect draws c over the logical rectangle with the current transform
// and blend.
func (s *Screen) FillRect(x, y, w, h float64, c color.Color) {
	if s.img == nil {
		return
	}
	fillRect(s.img, s.state.geoM, s.state.blend, x, y, w, h, s.density, c, ebiten.FilterNearest)
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
	s.state.geoM.Translate(dx*s.density, dy*s.density)
}

// SetBlend selects the Ebitengine blend for subsequent drawing.
func (s *Screen) SetBlend(b ebiten.Blend) { s.state.blend = b }

// ResetTransform implements strata.Screen.
func (s *Screen) ResetTransform() { s.state.geoM.Reset() }

// ResetBlendMode implements strata.Screen.
func (s *Screen) ResetBlendMode() { s.state.blend = ebiten.BlendSourceOver }

// Blit stretches t over the whole screen with the current transform and
// blend. Textures not created by this package are ignored.
func (s *Screen) Blit(t strata.Texture) {
	if s.img == nil {
		return
	}
	src := ImageOf(t)
	if src == nil {
		return
	}
	sb, db := src.Bounds(), s.img.Bounds()
	if sb.Empty() || db.Empty() {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.GeoM.Concat(s.state.geoM)
	op.Blend = s.state.blend
	s.img.DrawImage(src, &op)
}

// Bounds returns the screen size in device pixels, or an empty rectangle
// before SetScreen.
func (s *Screen) Bounds() image.Rectangle {
	if s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Bounds()
}
