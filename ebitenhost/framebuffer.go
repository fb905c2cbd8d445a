package ebitenhost

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
)

// Framebuffer is an off-screen *ebiten.Image owned by a layer or the
// compositor. Unlike pooled scratch images it is never recycled.
type Framebuffer struct {
	host    *Host
	img     *ebiten.Image
	opts    strata.FramebufferOptions
	drawing bool
}

// Image returns the underlying *ebiten.Image for direct manipulation, nil
// once disposed. Draw into it between Begin and End.
func (f *Framebuffer) Image() *ebiten.Image { return f.img }

// Bounds implements strata.Texture. A disposed buffer has empty bounds.
func (f *Framebuffer) Bounds() image.Rectangle {
	if f == nil || f.img == nil {
		return image.Rectangle{}
	}
	return f.img.Bounds()
}

// Options returns the options the buffer was created with.
func (f *Framebuffer) Options() strata.FramebufferOptions { return f.opts }

// Drawing reports whether the buffer is between Begin and End.
func (f *Framebuffer) Drawing() bool { return f.drawing }

// Begin implements strata.Framebuffer.
func (f *Framebuffer) Begin() { f.drawing = true }

// End implements strata.Framebuffer.
func (f *Framebuffer) End() { f.drawing = false }

// Dispose deallocates the image. Safe to call more than once.
func (f *Framebuffer) Dispose() {
	if f.img == nil {
		return
	}
	f.img.Deallocate()
	f.img = nil
	f.drawing = false
	f.host.live--
}

// Clear fills the buffer with transparent black.
func (f *Framebuffer) Clear() {
	if f.img != nil {
		f.img.Clear()
	}
}

// Fill fills the entire buffer with c.
func (f *Framebuffer) Fill(c color.Color) {
	if f.img != nil {
		f.img.Fill(c)
	}
}

// FillRect draws c over the logical rectangle (x, y, w, h). Antialiased
// buffers use linear filtering on fractional edges.
func (f *Framebuffer) FillRect(x, y, w, h float64, c color.Color) {
	if f.img == nil {
		return
	}
	fillRect(f.img, ebiten.GeoM{}, ebiten.BlendSourceOver, x, y, w, h, f.opts.Density, c, f.filter())
}

// DrawImage draws src scaled into the logical rectangle (x, y, w, h).
func (f *Framebuffer) DrawImage(src *ebiten.Image, x, y, w, h float64) {
	if f.img == nil || src == nil {
		return
	}
	b := src.Bounds()
	if b.Empty() {
		return
	}
	d := f.opts.Density
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w*d/float64(b.Dx()), h*d/float64(b.Dy()))
	op.GeoM.Translate(x*d, y*d)
	op.Filter = f.filter()
	f.img.DrawImage(src, &op)
}

// DrawImageAt draws src at the logical position (x, y) with the given
// Ebitengine blend and no scaling beyond the buffer's density.
func (f *Framebuffer) DrawImageAt(src *ebiten.Image, x, y float64, blend ebiten.Blend) {
	if f.img == nil || src == nil {
		return
	}
	d := f.opts.Density
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(d, d)
	op.GeoM.Translate(x*d, y*d)
	op.Blend = blend
	op.Filter = f.filter()
	f.img.DrawImage(src, &op)
}

func (f *Framebuffer) filter() ebiten.Filter {
	if f.opts.Antialias {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

func (f *Framebuffer) ebitenImage() *ebiten.Image {
	if f == nil {
		return nil
	}
	return f.img
}

// Texture wraps an *ebiten.Image so it can be used as a mask.
type Texture struct {
	img *ebiten.Image
}

// NewTexture wraps img. The caller keeps ownership of img.
func NewTexture(img *ebiten.Image) *Texture {
	return &Texture{img: img}
}

// Bounds implements strata.Texture.
func (t *Texture) Bounds() image.Rectangle {
	if t == nil || t.img == nil {
		return image.Rectangle{}
	}
	return t.img.Bounds()
}

// Image returns the wrapped image.
func (t *Texture) Image() *ebiten.Image { return t.ebitenImage() }

func (t *Texture) ebitenImage() *ebiten.Image {
	if t == nil {
		return nil
	}
	return t.img
}

// imageSource is implemented by every texture this host can sample.
type imageSource interface {
	ebitenImage() *ebiten.Image
}

// ImageOf returns the *ebiten.Image behind a texture created by this
// package, or nil.
func ImageOf(t strata.Texture) *ebiten.Image {
	if src, ok := t.(imageSource); ok {
		return src.ebitenImage()
	}
	return nil
}
