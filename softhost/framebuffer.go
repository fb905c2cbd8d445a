package softhost

import (
	"image"
	"image/color"
	"math"

	"github.com/phanxgames/strata"
	"golang.org/x/image/draw"
)

// Framebuffer is an off-screen NRGBA buffer.
type Framebuffer struct {
	host    *Host
	img     *image.NRGBA
	opts    strata.FramebufferOptions
	drawing bool
}

func newFramebuffer(h *Host, opts strata.FramebufferOptions) *Framebuffer {
	pw, ph := opts.PixelSize()
	return &Framebuffer{
		host: h,
		img:  image.NewNRGBA(image.Rect(0, 0, pw, ph)),
		opts: opts,
	}
}

// Bounds implements strata.Texture. A disposed buffer has empty bounds.
func (f *Framebuffer) Bounds() image.Rectangle {
	if f == nil || f.img == nil {
		return image.Rectangle{}
	}
	return f.img.Bounds()
}

// NRGBA returns the backing image, nil once disposed.
func (f *Framebuffer) NRGBA() *image.NRGBA {
	if f == nil {
		return nil
	}
	return f.img
}

// Options returns the options the buffer was created with.
func (f *Framebuffer) Options() strata.FramebufferOptions { return f.opts }

// Drawing reports whether the buffer is between Begin and End.
func (f *Framebuffer) Drawing() bool { return f.drawing }

// Begin implements strata.Framebuffer.
func (f *Framebuffer) Begin() { f.drawing = true }

// End implements strata.Framebuffer.
func (f *Framebuffer) End() { f.drawing = false }

// Dispose implements strata.Framebuffer.
func (f *Framebuffer) Dispose() {
	if f.img == nil {
		return
	}
	f.img = nil
	f.drawing = false
	f.host.live--
}

// Clear sets every pixel to transparent black.
func (f *Framebuffer) Clear() {
	if f.img == nil {
		return
	}
	clear(f.img.Pix)
}

// Fill replaces every pixel with c.
func (f *Framebuffer) Fill(c color.Color) {
	if f.img == nil {
		return
	}
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect draws c over the logical rectangle (x, y, w, h).
func (f *Framebuffer) FillRect(x, y, w, h float64, c color.Color) {
	if f.img == nil {
		return
	}
	r := deviceRect(x, y, w, h, f.opts.Density).Intersect(f.img.Bounds())
	draw.Draw(f.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// DrawImage draws src scaled into the logical rectangle (x, y, w, h) with
// bilinear filtering.
func (f *Framebuffer) DrawImage(src image.Image, x, y, w, h float64) {
	if f.img == nil || src == nil {
		return
	}
	r := deviceRect(x, y, w, h, f.opts.Density)
	draw.BiLinear.Scale(f.img, r, src, src.Bounds(), draw.Over, nil)
}

// deviceRect converts a logical rectangle to covering device pixels.
func deviceRect(x, y, w, h, density float64) image.Rectangle {
	if density <= 0 {
		density = 1
	}
	return image.Rect(
		int(math.Floor(x*density)),
		int(math.Floor(y*density)),
		int(math.Ceil((x+w)*density)),
		int(math.Ceil((y+h)*density)),
	)
}
