package softhost

import (
	"image"

	"golang.org/x/image/draw"
)

// Image is a read-only texture, typically a mask.
type Image struct {
	img *image.NRGBA
}

// NewImage copies src into a texture usable as a strata mask.
func NewImage(src image.Image) *Image {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{img: dst}
}

// Bounds implements strata.Texture.
func (i *Image) Bounds() image.Rectangle {
	if i == nil {
		return image.Rectangle{}
	}
	return i.img.Bounds()
}

// NRGBA returns the pixels. A nil *Image has none.
func (i *Image) NRGBA() *image.NRGBA {
	if i == nil {
		return nil
	}
	return i.img
}

// pixelSource is implemented by every softhost texture.
type pixelSource interface {
	NRGBA() *image.NRGBA
}
