package inspect

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
	"github.com/phanxgames/strata/ebitenhost"
)

// CaptureThumbnail draws the layer's framebuffer into thumb, scaled to fit
// and centered. It needs an ebitenhost layer.
func CaptureThumbnail(l *strata.Layer, thumb *ebiten.Image) error {
	buf := l.Buffer()
	if buf == nil {
		return ebitenhost.ErrDisposed
	}
	src := ebitenhost.ImageOf(buf)
	if src == nil {
		return ebitenhost.ErrForeignTexture
	}
	sb, tb := src.Bounds(), thumb.Bounds()
	w, h := fitWithin(sb.Dx(), sb.Dy(), tb.Dx(), tb.Dy())

	thumb.Clear()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	op.GeoM.Translate(float64((tb.Dx()-w)/2), float64((tb.Dy()-h)/2))
	op.Filter = ebiten.FilterLinear
	thumb.DrawImage(src, &op)
	return nil
}

// fitWithin scales (w, h) to the largest size fitting (maxW, maxH) with
// the same aspect ratio, never below 1x1.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	s := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return max(1, int(float64(w)*s)), max(1, int(float64(h)*s))
}

func imageRect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}
