package ebitenhost

import (
	"image"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// scratchPool recycles the unmanaged images Program.Run stretches
// mismatched textures into. Images are bucketed by size class, each side
// rounded up to a power of two, so a resize by a few pixels still hits.
type scratchPool struct {
	free    map[image.Point][]*ebiten.Image
	created int
}

// sizeClass is the bucket an image of w x h pixels lives in.
func sizeClass(w, h int) image.Point {
	return image.Pt(nextPowerOfTwo(w), nextPowerOfTwo(h))
}

// Acquire hands out a cleared image covering at least w x h pixels.
func (p *scratchPool) Acquire(w, h int) *ebiten.Image {
	class := sizeClass(w, h)
	if n := len(p.free[class]); n > 0 {
		img := p.free[class][n-1]
		p.free[class] = p.free[class][:n-1]
		img.Clear()
		return img
	}
	p.created++
	return ebiten.NewImageWithOptions(image.Rectangle{Max: class}, &ebiten.NewImageOptions{Unmanaged: true})
}

// AcquireExact is Acquire plus a view of exactly w x h pixels at the
// origin. Only pooled goes back to Release.
func (p *scratchPool) AcquireExact(w, h int) (pooled, exact *ebiten.Image) {
	pooled = p.Acquire(w, h)
	return pooled, pooled.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
}

// Release puts img back in its bucket.
func (p *scratchPool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	if p.free == nil {
		p.free = make(map[image.Point][]*ebiten.Image)
	}
	class := img.Bounds().Size()
	p.free[class] = append(p.free[class], img)
}

// Drain deallocates every idle image.
func (p *scratchPool) Drain() {
	for _, imgs := range p.free {
		for _, img := range imgs {
			img.Deallocate()
		}
	}
	clear(p.free)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
