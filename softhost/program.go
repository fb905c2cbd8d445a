package softhost

import (
	"fmt"
	"image"

	"github.com/phanxgames/strata"
)

// MaxTextures is the number of texture slots a program has.
const MaxTextures = 4

// Kernel is the CPU stand-in for a compiled program. It writes every pixel
// of dst; src holds the bound textures (nil for unbound slots).
type Kernel func(dst *image.NRGBA, src [MaxTextures]*image.NRGBA, u Uniforms) error

// Uniforms holds the values set with SetUniform.
type Uniforms map[string]any

// Float returns the named uniform as float64, or 0 if unset or not numeric.
func (u Uniforms) Float(name string) float64 {
	switch v := u[name].(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	}
	return 0
}

// Int returns the named uniform as int, or 0 if unset or not numeric.
func (u Uniforms) Int(name string) int {
	switch v := u[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

type program struct {
	kernel   Kernel
	uniforms Uniforms
	textures [MaxTextures]strata.Texture
	disposed bool
}

func (p *program) SetUniform(name string, value any) {
	p.uniforms[name] = value
}

func (p *program) SetTexture(slot int, t strata.Texture) {
	if slot < 0 || slot >= MaxTextures {
		return
	}
	p.textures[slot] = t
}

func (p *program) Run(dst strata.Framebuffer) error {
	if p.disposed {
		return ErrDisposed
	}
	target, ok := dst.(*Framebuffer)
	if !ok {
		return fmt.Errorf("run target %T: %w", dst, ErrForeignTexture)
	}
	if target == nil || target.img == nil {
		return fmt.Errorf("run target: %w", ErrDisposed)
	}
	var src [MaxTextures]*image.NRGBA
	for i, t := range p.textures {
		if t == nil {
			continue
		}
		ps, ok := t.(pixelSource)
		if !ok {
			return fmt.Errorf("slot %d texture %T: %w", i, t, ErrForeignTexture)
		}
		img := ps.NRGBA()
		if img == nil {
			return fmt.Errorf("slot %d: %w", i, ErrDisposed)
		}
		if img.Bounds().Empty() {
			return fmt.Errorf("slot %d: empty texture: %w", i, strata.ErrInvalidSize)
		}
		src[i] = img
	}
	return p.kernel(target.img, src, p.uniforms)
}

func (p *program) Dispose() {
	p.disposed = true
	clear(p.textures[:])
}

// sample returns the pixel of src covering destination pixel (x, y) of a
// dw x dh target, using normalized coordinates and nearest filtering. An
// empty source samples as transparent black.
func sample(src *image.NRGBA, x, y, dw, dh int) (r, g, b, a float64) {
	sb := src.Bounds()
	if sb.Empty() || dw <= 0 || dh <= 0 {
		return 0, 0, 0, 0
	}
	sx := sb.Min.X + (2*x+1)*sb.Dx()/(2*dw)
	sy := sb.Min.Y + (2*y+1)*sb.Dy()/(2*dh)
	i := src.PixOffset(sx, sy)
	p := src.Pix[i : i+4 : i+4]
	return float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
