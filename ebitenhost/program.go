package ebitenhost

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
)

// MaxTextures is the number of texture slots Kage exposes.
const MaxTextures = 4

// Program is a compiled Kage shader with its bound uniforms and textures.
type Program struct {
	host     *Host
	name     string
	shader   *ebiten.Shader
	uniforms map[string]any
	textures [MaxTextures]strata.Texture
	shaderOp ebiten.DrawRectShaderOptions
	scratch  [MaxTextures]*ebiten.Image
}

// Name returns the program name it was compiled under.
func (p *Program) Name() string { return p.name }

// SetUniform implements strata.Program. Values are passed to Ebitengine as
// is, so use float32 for float uniforms and int for int uniforms.
func (p *Program) SetUniform(name string, v any) {
	p.uniforms[name] = v
}

// SetTexture implements strata.Program. Slots outside [0, MaxTextures) are
// ignored.
func (p *Program) SetTexture(slot int, t strata.Texture) {
	if slot < 0 || slot >= MaxTextures {
		return
	}
	p.textures[slot] = t
}

// Run implements strata.Program. It draws the shader over all of dst.
// Textures whose size differs from dst are first stretched into scratch
// images, since DrawRectShader samples every source in the same pixel
// space.
func (p *Program) Run(dst strata.Framebuffer) error {
	if p.shader == nil {
		return fmt.Errorf("ebitenhost: run %s: %w", p.name, ErrDisposed)
	}
	target, ok := dst.(*Framebuffer)
	if !ok {
		return fmt.Errorf("ebitenhost: run %s: target: %w", p.name, ErrForeignTexture)
	}
	if target == nil || target.img == nil {
		return fmt.Errorf("ebitenhost: run %s: target: %w", p.name, ErrDisposed)
	}
	b := target.img.Bounds()
	w, h := b.Dx(), b.Dy()

	defer p.releaseScratch()
	for i := 0; i < MaxTextures; i++ {
		p.shaderOp.Images[i] = nil
		t := p.textures[i]
		if t == nil {
			continue
		}
		src, ok := t.(imageSource)
		if !ok {
			return fmt.Errorf("ebitenhost: run %s: slot %d: %w", p.name, i, ErrForeignTexture)
		}
		img := src.ebitenImage()
		if img == nil {
			return fmt.Errorf("ebitenhost: run %s: slot %d: %w", p.name, i, ErrDisposed)
		}
		if img.Bounds().Empty() {
			return fmt.Errorf("ebitenhost: run %s: slot %d: empty texture: %w", p.name, i, strata.ErrInvalidSize)
		}
		if sb := img.Bounds(); sb.Dx() != w || sb.Dy() != h {
			pooled, exact := p.host.pool.AcquireExact(w, h)
			stretchInto(exact, img)
			p.scratch[i] = pooled
			img = exact
		}
		p.shaderOp.Images[i] = img
	}

	p.shaderOp.Uniforms = p.uniforms
	p.shaderOp.Blend = ebiten.BlendCopy
	target.img.DrawRectShader(w, h, p.shader, &p.shaderOp)
	return nil
}

func (p *Program) releaseScratch() {
	for i, img := range p.scratch {
		if img != nil {
			p.host.pool.Release(img)
			p.scratch[i] = nil
		}
	}
}

// Dispose deallocates the shader. Safe to call more than once.
func (p *Program) Dispose() {
	if p.shader == nil {
		return
	}
	p.shader.Deallocate()
	p.shader = nil
	clear(p.textures[:])
}
