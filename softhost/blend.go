package softhost

import (
	"errors"
	"image"

	"github.com/phanxgames/strata/blend"
)

// Texture slots of the strata blend program.
const (
	blendSlotLayer      = 0
	blendSlotBackground = 1
	blendSlotMask       = 2
)

var errBlendInputs = errors.New("softhost: blend program needs layer and background textures")

// BlendKernel is the CPU implementation of the strata blend program. It
// mirrors the Kage shader in package strata pixel for pixel.
func BlendKernel(dst *image.NRGBA, src [MaxTextures]*image.NRGBA, u Uniforms) error {
	layer, base, mask := src[blendSlotLayer], src[blendSlotBackground], src[blendSlotMask]
	if layer == nil || base == nil {
		return errBlendInputs
	}
	op := u.Int("Mode")
	opacity := u.Float("Opacity")
	hasMask := u.Float("HasMask") > 0.5 && mask != nil

	db := dst.Bounds()
	dw, dh := db.Dx(), db.Dy()
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			lr, lg, lb, la := sample(layer, x, y, dw, dh)
			br, bg, bb, _ := sample(base, x, y, dw, dh)
			alpha := la * opacity
			if hasMask {
				mr, _, _, _ := sample(mask, x, y, dw, dh)
				alpha *= mr
			}
			out := blend.Composite(op,
				blend.RGB{R: br, G: bg, B: bb},
				blend.RGB{R: lr, G: lg, B: lb},
				alpha)
			i := dst.PixOffset(db.Min.X+x, db.Min.Y+y)
			dst.Pix[i+0] = toByte(out.R)
			dst.Pix[i+1] = toByte(out.G)
			dst.Pix[i+2] = toByte(out.B)
			dst.Pix[i+3] = 255
		}
	}
	return nil
}
