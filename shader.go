package strata

import "github.com/phanxgames/strata/blend"

// Uniform and texture slot names of the blend program.
const (
	uniformMode    = "Mode"
	uniformOpacity = "Opacity"
	uniformHasMask = "HasMask"

	slotLayer      = 0
	slotBackground = 1
	slotMask       = 2
)

// blendShaderSrc is the blend program in Kage. Image 0 is the layer, image 1
// the accumulator, image 2 the mask (or the layer again when HasMask is 0).
// Ebitengine hands the shader premultiplied colors; blending works on
// straight colors and the accumulator leaves fully opaque.
const blendShaderSrc = `//kage:unit pixels
package main

var Mode int
var Opacity float
var HasMask float

func overlay(b, l float) float {
	if b < 0.5 {
		return 2 * b * l
	}
	return 1 - 2*(1-b)*(1-l)
}

func softLight(b, l float) float {
	if l < 0.5 {
		return 2*b*l + b*b*(1-2*l)
	}
	return sqrt(b)*(2*l-1) + 2*b*(1-l)
}

func colorDodge(b, l float) float {
	if l == 1 {
		return l
	}
	return min(b/(1-l), 1)
}

func colorBurn(b, l float) float {
	if l == 0 {
		return l
	}
	return max(1-(1-b)/l, 0)
}

func blendColor(b, l vec3) vec3 {
	if Mode == 1 {
		return b * l
	}
	if Mode == 2 {
		return 1 - (1-b)*(1-l)
	}
	if Mode == 3 {
		return min(b+l, vec3(1))
	}
	if Mode == 4 {
		return max(b+l-1, vec3(0))
	}
	if Mode == 5 {
		return vec3(overlay(b.r, l.r), overlay(b.g, l.g), overlay(b.b, l.b))
	}
	if Mode == 6 {
		return vec3(softLight(b.r, l.r), softLight(b.g, l.g), softLight(b.b, l.b))
	}
	if Mode == 7 {
		return vec3(overlay(l.r, b.r), overlay(l.g, b.g), overlay(l.b, b.b))
	}
	if Mode == 8 {
		return vec3(colorDodge(b.r, l.r), colorDodge(b.g, l.g), colorDodge(b.b, l.b))
	}
	if Mode == 9 {
		return vec3(colorBurn(b.r, l.r), colorBurn(b.g, l.g), colorBurn(b.b, l.b))
	}
	if Mode == 10 {
		return min(b, l)
	}
	if Mode == 11 {
		return max(b, l)
	}
	if Mode == 12 {
		return abs(b - l)
	}
	if Mode == 13 {
		return b + l - 2*b*l
	}
	return l
}

func straight(c vec4) vec4 {
	if c.a > 0 {
		return vec4(c.rgb/c.a, c.a)
	}
	return c
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	pos := src - imageSrc0Origin()
	layer := straight(imageSrc0At(src))
	base := straight(imageSrc1At(pos + imageSrc1Origin()))
	alpha := layer.a * Opacity
	if HasMask > 0.5 {
		alpha *= straight(imageSrc2At(pos + imageSrc2Origin())).r
	}
	if alpha <= 0 {
		return vec4(base.rgb, 1)
	}
	return vec4(mix(blendColor(base.rgb, layer.rgb), base.rgb, vec3(1-min(alpha, 1))), 1)
}
`

// BlendProgramSource returns the source the Compositor compiles.
func BlendProgramSource() ProgramSource {
	return ProgramSource{
		Name:     blend.ProgramName,
		Fragment: []byte(blendShaderSrc),
	}
}
