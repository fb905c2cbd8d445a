package blend

import "math"

// RGB is a straight (non-premultiplied) color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Channel applies the blend function for opcode op to one channel, with b
// the accumulated base value and l the incoming layer value. Unknown opcodes
// behave like Normal.
func Channel(op int, b, l float64) float64 {
	switch Mode(op) {
	case Multiply:
		return b * l
	case Screen:
		return 1 - (1-b)*(1-l)
	case Add:
		return math.Min(b+l, 1)
	case Subtract:
		return math.Max(b+l-1, 0)
	case Overlay:
		return overlay(b, l)
	case SoftLight:
		if l < 0.5 {
			return 2*b*l + b*b*(1-2*l)
		}
		return math.Sqrt(b)*(2*l-1) + 2*b*(1-l)
	case HardLight:
		return overlay(l, b)
	case ColorDodge:
		if l == 1 {
			return l
		}
		return math.Min(b/(1-l), 1)
	case ColorBurn:
		if l == 0 {
			return l
		}
		return math.Max(1-(1-b)/l, 0)
	case Darken:
		return math.Min(b, l)
	case Lighten:
		return math.Max(b, l)
	case Difference:
		return math.Abs(b - l)
	case Exclusion:
		return b + l - 2*b*l
	default:
		return l
	}
}

func overlay(b, l float64) float64 {
	if b < 0.5 {
		return 2 * b * l
	}
	return 1 - 2*(1-b)*(1-l)
}

// Apply blends every channel of l onto b with opcode op.
func Apply(op int, b, l RGB) RGB {
	return RGB{
		R: Channel(op, b.R, l.R),
		G: Channel(op, b.G, l.G),
		B: Channel(op, b.B, l.B),
	}
}

// Composite is one accumulation step of the compositor for a single pixel.
// alpha is the effective layer alpha (layer alpha * opacity * mask). The
// result is always treated as fully opaque by the caller.
func Composite(op int, base, layer RGB, alpha float64) RGB {
	if alpha <= 0 {
		return base
	}
	if alpha > 1 {
		alpha = 1
	}
	blended := Apply(op, base, layer)
	t := 1 - alpha
	return RGB{
		R: mix(blended.R, base.R, t),
		G: mix(blended.G, base.G, t),
		B: mix(blended.B, base.B, t),
	}
}

// mix matches GLSL/Kage mix(x, y, a).
func mix(x, y, a float64) float64 {
	return x*(1-a) + y*a
}
