package strata

import (
	"github.com/phanxgames/strata/blend"
	"go.uber.org/zap"
)

// BlendMode selects how a layer is combined with the layers beneath it.
type BlendMode = blend.Mode

const (
	BlendNormal     = blend.Normal
	BlendMultiply   = blend.Multiply
	BlendScreen     = blend.Screen
	BlendAdd        = blend.Add
	BlendSubtract   = blend.Subtract
	BlendOverlay    = blend.Overlay
	BlendSoftLight  = blend.SoftLight
	BlendHardLight  = blend.HardLight
	BlendColorDodge = blend.ColorDodge
	BlendColorBurn  = blend.ColorBurn
	BlendDarken     = blend.Darken
	BlendLighten    = blend.Lighten
	BlendDifference = blend.Difference
	BlendExclusion  = blend.Exclusion
)

// ParseBlendMode resolves a symbolic name such as "multiply" or "SOFT_LIGHT".
// Unknown names log a warning and return BlendNormal.
func ParseBlendMode(name string) BlendMode {
	m, ok := blend.Parse(name)
	if !ok {
		Logger().Warn("unknown blend mode, using NORMAL", zap.String("mode", name))
		return BlendNormal
	}
	return m
}

// GetBlendModeIndex returns the blend program opcode for a symbolic name,
// or 0 for unknown names.
func GetBlendModeIndex(name string) int {
	return blend.Index(name)
}
