// Package blend holds the blend mode table and the per-pixel math the
// compositor's blend program implements.
//
// Every [Mode] maps to a fixed integer opcode (its declaration order). The
// opcode is what reaches the shading stage; the symbolic name is what users
// and configuration files see.
package blend

import "strings"

// Mode selects how a layer's color is combined with the accumulated image
// beneath it.
type Mode uint8

const (
	Normal     Mode = iota // layer color replaces the base
	Multiply               // base * layer; only darkens
	Screen                 // 1 - (1-base)*(1-layer); only brightens
	Add                    // base + layer, clamped to 1
	Subtract               // base + layer - 1, clamped to 0
	Overlay                // multiply or screen depending on the base
	SoftLight              // gentle overlay
	HardLight              // overlay with base and layer swapped
	ColorDodge             // brightens the base toward the layer
	ColorBurn              // darkens the base toward the layer
	Darken                 // per-channel minimum
	Lighten                // per-channel maximum
	Difference             // |base - layer|
	Exclusion              // base + layer - 2*base*layer

	modeCount
)

// ProgramName identifies the blend program. Hosts without a shader compiler
// bind their built-in implementation to this name.
const ProgramName = "strata.blend"

var modeNames = [modeCount]string{
	Normal:     "NORMAL",
	Multiply:   "MULTIPLY",
	Screen:     "SCREEN",
	Add:        "ADD",
	Subtract:   "SUBTRACT",
	Overlay:    "OVERLAY",
	SoftLight:  "SOFT_LIGHT",
	HardLight:  "HARD_LIGHT",
	ColorDodge: "COLOR_DODGE",
	ColorBurn:  "COLOR_BURN",
	Darken:     "DARKEN",
	Lighten:    "LIGHTEN",
	Difference: "DIFFERENCE",
	Exclusion:  "EXCLUSION",
}

// Modes returns every mode in opcode order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m < modeCount
}

// Index returns the opcode consumed by the blend program. Invalid modes
// resolve to the Normal opcode.
func (m Mode) Index() int {
	if !m.Valid() {
		return int(Normal)
	}
	return int(m)
}

// String returns the symbolic name, e.g. "SOFT_LIGHT".
func (m Mode) String() string {
	if !m.Valid() {
		return "INVALID"
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(modeNames[m.Index()]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names resolve
// to Normal without an error.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		parsed = Normal
	}
	*m = parsed
	return nil
}

// Parse resolves a symbolic name to a Mode. Matching ignores case and
// treats '-', '_' and ' ' as interchangeable, and also accepts the name with
// separators removed ("softlight").
func Parse(name string) (Mode, bool) {
	key := normalize(name)
	if key == "" {
		return Normal, false
	}
	for i, n := range modeNames {
		if key == n || key == strings.ReplaceAll(n, "_", "") {
			return Mode(i), true
		}
	}
	return Normal, false
}

// Index returns the opcode for a symbolic name, or 0 (Normal) when the name
// is not recognized.
func Index(name string) int {
	m, _ := Parse(name)
	return m.Index()
}

func normalize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToUpper(name)
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}
