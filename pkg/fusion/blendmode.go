package fusion

import (
	"strconv"
	"strings"
)

// BlendMode selects the palette node occupying the variable slot.
type BlendMode int

const (
	GrainMerge BlendMode = iota
	HSLColor
	SoftLight
	Overlay
	Burn
	LChColor
	Multiply
	LinearLight
	HardLight
	Addition
	Screen
	HSVHue
	AntiErase // no colour or blend

	numBlendModes
)

var blendModeNames = [numBlendModes]string{
	GrainMerge:  "grainmerge",
	HSLColor:    "hslcolor",
	SoftLight:   "softlight",
	Overlay:     "overlay",
	Burn:        "burn",
	LChColor:    "lchcolor",
	Multiply:    "multiply",
	LinearLight: "linearlight",
	HardLight:   "hardlight",
	Addition:    "addition",
	Screen:      "screen",
	HSVHue:      "hsvhue",
	AntiErase:   "antierase",
}

var blendModeLabels = [numBlendModes]string{
	GrainMerge:  "Grain Merge",
	HSLColor:    "HSL Color",
	SoftLight:   "Soft Light",
	Overlay:     "Overlay",
	Burn:        "Burn",
	LChColor:    "LCh Color",
	Multiply:    "Multiply",
	LinearLight: "Linear Light",
	HardLight:   "Hard Light",
	Addition:    "Addition",
	Screen:      "Screen",
	HSVHue:      "HSV Hue",
	AntiErase:   "No Color or Blend Mode",
}

// Valid reports whether m is one of the enumerated modes.
func (m BlendMode) Valid() bool { return m >= 0 && m < numBlendModes }

// String returns the machine name, e.g. "softlight".
func (m BlendMode) String() string {
	if !m.Valid() {
		return "BlendMode(" + strconv.Itoa(int(m)) + ")"
	}
	return blendModeNames[m]
}

// Label returns the human-readable name.
func (m BlendMode) Label() string {
	if !m.Valid() {
		return m.String()
	}
	return blendModeLabels[m]
}

// BlendModes returns every mode in declaration order.
func BlendModes() []BlendMode {
	out := make([]BlendMode, numBlendModes)
	for i := range out {
		out[i] = BlendMode(i)
	}
	return out
}

// ParseBlendMode accepts a machine name, a label (case-insensitive, spaces
// and dashes ignored) or a numeric value. Numbers are parsed before any
// separator is stripped, so "-1" stays out of range.
func ParseBlendMode(s string) (BlendMode, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		m := BlendMode(n)
		return m, m.Valid()
	}
	key := normalizeModeName(s)
	if key == "" {
		return -1, false
	}
	for i := BlendMode(0); i < numBlendModes; i++ {
		if key == blendModeNames[i] || key == normalizeModeName(blendModeLabels[i]) {
			return i, true
		}
	}
	return -1, false
}

func normalizeModeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// blendModeOf converts a parameter value into a mode. Unrecognised values
// come back invalid and are clamped by the router.
func blendModeOf(v any) BlendMode {
	switch t := v.(type) {
	case BlendMode:
		return t
	case int:
		return BlendMode(t)
	case float64:
		if t != float64(int(t)) {
			return -1
		}
		return BlendMode(int(t))
	case string:
		m, _ := ParseBlendMode(t)
		return m
	default:
		return -1
	}
}
