package fusion

import (
	"image/color"
	"sort"

	"github.com/Fepozopo/fusion/pkg/graph"
)

// ParamID is the typed key of an external parameter.
type ParamID int

const (
	ParamBlendMode ParamID = iota
	ParamColorValue
	ParamSharpen
	ParamSaturation
	ParamContrast
	ParamBrightness
	ParamLightness
	ParamShadows
	ParamHighlights
	ParamWhitePoint
	ParamRadius
	ParamCompress
	ParamShadowsCCorrect
	ParamHighlightsCCorrect
	ParamRed
	ParamGreen
	ParamBlue
)

const (
	roleNop          Role = "nop"
	roleUnsharpMask  Role = "unsharpmask"
	roleBC           Role = "bc"
	roleLightChroma  Role = "lightchroma"
	roleSaturation   Role = "saturation"
	roleShadowsHigh  Role = "shadowhighlights"
	roleChannelMixer Role = "channelmixer"
	roleColor        Role = "color"
	roleSrcAtop      Role = "sa"
	roleCrop         Role = "crop"
)

// layer-mode ids and blend spaces of the palette nodes.
var layerModes = map[BlendMode]struct{ mode, space int }{
	GrainMerge:  {47, 0},
	HSLColor:    {39, 0},
	SoftLight:   {45, 0},
	Overlay:     {23, 0},
	Burn:        {43, 1},
	LChColor:    {26, 3},
	Multiply:    {30, 2},
	LinearLight: {50, 2},
	HardLight:   {44, 0},
	Addition:    {33, 0},
	Screen:      {31, 2},
	HSVHue:      {37, 0},
	AntiErase:   {63, 2},
}

// layerPalette builds the palette for modes, one layer-mode node each.
func layerPalette(modes ...BlendMode) []PaletteEntry {
	out := make([]PaletteEntry, 0, len(modes))
	for _, m := range modes {
		lm := layerModes[m]
		fixed := graph.Params{"layer-mode": lm.mode}
		if lm.space != 0 {
			fixed["blend-space"] = lm.space
		}
		out = append(out, PaletteEntry{Mode: m, Kind: "gimp:layer-mode", Fixed: fixed})
	}
	return out
}

// sharedParams are declared identically by every variant.
func sharedParams() []ParamSpec {
	return []ParamSpec{
		{ID: ParamBlendMode, Name: "blendmode", Label: "Color Blend Mode", Kind: ParamEnum,
			Description: "Blend mode used to apply the colour"},
		{ID: ParamColorValue, Name: "color", Label: "Color to blend", Kind: ParamColor,
			Default: color.NRGBA{}, Target: roleColor, Key: "value"},
		{ID: ParamSharpen, Name: "scale", Label: "Sharpen", Min: 0, Max: 3, Default: 0.0,
			Description: "Scaling factor for unsharp-mask, the strength of effect",
			Target:      roleUnsharpMask, Key: "scale"},
		{ID: ParamContrast, Name: "contrast", Label: "Contrast", Min: -5, Max: 5, Default: 1.0,
			Description: "Magnitude of contrast scaling >1.0 brighten < 1.0 darken",
			Target:      roleBC, Key: "contrast"},
		{ID: ParamBrightness, Name: "brightness", Label: "Brightness", Min: -3, Max: 3, Default: 0.0,
			Description: "Amount to increase brightness", Target: roleBC, Key: "brightness"},
		{ID: ParamLightness, Name: "lightness", Label: "Lightness", Min: -70, Max: 70, Default: 0.0,
			Description: "Lightness adjustment", Target: roleLightChroma, Key: "lightness"},
		{ID: ParamShadows, Name: "shadows", Label: "Shadows", Min: -100, Max: 100, Default: 0.0,
			Description: "Adjust exposure of shadows", Target: roleShadowsHigh, Key: "shadows"},
		{ID: ParamHighlights, Name: "highlights", Label: "Highlights", Min: -100, Max: 100, Default: 0.0,
			Description: "Adjust exposure of highlights", Target: roleShadowsHigh, Key: "highlights"},
		{ID: ParamWhitePoint, Name: "whitepoint", Label: "Shadow Highlight White point adjustment", Min: -10, Max: 10, Default: 0.0,
			Description: "Shift white point", Target: roleShadowsHigh, Key: "whitepoint"},
		{ID: ParamRadius, Name: "radius", Label: "Shadow Highlight Radius", Min: 0.1, Max: 1500, Default: 100.0,
			Description: "Spatial extent", Target: roleShadowsHigh, Key: "radius"},
		{ID: ParamCompress, Name: "compress", Label: "Shadow Highlight Compress", Min: 0, Max: 100, Default: 50.0,
			Description: "Compress the effect on shadows/highlights and preserve midtones",
			Target:      roleShadowsHigh, Key: "compress"},
		{ID: ParamShadowsCCorrect, Name: "shadows-ccorrect", Label: "Shadows color adjustment", Min: 0, Max: 100, Default: 100.0,
			Description: "Adjust saturation of shadows", Target: roleShadowsHigh, Key: "shadows-ccorrect"},
		{ID: ParamHighlightsCCorrect, Name: "highlights-ccorrect", Label: "Highlights color adjustment", Min: 0, Max: 100, Default: 50.0,
			Description: "Adjust saturation of highlights", Target: roleShadowsHigh, Key: "highlights-ccorrect"},
		{ID: ParamRed, Name: "red", Label: "Red Channel", Min: -2, Max: 2, Default: 1.0,
			Description: "Set the red amount for the red channel", Target: roleChannelMixer, Key: "rr-gain"},
		{ID: ParamGreen, Name: "green", Label: "Green Channel", Min: -2, Max: 2, Default: 1.0,
			Description: "Set the green amount for the green channel", Target: roleChannelMixer, Key: "gg-gain"},
		{ID: ParamBlue, Name: "blue", Label: "Blue Channel", Min: -2, Max: 2, Default: 1.0,
			Description: "Set the blue amount for the blue channel", Target: roleChannelMixer, Key: "bb-gain"},
	}
}

// ColorLightingFusion runs the adjustment chain, blends the colour through
// the active palette node and draws the result atop the untouched input.
// The crop node is instantiated but never placed on the chain.
var ColorLightingFusion = &Variant{
	Name:  "colorlightingfusion",
	Title: "Color Lighting Fusion",
	Description: "All common color and lighting adjustments in one place. " +
		"Lower the colour's alpha to weaken the blend.",
	Nodes: []NodeSpec{
		{Role: roleColor, Kind: "gegl:color"},
		{Role: roleBC, Kind: "gegl:brightness-contrast"},
		{Role: roleSrcAtop, Kind: "gegl:src-atop"},
		{Role: roleCrop, Kind: "gegl:crop"},
		{Role: roleNop, Kind: "gegl:nop"},
		{Role: roleLightChroma, Kind: "gegl:hue-chroma"},
		{Role: roleSaturation, Kind: "gegl:saturation"},
		{Role: roleUnsharpMask, Kind: "gegl:unsharp-mask"},
		{Role: roleShadowsHigh, Kind: "gegl:shadows-highlights"},
		{Role: roleChannelMixer, Kind: "gegl:channel-mixer"},
	},
	Edges: []EdgeSpec{
		{From: RoleInput, To: roleSrcAtop, Port: graph.PortInput},
		{From: roleSrcAtop, To: RoleOutput, Port: graph.PortInput},
		{From: RoleInput, To: roleNop, Port: graph.PortInput},
		{From: roleNop, To: roleUnsharpMask, Port: graph.PortInput},
		{From: roleUnsharpMask, To: roleBC, Port: graph.PortInput},
		{From: roleBC, To: roleLightChroma, Port: graph.PortInput},
		{From: roleLightChroma, To: roleSaturation, Port: graph.PortInput},
		{From: roleSaturation, To: roleShadowsHigh, Port: graph.PortInput},
		{From: roleChannelMixer, To: roleSrcAtop, Port: graph.PortAux},
	},
	Slot:        SlotSpec{Upstream: roleShadowsHigh, Downstream: roleChannelMixer, Port: graph.PortInput},
	ColorSource: roleColor,
	Palette: layerPalette(GrainMerge, HSLColor, SoftLight, Overlay, Burn, LChColor,
		Multiply, LinearLight, HardLight, Addition, Screen, HSVHue, AntiErase),
	DefaultMode: AntiErase,
	Params: append(sharedParams(),
		ParamSpec{ID: ParamSaturation, Name: "sat", Label: "Saturation", Min: 0, Max: 10, Default: 1.0,
			Description: "Scale, strength of effect", Target: roleSaturation, Key: "scale"},
	),
}

// CommonAdjustments is the leaner variant: saturation comes from the
// hue-chroma node's chroma offset and there is no compositing stage, so the
// channel mixer feeds the output directly.
var CommonAdjustments = &Variant{
	Name:        "commonadjustments",
	Title:       "Common Adjustments",
	Description: "Common color and lighting adjustments with a color blend.",
	Nodes: []NodeSpec{
		{Role: roleColor, Kind: "gegl:color"},
		{Role: roleNop, Kind: "gegl:nop"},
		{Role: roleUnsharpMask, Kind: "gegl:unsharp-mask"},
		{Role: roleBC, Kind: "gegl:brightness-contrast"},
		{Role: roleLightChroma, Kind: "gegl:hue-chroma"},
		{Role: roleShadowsHigh, Kind: "gegl:shadows-highlights"},
		{Role: roleChannelMixer, Kind: "gegl:channel-mixer"},
	},
	Edges: []EdgeSpec{
		{From: RoleInput, To: roleNop, Port: graph.PortInput},
		{From: roleNop, To: roleUnsharpMask, Port: graph.PortInput},
		{From: roleUnsharpMask, To: roleBC, Port: graph.PortInput},
		{From: roleBC, To: roleLightChroma, Port: graph.PortInput},
		{From: roleLightChroma, To: roleShadowsHigh, Port: graph.PortInput},
		{From: roleChannelMixer, To: RoleOutput, Port: graph.PortInput},
	},
	Slot:        SlotSpec{Upstream: roleShadowsHigh, Downstream: roleChannelMixer, Port: graph.PortInput},
	ColorSource: roleColor,
	Palette: layerPalette(Multiply, Screen, Overlay, SoftLight, HardLight, Burn,
		GrainMerge, LinearLight, Addition, HSLColor, HSVHue, AntiErase),
	DefaultMode: Multiply,
	Params: append(sharedParams(),
		ParamSpec{ID: ParamSaturation, Name: "sat", Label: "Saturation", Min: -100, Max: 100, Default: 0.0,
			Description: "Chroma offset, 0 leaves colours unchanged", Target: roleLightChroma, Key: "chroma"},
	),
}

var variants = map[string]*Variant{
	ColorLightingFusion.Name: ColorLightingFusion,
	CommonAdjustments.Name:   CommonAdjustments,
}

// LookupVariant returns the built-in variant with the given name.
func LookupVariant(name string) (*Variant, bool) {
	v, ok := variants[name]
	return v, ok
}

// VariantNames lists the built-in variants.
func VariantNames() []string {
	out := make([]string, 0, len(variants))
	for n := range variants {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
