// Package stdimg: authoritative registry of the pure-Go operator kernels.
//
// Operators mirrors the kernels wired in engine.go. Keep the declared
// parameters here in sync with what the kernels read so graph.SetParam can
// reject unknown names at construction time.

package stdimg

import (
	"image/color"

	"github.com/Fepozopo/fusion/pkg/graph"
)

// Operator kinds provided by this package.
const (
	KindNop                = "gegl:nop"
	KindColor              = "gegl:color"
	KindBrightnessContrast = "gegl:brightness-contrast"
	KindUnsharpMask        = "gegl:unsharp-mask"
	KindHueChroma          = "gegl:hue-chroma"
	KindSaturation         = "gegl:saturation"
	KindShadowsHighlights  = "gegl:shadows-highlights"
	KindChannelMixer       = "gegl:channel-mixer"
	KindSrcAtop            = "gegl:src-atop"
	KindCrop               = "gegl:crop"
	KindLayerMode          = "gimp:layer-mode"
)

type declaration struct {
	kind        string
	description string
	params      []graph.ParamSpec
	source      bool
	aux         bool
}

var declarations = []declaration{
	{
		kind:        KindNop,
		description: "Pass the input through unchanged.",
	},
	{
		kind:        KindColor,
		description: "Fill the requested region with a constant colour.",
		params:      []graph.ParamSpec{{Name: "value", Default: color.NRGBA{A: 255}}},
		source:      true,
	},
	{
		kind:        KindBrightnessContrast,
		description: "Scale around mid-gray by contrast, then add brightness.",
		params: []graph.ParamSpec{
			{Name: "contrast", Default: 1.0},
			{Name: "brightness", Default: 0.0},
		},
	},
	{
		kind:        KindUnsharpMask,
		description: "Sharpen by adding back the difference to a gaussian blur.",
		params: []graph.ParamSpec{
			{Name: "std-dev", Default: 3.0},
			{Name: "scale", Default: 0.5},
			{Name: "threshold", Default: 0.0},
		},
	},
	{
		kind:        KindHueChroma,
		description: "Rotate hue and shift chroma and lightness.",
		params: []graph.ParamSpec{
			{Name: "hue", Default: 0.0},
			{Name: "chroma", Default: 0.0},
			{Name: "lightness", Default: 0.0},
		},
	},
	{
		kind:        KindSaturation,
		description: "Scale colourfulness around luminance.",
		params:      []graph.ParamSpec{{Name: "scale", Default: 1.0}},
	},
	{
		kind:        KindShadowsHighlights,
		description: "Adjust exposure of shadows and highlights through a blurred tone mask.",
		params: []graph.ParamSpec{
			{Name: "shadows", Default: 0.0},
			{Name: "highlights", Default: 0.0},
			{Name: "whitepoint", Default: 0.0},
			{Name: "radius", Default: 100.0},
			{Name: "compress", Default: 50.0},
			{Name: "shadows-ccorrect", Default: 100.0},
			{Name: "highlights-ccorrect", Default: 50.0},
		},
	},
	{
		kind:        KindChannelMixer,
		description: "Recombine the colour channels through a 3x3 gain matrix.",
		params: []graph.ParamSpec{
			{Name: "preserve-luminosity", Default: false},
			{Name: "rr-gain", Default: 1.0}, {Name: "rg-gain", Default: 0.0}, {Name: "rb-gain", Default: 0.0},
			{Name: "gr-gain", Default: 0.0}, {Name: "gg-gain", Default: 1.0}, {Name: "gb-gain", Default: 0.0},
			{Name: "br-gain", Default: 0.0}, {Name: "bg-gain", Default: 0.0}, {Name: "bb-gain", Default: 1.0},
		},
	},
	{
		kind:        KindSrcAtop,
		description: "Draw aux over the input, clipped to the input's alpha.",
		aux:         true,
	},
	{
		kind:        KindCrop,
		description: "Crop to a rectangle; a zero size crops to the render request.",
		params: []graph.ParamSpec{
			{Name: "x", Default: 0.0},
			{Name: "y", Default: 0.0},
			{Name: "width", Default: 0.0},
			{Name: "height", Default: 0.0},
		},
	},
	{
		kind:        KindLayerMode,
		description: "Blend aux onto the input with a layer mode.",
		params: []graph.ParamSpec{
			{Name: "layer-mode", Default: LayerNormal},
			{Name: "blend-space", Default: BlendSpaceAuto},
			{Name: "opacity", Default: 1.0},
		},
		aux: true,
	},
}
