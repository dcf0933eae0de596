package stdimg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Fepozopo/fusion/pkg/graph"
)

// Operators returns a catalog with every kernel of this package.
func Operators() graph.Catalog {
	specs := make([]graph.OperatorSpec, 0, len(declarations))
	for _, d := range declarations {
		op, ok := kernels[d.kind]
		if !ok {
			panic(fmt.Sprintf("stdimg: no kernel for %s", d.kind))
		}
		specs = append(specs, graph.OperatorSpec{
			Kind:        d.kind,
			Description: d.description,
			Params:      d.params,
			Source:      d.source,
			Aux:         d.aux,
			Op:          op,
		})
	}
	return graph.NewCatalog(specs...)
}

// unary wraps a kernel that only reads the main input. A missing input
// yields no image.
func unary(fn func(src *image.NRGBA, p graph.Params) *image.NRGBA) graph.Operator {
	return graph.OperatorFunc(func(_ graph.Request, in, _ image.Image, p graph.Params) (image.Image, error) {
		if in == nil {
			return nil, nil
		}
		return fn(ToNRGBA(in), p), nil
	})
}

// binary wraps a kernel reading both pads. A missing aux passes the input.
func binary(fn func(base, layer *image.NRGBA, p graph.Params) (*image.NRGBA, error)) graph.Operator {
	return graph.OperatorFunc(func(_ graph.Request, in, aux image.Image, p graph.Params) (image.Image, error) {
		if in == nil {
			return nil, nil
		}
		if aux == nil {
			return in, nil
		}
		return fn(ToNRGBA(in), ToNRGBA(aux), p)
	})
}

var kernels = map[string]graph.Operator{
	KindNop: graph.OperatorFunc(func(_ graph.Request, in, _ image.Image, _ graph.Params) (image.Image, error) {
		return in, nil
	}),

	KindColor: graph.OperatorFunc(func(req graph.Request, _, _ image.Image, p graph.Params) (image.Image, error) {
		return SolidNRGBA(req.Bounds, p.Color("value", color.NRGBA{A: 255})), nil
	}),

	KindBrightnessContrast: unary(func(src *image.NRGBA, p graph.Params) *image.NRGBA {
		return BrightnessContrast(src, p.Float("brightness", 0), p.Float("contrast", 1))
	}),

	KindUnsharpMask: unary(func(src *image.NRGBA, p graph.Params) *image.NRGBA {
		return UnsharpMask(src, p.Float("std-dev", 3), p.Float("scale", 0.5), p.Float("threshold", 0))
	}),

	KindHueChroma: unary(func(src *image.NRGBA, p graph.Params) *image.NRGBA {
		return HueChroma(src, p.Float("hue", 0), p.Float("chroma", 0), p.Float("lightness", 0))
	}),

	KindSaturation: unary(func(src *image.NRGBA, p graph.Params) *image.NRGBA {
		return Saturation(src, p.Float("scale", 1))
	}),

	KindShadowsHighlights: unary(func(src *image.NRGBA, p graph.Params) *image.NRGBA {
		return ShadowsHighlights(src, ShadowHighlightOptions{
			Shadows:            p.Float("shadows", 0),
			Highlights:         p.Float("highlights", 0),
			WhitePoint:         p.Float("whitepoint", 0),
			Radius:             p.Float("radius", 100),
			Compress:           p.Float("compress", 50),
			ShadowsCCorrect:    p.Float("shadows-ccorrect", 100),
			HighlightsCCorrect: p.Float("highlights-ccorrect", 50),
		})
	}),

	KindChannelMixer: unary(func(src *image.NRGBA, p graph.Params) *image.NRGBA {
		m := MixMatrix{
			{p.Float("rr-gain", 1), p.Float("rg-gain", 0), p.Float("rb-gain", 0)},
			{p.Float("gr-gain", 0), p.Float("gg-gain", 1), p.Float("gb-gain", 0)},
			{p.Float("br-gain", 0), p.Float("bg-gain", 0), p.Float("bb-gain", 1)},
		}
		preserve, _ := p["preserve-luminosity"].(bool)
		return ChannelMixer(src, m, preserve)
	}),

	KindSrcAtop: binary(func(base, layer *image.NRGBA, _ graph.Params) (*image.NRGBA, error) {
		return SrcAtop(base, layer), nil
	}),

	KindCrop: graph.OperatorFunc(func(req graph.Request, in, _ image.Image, p graph.Params) (image.Image, error) {
		if in == nil {
			return nil, nil
		}
		r := req.Bounds
		if w, h := p.Float("width", 0), p.Float("height", 0); w > 0 && h > 0 {
			x, y := int(p.Float("x", 0)), int(p.Float("y", 0))
			r = image.Rect(x, y, x+int(w), y+int(h))
		}
		return Crop(ToNRGBA(in), r), nil
	}),

	KindLayerMode: binary(func(base, layer *image.NRGBA, p graph.Params) (*image.NRGBA, error) {
		mode := p.Int("layer-mode", LayerNormal)
		if !KnownLayerMode(mode) {
			return nil, fmt.Errorf("unsupported layer mode %d", mode)
		}
		return LayerMode(base, layer, mode, p.Int("blend-space", BlendSpaceAuto), p.Float("opacity", 1)), nil
	}),
}
