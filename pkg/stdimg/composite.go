package stdimg

import (
	"image"
	"math"
)

// Layer mode identifiers understood by LayerMode.
const (
	LayerOverlay     = 23
	LayerLChColor    = 26
	LayerNormal      = 28
	LayerMultiply    = 30
	LayerScreen      = 31
	LayerAddition    = 33
	LayerHSVHue      = 37
	LayerHSLColor    = 39
	LayerBurn        = 43
	LayerHardLight   = 44
	LayerSoftLight   = 45
	LayerGrainMerge  = 47
	LayerLinearLight = 50
	LayerAntiErase   = 63
)

// Blend spaces.
const (
	BlendSpaceAuto       = 0
	BlendSpaceLinear     = 1
	BlendSpacePerceptual = 2
	BlendSpaceLab        = 3
)

func blendMultiply(b, l float64) float64 { return b * l }
func blendScreen(b, l float64) float64   { return 1 - (1-b)*(1-l) }
func blendOverlay(b, l float64) float64 {
	if b < 0.5 {
		return 2 * b * l
	}
	return 1 - 2*(1-b)*(1-l)
}
func blendHardLight(b, l float64) float64  { return blendOverlay(l, b) }
func blendSoftLight(b, l float64) float64  { return (1-2*l)*b*b + 2*l*b }
func blendAddition(b, l float64) float64   { return clamp01(b + l) }
func blendGrainMerge(b, l float64) float64 { return clamp01(b + l - 0.5) }
func blendLinearLight(b, l float64) float64 {
	return clamp01(b + 2*l - 1)
}
func blendBurn(b, l float64) float64 {
	if l <= 0 {
		return 0
	}
	return clamp01(1 - (1-b)/l)
}

// rgbBlend blends whole pixels; base and layer are 0..1 RGB triples.
type rgbBlend func(br, bg, bb, lr, lg, lb float64) (float64, float64, float64)

func perChannel(f func(b, l float64) float64) rgbBlend {
	return func(br, bg, bb, lr, lg, lb float64) (float64, float64, float64) {
		return f(br, lr), f(bg, lg), f(bb, lb)
	}
}

func blendHSVHue(br, bg, bb, lr, lg, lb float64) (float64, float64, float64) {
	lh, ls, _ := rgbToHsv(lr, lg, lb)
	if ls == 0 {
		return br, bg, bb
	}
	_, s, v := rgbToHsv(br, bg, bb)
	return hsvToRgb(lh, s, v)
}

func blendHSLColor(br, bg, bb, lr, lg, lb float64) (float64, float64, float64) {
	h, s, _ := rgbToHsl(lr, lg, lb)
	_, _, l := rgbToHsl(br, bg, bb)
	return hslToRgb(h, s, l)
}

// blendLChColor takes hue and chroma from the layer and keeps the base luma.
func blendLChColor(br, bg, bb, lr, lg, lb float64) (float64, float64, float64) {
	r, g, b := blendHSLColor(br, bg, bb, lr, lg, lb)
	d := luma(br, bg, bb) - luma(r, g, b)
	return clamp01(r + d), clamp01(g + d), clamp01(b + d)
}

var layerBlends = map[int]rgbBlend{
	LayerOverlay:     perChannel(blendOverlay),
	LayerLChColor:    blendLChColor,
	LayerMultiply:    perChannel(blendMultiply),
	LayerScreen:      perChannel(blendScreen),
	LayerAddition:    perChannel(blendAddition),
	LayerHSVHue:      blendHSVHue,
	LayerHSLColor:    blendHSLColor,
	LayerBurn:        perChannel(blendBurn),
	LayerHardLight:   perChannel(blendHardLight),
	LayerSoftLight:   perChannel(blendSoftLight),
	LayerGrainMerge:  perChannel(blendGrainMerge),
	LayerLinearLight: perChannel(blendLinearLight),
}

// KnownLayerMode reports whether mode has a kernel.
func KnownLayerMode(mode int) bool {
	_, ok := layerBlends[mode]
	return ok || mode == LayerNormal || mode == LayerAntiErase
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSrgb(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// LayerMode composites layer onto base with the given layer mode. The
// layer's alpha times opacity controls how much of the blend shows through;
// base alpha is kept except for anti-erase, which only adds alpha. Pixels
// are paired by position relative to each image's origin.
func LayerMode(base, layer *image.NRGBA, mode, blendSpace int, opacity float64) *image.NRGBA {
	if base == nil {
		return nil
	}
	if layer == nil {
		return CloneNRGBA(base)
	}
	blend := layerBlends[mode]
	linear := blendSpace == BlendSpaceLinear
	lb := layer.Bounds()
	out := CloneNRGBA(base)
	bb := base.Bounds()
	for y := bb.Min.Y; y < bb.Max.Y; y++ {
		ly := lb.Min.Y + (y - bb.Min.Y)
		if ly >= lb.Max.Y {
			break
		}
		for x := bb.Min.X; x < bb.Max.X; x++ {
			lx := lb.Min.X + (x - bb.Min.X)
			if lx >= lb.Max.X {
				break
			}
			bi := base.PixOffset(x, y)
			li := layer.PixOffset(lx, ly)
			la := float64(layer.Pix[li+3]) / 255.0 * opacity
			if la <= 0 {
				continue
			}
			if mode == LayerAntiErase {
				ba := float64(base.Pix[bi+3]) / 255.0
				out.Pix[bi+3] = clampFloatToUint8((ba + (1-ba)*la) * 255.0)
				continue
			}
			var bc, lc [3]float64
			for c := 0; c < 3; c++ {
				bc[c] = float64(base.Pix[bi+c]) / 255.0
				lc[c] = float64(layer.Pix[li+c]) / 255.0
				if linear {
					bc[c] = srgbToLinear(bc[c])
					lc[c] = srgbToLinear(lc[c])
				}
			}
			var rc [3]float64
			if blend == nil {
				rc = lc
			} else {
				rc[0], rc[1], rc[2] = blend(bc[0], bc[1], bc[2], lc[0], lc[1], lc[2])
			}
			for c := 0; c < 3; c++ {
				v := bc[c]*(1-la) + rc[c]*la
				if linear {
					v = linearToSrgb(clamp01(v))
				}
				out.Pix[bi+c] = clampFloatToUint8(v * 255.0)
			}
		}
	}
	return out
}

// SrcAtop draws src over dst, clipped to dst's alpha.
func SrcAtop(dst, src *image.NRGBA) *image.NRGBA {
	if dst == nil {
		return nil
	}
	if src == nil {
		return CloneNRGBA(dst)
	}
	out := CloneNRGBA(dst)
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			di := dst.PixOffset(x, y)
			si := src.PixOffset(x, y)
			sa := float64(src.Pix[si+3]) / 255.0
			for c := 0; c < 3; c++ {
				v := float64(src.Pix[si+c])*sa + float64(dst.Pix[di+c])*(1-sa)
				out.Pix[di+c] = clampFloatToUint8(v)
			}
		}
	}
	return out
}
