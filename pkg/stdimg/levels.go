package stdimg

import (
	"image"
	"math"
)

// BrightnessContrast scales each channel around mid-gray by contrast and
// then adds brightness. Both work on the 0..1 channel scale.
func BrightnessContrast(src *image.NRGBA, brightness, contrast float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	if brightness == 0 && contrast == 1 {
		return CloneNRGBA(src)
	}
	adj := func(v float64) float64 { return (v-0.5)*contrast + brightness + 0.5 }
	return mapPixels(src, func(r, g, b, a float64) (float64, float64, float64, float64) {
		return adj(r), adj(g), adj(b), a
	})
}

// MixMatrix holds channel mixer gains; row i produces output channel i from
// the red, green and blue inputs.
type MixMatrix [3][3]float64

// IdentityMix leaves every channel unchanged.
var IdentityMix = MixMatrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// ChannelMixer recombines the colour channels through m. When
// preserveLuminosity is set each output row is normalised to sum to one.
func ChannelMixer(src *image.NRGBA, m MixMatrix, preserveLuminosity bool) *image.NRGBA {
	if src == nil {
		return nil
	}
	if m == IdentityMix {
		return CloneNRGBA(src)
	}
	if preserveLuminosity {
		for i := range m {
			sum := m[i][0] + m[i][1] + m[i][2]
			if sum != 0 {
				for j := range m[i] {
					m[i][j] /= sum
				}
			}
		}
	}
	return mapPixels(src, func(r, g, b, a float64) (float64, float64, float64, float64) {
		return m[0][0]*r + m[0][1]*g + m[0][2]*b,
			m[1][0]*r + m[1][1]*g + m[1][2]*b,
			m[2][0]*r + m[2][1]*g + m[2][2]*b,
			a
	})
}

// ShadowHighlightOptions mirrors the shadows-highlights operator parameters.
// Shadows and Highlights are -100..100, WhitePoint -10..10, Radius is the
// spatial extent of the tone mask in pixels, Compress 0..100 protects
// midtones and the colour corrections are saturation percentages.
type ShadowHighlightOptions struct {
	Shadows            float64
	Highlights         float64
	WhitePoint         float64
	Radius             float64
	Compress           float64
	ShadowsCCorrect    float64
	HighlightsCCorrect float64
}

// ShadowsHighlights lifts or lowers dark and bright regions selected by a
// blurred luminance mask.
func ShadowsHighlights(src *image.NRGBA, o ShadowHighlightOptions) *image.NRGBA {
	if src == nil {
		return nil
	}
	if o.Shadows == 0 && o.Highlights == 0 && o.WhitePoint == 0 {
		return CloneNRGBA(src)
	}
	mask := SeparableGaussianBlur(src, o.Radius/4)
	c := clamp01(o.Compress/100.0) * 0.5
	white := 1.0 / math.Max(1-o.WhitePoint/100.0, 1e-3)
	out := image.NewNRGBA(src.Rect)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		m := luma(float64(mask.Pix[i+0]), float64(mask.Pix[i+1]), float64(mask.Pix[i+2])) / 255.0
		ws := clamp01((1-m)-c) / (1 - c)
		wh := clamp01(m-c) / (1 - c)
		delta := (o.Shadows*ws + o.Highlights*wh) / 200.0

		r := float64(src.Pix[i+0]) / 255.0
		g := float64(src.Pix[i+1]) / 255.0
		b := float64(src.Pix[i+2]) / 255.0
		r, g, b = (r+delta)*white, (g+delta)*white, (b+delta)*white

		sat := 1 + (o.ShadowsCCorrect/100.0-1)*ws*math.Abs(o.Shadows)/100.0 +
			(o.HighlightsCCorrect/100.0-1)*wh*math.Abs(o.Highlights)/100.0
		y := luma(r, g, b)
		r, g, b = y+(r-y)*sat, y+(g-y)*sat, y+(b-y)*sat

		out.Pix[i+0] = clampFloatToUint8(r * 255.0)
		out.Pix[i+1] = clampFloatToUint8(g * 255.0)
		out.Pix[i+2] = clampFloatToUint8(b * 255.0)
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}
