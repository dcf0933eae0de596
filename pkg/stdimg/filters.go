package stdimg

import (
	"image"
	"math"
)

// UnsharpMask sharpens src by adding scale times the difference between src
// and its gaussian blur. Differences below threshold (0..1) are ignored.
func UnsharpMask(src *image.NRGBA, stdDev, scale, threshold float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	if scale == 0 {
		return CloneNRGBA(src)
	}
	blurred := SeparableGaussianBlur(src, stdDev)
	out := image.NewNRGBA(src.Rect)
	t := threshold * 255.0
	for i := 0; i+3 < len(src.Pix); i += 4 {
		var diff [3]float64
		below := t > 0
		for c := 0; c < 3; c++ {
			diff[c] = float64(src.Pix[i+c]) - float64(blurred.Pix[i+c])
			if math.Abs(diff[c]) >= t {
				below = false
			}
		}
		for c := 0; c < 3; c++ {
			v := float64(src.Pix[i+c])
			if !below {
				v += scale * diff[c]
			}
			out.Pix[i+c] = clampFloatToUint8(v)
		}
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}
