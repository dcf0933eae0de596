package stdimg

import (
	"image"
	"math"
	"sync"
)

// maxBlurSigma bounds the kernel size so large radii stay interactive.
const maxBlurSigma = 32.0

// gaussianKernel1D generates a 1D Gaussian kernel with given sigma. Returns kernel and half-width radius.
func gaussianKernel1D(sigma float64) ([]float64, int) {
	if sigma <= 0 {
		return []float64{1.0}, 0
	}
	sigma = math.Min(sigma, maxBlurSigma)
	// choose radius ~ ceil(3*sigma)
	radius := int(math.Ceil(3 * sigma))
	kern := make([]float64, radius*2+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-0.5 * (float64(i) * float64(i)) / (sigma * sigma))
		kern[i+radius] = v
		sum += v
	}
	for i := range kern {
		kern[i] /= sum
	}
	return kern, radius
}

// SeparableGaussianBlur applies a separable gaussian blur to src and returns
// a new *image.NRGBA with the same bounds.
func SeparableGaussianBlur(src *image.NRGBA, sigma float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	kern, radius := gaussianKernel1D(sigma)
	if radius == 0 {
		return CloneNRGBA(src)
	}
	tmp := image.NewNRGBA(src.Rect)
	dst := image.NewNRGBA(src.Rect)
	blurPass(src, tmp, kern, radius, true)
	blurPass(tmp, dst, kern, radius, false)
	return dst
}

// blurPass convolves every row (horizontal) or column of src into dst, one
// goroutine per line.
func blurPass(src, dst *image.NRGBA, kern []float64, radius int, horizontal bool) {
	b := src.Bounds()
	lines, length := b.Dy(), b.Dx()
	if !horizontal {
		lines, length = b.Dx(), b.Dy()
	}
	var wg sync.WaitGroup
	for l := 0; l < lines; l++ {
		wg.Add(1)
		go func(l int) {
			defer wg.Done()
			for p := 0; p < length; p++ {
				var sr, sg, sb, sa float64
				for k := -radius; k <= radius; k++ {
					x, y := b.Min.X+p+k, b.Min.Y+l
					if !horizontal {
						x, y = b.Min.X+l, b.Min.Y+p+k
					}
					c := samplePixelClamped(src, x, y)
					w := kern[k+radius]
					sr += float64(c.R) * w
					sg += float64(c.G) * w
					sb += float64(c.B) * w
					sa += float64(c.A) * w
				}
				x, y := b.Min.X+p, b.Min.Y+l
				if !horizontal {
					x, y = b.Min.X+l, b.Min.Y+p
				}
				i := dst.PixOffset(x, y)
				dst.Pix[i+0] = clampFloatToUint8(sr)
				dst.Pix[i+1] = clampFloatToUint8(sg)
				dst.Pix[i+2] = clampFloatToUint8(sb)
				dst.Pix[i+3] = clampFloatToUint8(sa)
			}
		}(l)
	}
	wg.Wait()
}
