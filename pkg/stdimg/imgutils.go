package stdimg

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// ToNRGBA converts any image.Image to a fresh *image.NRGBA (non-premultiplied
// RGBA). The source is never aliased.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok {
		return CloneNRGBA(n)
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)
	return out
}

// CloneNRGBA returns a copy of the provided image.NRGBA
func CloneNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampFloatToUint8 rounds v and clamps it to [0,255].
func clampFloatToUint8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// samplePixelClamped returns the color.NRGBA at integer coords clamped to image.
func samplePixelClamped(img *image.NRGBA, x, y int) color.NRGBA {
	b := img.Bounds()
	x = clampInt(x, b.Min.X, b.Max.X-1)
	y = clampInt(y, b.Min.Y, b.Max.Y-1)
	i := img.PixOffset(x, y)
	return color.NRGBA{img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// SolidNRGBA returns an image covering r filled with c.
func SolidNRGBA(r image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(r)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// pixelFunc transforms one pixel with channels in 0..1.
type pixelFunc func(r, g, b, a float64) (float64, float64, float64, float64)

// mapPixels applies fn to every pixel of src and returns a new image.
func mapPixels(src *image.NRGBA, fn pixelFunc) *image.NRGBA {
	out := image.NewNRGBA(src.Rect)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		r, g, b, a := fn(
			float64(src.Pix[i+0])/255.0,
			float64(src.Pix[i+1])/255.0,
			float64(src.Pix[i+2])/255.0,
			float64(src.Pix[i+3])/255.0,
		)
		out.Pix[i+0] = clampFloatToUint8(r * 255.0)
		out.Pix[i+1] = clampFloatToUint8(g * 255.0)
		out.Pix[i+2] = clampFloatToUint8(b * 255.0)
		out.Pix[i+3] = clampFloatToUint8(a * 255.0)
	}
	return out
}

// luma returns Rec.709 luminance of 0..1 channels.
func luma(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}
