//go:build imagick

// Package magick replaces selected stdimg kernels with MagickWand
// implementations. It is only compiled with the imagick build tag and
// needs the ImageMagick 7 development libraries.
package magick

import (
	"fmt"
	"image"
	"math"
	"sync"

	"gopkg.in/gographics/imagick.v3/imagick"

	"github.com/Fepozopo/fusion/pkg/graph"
	"github.com/Fepozopo/fusion/pkg/stdimg"
)

var initOnce sync.Once

// Available reports whether the ImageMagick backend is compiled in.
func Available() bool { return true }

// Operators returns the kinds this backend overrides. Parameter
// declarations are taken from stdimg so the two catalogs stay swappable.
func Operators() graph.Catalog {
	initOnce.Do(imagick.Initialize)
	base := stdimg.Operators()
	out := graph.Catalog{}
	for kind, op := range map[string]graph.Operator{
		stdimg.KindUnsharpMask:        unary(unsharpMask),
		stdimg.KindBrightnessContrast: unary(brightnessContrast),
	} {
		spec, err := base.Lookup(kind)
		if err != nil {
			panic(err)
		}
		spec.Op = op
		spec.Description += " (ImageMagick)"
		out[kind] = spec
	}
	return out
}

func unary(fn func(mw *imagick.MagickWand, p graph.Params) error) graph.Operator {
	return graph.OperatorFunc(func(_ graph.Request, in, _ image.Image, p graph.Params) (image.Image, error) {
		if in == nil {
			return nil, nil
		}
		src := stdimg.ToNRGBA(in)
		mw, err := wandFromNRGBA(src)
		if err != nil {
			return nil, err
		}
		defer mw.Destroy()
		if err := fn(mw, p); err != nil {
			return nil, err
		}
		return nrgbaFromWand(mw, src.Rect)
	})
}

func unsharpMask(mw *imagick.MagickWand, p graph.Params) error {
	scale := p.Float("scale", 0.5)
	if scale == 0 {
		return nil
	}
	return mw.UnsharpMaskImage(0, p.Float("std-dev", 3), scale, p.Float("threshold", 0))
}

// brightnessContrast maps the multiplicative contrast onto ImageMagick's
// slope percentage, where slope = tan(pi*(pct/100+1)/4).
func brightnessContrast(mw *imagick.MagickWand, p graph.Params) error {
	b, c := p.Float("brightness", 0), p.Float("contrast", 1)
	if b == 0 && c == 1 {
		return nil
	}
	if c <= 0 {
		return fmt.Errorf("magick: contrast %v is not representable", c)
	}
	pct := (4*math.Atan(c)/math.Pi - 1) * 100
	return mw.BrightnessContrastImage(clamp(b*100, -100, 100), clamp(pct, -100, 100))
}

func wandFromNRGBA(src *image.NRGBA) (*imagick.MagickWand, error) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	pix := make([]byte, 0, w*h*4)
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		i := src.PixOffset(src.Rect.Min.X, y)
		pix = append(pix, src.Pix[i:i+w*4]...)
	}
	mw := imagick.NewMagickWand()
	if err := mw.ConstituteImage(uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR, pix); err != nil {
		mw.Destroy()
		return nil, fmt.Errorf("magick: constitute: %w", err)
	}
	return mw, nil
}

func nrgbaFromWand(mw *imagick.MagickWand, r image.Rectangle) (*image.NRGBA, error) {
	raw, err := mw.ExportImagePixels(0, 0, uint(r.Dx()), uint(r.Dy()), "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("magick: export: %w", err)
	}
	pix, ok := raw.([]byte)
	if !ok || len(pix) != r.Dx()*r.Dy()*4 {
		return nil, fmt.Errorf("magick: unexpected pixel buffer %T", raw)
	}
	out := image.NewNRGBA(r)
	copy(out.Pix, pix)
	return out, nil
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
