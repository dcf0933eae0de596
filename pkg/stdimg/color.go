package stdimg

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB<->HSL conversions operate on 0..1 floats.

func rgbToHsl(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		// achromatic
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2.0 - max - min)
	} else {
		s = d / (max + min)
	}
	h = hueOf(r, g, b, max, d)
	return
}

func hueToRgb(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

func hslToRgb(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRgb(p, q, h+1.0/3.0)
	g = hueToRgb(p, q, h)
	b = hueToRgb(p, q, h-1.0/3.0)
	return
}

// hueOf returns the hue in 0..1 given the channel max and chroma d > 0.
func hueOf(r, g, b, max, d float64) float64 {
	var h float64
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6
}

func rgbToHsv(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	d := max - min
	if max == 0 || d == 0 {
		return 0, 0, v
	}
	return hueOf(r, g, b, max, d), d / max, v
}

func hsvToRgb(h, s, v float64) (r, g, b float64) {
	h = math.Mod(h, 1.0) * 6
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// Saturation scales each pixel's distance from its luminance by scale.
// 1 leaves the image unchanged and 0 produces grayscale.
func Saturation(src *image.NRGBA, scale float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	return mapPixels(src, func(r, g, b, a float64) (float64, float64, float64, float64) {
		y := luma(r, g, b)
		return y + (r-y)*scale, y + (g-y)*scale, y + (b-y)*scale, a
	})
}

// HueChroma rotates hue by hue degrees and shifts chroma and lightness by
// the given amounts (both on a -100..100 scale) in HSL space.
func HueChroma(src *image.NRGBA, hue, chroma, lightness float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	if hue == 0 && chroma == 0 && lightness == 0 {
		return CloneNRGBA(src)
	}
	shift := hue / 360.0
	return mapPixels(src, func(r, g, b, a float64) (float64, float64, float64, float64) {
		h, s, l := rgbToHsl(r, g, b)
		h = math.Mod(h+shift+1.0, 1.0)
		s = clamp01(s + chroma/100.0)
		l = clamp01(l + lightness/100.0)
		r, g, b = hslToRgb(h, s, l)
		return r, g, b, a
	})
}

// ParseColor accepts CSS colour names, #rgb, #rgba, #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		var sb strings.Builder
		for _, r := range hex {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		hex = sb.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor renders c as #rrggbbaa.
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
