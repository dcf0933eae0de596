package stdimg

import (
	"image"
	"image/color"
	"testing"
)

func TestLayerModePerChannel(t *testing.T) {
	base := makeSolidNRGBA(3, 3, color.NRGBA{R: 255, G: 128, B: 0, A: 255})
	layer := makeSolidNRGBA(3, 3, color.NRGBA{R: 128, G: 255, B: 255, A: 255})

	tests := []struct {
		mode int
		want color.NRGBA
	}{
		{LayerMultiply, color.NRGBA{R: 128, G: 128, B: 0, A: 255}},
		{LayerScreen, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{LayerAddition, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{LayerNormal, color.NRGBA{R: 128, G: 255, B: 255, A: 255}},
	}
	for _, tc := range tests {
		out := LayerMode(base, layer, tc.mode, BlendSpacePerceptual, 1)
		if got := out.NRGBAAt(1, 1); got != tc.want {
			t.Fatalf("mode %d: got %v, want %v", tc.mode, got, tc.want)
		}
	}
}

func TestLayerModeOpacityAndAlpha(t *testing.T) {
	base := makeSolidNRGBA(2, 2, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	clear := makeSolidNRGBA(2, 2, color.NRGBA{R: 0, G: 0, B: 0, A: 0})

	out := LayerMode(base, clear, LayerMultiply, BlendSpaceAuto, 1)
	if got := out.NRGBAAt(0, 0); got != base.NRGBAAt(0, 0) {
		t.Fatalf("transparent layer changed base: %v", got)
	}

	black := makeSolidNRGBA(2, 2, color.NRGBA{A: 255})
	out = LayerMode(base, black, LayerNormal, BlendSpaceAuto, 0.5)
	if got := out.NRGBAAt(0, 0); got.R != 100 || got.A != 255 {
		t.Fatalf("half opacity normal: got %v", got)
	}
}

func TestLayerModeAntiEraseOnlyAddsAlpha(t *testing.T) {
	base := makeSolidNRGBA(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	layer := makeSolidNRGBA(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out := LayerMode(base, layer, LayerAntiErase, BlendSpacePerceptual, 1)
	got := out.NRGBAAt(1, 1)
	if got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("anti-erase: got %v", got)
	}
}

func TestLayerModeLinearSpace(t *testing.T) {
	base := makeSolidNRGBA(1, 1, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	layer := makeSolidNRGBA(1, 1, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	lin := LayerMode(base, layer, LayerMultiply, BlendSpaceLinear, 1).NRGBAAt(0, 0)
	per := LayerMode(base, layer, LayerMultiply, BlendSpacePerceptual, 1).NRGBAAt(0, 0)
	if lin.R == per.R {
		t.Fatalf("linear and perceptual multiply should differ, both %d", lin.R)
	}
	if per.R != 64 {
		t.Fatalf("perceptual multiply of mid-gray: got %d", per.R)
	}
}

func TestLayerModeHueModesKeepGray(t *testing.T) {
	base := makeSolidNRGBA(1, 1, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	gray := makeSolidNRGBA(1, 1, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	for _, m := range []int{LayerHSVHue} {
		if got := LayerMode(base, gray, m, BlendSpaceAuto, 1).NRGBAAt(0, 0); got != base.NRGBAAt(0, 0) {
			t.Fatalf("mode %d with achromatic layer changed base: %v", m, got)
		}
	}
	red := makeSolidNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	got := LayerMode(base, red, LayerHSLColor, BlendSpaceAuto, 1).NRGBAAt(0, 0)
	if got.R <= got.G || got.G != got.B {
		t.Fatalf("hsl colour should tint red: %v", got)
	}
}

func TestSrcAtop(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	dst.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	dst.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 0})
	src := makeSolidNRGBA(2, 1, color.NRGBA{B: 255, A: 255})

	out := SrcAtop(dst, src)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{B: 255, A: 255}) {
		t.Fatalf("opaque dst: got %v", got)
	}
	if got := out.NRGBAAt(1, 0); got.A != 0 {
		t.Fatalf("src-atop must keep dst alpha, got %v", got)
	}
}

func TestKnownLayerMode(t *testing.T) {
	for _, m := range []int{23, 26, 28, 30, 31, 33, 37, 39, 43, 44, 45, 47, 50, 63} {
		if !KnownLayerMode(m) {
			t.Fatalf("layer mode %d should be known", m)
		}
	}
	if KnownLayerMode(0) {
		t.Fatalf("layer mode 0 should be unknown")
	}
}
