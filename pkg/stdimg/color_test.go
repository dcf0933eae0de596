package stdimg

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"transparent", color.NRGBA{}},
		{"red", color.NRGBA{R: 255, A: 255}},
		{" Navy ", color.NRGBA{B: 128, A: 255}},
		{"#0f0", color.NRGBA{G: 255, A: 255}},
		{"#0f08", color.NRGBA{G: 255, A: 0x88}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{"#10203040", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz", "notacolor"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
	if s := FormatColor(color.NRGBA{R: 1, G: 2, B: 3, A: 4}); s != "#01020304" {
		t.Fatalf("FormatColor = %s", s)
	}
}

func TestSaturation(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	if got := Saturation(src, 1).NRGBAAt(0, 0); got != src.NRGBAAt(0, 0) {
		t.Fatalf("scale 1 changed pixel: %v", got)
	}
	gray := Saturation(src, 0).NRGBAAt(0, 0)
	if gray.R != gray.G || gray.G != gray.B {
		t.Fatalf("scale 0 should be grayscale: %v", gray)
	}
}

func TestHueChroma(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	if got := HueChroma(src, 0, 0, 0).NRGBAAt(0, 0); got != src.NRGBAAt(0, 0) {
		t.Fatalf("neutral hue-chroma changed pixel: %v", got)
	}
	green := HueChroma(src, 120, 0, 0).NRGBAAt(0, 0)
	if green.G != 255 || green.R != 0 {
		t.Fatalf("hue +120 should turn red into green: %v", green)
	}
	desat := HueChroma(src, 0, -100, 0).NRGBAAt(0, 0)
	if desat.R != desat.G {
		t.Fatalf("chroma -100 should desaturate: %v", desat)
	}
	dark := HueChroma(src, 0, 0, -50).NRGBAAt(0, 0)
	if dark.R >= 255 {
		t.Fatalf("lightness -50 should darken: %v", dark)
	}
}
