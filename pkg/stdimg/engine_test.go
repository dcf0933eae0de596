package stdimg

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/Fepozopo/fusion/pkg/graph"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

func TestOperatorsDeclareEveryKind(t *testing.T) {
	cat := Operators()
	kinds := []string{
		KindNop, KindColor, KindBrightnessContrast, KindUnsharpMask, KindHueChroma,
		KindSaturation, KindShadowsHighlights, KindChannelMixer, KindSrcAtop, KindCrop, KindLayerMode,
	}
	if len(cat) != len(kinds) {
		t.Fatalf("expected %d operators, got %d", len(kinds), len(cat))
	}
	for _, k := range kinds {
		s, err := cat.Lookup(k)
		if err != nil {
			t.Fatalf("lookup %s: %v", k, err)
		}
		if s.Op == nil {
			t.Fatalf("%s has no kernel", k)
		}
	}
	if s, _ := cat.Lookup(KindColor); !s.Source {
		t.Fatalf("gegl:color must be a source")
	}
	if s, _ := cat.Lookup(KindLayerMode); !s.Aux {
		t.Fatalf("gimp:layer-mode must read aux")
	}
}

// TestChainRender wires input -> brightness-contrast -> layer-mode(aux=color) -> output
// and checks the rendered pixel.
func TestChainRender(t *testing.T) {
	g := graph.New(Operators())
	bc, err := g.Instantiate(KindBrightnessContrast, nil)
	if err != nil {
		t.Fatalf("instantiate bc: %v", err)
	}
	col, _ := g.Instantiate(KindColor, graph.Params{"value": color.NRGBA{R: 255, G: 128, B: 0, A: 255}})
	lm, err := g.Instantiate(KindLayerMode, graph.Params{"layer-mode": LayerMultiply, "blend-space": BlendSpacePerceptual})
	if err != nil {
		t.Fatalf("instantiate layer-mode: %v", err)
	}
	if err := g.SetParam(bc, "brightness", 0.5); err != nil {
		t.Fatalf("set brightness: %v", err)
	}
	edges := []graph.Edge{
		{From: g.Input(), To: bc, Port: graph.PortInput},
		{From: bc, To: lm, Port: graph.PortInput},
		{From: col, To: lm, Port: graph.PortAux},
		{From: lm, To: g.Output(), Port: graph.PortInput},
	}
	for _, e := range edges {
		if err := g.Connect(e.From, e.To, e.Port); err != nil {
			t.Fatalf("connect: %v", err)
		}
	}

	src := makeSolidNRGBA(4, 4, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out, err := g.Render(context.Background(), src)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// brightness 0.5 pushes mid-gray to white, multiply then yields the colour
	got := out.(*image.NRGBA).NRGBAAt(2, 2)
	want := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	if got != want {
		t.Fatalf("pixel = %v, want %v", got, want)
	}
	if os.Getenv("FUSION_SAVE_TEST_OUTPUT") == "1" {
		f, _ := os.Create("chain_test_out.png")
		defer f.Close()
		png.Encode(f, out)
	}
}

func TestLayerModeRejectsUnknownID(t *testing.T) {
	g := graph.New(Operators())
	lm, _ := g.Instantiate(KindLayerMode, graph.Params{"layer-mode": 999})
	col, _ := g.Instantiate(KindColor, nil)
	g.Connect(g.Input(), lm, graph.PortInput)
	g.Connect(col, lm, graph.PortAux)
	g.Connect(lm, g.Output(), graph.PortInput)
	if _, err := g.Render(context.Background(), makeSolidNRGBA(2, 2, color.NRGBA{A: 255})); err == nil {
		t.Fatalf("expected error for unsupported layer mode")
	}
}

func TestCropKernel(t *testing.T) {
	g := graph.New(Operators())
	c, _ := g.Instantiate(KindCrop, graph.Params{"x": 1.0, "y": 1.0, "width": 2.0, "height": 3.0})
	g.Connect(g.Input(), c, graph.PortInput)
	g.Connect(c, g.Output(), graph.PortInput)
	out, err := g.Render(context.Background(), makeSolidNRGBA(5, 5, color.NRGBA{R: 9, A: 255}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := out.Bounds(); b != image.Rect(1, 1, 3, 4) {
		t.Fatalf("crop bounds = %v", b)
	}

	// zero size crops to the request, which is the source bounds
	if err := g.SetParam(c, "width", 0.0); err != nil {
		t.Fatal(err)
	}
	out, err = g.Render(context.Background(), makeSolidNRGBA(5, 5, color.NRGBA{R: 9, A: 255}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := out.Bounds(); b != image.Rect(0, 0, 5, 5) {
		t.Fatalf("request crop bounds = %v", b)
	}
}
