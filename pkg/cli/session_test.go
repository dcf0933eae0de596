package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/fusion/pkg/fusion"
	"github.com/Fepozopo/fusion/pkg/stdimg"
)

func newTestSession(t *testing.T, v *fusion.Variant) *Session {
	t.Helper()
	s, err := NewSession(v, stdimg.Operators())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeSolid saves a solid test image and returns its path.
func writeSolid(t *testing.T, name string, c color.NRGBA) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := SaveImage(path, stdimg.SolidNRGBA(image.Rect(0, 0, 4, 4), c)); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	return path
}

func TestSessionSetAndRender(t *testing.T) {
	s := newTestSession(t, fusion.CommonAdjustments)
	if _, err := s.Render(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("render without image: %v", err)
	}

	if err := s.Open(writeSolid(t, "white.png", color.NRGBA{255, 255, 255, 255})); err != nil {
		t.Fatal(err)
	}
	if s.Format != "png" {
		t.Fatalf("format = %q", s.Format)
	}
	if err := s.SetAssignment("color=#ff0000"); err != nil {
		t.Fatal(err)
	}
	out, err := s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := stdimg.ToNRGBA(out).NRGBAAt(1, 1); got != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("multiply pixel = %v", got)
	}

	if err := s.Set("blendmode", "screen"); err != nil {
		t.Fatal(err)
	}
	if s.Result != nil {
		t.Fatalf("result not invalidated by a parameter change")
	}
	if s.Filter.Mode() != fusion.Screen {
		t.Fatalf("mode = %v", s.Filter.Mode())
	}
	out, err = s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := stdimg.ToNRGBA(out).NRGBAAt(1, 1); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("screen pixel = %v", got)
	}
}

func TestSessionSetRejects(t *testing.T) {
	s := newTestSession(t, fusion.ColorLightingFusion)
	for _, kv := range []string{"contrast=9", "bogus=1", "brightness", "blendmode=dissolve"} {
		if err := s.SetAssignment(kv); err == nil {
			t.Errorf("SetAssignment(%q) succeeded", kv)
		}
	}
	if err := s.SetAssignment("brightness=0.5"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Filter.Get("brightness"); v != 0.5 {
		t.Fatalf("brightness = %v", v)
	}
}

func TestSessionSave(t *testing.T) {
	s := newTestSession(t, fusion.ColorLightingFusion)
	if err := s.Open(writeSolid(t, "in.png", color.NRGBA{10, 20, 30, 255})); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "out.tiff")
	if err := s.Save(context.Background(), out); err != nil {
		t.Fatal(err)
	}
	img, format, err := LoadImage(out)
	if err != nil {
		t.Fatal(err)
	}
	if format != "tiff" || img.Bounds().Dx() != 4 {
		t.Fatalf("saved %s %v", format, img.Bounds())
	}
	// neutral defaults leave the image untouched
	if got := stdimg.ToNRGBA(img).NRGBAAt(0, 0); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestSessionDescribe(t *testing.T) {
	s := newTestSession(t, fusion.ColorLightingFusion)
	var buf bytes.Buffer
	if err := s.Describe(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Color Lighting Fusion (colorlightingfusion), mode: No Color or Blend Mode",
		"Shadowhighlights",
		"Palette Antierase",
		"-> nop.input",
		"-> sa.aux",
		"#00000000",
		"active",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("describe output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "active"); n != 1 {
		t.Errorf("%d active palette nodes", n)
	}
}

func TestSessionClose(t *testing.T) {
	s, err := NewSession(fusion.CommonAdjustments, stdimg.Operators())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("contrast", "2"); !errors.Is(err, fusion.ErrDetached) {
		t.Fatalf("set after close: %v", err)
	}
	// only the proxies remain
	if n := len(s.Graph.Nodes()); n != 2 {
		t.Fatalf("%d nodes left after close", n)
	}
}
