package cli

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"
)

// capturePreview points preview output at a buffer and clears the
// terminal detection variables.
func capturePreview(t *testing.T) *bytes.Buffer {
	t.Helper()
	for _, k := range []string{"TERM_PROGRAM", "ITERM_SESSION_ID", "KITTY_WINDOW_ID", "KONSOLE_VERSION",
		"WT_SESSION", "SIXEL_PREVIEW", "PREVIEW_BACKEND"} {
		t.Setenv(k, "")
	}
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_CHAFA", "1")

	var buf bytes.Buffer
	old := previewOut
	previewOut = &buf
	t.Cleanup(func() { previewOut = old })
	return &buf
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 0, 255})
	return img
}

// TestPreviewInlineSequence verifies that PreviewImage emits an inline-image
// OSC carrying a PNG when TERM_PROGRAM names an inline-capable terminal.
func TestPreviewInlineSequence(t *testing.T) {
	buf := capturePreview(t)
	t.Setenv("TERM_PROGRAM", "WezTerm")

	if err := PreviewImage(testImage()); err != nil {
		t.Fatalf("PreviewImage error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]1337;File=") {
		t.Fatalf("expected inline 1337 sequence, got: %q", out)
	}

	payload := out[strings.Index(out, ":")+1:]
	payload = payload[:strings.Index(payload, "\a")]
	dec, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	if !bytes.HasPrefix(dec, []byte("\x89PNG")) {
		t.Fatalf("expected PNG payload, got: %x", dec[:4])
	}
}

func TestPreviewForcedKitty(t *testing.T) {
	buf := capturePreview(t)
	t.Setenv("PREVIEW_BACKEND", "kitty")

	if err := PreviewImage(testImage()); err != nil {
		t.Fatalf("PreviewImage error: %v", err)
	}
	if out := buf.String(); !strings.HasPrefix(out, "\x1b_Ga=T,f=100,t=d,q=2,c=6,r=3,m=0;") {
		t.Fatalf("unexpected kitty sequence: %q", out)
	}
}

func TestPreviewNoBackend(t *testing.T) {
	capturePreview(t)
	t.Setenv("TERM", "dumb")
	if err := PreviewImage(testImage()); err == nil {
		t.Fatalf("expected an error without a preview backend")
	}
	if err := PreviewImage(nil); err == nil {
		t.Fatalf("expected an error for a nil image")
	}
}

func TestComputePreviewSizeAndDownscale(t *testing.T) {
	capturePreview(t)
	img := image.NewNRGBA(image.Rect(0, 0, 1600, 800))

	size := computePreviewSize(img)
	want := PreviewSize{Cols: 80, Rows: 20, PixelWidth: 640, PixelHeight: 320}
	if size != want {
		t.Fatalf("size = %+v, want %+v", size, want)
	}
	if b := downscale(img, size).Bounds(); b.Dx() != 640 || b.Dy() != 320 {
		t.Fatalf("downscaled to %v", b)
	}

	small := testImage()
	if got := downscale(small, computePreviewSize(small)); got != small {
		t.Fatalf("small images must not be resampled")
	}
}
