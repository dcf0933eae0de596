package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/term"
)

// Terminal preview for the kitty graphics protocol, the iTerm2 inline
// image OSC, sixel (via img2sixel) and chafa as the text fallback.
// PREVIEW_BACKEND forces one backend first; the usual detection order
// still applies if it fails.

// previewDebug is set from Config.PreviewDebug.
var previewDebug bool

// previewOut is where escape sequences go.
var previewOut io.Writer = os.Stdout

func debugf(format string, args ...any) {
	if previewDebug {
		fmt.Fprintf(os.Stderr, "fusion-preview: "+format+"\n", args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("KONSOLE_VERSION") != "" {
		return true
	}
	t := strings.ToLower(os.Getenv("TERM"))
	// ghostty implements the kitty protocol
	return strings.Contains(t, "kitty") || strings.Contains(t, "ghost")
}

// isInlineImageCapable detects terminals implementing the iTerm2-style
// inline images OSC 1337.
func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	t := strings.ToLower(os.Getenv("TERM"))
	for _, s := range []string{"wez", "warp", "tabby", "vscode"} {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

// isSixelCapable is a heuristic; SIXEL_PREVIEW=1 forces it.
func isSixelCapable() bool {
	if os.Getenv("SIXEL_PREVIEW") == "1" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	t := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(t, "foot") || strings.Contains(t, "st") || strings.Contains(t, "linux")
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether a preview backend is likely to work.
func PreviewSupported() bool {
	return isKitty() || isInlineImageCapable() || isSixelCapable() || hasChafa()
}

// PreviewSize is a placement in character cells plus its approximate size
// in pixels.
type PreviewSize struct {
	Cols        int
	Rows        int
	PixelWidth  int
	PixelHeight int
}

const (
	cellW = 8
	cellH = 16
)

// terminalCells returns the usable preview area: the terminal size when
// stdout is a terminal, 80x40 otherwise.
func terminalCells() (cols, rows int) {
	cols, rows = 80, 40
	if f, ok := previewOut.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && h > 4 {
			cols, rows = min(w, 120), min(h-4, 60)
		}
	}
	return cols, rows
}

// computePreviewSize fits the image into the preview area keeping its
// aspect ratio. Images are never scaled up.
func computePreviewSize(img image.Image) PreviewSize {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	maxCols, maxRows := terminalCells()
	scale := math.Min(1, math.Min(float64(maxCols*cellW)/float64(w), float64(maxRows*cellH)/float64(h)))

	cols := int(math.Round(float64(w) * scale / cellW))
	rows := int(math.Round(float64(h) * scale / cellH))
	cols = max(6, min(cols, maxCols))
	rows = max(3, min(rows, maxRows))
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * cellW, PixelHeight: rows * cellH}
}

// downscale shrinks img to fit size so large renders are not shipped to the
// terminal at full resolution.
func downscale(img image.Image, size PreviewSize) image.Image {
	b := img.Bounds()
	if b.Dx() <= size.PixelWidth && b.Dy() <= size.PixelHeight {
		return img
	}
	scale := math.Min(float64(size.PixelWidth)/float64(b.Dx()), float64(size.PixelHeight)/float64(b.Dy()))
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// PreviewImage shows img in the terminal.
func PreviewImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	size := computePreviewSize(img)
	var buf bytes.Buffer
	if err := png.Encode(&buf, downscale(img, size)); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	return previewBytes(buf.Bytes(), size)
}

type previewBackend struct {
	name   string
	detect func() bool
	send   func([]byte, PreviewSize) error
}

var previewBackends = []previewBackend{
	{"inline", isInlineImageCapable, sendInlineImage},
	{"kitty", isKitty, sendKittyImage},
	{"sixel", isSixelCapable, sendSixelImage},
	{"chafa", hasChafa, sendChafaImage},
}

// previewBytes tries the forced backend, then every detected one in order.
func previewBytes(blob []byte, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty image blob")
	}
	if forced := strings.ToLower(os.Getenv("PREVIEW_BACKEND")); forced != "" {
		if forced == "iterm" || forced == "wezterm" {
			forced = "inline"
		}
		for _, b := range previewBackends {
			if b.name != forced {
				continue
			}
			err := b.send(blob, size)
			if err == nil {
				return nil
			}
			debugf("forced %s failed: %v", b.name, err)
		}
	}
	var last error
	for _, b := range previewBackends {
		if !b.detect() {
			continue
		}
		debugf("attempting %s", b.name)
		if last = b.send(blob, size); last == nil {
			return nil
		}
		debugf("%s failed: %v", b.name, last)
	}
	if last != nil {
		return fmt.Errorf("preview failed: %w", last)
	}
	return fmt.Errorf("no preview protocol matched")
}

// postImageNewlines picks a short gap to leave under the image.
func postImageNewlines(rows int) int {
	switch {
	case rows <= 0 || rows <= 2:
		return 1
	case rows <= 6:
		return 2
	case rows <= 20:
		return 3
	default:
		return 4
	}
}

func newlines(n int) {
	fmt.Fprint(previewOut, strings.Repeat("\n", n))
}

// sendKittyImage transmits PNG data with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. The first chunk carries the
// placement; q=2 suppresses terminal responses.
func sendKittyImage(data []byte, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(previewOut, seq); err != nil {
			return err
		}
	}
	newlines(postImageNewlines(size.Rows))
	return nil
}

// sendInlineImage emits the iTerm2 inline image OSC 1337 sequence.
func sendInlineImage(data []byte, size PreviewSize) error {
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	if _, err := io.WriteString(previewOut, seq); err != nil {
		return err
	}
	newlines(postImageNewlines(0))
	return nil
}

// sendSixelImage pipes the PNG through img2sixel.
func sendSixelImage(data []byte, size PreviewSize) error {
	cmd := exec.Command("img2sixel", "-w", fmt.Sprint(size.PixelWidth), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = previewOut
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("img2sixel failed: %w", err)
	}
	newlines(postImageNewlines(0))
	return nil
}

// sendChafaImage renders block symbols with chafa. CHAFA_FILL and
// CHAFA_SYMBOLS override the defaults.
func sendChafaImage(data []byte, size PreviewSize) error {
	if !hasChafa() {
		return fmt.Errorf("chafa not available")
	}
	fill, symbols := "block", "block"
	if f := os.Getenv("CHAFA_FILL"); f != "" {
		fill = f
	}
	if s := os.Getenv("CHAFA_SYMBOLS"); s != "" {
		symbols = s
	}
	cmd := exec.Command("chafa", "--fill="+fill, "--symbols="+symbols, "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = previewOut
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	newlines(postImageNewlines(size.Rows))
	return nil
}
