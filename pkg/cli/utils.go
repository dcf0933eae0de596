package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Prompter reads whole lines from one buffered reader so input typed ahead
// of a prompt is never lost between calls.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter wraps r for line-oriented prompting on w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w}
}

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
func (p *Prompter) PromptLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineOrFzf reads a full line and treats a single "/" as a request to
// pick an image file with fzf. If fzf is unavailable or cancelled the
// prompt is shown again.
func (p *Prompter) PromptLineOrFzf(prompt string) (string, error) {
	input, err := p.PromptLine(prompt)
	if err != nil {
		return "", err
	}
	if input == "/" {
		sel, selErr := SelectFileWithFzf(".")
		if selErr == nil && sel != "" {
			fmt.Fprintf(p.out, " [fzf] %s\n", sel)
			return sel, nil
		}
		return p.PromptLine(prompt)
	}
	return input, nil
}

// Key reads a single command key and discards the rest of the line.
func (p *Prompter) Key(prompt string) (rune, error) {
	line, err := p.PromptLine(prompt)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return 0, nil
	}
	return []rune(line)[0], nil
}

// LoadImage decodes the file at path. PNG, JPEG and GIF come from the
// standard library; BMP, TIFF and WebP from golang.org/x/image.
func LoadImage(path string) (image.Image, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// SaveImage saves an image.Image to disk using format inferred from the filename extension.
// Supports .png, .jpg/.jpeg, .gif, .bmp and .tif/.tiff; anything else is written as PNG.
func SaveImage(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("nothing to save")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeByExt(f, filepath.Ext(path), img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeByExt(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

// GetImageInfoImage returns a short info string for an image.Image
func GetImageInfoImage(img image.Image, format string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	if format == "" {
		format = "unknown"
	}
	b := img.Bounds()
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", strings.ToUpper(format), b.Dx(), b.Dy()), nil
}
