package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Fepozopo/fusion/pkg/fusion"
)

// selectWithFzf feeds "key: description" lines to fzf and returns the key of
// the chosen line.
func selectWithFzf(prompt string, lines []string) (string, error) {
	cmd := exec.Command("fzf", "--prompt="+prompt)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf: %w", err)
	}

	selection := strings.TrimSpace(out.String())
	key, _, _ := strings.Cut(selection, ":")
	if key = strings.TrimSpace(key); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("nothing selected")
}

// SelectParamWithFzf lists the declared parameters of v in fzf and returns
// the chosen parameter name. The mode parameter is left to SelectModeWithFzf.
func SelectParamWithFzf(v *fusion.Variant) (string, error) {
	var lines []string
	for _, ps := range v.Params {
		if ps.ID == fusion.ParamBlendMode {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", ps.Name, ps.Label))
	}
	return selectWithFzf("Parameter> ", lines)
}

// SelectModeWithFzf lists the modes of v and returns the chosen one.
func SelectModeWithFzf(v *fusion.Variant) (fusion.BlendMode, error) {
	var lines []string
	for _, m := range v.Modes() {
		lines = append(lines, fmt.Sprintf("%s: %s", m, modeLabel(m)))
	}
	key, err := selectWithFzf("Mode> ", lines)
	if err != nil {
		return -1, err
	}
	m, ok := fusion.ParseBlendMode(key)
	if !ok {
		return -1, fmt.Errorf("unknown mode %q", key)
	}
	return m, nil
}

// SelectFileWithFzf launches fzf over the image files found under startDir,
// with a terminal-aware preview pane, and returns the selected path.
// It needs both `find` and `fzf` on PATH.
func SelectFileWithFzf(startDir string) (string, error) {
	// fzf's --preview takes a single command line, so fallbacks are || chains.
	const chafa = "chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	var previewCmd string
	switch {
	case isKitty():
		previewCmd = "printf \"\\x1b_Ga=d\\x1b\\\\\"; kitty +kitten icat --silent {} 2>/dev/null || " + chafa
	case isInlineImageCapable():
		previewCmd = "imgcat {} 2>/dev/null || " + chafa
	case isSixelCapable():
		previewCmd = "img2sixel {} 2>/dev/null || " + chafa
	default:
		previewCmd = chafa
	}

	cmdStr := fmt.Sprintf(
		"find %s -type f \\( -iname '*.jpg' -o -iname '*.jpeg' -o -iname '*.png' -o -iname '*.gif' -o -iname '*.bmp' -o -iname '*.webp' -o -iname '*.tif' -o -iname '*.tiff' \\) | fzf --height 100%% --border --prompt='Files> ' --ansi --preview=%q --preview-window='right:60%%'",
		strconv.Quote(startDir),
		previewCmd,
	)
	cmd := exec.Command("bash", "-lc", cmdStr)

	var out bytes.Buffer
	cmd.Stdout = &out

	err := cmd.Run()
	// the previewer may leave kitty images behind either way
	clearKittyImages()
	if err != nil {
		return "", fmt.Errorf("error running fzf for files: %w", err)
	}

	selection := strings.TrimSpace(out.String())
	if selection == "" {
		return "", fmt.Errorf("no file selected")
	}
	return selection, nil
}

// clearKittyImages emits the kitty graphics "delete" control sequence.
// Terminals that don't understand it will ignore it.
func clearKittyImages() {
	fmt.Fprint(os.Stdout, "\x1b_Ga=d\x1b\\")
}
