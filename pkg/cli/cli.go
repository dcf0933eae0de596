package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/Fepozopo/fusion/pkg/fusion"
)

// assignments collects repeated -set name=value flags.
type assignments []string

func (a *assignments) String() string { return strings.Join(*a, ",") }

func (a *assignments) Set(s string) error {
	*a = append(*a, s)
	return nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Commands available:")
	fmt.Fprintln(w, "  /  - select and set a parameter")
	fmt.Fprintln(w, "  m  - select the blend mode")
	fmt.Fprintln(w, "  r  - render and preview")
	fmt.Fprintln(w, "  g  - show parameters and graph wiring")
	fmt.Fprintln(w, "  o  - open another image")
	fmt.Fprintln(w, "  s  - save the rendered image")
	fmt.Fprintln(w, "  u  - check for updates")
	fmt.Fprintln(w, "  h  - show this help message")
	fmt.Fprintln(w, "  q  - quit")
}

// Run is the fusion command line. With an input and an output path it
// renders once and exits; otherwise it starts the interactive editor.
func Run(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := LoadConfig()

	fs := flag.NewFlagSet("fusion", flag.ContinueOnError)
	fs.SetOutput(stderr)
	variant := fs.String("variant", cfg.Variant, "filter variant: "+strings.Join(fusion.VariantNames(), ", "))
	backend := fs.String("backend", cfg.Backend, "operator backend: stdimg or magick")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	showGraph := fs.Bool("graph", false, "print the parameters and graph wiring")
	showVersion := fs.Bool("version", false, "print the version and exit")
	var sets assignments
	fs.Var(&sets, "set", "parameter assignment name=value (repeatable)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fusion [flags] [input [output]]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, Version)
		return 0
	}

	logger, err := NewLogger(*logLevel, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if logger != nil {
		fusion.SetLogger(logger)
	}
	previewDebug = cfg.PreviewDebug

	v, ok := fusion.LookupVariant(*variant)
	if !ok {
		fmt.Fprintf(stderr, "unknown variant %q (have %s)\n", *variant, strings.Join(fusion.VariantNames(), ", "))
		return 2
	}
	catalog, err := Catalog(*backend)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	s, err := NewSession(v, catalog)
	if err != nil {
		fmt.Fprintf(stderr, "failed to build filter: %v\n", err)
		return 1
	}
	defer s.Close()

	for _, kv := range sets {
		if err := s.SetAssignment(kv); err != nil {
			fmt.Fprintf(stderr, "invalid -set %s: %v\n", kv, err)
			return 2
		}
	}
	if *showGraph {
		if err := s.Describe(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch fs.NArg() {
	case 0:
	case 1:
		if err := s.Open(fs.Arg(0)); err != nil {
			fmt.Fprintf(stderr, "failed to read image %s: %v\n", fs.Arg(0), err)
			return 1
		}
	case 2:
		return batch(ctx, s, fs.Arg(0), fs.Arg(1), stdout, stderr)
	default:
		fs.Usage()
		return 2
	}
	return repl(ctx, s, cfg, NewPrompter(stdin, stdout), stderr)
}

func batch(ctx context.Context, s *Session, in, out string, stdout, stderr io.Writer) int {
	if err := s.Open(in); err != nil {
		fmt.Fprintf(stderr, "failed to read image %s: %v\n", in, err)
		return 1
	}
	if err := s.Save(ctx, out); err != nil {
		fmt.Fprintf(stderr, "failed to write image %s: %v\n", out, err)
		return 1
	}
	fmt.Fprintf(stdout, "Saved to %s (%s)\n", out, modeLabel(s.Filter.Mode()))
	return 0
}

func repl(ctx context.Context, s *Session, cfg Config, p *Prompter, stderr io.Writer) int {
	fmt.Fprintf(p.out, "%s\n", s.Variant.Title)
	usage(p.out)
	if s.Source != nil {
		renderAndPreview(ctx, s, p.out, stderr)
	}

	for {
		r, err := p.Key("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0
			}
			fmt.Fprintf(stderr, "read input error: %v\n", err)
			return 1
		}

		switch r {
		case '/':
			name, err := SelectParamWithFzf(s.Variant)
			if err != nil {
				name, err = chooseParam(p, s.Variant)
				if err != nil {
					fmt.Fprintln(p.out, err)
					continue
				}
			}
			ps, ok := s.Variant.Param(name)
			if !ok {
				fmt.Fprintf(p.out, "unknown parameter: %s\n", name)
				continue
			}
			if ps.ID == fusion.ParamBlendMode {
				selectMode(ctx, s, p, stderr)
				continue
			}
			fmt.Fprintln(p.out, "\n"+Tooltip(s.Variant, ps)+"\n")
			raw, err := p.PromptLine(fmt.Sprintf("%s (%s): ", ps.Name, ps.Kind))
			if err != nil || raw == "" {
				fmt.Fprintln(p.out, "cancelled")
				continue
			}
			if err := s.Set(ps.Name, raw); err != nil {
				fmt.Fprintf(stderr, "input validation error: %v\n", err)
				continue
			}
			fmt.Fprintf(p.out, "Set %s = %s\n", ps.Name, raw)
			renderAndPreview(ctx, s, p.out, stderr)

		case 'm':
			selectMode(ctx, s, p, stderr)

		case 'r':
			renderAndPreview(ctx, s, p.out, stderr)

		case 'g':
			if err := s.Describe(p.out); err != nil {
				fmt.Fprintln(stderr, err)
			}

		case 'o':
			path, err := SelectFileWithFzf(".")
			if err != nil || path == "" {
				path, _ = p.PromptLine("Enter path to image to open (leave empty to cancel): ")
				if path == "" {
					fmt.Fprintln(p.out, "open cancelled")
					continue
				}
			}
			if err := s.Open(path); err != nil {
				fmt.Fprintf(stderr, "failed to read image %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(p.out, "Opened %s\n", path)
			renderAndPreview(ctx, s, p.out, stderr)

		case 's':
			out, _ := p.PromptLineOrFzf("Enter output filename: ")
			if out == "" {
				fmt.Fprintln(p.out, "no filename provided")
				continue
			}
			if err := s.Save(ctx, out); err != nil {
				fmt.Fprintf(stderr, "failed to write image: %v\n", err)
				continue
			}
			fmt.Fprintf(p.out, "Saved to %s\n", out)

		case 'u':
			if err := CheckForUpdates(cfg.UpdateRepo, p); err != nil {
				fmt.Fprintf(stderr, "update check error: %v\n", err)
			}

		case 'h':
			usage(p.out)

		case 'q':
			fmt.Fprintln(p.out, "Exiting...")
			return 0
		}
	}
}

func selectMode(ctx context.Context, s *Session, p *Prompter, stderr io.Writer) {
	m, err := SelectModeWithFzf(s.Variant)
	if err != nil {
		m, err = chooseMode(p, s.Variant)
		if err != nil {
			fmt.Fprintln(p.out, err)
			return
		}
	}
	if err := s.SetMode(m); err != nil {
		fmt.Fprintf(stderr, "mode error: %v\n", err)
		return
	}
	fmt.Fprintf(p.out, "Mode: %s\n", modeLabel(s.Filter.Mode()))
	renderAndPreview(ctx, s, p.out, stderr)
}

func renderAndPreview(ctx context.Context, s *Session, out, stderr io.Writer) {
	img, err := s.Render(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoImage) {
			fmt.Fprintf(stderr, "render error: %v\n", err)
		}
		return
	}
	if PreviewSupported() {
		if err := PreviewImage(img); err != nil {
			debugf("%v", err)
		}
	}
	if info, err := GetImageInfoImage(img, s.Format); err == nil {
		fmt.Fprintln(out, info)
	}
}

// chooseFromList is the textual fallback when fzf is unavailable. It
// accepts a 1-based index or an exact item.
func chooseFromList(p *Prompter, title string, items []string) (int, error) {
	fmt.Fprintln(p.out, title)
	for i, it := range items {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, it)
	}
	sel, err := p.PromptLine("Enter number or name (leave empty to cancel): ")
	if err != nil || sel == "" {
		return -1, fmt.Errorf("selection cancelled")
	}
	if n, err := strconv.Atoi(sel); err == nil {
		if n < 1 || n > len(items) {
			return -1, fmt.Errorf("invalid selection")
		}
		return n - 1, nil
	}
	for i, it := range items {
		name, _, _ := strings.Cut(it, " - ")
		if strings.EqualFold(name, sel) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown selection: %s", sel)
}

func chooseParam(p *Prompter, v *fusion.Variant) (string, error) {
	items := make([]string, len(v.Params))
	for i, ps := range v.Params {
		items[i] = ps.Name + " - " + ps.Label
	}
	i, err := chooseFromList(p, "Parameters:", items)
	if err != nil {
		return "", err
	}
	return v.Params[i].Name, nil
}

func chooseMode(p *Prompter, v *fusion.Variant) (fusion.BlendMode, error) {
	modes := v.Modes()
	items := make([]string, len(modes))
	for i, m := range modes {
		items[i] = m.String() + " - " + modeLabel(m)
	}
	i, err := chooseFromList(p, "Blend modes:", items)
	if err != nil {
		return -1, err
	}
	return modes[i], nil
}
