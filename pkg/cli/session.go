package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Fepozopo/fusion/pkg/fusion"
	"github.com/Fepozopo/fusion/pkg/graph"
	"github.com/Fepozopo/fusion/pkg/stdimg"
)

// ErrNoImage is returned when rendering before an image was opened.
var ErrNoImage = errors.New("no image loaded")

// Session is one filter attached to its own graph plus the image being
// edited. It is driven by a single goroutine.
type Session struct {
	Variant *fusion.Variant
	Graph   *graph.Graph
	Filter  *fusion.Filter

	Source image.Image
	Path   string
	Format string
	Result image.Image
}

// NewSession builds a graph over catalog and attaches v to its proxies.
func NewSession(v *fusion.Variant, catalog graph.Catalog) (*Session, error) {
	g := graph.New(catalog)
	f, err := fusion.Attach(g, g.Input(), g.Output(), v)
	if err != nil {
		return nil, err
	}
	return &Session{Variant: v, Graph: g, Filter: f}, nil
}

// Open loads the image to edit and drops any previous result.
func (s *Session) Open(path string) error {
	img, format, err := LoadImage(path)
	if err != nil {
		return err
	}
	s.Source, s.Path, s.Format, s.Result = img, path, format, nil
	return nil
}

// Set parses raw for the named parameter and writes it to the filter.
func (s *Session) Set(name, raw string) error {
	v, err := NormalizeValue(s.Variant, name, raw)
	if err != nil {
		return err
	}
	if err := s.Filter.Set(name, v); err != nil {
		return err
	}
	s.Result = nil
	return nil
}

// SetAssignment applies a "name=value" pair.
func (s *Session) SetAssignment(kv string) error {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", kv)
	}
	return s.Set(strings.TrimSpace(name), raw)
}

// SetMode selects a blend mode.
func (s *Session) SetMode(m fusion.BlendMode) error {
	if err := s.Filter.SetParam(fusion.ParamBlendMode, m); err != nil {
		return err
	}
	s.Result = nil
	return nil
}

// Render runs the graph over the source image.
func (s *Session) Render(ctx context.Context) (image.Image, error) {
	if s.Source == nil {
		return nil, ErrNoImage
	}
	out, err := s.Graph.Render(ctx, s.Source)
	if err != nil {
		return nil, err
	}
	s.Result = out
	return out, nil
}

// Save writes the current result to path, rendering first if needed.
func (s *Session) Save(ctx context.Context, path string) error {
	if s.Result == nil {
		if _, err := s.Render(ctx); err != nil {
			return err
		}
	}
	return SaveImage(path, s.Result)
}

// Close detaches the filter.
func (s *Session) Close() error {
	return s.Filter.Detach()
}

var titler = cases.Title(language.English)

// roleTitle turns a role such as "palette:softlight" into "Palette Softlight".
func roleTitle(r fusion.Role) string {
	return titler.String(strings.NewReplacer(":", " ", "-", " ").Replace(string(r)))
}

func modeLabel(m fusion.BlendMode) string {
	return m.Label()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case fusion.BlendMode:
		return modeLabel(t)
	case color.Color:
		return stdimg.FormatColor(t)
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

// Describe prints the parameters, the nodes and the current wiring.
func (s *Session) Describe(w io.Writer) error {
	p := s.Filter.Pipeline()
	fmt.Fprintf(w, "%s (%s), mode: %s\n", s.Variant.Title, s.Variant.Name, modeLabel(s.Filter.Mode()))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nparameters:")
	for _, ps := range s.Variant.Params {
		v, err := s.Filter.Get(ps.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", ps.Name, ps.Label, formatValue(v))
	}

	roles := map[graph.NodeHandle]fusion.Role{}
	for _, r := range []fusion.Role{fusion.RoleInput, fusion.RoleOutput} {
		if n, ok := p.Node(r); ok {
			roles[n.Handle] = r
		}
	}
	fmt.Fprintln(tw, "\nnodes:")
	for _, n := range p.Chain() {
		roles[n.Handle] = n.Role
		fmt.Fprintf(tw, "  %s\t%s\t\n", roleTitle(n.Role), n.Kind)
	}
	active := p.ActiveNode()
	for _, m := range p.Palette() {
		n, _ := p.PaletteNode(m)
		roles[n.Handle] = n.Role
		mark := ""
		if n == active {
			mark = "active"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", roleTitle(n.Role), n.Kind, mark)
	}

	fmt.Fprintln(tw, "\nedges:")
	for _, e := range s.Graph.Edges() {
		fmt.Fprintf(tw, "  %s\t-> %s.%s\n", roles[e.From], roles[e.To], e.Port)
	}
	return tw.Flush()
}
