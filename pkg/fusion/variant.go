package fusion

import (
	"fmt"

	"github.com/Fepozopo/fusion/pkg/graph"
)

// Role names one node of a pipeline. RoleInput and RoleOutput refer to the
// host's proxies and are never instantiated by Build.
type Role string

const (
	RoleInput  Role = "input"
	RoleOutput Role = "output"
)

// NodeSpec declares one stable node. Fixed parameters are passed to the
// registry at instantiation and are never redirected.
type NodeSpec struct {
	Role  Role
	Kind  string
	Fixed graph.Params
}

// EdgeSpec declares one stable edge from the output of From to a pad of To.
type EdgeSpec struct {
	From Role
	To   Role
	Port graph.Port
}

// SlotSpec locates the variable slot: the active palette node reads
// Upstream on its input pad and feeds Port of Downstream.
type SlotSpec struct {
	Upstream   Role
	Downstream Role
	Port       graph.Port
}

// PaletteEntry declares the node bound to one blend mode.
type PaletteEntry struct {
	Mode  BlendMode
	Kind  string
	Fixed graph.Params
}

// ParamKind classifies a declared parameter's value type.
type ParamKind int

const (
	ParamFloat ParamKind = iota
	ParamColor
	ParamEnum
)

func (k ParamKind) String() string {
	switch k {
	case ParamFloat:
		return "float"
	case ParamColor:
		return "color"
	case ParamEnum:
		return "enum"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// ParamSpec declares one external parameter: its metadata for the host's
// validation layer and, except for the mode parameter, the internal node
// parameter it is bound to.
type ParamSpec struct {
	ID          ParamID
	Name        string
	Label       string
	Description string
	Kind        ParamKind
	Min, Max    float64
	Default     any

	Target Role
	Key    string
}

// Variant is one product-level configuration of the pipeline: which nodes
// exist, how the stable chain is wired, where the variable slot sits, the
// blend palette and the external parameter surface.
type Variant struct {
	Name        string
	Title       string
	Description string

	Nodes       []NodeSpec
	Edges       []EdgeSpec
	Slot        SlotSpec
	ColorSource Role

	Palette     []PaletteEntry
	DefaultMode BlendMode

	Params []ParamSpec
}

// Param returns the declaration with the given external name.
func (v *Variant) Param(name string) (ParamSpec, bool) {
	for _, p := range v.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// ParamByID returns the declaration for id.
func (v *Variant) ParamByID(id ParamID) (ParamSpec, bool) {
	for _, p := range v.Params {
		if p.ID == id {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Modes returns the palette modes in declaration order.
func (v *Variant) Modes() []BlendMode {
	out := make([]BlendMode, len(v.Palette))
	for i, e := range v.Palette {
		out[i] = e.Mode
	}
	return out
}

// validate checks the static topology. Every failure is a configuration
// error.
func (v *Variant) validate() error {
	roles := map[Role]bool{RoleInput: true, RoleOutput: true}
	for _, n := range v.Nodes {
		if n.Role == "" || roles[n.Role] {
			return fmt.Errorf("%w: duplicate or empty role %q", ErrInvalidVariant, n.Role)
		}
		roles[n.Role] = true
	}
	for _, e := range v.Edges {
		if !roles[e.From] || !roles[e.To] {
			return fmt.Errorf("%w: edge %s -> %s", ErrUnknownRole, e.From, e.To)
		}
	}
	for _, r := range []Role{v.Slot.Upstream, v.Slot.Downstream, v.ColorSource} {
		if !roles[r] {
			return fmt.Errorf("%w: %q", ErrUnknownRole, r)
		}
	}
	if v.Slot.Upstream == RoleOutput || v.Slot.Downstream == RoleInput || v.ColorSource == RoleOutput {
		return fmt.Errorf("%w: slot wired against proxy direction", ErrInvalidVariant)
	}
	seen := make(map[BlendMode]bool, len(v.Palette))
	for _, e := range v.Palette {
		if !e.Mode.Valid() || seen[e.Mode] {
			return fmt.Errorf("%w: palette mode %s", ErrInvalidVariant, e.Mode)
		}
		seen[e.Mode] = true
	}
	if !seen[v.DefaultMode] {
		return fmt.Errorf("%w: default mode %s is not in the palette", ErrInvalidVariant, v.DefaultMode)
	}
	return nil
}
