package graph

import (
	"fmt"
	"image"
	"sort"
)

// Request describes the region a render traversal asks operators to produce.
type Request struct {
	Bounds image.Rectangle
}

// Operator is one per-pixel image transform. in is the main chain input and
// aux the secondary input; either may be nil when the pad is unconnected.
type Operator interface {
	Process(req Request, in, aux image.Image, p Params) (image.Image, error)
}

// OperatorFunc adapts a function to the Operator interface.
type OperatorFunc func(req Request, in, aux image.Image, p Params) (image.Image, error)

func (f OperatorFunc) Process(req Request, in, aux image.Image, p Params) (image.Image, error) {
	return f(req, in, aux, p)
}

// ParamSpec declares one operator parameter and its default value.
type ParamSpec struct {
	Name    string
	Default any
}

// OperatorSpec describes an operator kind: its declared parameters, which
// pads it reads, and the kernel that implements it.
type OperatorSpec struct {
	Kind        string
	Description string
	Params      []ParamSpec
	Source      bool // no main input, e.g. a constant colour
	Aux         bool // reads the aux pad
	Op          Operator
}

func (s OperatorSpec) defaults() Params {
	p := make(Params, len(s.Params))
	for _, ps := range s.Params {
		p[ps.Name] = ps.Default
	}
	return p
}

func (s OperatorSpec) declares(name string) bool {
	for _, ps := range s.Params {
		if ps.Name == name {
			return true
		}
	}
	return false
}

// Catalog maps operator kinds to their specs.
type Catalog map[string]OperatorSpec

// NewCatalog builds a catalog from specs. A duplicate kind is a programming
// error and panics.
func NewCatalog(specs ...OperatorSpec) Catalog {
	c := make(Catalog, len(specs))
	for _, s := range specs {
		if _, dup := c[s.Kind]; dup {
			panic(fmt.Sprintf("graph: duplicate operator kind %q", s.Kind))
		}
		c[s.Kind] = s
	}
	return c
}

// Override returns a copy of c where every kind present in o replaces the
// kernel of c. Kinds only present in o are added.
func (c Catalog) Override(o Catalog) Catalog {
	out := make(Catalog, len(c)+len(o))
	for k, s := range c {
		out[k] = s
	}
	for k, s := range o {
		out[k] = s
	}
	return out
}

// Lookup returns the spec for kind.
func (c Catalog) Lookup(kind string) (OperatorSpec, error) {
	s, ok := c[kind]
	if !ok {
		return OperatorSpec{}, fmt.Errorf("%w: %q", ErrUnknownOperator, kind)
	}
	return s, nil
}

// Kinds returns the registered kinds in lexical order.
func (c Catalog) Kinds() []string {
	kinds := make([]string, 0, len(c))
	for k := range c {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
