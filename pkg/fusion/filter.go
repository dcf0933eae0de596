package fusion

import (
	"fmt"

	"github.com/Fepozopo/fusion/pkg/graph"
)

// Filter is one attached filter instance: a pipeline plus the flat external
// parameter surface of its variant.
type Filter struct {
	p        *Pipeline
	detached bool
}

// Attach builds v's pipeline inside reg between the host proxies.
func Attach(reg graph.Registry, input, output graph.NodeHandle, v *Variant) (*Filter, error) {
	p, err := Build(reg, v, input, output)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", v.Name, err)
	}
	Logger().Info("fusion: filter attached", "variant", v.Name, "mode", p.Mode().String())
	return &Filter{p: p}, nil
}

// MustAttach is like Attach but panics on a configuration error.
func MustAttach(reg graph.Registry, input, output graph.NodeHandle, v *Variant) *Filter {
	f, err := Attach(reg, input, output, v)
	if err != nil {
		panic(err)
	}
	return f
}

// Pipeline exposes the underlying pipeline.
func (f *Filter) Pipeline() *Pipeline { return f.p }

// Variant returns the filter's configuration.
func (f *Filter) Variant() *Variant { return f.p.variant }

// Mode returns the active blend mode.
func (f *Filter) Mode() BlendMode { return f.p.Mode() }

// Set writes an external parameter. The mode parameter accepts a BlendMode,
// an integer or a mode name and goes to the router; every other name goes
// through the redirect table. Values must already be range-checked.
func (f *Filter) Set(name string, value any) error {
	if f.detached {
		return ErrDetached
	}
	if ps, ok := f.p.variant.Param(name); ok && ps.ID == ParamBlendMode {
		return f.p.SetMode(blendModeOf(value))
	}
	id, ok := f.p.table.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return f.p.ApplyBinding(f.p.table, id, value)
}

// SetParam is Set keyed by id.
func (f *Filter) SetParam(id ParamID, value any) error {
	if f.detached {
		return ErrDetached
	}
	if id == ParamBlendMode {
		return f.p.SetMode(blendModeOf(value))
	}
	return f.p.ApplyBinding(f.p.table, id, value)
}

// Get returns the current value of an external parameter.
func (f *Filter) Get(name string) (any, error) {
	if ps, ok := f.p.variant.Param(name); ok && ps.ID == ParamBlendMode {
		return f.p.Mode(), nil
	}
	id, ok := f.p.table.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	b, _ := f.p.table.Lookup(id)
	return f.p.nodes[b.Target].params[b.Key], nil
}

// Detach tears the pipeline down. Nodes are destroyed when the registry
// supports removal. Further writes fail with ErrDetached.
func (f *Filter) Detach() error {
	if f.detached {
		return nil
	}
	f.detached = true
	Logger().Info("fusion: filter detached", "variant", f.p.variant.Name)
	return f.p.release()
}
