// Package fusion composes a fixed graph of image operators into a single
// adjustment filter.
//
// Build instantiates every node of a Variant once: the stable chain, the
// colour source and one palette node per blend mode. SetMode swaps which
// palette node occupies the variable slot without touching any other edge,
// and ApplyBinding forwards external parameters to the internal nodes
// through an immutable RedirectTable. Filter ties the three together behind
// a flat, name-keyed parameter surface.
//
// Nothing here is safe for concurrent use. The host serialises mutations
// with respect to render traversals.
package fusion

import (
	"fmt"

	"github.com/Fepozopo/fusion/pkg/graph"
)

// OperatorNode is one instantiated operator owned by a Pipeline.
type OperatorNode struct {
	Role   Role
	Kind   string
	Handle graph.NodeHandle
	Fixed  graph.Params

	params graph.Params
	proxy  bool
}

// Params returns the values written through the pipeline so far.
func (n *OperatorNode) Params() graph.Params { return n.params.Clone() }

// Pipeline owns the nodes of one filter instance.
type Pipeline struct {
	reg     graph.Registry
	variant *Variant

	nodes   map[Role]*OperatorNode
	order   []*OperatorNode
	edges   []graph.Edge
	palette map[BlendMode]*OperatorNode
	modes   []BlendMode
	table   *RedirectTable

	upstream   *OperatorNode
	downstream *OperatorNode
	slotPort   graph.Port
	color      *OperatorNode

	active     BlendMode
	activeNode *OperatorNode
}

// Build instantiates v against reg. input and output are the host's proxy
// nodes. Every declared parameter default is written through its binding,
// so a binding naming a missing node parameter fails here. Errors are
// configuration errors; a half-built pipeline is never returned.
func Build(reg graph.Registry, v *Variant, input, output graph.NodeHandle) (_ *Pipeline, err error) {
	if err := v.validate(); err != nil {
		return nil, err
	}
	table, err := tableFor(v)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		reg:     reg,
		variant: v,
		nodes:   make(map[Role]*OperatorNode, len(v.Nodes)+2),
		palette: make(map[BlendMode]*OperatorNode, len(v.Palette)),
		table:   table,
		active:  -1,
	}
	p.nodes[RoleInput] = &OperatorNode{Role: RoleInput, Handle: input, proxy: true, params: graph.Params{}}
	p.nodes[RoleOutput] = &OperatorNode{Role: RoleOutput, Handle: output, proxy: true, params: graph.Params{}}
	defer func() {
		if err != nil {
			p.release()
		}
	}()

	for _, ns := range v.Nodes {
		n, err := p.instantiate(ns.Role, ns.Kind, ns.Fixed)
		if err != nil {
			return nil, err
		}
		p.nodes[ns.Role] = n
		p.order = append(p.order, n)
	}
	for _, pe := range v.Palette {
		n, err := p.instantiate(Role("palette:"+pe.Mode.String()), pe.Kind, pe.Fixed)
		if err != nil {
			return nil, err
		}
		p.palette[pe.Mode] = n
		p.modes = append(p.modes, pe.Mode)
	}

	for _, es := range v.Edges {
		e := graph.Edge{From: p.nodes[es.From].Handle, To: p.nodes[es.To].Handle, Port: es.Port}
		if err := reg.Connect(e.From, e.To, e.Port); err != nil {
			return nil, fmt.Errorf("connect %s -> %s.%s: %w", es.From, es.To, es.Port, err)
		}
		p.edges = append(p.edges, e)
	}

	for _, b := range table.Bindings() {
		if n, ok := p.nodes[b.Target]; !ok || n.proxy {
			return nil, fmt.Errorf("%w: %q bound to %q", ErrUnknownRole, b.Name, b.Target)
		}
	}
	for _, ps := range v.Params {
		if ps.ID == ParamBlendMode || ps.Default == nil {
			continue
		}
		if err := p.ApplyBinding(table, ps.ID, ps.Default); err != nil {
			return nil, err
		}
	}

	p.upstream = p.nodes[v.Slot.Upstream]
	p.downstream = p.nodes[v.Slot.Downstream]
	p.slotPort = v.Slot.Port
	p.color = p.nodes[v.ColorSource]
	if err := p.route(v.DefaultMode); err != nil {
		return nil, err
	}
	Logger().Debug("fusion: pipeline built", "variant", v.Name,
		"nodes", len(p.order), "palette", len(p.palette), "bindings", len(table.byID))
	return p, nil
}

func (p *Pipeline) instantiate(role Role, kind string, fixed graph.Params) (*OperatorNode, error) {
	h, err := p.reg.Instantiate(kind, fixed.Clone())
	if err != nil {
		return nil, fmt.Errorf("instantiate %s (%s): %w", role, kind, err)
	}
	return &OperatorNode{Role: role, Kind: kind, Handle: h, Fixed: fixed.Clone(), params: graph.Params{}}, nil
}

// Variant returns the configuration the pipeline was built from.
func (p *Pipeline) Variant() *Variant { return p.variant }

// Table returns the pipeline's redirect table.
func (p *Pipeline) Table() *RedirectTable { return p.table }

// Node returns the stable node with the given role. Proxies are included.
func (p *Pipeline) Node(role Role) (*OperatorNode, bool) {
	n, ok := p.nodes[role]
	return n, ok
}

// Chain returns the stable nodes in construction order.
func (p *Pipeline) Chain() []*OperatorNode {
	return append([]*OperatorNode(nil), p.order...)
}

// StableEdges returns the edges wired at construction.
func (p *Pipeline) StableEdges() []graph.Edge {
	return append([]graph.Edge(nil), p.edges...)
}

// PaletteNode returns the node bound to m.
func (p *Pipeline) PaletteNode(m BlendMode) (*OperatorNode, bool) {
	n, ok := p.palette[m]
	return n, ok
}

// Palette returns the palette modes in construction order.
func (p *Pipeline) Palette() []BlendMode {
	return append([]BlendMode(nil), p.modes...)
}

// Handles returns every node the pipeline instantiated: stable nodes first,
// then the palette. Proxies are not included.
func (p *Pipeline) Handles() []graph.NodeHandle {
	out := make([]graph.NodeHandle, 0, len(p.order)+len(p.modes))
	for _, n := range p.order {
		out = append(out, n.Handle)
	}
	for _, m := range p.modes {
		out = append(out, p.palette[m].Handle)
	}
	return out
}

// remover is implemented by registries that can destroy nodes.
type remover interface {
	Remove(h graph.NodeHandle) error
}

// release destroys every node the pipeline instantiated, when the registry
// supports it. Edges touching those nodes go with them.
func (p *Pipeline) release() error {
	r, ok := p.reg.(remover)
	if !ok {
		return nil
	}
	var first error
	for _, h := range p.Handles() {
		if err := r.Remove(h); err != nil && first == nil {
			first = err
		}
	}
	return first
}
