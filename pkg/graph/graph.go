package graph

import (
	"fmt"
	"sort"
)

const (
	kindInputProxy  = "proxy:input"
	kindOutputProxy = "proxy:output"
)

type node struct {
	kind   string
	seq    int
	spec   OperatorSpec
	proxy  bool
	params Params
}

type pad struct {
	node NodeHandle
	port Port
}

// Graph is an in-memory Registry. It owns an input proxy (fed by the render
// source) and an output proxy (read by Render). It is not safe for
// concurrent use; the host serialises mutation and rendering.
type Graph struct {
	catalog Catalog
	nodes   map[NodeHandle]*node
	sources map[pad]NodeHandle
	seq     int

	input  NodeHandle
	output NodeHandle
}

// New creates an empty graph whose operators come from catalog.
func New(catalog Catalog) *Graph {
	g := &Graph{
		catalog: catalog,
		nodes:   make(map[NodeHandle]*node),
		sources: make(map[pad]NodeHandle),
	}
	g.input = g.add(&node{kind: kindInputProxy, proxy: true, spec: OperatorSpec{Source: true}})
	g.output = g.add(&node{kind: kindOutputProxy, proxy: true})
	return g
}

func (g *Graph) add(n *node) NodeHandle {
	h := newHandle()
	n.seq = g.seq
	g.seq++
	if n.params == nil {
		n.params = Params{}
	}
	g.nodes[h] = n
	return h
}

// Input returns the input proxy node.
func (g *Graph) Input() NodeHandle { return g.input }

// Output returns the output proxy node.
func (g *Graph) Output() NodeHandle { return g.output }

// Catalog returns the operator catalog the graph instantiates from.
func (g *Graph) Catalog() Catalog { return g.catalog }

func (g *Graph) Instantiate(kind string, construction Params) (NodeHandle, error) {
	spec, err := g.catalog.Lookup(kind)
	if err != nil {
		return NodeHandle{}, err
	}
	params := spec.defaults()
	for k, v := range construction {
		if !spec.declares(k) {
			return NodeHandle{}, fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParameter, kind, k)
		}
		params[k] = v
	}
	return g.add(&node{kind: kind, spec: spec, params: params}), nil
}

func (g *Graph) SetParam(h NodeHandle, name string, value any) error {
	n, err := g.lookup(h)
	if err != nil {
		return err
	}
	if !n.spec.declares(name) {
		return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParameter, n.kind, name)
	}
	n.params[name] = value
	return nil
}

func (g *Graph) Connect(src, dst NodeHandle, port Port) error {
	if _, err := g.lookup(src); err != nil {
		return err
	}
	if src == g.output {
		return fmt.Errorf("%w: output proxy has no output pad", ErrInvalidPort)
	}
	d, err := g.lookup(dst)
	if err != nil {
		return err
	}
	switch port {
	case PortInput:
		if d.spec.Source {
			return fmt.Errorf("%w: %s has no input pad", ErrInvalidPort, d.kind)
		}
	case PortAux:
		if !d.spec.Aux {
			return fmt.Errorf("%w: %s has no aux pad", ErrInvalidPort, d.kind)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPort, port)
	}
	g.sources[pad{dst, port}] = src
	return nil
}

func (g *Graph) Disconnect(e Edge) error {
	p := pad{e.To, e.Port}
	src, ok := g.sources[p]
	if !ok || src != e.From {
		return fmt.Errorf("%w: %s -> %s.%s", ErrUnknownEdge, e.From, e.To, e.Port)
	}
	delete(g.sources, p)
	return nil
}

// Remove deletes a node together with every edge touching it.
func (g *Graph) Remove(h NodeHandle) error {
	if _, err := g.lookup(h); err != nil {
		return err
	}
	if h == g.input || h == g.output {
		return fmt.Errorf("%w: proxies cannot be removed", ErrInvalidPort)
	}
	for p, src := range g.sources {
		if p.node == h || src == h {
			delete(g.sources, p)
		}
	}
	delete(g.nodes, h)
	return nil
}

func (g *Graph) lookup(h NodeHandle) (*node, error) {
	n, ok := g.nodes[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, h)
	}
	return n, nil
}

// Kind returns the operator kind of h.
func (g *Graph) Kind(h NodeHandle) (string, error) {
	n, err := g.lookup(h)
	if err != nil {
		return "", err
	}
	return n.kind, nil
}

// Params returns a copy of the current parameters of h.
func (g *Graph) Params(h NodeHandle) (Params, error) {
	n, err := g.lookup(h)
	if err != nil {
		return nil, err
	}
	return n.params.Clone(), nil
}

// Source returns the node feeding port of h, if any.
func (g *Graph) Source(h NodeHandle, port Port) (NodeHandle, bool) {
	src, ok := g.sources[pad{h, port}]
	return src, ok
}

// Nodes returns every node handle in instantiation order, proxies included.
func (g *Graph) Nodes() []NodeHandle {
	out := make([]NodeHandle, 0, len(g.nodes))
	for h := range g.nodes {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return g.nodes[out[i]].seq < g.nodes[out[j]].seq })
	return out
}

// Edges returns a snapshot of every edge, ordered by destination
// instantiation order and then port.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.sources))
	for p, src := range g.sources {
		out = append(out, Edge{From: src, To: p.node, Port: p.port})
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := g.nodes[out[i].To].seq, g.nodes[out[j].To].seq
		if si != sj {
			return si < sj
		}
		return out[i].Port < out[j].Port
	})
	return out
}

// EdgesFrom returns the edges leaving h.
func (g *Graph) EdgesFrom(h NodeHandle) []Edge {
	var out []Edge
	for _, e := range g.Edges() {
		if e.From == h {
			out = append(out, e)
		}
	}
	return out
}
