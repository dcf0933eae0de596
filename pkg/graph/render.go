package graph

import (
	"context"
	"errors"
	"fmt"
	"image"
)

var ErrEmptyRender = errors.New("render produced no image")

// Render pulls src through the graph from the output proxy and returns the
// result. Each node is evaluated at most once per call; nodes that are not
// reachable from the output proxy are never evaluated.
func (g *Graph) Render(ctx context.Context, src image.Image) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	r := &renderer{
		g:     g,
		ctx:   ctx,
		src:   src,
		req:   Request{Bounds: src.Bounds()},
		done:  make(map[NodeHandle]image.Image),
		stack: make(map[NodeHandle]bool),
	}
	out, err := r.eval(g.output)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrEmptyRender
	}
	return out, nil
}

type renderer struct {
	g     *Graph
	ctx   context.Context
	src   image.Image
	req   Request
	done  map[NodeHandle]image.Image
	stack map[NodeHandle]bool
}

func (r *renderer) eval(h NodeHandle) (image.Image, error) {
	if img, ok := r.done[h]; ok {
		return img, nil
	}
	if r.stack[h] {
		return nil, fmt.Errorf("%w at %s", ErrCycle, h)
	}
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	n, err := r.g.lookup(h)
	if err != nil {
		return nil, err
	}
	r.stack[h] = true
	defer delete(r.stack, h)

	var in, aux image.Image
	if src, ok := r.g.sources[pad{h, PortInput}]; ok {
		if in, err = r.eval(src); err != nil {
			return nil, err
		}
	}
	if src, ok := r.g.sources[pad{h, PortAux}]; ok {
		if aux, err = r.eval(src); err != nil {
			return nil, err
		}
	}

	var out image.Image
	switch {
	case h == r.g.input:
		out = r.src
	case n.proxy:
		out = in
	default:
		out, err = n.spec.Op.Process(r.req, in, aux, n.params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.kind, err)
		}
	}
	r.done[h] = out
	return out, nil
}
