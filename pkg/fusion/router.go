package fusion

import (
	"fmt"

	"github.com/Fepozopo/fusion/pkg/graph"
)

// Mode returns the active blend mode.
func (p *Pipeline) Mode() BlendMode { return p.active }

// ActiveNode returns the palette node currently in the variable slot.
func (p *Pipeline) ActiveNode() *OperatorNode { return p.activeNode }

// SetMode routes the variable slot through the palette node bound to m.
// A mode outside the palette falls back to the variant default. Selecting
// the already active mode issues no registry call.
func (p *Pipeline) SetMode(m BlendMode) error {
	if _, ok := p.palette[m]; !ok {
		Logger().Debug("fusion: mode clamped", "requested", m.String(), "default", p.variant.DefaultMode.String())
		m = p.variant.DefaultMode
	}
	if p.activeNode != nil && p.active == m {
		return nil
	}
	return p.route(m)
}

// route moves the slot to the palette node of m. The previous occupant is
// disconnected on all three of its slot edges so it is left isolated. If
// the registry fails partway, the edges changed so far are put back and the
// previous mode stays active.
func (p *Pipeline) route(m BlendMode) error {
	next := p.palette[m]
	var removed []graph.Edge
	if old := p.activeNode; old != nil {
		for _, e := range p.slotEdges(old) {
			if err := p.reg.Disconnect(e); err != nil {
				p.restore(nil, removed)
				return fmt.Errorf("disconnect %s: %w", old.Role, err)
			}
			removed = append(removed, e)
		}
	}
	var added []graph.Edge
	for _, e := range p.slotEdges(next) {
		if err := p.reg.Connect(e.From, e.To, e.Port); err != nil {
			p.restore(added, removed)
			return fmt.Errorf("connect %s: %w", next.Role, err)
		}
		added = append(added, e)
	}
	prev := p.active
	p.active, p.activeNode = m, next
	Logger().Debug("fusion: mode routed", "from", prev.String(), "to", m.String())
	return nil
}

// restore undoes a partial route: added edges are dropped and removed ones
// reconnected. Failures here are logged; the original error is what the
// caller sees.
func (p *Pipeline) restore(added, removed []graph.Edge) {
	for _, e := range added {
		if err := p.reg.Disconnect(e); err != nil {
			Logger().Warn("fusion: rollback disconnect failed", "port", string(e.Port), "err", err)
		}
	}
	for _, e := range removed {
		if err := p.reg.Connect(e.From, e.To, e.Port); err != nil {
			Logger().Warn("fusion: rollback connect failed", "port", string(e.Port), "err", err)
		}
	}
}

// slotEdges returns the edges that attach n to the variable slot: the
// chain input, the colour aux input and the downstream output.
func (p *Pipeline) slotEdges(n *OperatorNode) []graph.Edge {
	return []graph.Edge{
		{From: p.upstream.Handle, To: n.Handle, Port: graph.PortInput},
		{From: p.color.Handle, To: n.Handle, Port: graph.PortAux},
		{From: n.Handle, To: p.downstream.Handle, Port: p.slotPort},
	}
}
