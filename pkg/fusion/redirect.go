package fusion

import (
	"fmt"
	"sort"
)

// Binding forwards one external parameter to one internal node parameter.
type Binding struct {
	Param  ParamID
	Name   string
	Target Role
	Key    string
}

// RedirectTable is the immutable set of bindings of one pipeline.
type RedirectTable struct {
	byID   map[ParamID]Binding
	byName map[string]ParamID
}

// NewRedirectTable builds a table. Duplicate ids or names and bindings
// without a target are configuration errors.
func NewRedirectTable(bindings ...Binding) (*RedirectTable, error) {
	t := &RedirectTable{
		byID:   make(map[ParamID]Binding, len(bindings)),
		byName: make(map[string]ParamID, len(bindings)),
	}
	for _, b := range bindings {
		if b.Target == "" || b.Key == "" {
			return nil, fmt.Errorf("%w: binding %q has no target", ErrInvalidVariant, b.Name)
		}
		if _, dup := t.byID[b.Param]; dup {
			return nil, fmt.Errorf("%w: parameter %d bound twice", ErrInvalidVariant, b.Param)
		}
		if _, dup := t.byName[b.Name]; dup {
			return nil, fmt.Errorf("%w: parameter %q bound twice", ErrInvalidVariant, b.Name)
		}
		t.byID[b.Param] = b
		t.byName[b.Name] = b.Param
	}
	return t, nil
}

// tableFor collects the bindings declared by v. The mode parameter and any
// declaration without a target stay out of the table.
func tableFor(v *Variant) (*RedirectTable, error) {
	var bs []Binding
	for _, p := range v.Params {
		if p.ID == ParamBlendMode {
			continue
		}
		bs = append(bs, Binding{Param: p.ID, Name: p.Name, Target: p.Target, Key: p.Key})
	}
	return NewRedirectTable(bs...)
}

// Lookup returns the binding for id.
func (t *RedirectTable) Lookup(id ParamID) (Binding, bool) {
	b, ok := t.byID[id]
	return b, ok
}

// Resolve maps an external name to its id.
func (t *RedirectTable) Resolve(name string) (ParamID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Bindings returns every binding ordered by id.
func (t *RedirectTable) Bindings() []Binding {
	out := make([]Binding, 0, len(t.byID))
	for _, b := range t.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Param < out[j].Param })
	return out
}

// ApplyBinding writes value into the node parameter bound to id. The value
// is assumed to be validated already; no range checks happen here.
func (p *Pipeline) ApplyBinding(t *RedirectTable, id ParamID, value any) error {
	b, ok := t.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownParameter, id)
	}
	n, ok := p.nodes[b.Target]
	if !ok || n.proxy {
		return fmt.Errorf("%w: %q bound to %q", ErrUnknownRole, b.Name, b.Target)
	}
	if err := p.reg.SetParam(n.Handle, b.Key, value); err != nil {
		return fmt.Errorf("set %s (%s.%s): %w", b.Name, b.Target, b.Key, err)
	}
	n.params[b.Key] = value
	Logger().Debug("fusion: parameter", "name", b.Name, "node", string(b.Target), "key", b.Key, "value", value)
	return nil
}
