package graph

import (
	"image/color"
	"maps"
)

// Params holds operator parameter values keyed by parameter name. Values are
// float64, int, bool, string or color.Color.
type Params map[string]any

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

// Float returns the named value as a float64, or def when missing or not numeric.
func (p Params) Float(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return def
	}
}

// Int returns the named value as an int, or def when missing or not numeric.
func (p Params) Int(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

// Color returns the named value as non-premultiplied RGBA, or def.
func (p Params) Color(name string, def color.NRGBA) color.NRGBA {
	c, ok := p[name].(color.Color)
	if !ok {
		return def
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
