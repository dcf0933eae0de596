package cli

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/Fepozopo/fusion/pkg/fusion"
	"github.com/Fepozopo/fusion/pkg/stdimg"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeFloat ParamType = "float"
	ParamTypeColor ParamType = "color"
	ParamTypeEnum  ParamType = "enum"
)

// ValidationRule is a machine-friendly representation of the constraints
// the CLI checks before a value reaches the filter.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	EnumOptions []string  `json:"enumOptions,omitempty"` // valid when Type == ParamTypeEnum
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

// parsePercentValue parses a percent string like "3%" or a bare number and returns numeric string.
func parsePercentValue(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		raw := strings.TrimSuffix(s, "%")
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", fmt.Errorf("invalid percent value: %q", s)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	// bare number
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "", fmt.Errorf("invalid percent/float value: %q", s)
	}
	return s, nil
}

// RuleFor builds the validation rule of one declared parameter.
func RuleFor(v *fusion.Variant, ps fusion.ParamSpec) ValidationRule {
	r := ValidationRule{Hint: ps.Description}
	switch ps.Kind {
	case fusion.ParamColor:
		r.Type = ParamTypeColor
		r.Example = "#ff8800 or a colour name"
		if c, ok := ps.Default.(color.Color); ok {
			r.Example = stdimg.FormatColor(c)
		}
	case fusion.ParamEnum:
		r.Type = ParamTypeEnum
		for _, m := range v.Modes() {
			r.EnumOptions = append(r.EnumOptions, m.String())
		}
		r.Example = v.DefaultMode.String()
	default:
		r.Type = ParamTypeFloat
		lo, hi := ps.Min, ps.Max
		r.Min, r.Max = &lo, &hi
		if f, ok := ps.Default.(float64); ok {
			r.Example = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return r
}

// RulesForVariant returns the rules of every declared parameter keyed by name.
func RulesForVariant(v *fusion.Variant) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(v.Params))
	for _, ps := range v.Params {
		rules[ps.Name] = RuleFor(v, ps)
	}
	return rules
}

// Tooltip produces a one-paragraph help text for a declared parameter.
func Tooltip(v *fusion.Variant, ps fusion.ParamSpec) string {
	var sb strings.Builder
	label := ps.Label
	if label == "" {
		label = ps.Name
	}
	sb.WriteString(fmt.Sprintf("%s (%s)", label, ps.Name))
	if ps.Description != "" {
		sb.WriteString(": " + ps.Description)
	}
	r := RuleFor(v, ps)
	switch r.Type {
	case ParamTypeFloat:
		sb.WriteString(fmt.Sprintf(" [%g..%g]", *r.Min, *r.Max))
	case ParamTypeEnum:
		sb.WriteString(" [" + strings.Join(r.EnumOptions, ", ") + "]")
	}
	if r.Example != "" {
		sb.WriteString(" (default: " + r.Example + ")")
	}
	return sb.String()
}

// NormalizeValue parses and range-checks raw for the named parameter of v
// and returns the typed value the filter expects: float64, color.NRGBA or
// fusion.BlendMode.
func NormalizeValue(v *fusion.Variant, name, raw string) (any, error) {
	ps, ok := v.Param(name)
	if !ok {
		return nil, fmt.Errorf("unknown parameter: %s", name)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("parameter %s: empty value", name)
	}
	vr := RuleFor(v, ps)
	switch vr.Type {
	case ParamTypeFloat:
		n, err := parsePercentValue(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		f, _ := strconv.ParseFloat(n, 64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("parameter %s: %q is not a finite number", name, raw)
		}
		if vr.Min != nil && f < *vr.Min {
			return nil, fmt.Errorf("parameter %s: %v < min %v", name, f, *vr.Min)
		}
		if vr.Max != nil && f > *vr.Max {
			return nil, fmt.Errorf("parameter %s: %v > max %v", name, f, *vr.Max)
		}
		return f, nil
	case ParamTypeColor:
		c, err := stdimg.ParseColor(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		return c, nil
	case ParamTypeEnum:
		m, ok := fusion.ParseBlendMode(raw)
		if !ok {
			return nil, fmt.Errorf("parameter %s: unknown mode %q", name, raw)
		}
		for _, allowed := range v.Modes() {
			if allowed == m {
				return m, nil
			}
		}
		return nil, fmt.Errorf("parameter %s: mode %s is not offered by %s", name, m, v.Name)
	default:
		return nil, fmt.Errorf("parameter %s: unsupported param type %q", name, vr.Type)
	}
}
