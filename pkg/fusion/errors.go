package fusion

import "errors"

var (
	// ErrInvalidVariant reports a malformed static topology.
	ErrInvalidVariant = errors.New("invalid pipeline variant")
	// ErrUnknownRole reports an edge, slot or binding naming a node the
	// variant does not declare.
	ErrUnknownRole = errors.New("unknown node role")
	// ErrUnknownParameter reports a parameter name or id without a binding.
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrDetached         = errors.New("filter is detached")
)
