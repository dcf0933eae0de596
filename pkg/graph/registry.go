// Package graph is the operator registry a filter composes its pipeline from.
//
// A Registry hands out opaque node handles for named operator kinds and
// exposes exactly four mutation primitives: Instantiate, SetParam, Connect
// and Disconnect. Graph is the in-memory implementation used by the CLI and
// the tests; it can also render the wired graph through the operator
// kernels registered in its Catalog.
package graph

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUnknownOperator  = errors.New("unknown operator kind")
	ErrUnknownParameter = errors.New("unknown operator parameter")
	ErrUnknownNode      = errors.New("unknown node")
	ErrUnknownEdge      = errors.New("unknown edge")
	ErrInvalidPort      = errors.New("invalid port")
	ErrCycle            = errors.New("graph contains a cycle")
)

// NodeHandle identifies one instantiated operator. The zero handle is never
// issued by a Registry.
type NodeHandle uuid.UUID

func newHandle() NodeHandle { return NodeHandle(uuid.New()) }

func (h NodeHandle) String() string { return uuid.UUID(h).String() }

// IsZero reports whether h is the zero handle.
func (h NodeHandle) IsZero() bool { return uuid.UUID(h) == uuid.Nil }

// Port names a node input pad.
type Port string

const (
	PortInput Port = "input"
	PortAux   Port = "aux"
)

// Edge connects the output of From to the Port pad of To.
type Edge struct {
	From NodeHandle
	To   NodeHandle
	Port Port
}

// Registry is the complete surface a pipeline needs from its environment.
type Registry interface {
	// Instantiate creates a node of the given kind. construction holds
	// parameters that are fixed for the node's lifetime.
	Instantiate(kind string, construction Params) (NodeHandle, error)
	SetParam(h NodeHandle, name string, value any) error
	// Connect links src's output to dst's port, replacing any previous
	// source of that port.
	Connect(src, dst NodeHandle, port Port) error
	Disconnect(e Edge) error
}
