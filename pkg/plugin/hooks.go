package plugin

import (
	"context"

	"github.com/courselets/trail/pkg/domain"
)

// StackOps is the slice of the stack runtime exposed to behaviors. It is
// deliberately narrow: behaviors may start nested activities, observe a
// paired session, and resolve graph nodes, routes, and entities, but they
// never touch stores directly.
type StackOps interface {
	// Push starts a nested activity on top of the current frame and
	// returns the resulting path.
	Push(ctx context.Context, r *domain.Request, graph string, stateData map[string]any) (string, error)

	// EventOn drives a named transition on a specific frame. Start hooks
	// use it to advance past a purely computational START node.
	EventOn(ctx context.Context, r *domain.Request, s *domain.State, eventName string) (string, error)

	// LinkedState loads the frame s.LinkID points at. Returns
	// domain.ErrLinkBroken when the target is gone.
	LinkedState(ctx context.Context, s *domain.State) (*domain.State, error)

	// Attach pairs s with another running frame. The association is
	// observational only; many frames may attach to the same target.
	Attach(ctx context.Context, s *domain.State, linkID string) error

	// Detach clears the pairing.
	Detach(ctx context.Context, s *domain.State) error

	// Node loads a node definition from the graph store by graph
	// generation ID.
	Node(ctx context.Context, graphID, name string) (*domain.Node, error)

	// ResolveRoute maps a symbolic route to a concrete URL.
	ResolveRoute(route string, params map[string]any) (string, error)

	// LookupEntity resolves a data-blob reference to its entity.
	LookupEntity(ctx context.Context, label, id string) (any, error)
}

// Trans is the context handed to every hook invocation.
type Trans struct {
	Stack StackOps
	R     *domain.Request
	State *domain.State
	Node  *domain.Node

	// Input carries the event's selection value, if any.
	Input any
}

// NextEdgeFunc picks the destination node for an edge at transition time.
type NextEdgeFunc func(ctx context.Context, t *Trans, e *domain.Edge) (*domain.Node, error)

// FilterFunc validates a selection value before an edge may fire.
type FilterFunc func(value any) bool

// Starter runs when a frame is pushed onto its start node. If handled is
// true the returned path overrides the default (the hook may itself have
// advanced the frame or pushed a nested activity).
type Starter interface {
	StartEvent(ctx context.Context, t *Trans) (path string, handled bool, err error)
}

// PathMaker supplies the frame's path when the node has no static route.
type PathMaker interface {
	GetPath(ctx context.Context, t *Trans) (string, error)
}

// Helper supplies dynamic help text, overriding the node's static help.
type Helper interface {
	GetHelp(ctx context.Context, t *Trans) (string, error)
}

// EdgeRouter overrides the static destination of every outgoing edge.
type EdgeRouter interface {
	NextEdge(ctx context.Context, t *Trans, e *domain.Edge) (*domain.Node, error)
}

// EdgeRoutes supplies per-edge destination overrides keyed by edge name.
// A name present here takes precedence over EdgeRouter.
type EdgeRoutes interface {
	EdgeRoutes() map[string]NextEdgeFunc
}

// InputFilters supplies per-edge selection validators keyed by edge name.
// A filter returning false blocks the transition without mutating state.
type InputFilters interface {
	InputFilters() map[string]FilterFunc
}
