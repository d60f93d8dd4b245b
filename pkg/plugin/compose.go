package plugin

import (
	"context"
	"errors"

	"github.com/courselets/trail/pkg/domain"
)

// StaticEdge returns a NextEdgeFunc that always routes to the named node
// of the frame's own graph.
func StaticEdge(node string) NextEdgeFunc {
	return func(ctx context.Context, t *Trans, _ *domain.Edge) (*domain.Node, error) {
		return t.Stack.Node(ctx, t.State.GraphID, node)
	}
}

// LinkedNodeGuard wraps next with a precondition on the paired session:
// the transition only proceeds when the linked frame currently occupies
// one of the allowed nodes. Otherwise the edge routes to waitNode, and if
// the link is broken (pair detached or ended) it routes to the terminal
// node so the follower winds down instead of waiting forever.
func LinkedNodeGuard(next NextEdgeFunc, waitNode string, allowed ...string) NextEdgeFunc {
	return func(ctx context.Context, t *Trans, e *domain.Edge) (*domain.Node, error) {
		linked, err := t.Stack.LinkedState(ctx, t.State)
		if err != nil {
			if errors.Is(err, domain.ErrLinkBroken) {
				return t.Stack.Node(ctx, t.State.GraphID, domain.TerminalNodeName)
			}
			return nil, err
		}
		if !linked.NodeNameIsOneOf(allowed...) {
			return t.Stack.Node(ctx, t.State.GraphID, waitNode)
		}
		return next(ctx, t, e)
	}
}
