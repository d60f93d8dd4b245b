package stack

import (
	"context"
	"fmt"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/plugin"
)

// Event drives a named transition on the session's current frame. An
// event with no matching outgoing edge is not an error: nothing changes
// and "" is returned, letting the caller fall through to default UI.
//
// When the transition lands on a terminal node the frame pops and control
// cascades to the parent, so the returned path always belongs to a live
// frame (or is "" once the stack drains).
func (s *Stack) Event(ctx context.Context, r *domain.Request, eventName string) (string, error) {
	cur, err := s.Current(ctx, r)
	if err != nil {
		return "", err
	}
	if cur == nil {
		return "", domain.ErrNoActivity
	}
	before := cur.ID

	path, err := s.EventOn(ctx, r, cur, eventName)
	if err != nil {
		return "", err
	}

	// A behavior hook may have pushed or popped underneath us; if the
	// session pointer moved, the new current frame's path wins.
	now, err := s.Current(ctx, r)
	if err != nil {
		return "", err
	}
	if now != nil && now.ID != before {
		if p, perr := s.framePath(ctx, r, now); perr == nil && p != "" {
			return p, nil
		}
	}
	return path, nil
}

// EventOn drives a named transition on a specific frame. Implements
// plugin.StackOps for start hooks that auto-advance.
func (s *Stack) EventOn(ctx context.Context, r *domain.Request, st *domain.State, eventName string) (string, error) {
	node, err := s.graphs.GetNode(ctx, st.GraphID, st.Node)
	if err != nil {
		return "", fmt.Errorf("event %s: current node: %w", eventName, err)
	}
	edges, err := s.graphs.GetEdges(ctx, st.GraphID, st.Node)
	if err != nil {
		return "", err
	}

	var edge *domain.Edge
	for i := range edges {
		if edges[i].Name == eventName {
			edge = &edges[i]
			break
		}
	}
	if edge == nil {
		s.logger.Debug("unhandled event", "event", eventName, "graph", st.Graph, "node", st.Node)
		return "", nil
	}

	b, err := s.behavior(node)
	if err != nil {
		return "", err
	}
	t := s.trans(r, st, node)

	if fs, ok := b.(plugin.InputFilters); ok {
		if filter := fs.InputFilters()[eventName]; filter != nil && !filter(t.Input) {
			s.logger.Debug("input rejected by edge filter", "event", eventName, "graph", st.Graph, "node", st.Node)
			return "", nil
		}
	}

	dest, err := s.destination(ctx, t, b, edge)
	if err != nil {
		return "", err
	}

	if err := s.recorder.NodeExited(ctx, st, eventName); err != nil {
		return "", err
	}
	s.emit(ctx, s.hooks.OnNodeLeave, domain.EventNodeLeave, st, eventName)

	st.Node = dest.Name
	if dest.Title != "" {
		st.Title = dest.Title
	}
	eventID, err := s.recorder.NodeEntered(ctx, st, dest)
	if err != nil {
		return "", err
	}
	st.ActivityEventID = eventID

	path, err := s.nodePath(ctx, r, st, dest)
	if err != nil {
		return "", err
	}
	st.Path = path

	if err := s.states.Save(ctx, st); err != nil {
		return "", fmt.Errorf("event %s: save state: %w", eventName, err)
	}
	s.emit(ctx, s.hooks.OnNodeEnter, domain.EventNodeEnter, st, eventName)

	if dest.Terminal {
		return s.popFrame(ctx, r, st, popEventName)
	}
	return path, nil
}

// destination resolves where an edge leads: a per-edge route override,
// then the behavior-wide router, then the edge's static target.
func (s *Stack) destination(ctx context.Context, t *plugin.Trans, b any, edge *domain.Edge) (*domain.Node, error) {
	if em, ok := b.(plugin.EdgeRoutes); ok {
		if fn := em.EdgeRoutes()[edge.Name]; fn != nil {
			return fn(ctx, t, edge)
		}
	}
	if er, ok := b.(plugin.EdgeRouter); ok {
		return er.NextEdge(ctx, t, edge)
	}
	dest, err := s.graphs.GetNode(ctx, t.State.GraphID, edge.ToNode)
	if err != nil {
		return nil, fmt.Errorf("edge %s: destination %s: %w", edge.Name, edge.ToNode, err)
	}
	return dest, nil
}
