package stack

import (
	"context"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/plugin"
)

// behavior resolves a node's registry key. Empty keys mean default
// behavior and resolve to nil.
func (s *Stack) behavior(node *domain.Node) (any, error) {
	if node.Behavior == "" {
		return nil, nil
	}
	return s.registry.Resolve(node.Behavior)
}

func (s *Stack) trans(r *domain.Request, st *domain.State, node *domain.Node) *plugin.Trans {
	return &plugin.Trans{
		Stack: s,
		R:     r,
		State: st,
		Node:  node,
		Input: r.Param("input"),
	}
}

// nodePath resolves the URL for a frame positioned at node: the
// behavior's PathMaker hook if present, else the node's static route,
// else "".
func (s *Stack) nodePath(ctx context.Context, r *domain.Request, st *domain.State, node *domain.Node) (string, error) {
	b, err := s.behavior(node)
	if err != nil {
		return "", err
	}
	if pm, ok := b.(plugin.PathMaker); ok {
		return pm.GetPath(ctx, s.trans(r, st, node))
	}
	if node.Path == "" {
		return "", nil
	}
	params := map[string]any{"state_id": st.ID}
	for k, v := range r.Params {
		params[k] = v
	}
	return s.ResolveRoute(node.Path, params)
}

// framePath resolves the URL for a frame's current node.
func (s *Stack) framePath(ctx context.Context, r *domain.Request, st *domain.State) (string, error) {
	node, err := s.graphs.GetNode(ctx, st.GraphID, st.Node)
	if err != nil {
		return "", err
	}
	return s.nodePath(ctx, r, st, node)
}

// nodeHelp resolves help text: the Helper hook, else static node help,
// else static graph-less empty string.
func (s *Stack) nodeHelp(ctx context.Context, r *domain.Request, st *domain.State, node *domain.Node) (string, error) {
	b, err := s.behavior(node)
	if err != nil {
		return "", err
	}
	if h, ok := b.(plugin.Helper); ok {
		help, err := h.GetHelp(ctx, s.trans(r, st, node))
		if err != nil {
			return "", err
		}
		if help != "" {
			return help, nil
		}
	}
	return node.Help, nil
}
