package stack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courselets/trail/internal/logging"
	"github.com/courselets/trail/pkg/activity"
	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/plugin"
	"github.com/courselets/trail/pkg/ports"
	"github.com/courselets/trail/pkg/schema"
)

// Stack is the per-request FSM runtime controller.
type Stack struct {
	graphs   ports.GraphStore
	states   ports.StateStore
	recorder *activity.Recorder
	slot     ports.SessionSlot
	registry *plugin.Registry
	routes   ports.RouteResolver
	entities ports.EntityResolver
	schemas  map[string]schema.Schema
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

var _ plugin.StackOps = (*Stack)(nil)

// Option configures a Stack.
type Option func(*Stack)

// WithRouteResolver sets the symbolic-route resolver. Without one, node
// paths are returned verbatim.
func WithRouteResolver(r ports.RouteResolver) Option {
	return func(s *Stack) { s.routes = r }
}

// WithEntityResolver sets the resolver for data-blob entity references.
func WithEntityResolver(r ports.EntityResolver) Option {
	return func(s *Stack) { s.entities = r }
}

// WithSchema registers a push-time state-data schema for a graph.
func WithSchema(graph string, sch schema.Schema) Option {
	return func(s *Stack) { s.schemas[graph] = sch }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Stack) { s.hooks = hooks }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stack) { s.logger = logger }
}

// New creates a Stack over the given stores and behavior registry.
func New(graphs ports.GraphStore, states ports.StateStore, activities ports.ActivityStore, slot ports.SessionSlot, registry *plugin.Registry, opts ...Option) *Stack {
	s := &Stack{
		graphs:   graphs,
		states:   states,
		recorder: activity.NewRecorder(activities),
		slot:     slot,
		registry: registry,
		schemas:  make(map[string]schema.Schema),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the session's current frame, or nil when there is no
// ongoing activity. A slot pointing at a deleted frame is cleared and
// treated as no activity.
func (s *Stack) Current(ctx context.Context, r *domain.Request) (*domain.State, error) {
	id, err := s.slot.Get(ctx, r.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("read session slot: %w", err)
	}
	if id == "" {
		return nil, nil
	}

	st, err := s.states.Load(ctx, id)
	if errors.Is(err, domain.ErrStateNotFound) {
		s.logger.Info("session slot pointed at a deleted state, clearing",
			"session", r.SessionKey, "state_id", id)
		if cerr := s.slot.Clear(ctx, r.SessionKey); cerr != nil {
			return nil, fmt.Errorf("clear stale session slot: %w", cerr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// CurrentURL returns the path of the current frame, or "" when there is
// no ongoing activity.
func (s *Stack) CurrentURL(ctx context.Context, r *domain.Request) (string, error) {
	st, err := s.Current(ctx, r)
	if err != nil || st == nil {
		return "", err
	}
	return s.framePath(ctx, r, st)
}

// Help returns the help text for the current frame's node, or "" when
// neither the behavior nor the node supplies any.
func (s *Stack) Help(ctx context.Context, r *domain.Request) (string, error) {
	st, err := s.Current(ctx, r)
	if err != nil || st == nil {
		return "", err
	}
	node, err := s.graphs.GetNode(ctx, st.GraphID, st.Node)
	if err != nil {
		return "", err
	}
	return s.nodeHelp(ctx, r, st, node)
}

// Options returns the current node's outgoing edges flagged for display.
func (s *Stack) Options(ctx context.Context, r *domain.Request) ([]domain.Edge, error) {
	st, err := s.Current(ctx, r)
	if err != nil || st == nil {
		return nil, err
	}
	edges, err := s.graphs.GetEdges(ctx, st.GraphID, st.Node)
	if err != nil {
		return nil, err
	}
	var out []domain.Edge
	for _, e := range edges {
		if e.ShowOption {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListOrphans returns the user's abandoned activities: parentless,
// childless frames eligible for Resume.
func (s *Stack) ListOrphans(ctx context.Context, r *domain.Request) ([]*domain.State, error) {
	return s.states.ListOrphans(ctx, r.User)
}

// Node implements plugin.StackOps.
func (s *Stack) Node(ctx context.Context, graphID, name string) (*domain.Node, error) {
	return s.graphs.GetNode(ctx, graphID, name)
}

// ResolveRoute implements plugin.StackOps.
func (s *Stack) ResolveRoute(route string, params map[string]any) (string, error) {
	if s.routes == nil {
		return route, nil
	}
	return s.routes.Resolve(route, params)
}

// LookupEntity implements plugin.StackOps.
func (s *Stack) LookupEntity(ctx context.Context, label, id string) (any, error) {
	if s.entities == nil {
		return nil, fmt.Errorf("no entity resolver configured")
	}
	return s.entities.Lookup(ctx, label, id)
}

func (s *Stack) emit(ctx context.Context, fn func(context.Context, *domain.StackEvent), typ domain.EventType, st *domain.State, trigger string) {
	if fn == nil {
		return
	}
	fn(ctx, &domain.StackEvent{
		Timestamp: time.Now().UTC(),
		Type:      typ,
		StateID:   st.ID,
		Graph:     st.Graph,
		Node:      st.Node,
		Trigger:   trigger,
	})
}
