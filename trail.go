// Package trail is the high-level entry point for the engine. It wires
// stores, the behavior registry, the stack runtime, and the session
// manager into one assembly, defaulting every port to its in-memory
// implementation so a usable engine needs zero configuration.
package trail

import (
	"context"
	"log/slog"

	"github.com/courselets/trail/internal/logging"
	"github.com/courselets/trail/pkg/adapters/memory"
	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/graphspec"
	"github.com/courselets/trail/pkg/plugin"
	"github.com/courselets/trail/pkg/ports"
	"github.com/courselets/trail/pkg/schema"
	"github.com/courselets/trail/pkg/session"
	"github.com/courselets/trail/pkg/stack"
)

// Version is the release version of the engine.
const Version = "0.3.0"

// Engine bundles the runtime with its stores and registry.
type Engine struct {
	graphs     ports.GraphStore
	states     ports.StateStore
	activities ports.ActivityStore
	slot       ports.SessionSlot
	locker     ports.DistributedLocker
	registry   *plugin.Registry
	logger     *slog.Logger

	stackOpts   []stack.Option
	sessionOpts []session.Option

	stack   *stack.Stack
	manager *session.Manager
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraphStore overrides the in-memory graph store.
func WithGraphStore(s ports.GraphStore) Option {
	return func(e *Engine) { e.graphs = s }
}

// WithStateStore overrides the in-memory state store.
func WithStateStore(s ports.StateStore) Option {
	return func(e *Engine) { e.states = s }
}

// WithActivityStore overrides the in-memory activity store.
func WithActivityStore(s ports.ActivityStore) Option {
	return func(e *Engine) { e.activities = s }
}

// WithSessionSlot overrides the in-memory session slot.
func WithSessionSlot(s ports.SessionSlot) Option {
	return func(e *Engine) { e.slot = s }
}

// WithLocker enables distributed session locking.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) { e.locker = l }
}

// WithRegistry supplies a pre-populated behavior registry.
func WithRegistry(r *plugin.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets a structured logger for the whole assembly.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.stackOpts = append(e.stackOpts, stack.WithLifecycleHooks(hooks))
	}
}

// WithRouteResolver sets the symbolic-route resolver.
func WithRouteResolver(r ports.RouteResolver) Option {
	return func(e *Engine) {
		e.stackOpts = append(e.stackOpts, stack.WithRouteResolver(r))
	}
}

// WithEntityResolver sets the resolver for data-blob entity references.
func WithEntityResolver(r ports.EntityResolver) Option {
	return func(e *Engine) {
		e.stackOpts = append(e.stackOpts, stack.WithEntityResolver(r))
	}
}

// WithSchema registers a push-time state-data schema for a graph.
func WithSchema(graph string, sch schema.Schema) Option {
	return func(e *Engine) {
		e.stackOpts = append(e.stackOpts, stack.WithSchema(graph, sch))
	}
}

// WithSessionOptions forwards options to the session manager.
func WithSessionOptions(opts ...session.Option) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, opts...)
	}
}

// New assembles an Engine. Unconfigured ports default to the memory
// adapter, which makes New() sufficient for tests and single-process use.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.graphs == nil {
		e.graphs = memory.NewGraphStore()
	}
	if e.states == nil {
		e.states = memory.NewStateStore()
	}
	if e.activities == nil {
		e.activities = memory.NewActivityStore()
	}
	if e.slot == nil {
		e.slot = memory.NewSlot()
	}
	if e.registry == nil {
		e.registry = plugin.NewRegistry()
	}

	stackOpts := append([]stack.Option{stack.WithLogger(e.logger)}, e.stackOpts...)
	e.stack = stack.New(e.graphs, e.states, e.activities, e.slot, e.registry, stackOpts...)

	sessionOpts := append([]session.Option{session.WithLogger(e.logger)}, e.sessionOpts...)
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.manager = session.NewManager(e.stack, sessionOpts...)
	return e
}

// Registry returns the behavior registry for plugin registration.
func (e *Engine) Registry() *plugin.Registry {
	return e.registry
}

// Stack returns the raw runtime. Callers that serve concurrent sessions
// should go through Sessions instead.
func (e *Engine) Stack() *stack.Stack {
	return e.stack
}

// Sessions returns the lock-guarded session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.manager
}

// GraphStore exposes the graph store for deployment and inspection.
func (e *Engine) GraphStore() ports.GraphStore {
	return e.graphs
}

// StateStore exposes the state store for frame inspection.
func (e *Engine) StateStore() ports.StateStore {
	return e.states
}

// ActivityStore exposes the activity trail for reporting.
func (e *Engine) ActivityStore() ports.ActivityStore {
	return e.activities
}

// Deploy installs every graph from the given sources.
func (e *Engine) Deploy(ctx context.Context, owner string, sources ...graphspec.Source) ([]*domain.Graph, error) {
	return graphspec.DeployAll(ctx, e.graphs, e.registry, owner, sources, nil, e.logger)
}
