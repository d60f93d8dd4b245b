package ports

import "context"

// RouteResolver maps a node's symbolic path to a concrete URL. The hosting
// web framework provides this; the engine treats it as opaque.
type RouteResolver interface {
	Resolve(route string, params map[string]any) (string, error)
}

// RouteResolverFunc adapts a function to RouteResolver.
type RouteResolverFunc func(route string, params map[string]any) (string, error)

func (f RouteResolverFunc) Resolve(route string, params map[string]any) (string, error) {
	return f(route, params)
}

// EntityResolver looks up external domain entities referenced from a
// frame's data blob as (label, id) pairs. Lookup must return an error when
// the entity no longer exists.
type EntityResolver interface {
	Lookup(ctx context.Context, label, id string) (any, error)
}
