package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps behavior keys to their implementations.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		behaviors: make(map[string]any),
	}
}

// Register adds a behavior under key. Registering the same key twice
// overwrites, which lets tests swap implementations.
func (r *Registry) Register(key string, behavior any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[key] = behavior
}

// Resolve returns the behavior for key.
func (r *Registry) Resolve(key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.behaviors[key]
	if !ok {
		return nil, fmt.Errorf("behavior not registered: %s", key)
	}
	return b, nil
}

// Validate checks that every non-empty key resolves. Deploy calls this so
// a graph referencing a missing behavior fails before installation.
func (r *Registry) Validate(keys ...string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := r.behaviors[key]; !ok {
			return fmt.Errorf("behavior not registered: %s", key)
		}
	}
	return nil
}

// Keys returns all registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.behaviors))
	for k := range r.behaviors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
