package memory

import (
	"context"
	"sync"

	"github.com/courselets/trail/pkg/domain"
)

// StateStore implements ports.StateStore in memory. Frames are copied on
// both Save and Load so callers never alias the stored value.
type StateStore struct {
	mu     sync.RWMutex
	states map[string]*domain.State
}

// NewStateStore creates an empty state store.
func NewStateStore() *StateStore {
	return &StateStore{
		states: make(map[string]*domain.State),
	}
}

// Save persists the frame by ID.
func (s *StateStore) Save(ctx context.Context, st *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[st.ID] = st.Clone()
	return nil
}

// Load retrieves an independent copy of a frame.
func (s *StateStore) Load(ctx context.Context, id string) (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[id]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return st.Clone(), nil
}

// Delete removes a frame. Linked frames keep their now-stale LinkID.
func (s *StateStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

// ListChildren returns frames whose ParentID equals id.
func (s *StateStore) ListChildren(ctx context.Context, id string) ([]*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.State
	for _, st := range s.states {
		if st.ParentID == id {
			out = append(out, st.Clone())
		}
	}
	return out, nil
}

// ListLinked returns frames whose LinkID equals id.
func (s *StateStore) ListLinked(ctx context.Context, id string) ([]*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.State
	for _, st := range s.states {
		if st.LinkID == id {
			out = append(out, st.Clone())
		}
	}
	return out, nil
}

// ListOrphans returns the owner's parentless, childless frames.
func (s *StateStore) ListOrphans(ctx context.Context, owner string) ([]*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	children := make(map[string]bool, len(s.states))
	for _, st := range s.states {
		if st.ParentID != "" {
			children[st.ParentID] = true
		}
	}

	var out []*domain.State
	for _, st := range s.states {
		if st.Owner == owner && st.ParentID == "" && !children[st.ID] {
			out = append(out, st.Clone())
		}
	}
	return out, nil
}
