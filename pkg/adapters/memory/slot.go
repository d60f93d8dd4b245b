package memory

import (
	"context"
	"sync"
)

// Slot implements ports.SessionSlot in memory.
type Slot struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewSlot creates an empty session slot store.
func NewSlot() *Slot {
	return &Slot{
		data: make(map[string]string),
	}
}

// Get returns the current frame ID for the session, or "".
func (s *Slot) Get(ctx context.Context, sessionKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[sessionKey], nil
}

// Set records the current frame ID for the session.
func (s *Slot) Set(ctx context.Context, sessionKey, stateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionKey] = stateID
	return nil
}

// Clear removes the pointer for the session.
func (s *Slot) Clear(ctx context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionKey)
	return nil
}
