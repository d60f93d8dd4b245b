package memory

import (
	"context"
	"sync"

	"github.com/courselets/trail/pkg/domain"
)

// ActivityStore implements ports.ActivityStore in memory.
type ActivityStore struct {
	mu     sync.RWMutex
	logs   map[string]domain.ActivityLog
	events map[string]domain.ActivityEvent
}

// NewActivityStore creates an empty activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		logs:   make(map[string]domain.ActivityLog),
		events: make(map[string]domain.ActivityEvent),
	}
}

// SaveLog persists an activity log by ID.
func (s *ActivityStore) SaveLog(ctx context.Context, l *domain.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[l.ID] = *l
	return nil
}

// GetLog retrieves an activity log.
func (s *ActivityStore) GetLog(ctx context.Context, id string) (*domain.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return &l, nil
}

// SaveEvent persists an activity event by ID.
func (s *ActivityStore) SaveEvent(ctx context.Context, e *domain.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = *e
	return nil
}

// GetEvent retrieves an activity event.
func (s *ActivityStore) GetEvent(ctx context.Context, id string) (*domain.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return &e, nil
}
