// Package activity maintains the audit trail: one ActivityLog per
// top-level session, one ActivityEvent per visit to a logged node.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/ports"
)

// Recorder wraps an ActivityStore with the open/close bookkeeping the
// stack runtime needs around transitions.
//
// Re-entering a logged node over a self-loop edge closes the open event
// and opens a fresh one: every visit is a separate row, so time spent per
// visit stays measurable.
type Recorder struct {
	store ports.ActivityStore
}

// NewRecorder creates a recorder on the given store.
func NewRecorder(store ports.ActivityStore) *Recorder {
	return &Recorder{store: store}
}

// StartLog opens an ActivityLog for a fresh top-level session.
func (r *Recorder) StartLog(ctx context.Context, graph, course, owner string) (*domain.ActivityLog, error) {
	l := &domain.ActivityLog{
		ID:        uuid.NewString(),
		Graph:     graph,
		Course:    course,
		Owner:     owner,
		StartedAt: time.Now().UTC(),
	}
	if err := r.store.SaveLog(ctx, l); err != nil {
		return nil, fmt.Errorf("start activity log: %w", err)
	}
	return l, nil
}

// EndLog closes an ActivityLog. Unknown IDs are ignored; the audit trail
// must never block a pop.
func (r *Recorder) EndLog(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	l, err := r.store.GetLog(ctx, id)
	if err != nil {
		return nil
	}
	if l.EndedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	l.EndedAt = &now
	return r.store.SaveLog(ctx, l)
}

// NodeEntered opens an ActivityEvent if the node records visits. It
// returns the new event ID, or "" when the node is not logged.
func (r *Recorder) NodeEntered(ctx context.Context, s *domain.State, n *domain.Node) (string, error) {
	if !n.Log || s.ActivityID == "" {
		return "", nil
	}
	e := &domain.ActivityEvent{
		ID:         uuid.NewString(),
		ActivityID: s.ActivityID,
		Node:       n.Name,
		Owner:      s.Owner,
		StateID:    s.ID,
		StartedAt:  time.Now().UTC(),
	}
	if err := r.store.SaveEvent(ctx, e); err != nil {
		return "", fmt.Errorf("open activity event: %w", err)
	}
	return e.ID, nil
}

// NodeExited closes the frame's open ActivityEvent, recording the event
// name that caused the exit. Missing or already-closed events are ignored.
func (r *Recorder) NodeExited(ctx context.Context, s *domain.State, exitEvent string) error {
	if s.ActivityEventID == "" {
		return nil
	}
	e, err := r.store.GetEvent(ctx, s.ActivityEventID)
	if err != nil {
		return nil
	}
	if e.EndedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	e.EndedAt = &now
	e.ExitEvent = exitEvent
	return r.store.SaveEvent(ctx, e)
}
