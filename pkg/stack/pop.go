package stack

import (
	"context"
	"errors"
	"fmt"

	"github.com/courselets/trail/pkg/domain"
)

// popEventName is the transition re-driven on the parent frame when a
// child pops, so callers can declare a "return" edge to resume after a
// nested activity.
const popEventName = "return"

// CancelEventName aborts a pushed sub-activity immediately instead of
// letting it run to its terminal node, firing an "exceptCancel" edge on
// the parent if one is declared.
const CancelEventName = "exceptCancel"

// Pop terminates the session's current frame and returns control to its
// parent. eventName defaults to "return" and is re-driven on the parent,
// enabling caller-resumes-after-subtask patterns. With no parent the
// stack drains: the session slot is cleared and "" returned.
func (s *Stack) Pop(ctx context.Context, r *domain.Request, eventName string) (string, error) {
	cur, err := s.Current(ctx, r)
	if err != nil {
		return "", err
	}
	if cur == nil {
		return "", domain.ErrNoActivity
	}
	if eventName == "" {
		eventName = popEventName
	}
	return s.popFrame(ctx, r, cur, eventName)
}

func (s *Stack) popFrame(ctx context.Context, r *domain.Request, st *domain.State, eventName string) (string, error) {
	if err := s.recorder.NodeExited(ctx, st, eventName); err != nil {
		return "", err
	}
	if err := s.states.Delete(ctx, st.ID); err != nil {
		return "", fmt.Errorf("pop: delete state %s: %w", st.ID, err)
	}
	s.emit(ctx, s.hooks.OnPop, domain.EventPop, st, eventName)
	s.logger.Debug("popped state", "graph", st.Graph, "state_id", st.ID, "parent_id", st.ParentID)

	slotID, err := s.slot.Get(ctx, r.SessionKey)
	if err != nil {
		return "", err
	}

	if st.ParentID == "" {
		if err := s.recorder.EndLog(ctx, st.ActivityID); err != nil {
			return "", err
		}
		if slotID == st.ID {
			if err := s.slot.Clear(ctx, r.SessionKey); err != nil {
				return "", err
			}
		}
		return "", nil
	}

	parent, err := s.states.Load(ctx, st.ParentID)
	if errors.Is(err, domain.ErrStateNotFound) {
		// Parent vanished underneath us; treat as a drained stack.
		s.logger.Warn("pop found no parent state", "state_id", st.ID, "parent_id", st.ParentID)
		if slotID == st.ID {
			if err := s.slot.Clear(ctx, r.SessionKey); err != nil {
				return "", err
			}
		}
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if slotID == st.ID {
		if err := s.slot.Set(ctx, r.SessionKey, parent.ID); err != nil {
			return "", err
		}
	}

	path, err := s.EventOn(ctx, r, parent, eventName)
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}
	// Parent declares no edge for this event; land on its current node.
	return s.framePath(ctx, r, parent)
}
