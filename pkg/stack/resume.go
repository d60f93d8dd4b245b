package stack

import (
	"context"
	"fmt"

	"github.com/courselets/trail/pkg/domain"
)

// Resume reattaches the session to an orphaned frame. Only the requesting
// user's own frames can be resumed (domain.ErrNotOwner otherwise), and
// only innermost frames: a frame with live children would orphan them if
// adopted directly (domain.ErrHasChildren).
func (s *Stack) Resume(ctx context.Context, r *domain.Request, stateID string) (string, error) {
	st, err := s.states.Load(ctx, stateID)
	if err != nil {
		return "", fmt.Errorf("resume %s: %w", stateID, err)
	}
	if st.Owner != r.User {
		return "", fmt.Errorf("resume %s: %w", stateID, domain.ErrNotOwner)
	}

	children, err := s.states.ListChildren(ctx, st.ID)
	if err != nil {
		return "", err
	}
	if len(children) > 0 {
		return "", fmt.Errorf("resume %s: %w", stateID, domain.ErrHasChildren)
	}

	if err := s.slot.Set(ctx, r.SessionKey, st.ID); err != nil {
		return "", err
	}
	s.emit(ctx, s.hooks.OnResume, domain.EventResume, st, "")
	s.logger.Debug("resumed state", "graph", st.Graph, "state_id", st.ID)

	return s.framePath(ctx, r, st)
}
