package stack

import (
	"context"
	"errors"
	"fmt"

	"github.com/courselets/trail/pkg/domain"
)

// Attach pairs a frame with another running frame (live teacher/student
// sessions). The relation is observational: the target is unaware of its
// followers and deleting it never cascades into them.
func (s *Stack) Attach(ctx context.Context, st *domain.State, linkID string) error {
	if _, err := s.states.Load(ctx, linkID); err != nil {
		if errors.Is(err, domain.ErrStateNotFound) {
			return fmt.Errorf("attach %s: %w", linkID, domain.ErrLinkBroken)
		}
		return err
	}
	st.LinkID = linkID
	return s.states.Save(ctx, st)
}

// Detach clears a frame's pairing.
func (s *Stack) Detach(ctx context.Context, st *domain.State) error {
	st.LinkID = ""
	return s.states.Save(ctx, st)
}

// LinkedState loads the frame st is attached to. A cleared or stale link
// (target popped or never existed) yields domain.ErrLinkBroken, which
// behaviors handle by winding down rather than erroring.
func (s *Stack) LinkedState(ctx context.Context, st *domain.State) (*domain.State, error) {
	if st.LinkID == "" {
		return nil, domain.ErrLinkBroken
	}
	linked, err := s.states.Load(ctx, st.LinkID)
	if errors.Is(err, domain.ErrStateNotFound) {
		return nil, domain.ErrLinkBroken
	}
	return linked, err
}

// FindLiveSessions returns all frames currently attached to the given
// frame, e.g. every student following a teacher's live session.
func (s *Stack) FindLiveSessions(ctx context.Context, stateID string) ([]*domain.State, error) {
	return s.states.ListLinked(ctx, stateID)
}
