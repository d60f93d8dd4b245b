package stack

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/plugin"
	"github.com/courselets/trail/pkg/schema"
)

// Push starts a new activity on the named graph, stacked on top of the
// session's current frame if one exists. The new frame inherits the
// parent's activity log, or opens a fresh one at the root. Returns the
// path to render for the new frame.
func (s *Stack) Push(ctx context.Context, r *domain.Request, graphName string, stateData map[string]any) (string, error) {
	g, err := s.graphs.GetGraph(ctx, graphName)
	if err != nil {
		return "", fmt.Errorf("push %s: %w", graphName, err)
	}

	if sch, ok := s.schemas[graphName]; ok {
		if err := schema.Validate(sch, stateData); err != nil {
			return "", fmt.Errorf("push %s: invalid state data: %w", graphName, err)
		}
	}

	start, err := s.graphs.GetNode(ctx, g.ID, g.StartNode)
	if err != nil {
		return "", fmt.Errorf("push %s: start node: %w", graphName, err)
	}

	parent, err := s.Current(ctx, r)
	if err != nil {
		return "", err
	}

	st := &domain.State{
		ID:        uuid.NewString(),
		Graph:     g.Name,
		GraphID:   g.ID,
		Node:      start.Name,
		Owner:     r.User,
		Title:     g.Title,
		HideTabs:  g.HideTabs,
		HideLinks: g.HideLinks,
		HideNav:   g.HideNav,
		Data:      make(map[string]any, len(stateData)),
		CreatedAt: time.Now().UTC(),
	}
	for k, v := range stateData {
		st.Data[k] = v
	}
	if start.Title != "" {
		st.Title = start.Title
	}

	if parent != nil {
		st.ParentID = parent.ID
		st.ActivityID = parent.ActivityID
	} else {
		course, _ := r.Param("course").(string)
		log, err := s.recorder.StartLog(ctx, g.Name, course, r.User)
		if err != nil {
			return "", err
		}
		st.ActivityID = log.ID
	}

	eventID, err := s.recorder.NodeEntered(ctx, st, start)
	if err != nil {
		return "", err
	}
	st.ActivityEventID = eventID

	path, err := s.nodePath(ctx, r, st, start)
	if err != nil {
		return "", err
	}
	st.Path = path

	if err := s.states.Save(ctx, st); err != nil {
		return "", fmt.Errorf("push %s: save state: %w", graphName, err)
	}

	// Ephemeral sub-flow graphs never steal the resumable session pointer.
	if g.PersistAsRoot {
		if err := s.slot.Set(ctx, r.SessionKey, st.ID); err != nil {
			return "", fmt.Errorf("push %s: update session slot: %w", graphName, err)
		}
	}

	s.emit(ctx, s.hooks.OnPush, domain.EventPush, st, "")
	s.emit(ctx, s.hooks.OnNodeEnter, domain.EventNodeEnter, st, "")
	s.logger.Debug("pushed state", "graph", g.Name, "state_id", st.ID, "parent_id", st.ParentID)

	b, err := s.behavior(start)
	if err != nil {
		return "", err
	}
	if starter, ok := b.(plugin.Starter); ok {
		hookPath, handled, err := starter.StartEvent(ctx, s.trans(r, st, start))
		if err != nil {
			return "", err
		}
		if handled {
			return hookPath, nil
		}
	}
	return path, nil
}
