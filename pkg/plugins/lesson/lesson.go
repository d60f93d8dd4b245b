// Package lesson implements the question-sequence activity: the learner
// works through an ordered list of lessons, answering and self-assessing
// each one. It exercises the start hook (auto-advance past START), a
// dynamic path, a selection filter, and per-edge routing for the
// advance-or-finish decision.
package lesson

import (
	"context"
	"fmt"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/graphspec"
	"github.com/courselets/trail/pkg/plugin"
)

// GraphName is the name the lesson graph deploys under.
const GraphName = "lesson"

const (
	nodeAsk    = "ASK"
	nodeAssess = "ASSESS"
	nodeErrors = "ERRORS"
)

// Data blob keys.
const (
	keyQuestions = "questions"
	keyIndex     = "question_index"
)

// Register adds the lesson behaviors to the registry.
func Register(reg *plugin.Registry) {
	reg.Register("lesson.start", start{})
	reg.Register("lesson.ask", ask{})
	reg.Register("lesson.assess", assess{})
}

// Source supplies the lesson graph for deployment.
var Source = graphspec.SourceFunc(func() []*graphspec.Spec {
	return []*graphspec.Spec{
		graphspec.New(GraphName).
			Title("Lesson sequence").
			Description("Work through a sequence of lessons one at a time.").
			Node(domain.StartNodeName).Behavior("lesson.start").Done().
			Node(nodeAsk).Title("Answer the question").Behavior("lesson.ask").Log().Done().
			Node(nodeAssess).Title("Assess your answer").Path("ct:assess").Behavior("lesson.assess").Log().Done().
			Node(nodeErrors).Title("Review error models").Path("ct:assess_errors").Done().
			Node(domain.TerminalNodeName).Done().
			Edge(domain.StartNodeName, "next", nodeAsk).
			Edge(nodeAsk, "next", nodeAssess).
			EdgeSpec(graphspec.EdgeSpec{
				From: nodeAssess, Name: "next", To: nodeAsk,
				Title: "Continue", ShowOption: true,
			}).
			EdgeSpec(graphspec.EdgeSpec{
				From: nodeAssess, Name: "error", To: nodeErrors,
				Title: "See error models", ShowOption: true,
			}).
			Edge(nodeErrors, "next", nodeAsk).
			Spec(),
	}
})

// start advances a freshly pushed frame past START so the learner lands
// on the first question immediately.
type start struct{}

func (start) StartEvent(ctx context.Context, t *plugin.Trans) (string, bool, error) {
	if questionIDs(t.State) == nil {
		return "", false, fmt.Errorf("lesson: %w: %s", domain.ErrDataAttrNotSet, keyQuestions)
	}
	path, err := t.Stack.EventOn(ctx, t.R, t.State, "next")
	if err != nil || path == "" {
		return "", false, err
	}
	return path, true, nil
}

// ask renders the current question. The path depends on which question
// the frame is on, so it is computed rather than declared.
type ask struct{}

func (ask) GetPath(ctx context.Context, t *plugin.Trans) (string, error) {
	ids := questionIDs(t.State)
	idx := index(t.State)
	if idx >= len(ids) {
		return "", fmt.Errorf("lesson: question index %d out of range", idx)
	}
	return t.Stack.ResolveRoute("ct:lesson", map[string]any{
		"lesson_id": ids[idx],
		"state_id":  t.State.ID,
	})
}

func (ask) InputFilters() map[string]plugin.FilterFunc {
	return map[string]plugin.FilterFunc{
		// The "next" edge carries the learner's answer selection; an
		// absent or empty answer keeps the frame on the question.
		"next": func(value any) bool {
			s, ok := value.(string)
			return ok && s != ""
		},
	}
}

// assess decides where "next" goes: the following question, or END when
// the sequence is exhausted.
type assess struct{}

func (assess) EdgeRoutes() map[string]plugin.NextEdgeFunc {
	return map[string]plugin.NextEdgeFunc{
		"next": func(ctx context.Context, t *plugin.Trans, e *domain.Edge) (*domain.Node, error) {
			ids := questionIDs(t.State)
			next := index(t.State) + 1
			if next >= len(ids) {
				return t.Stack.Node(ctx, t.State.GraphID, domain.TerminalNodeName)
			}
			t.State.SetDataAttr(keyIndex, next)
			return t.Stack.Node(ctx, t.State.GraphID, e.ToNode)
		},
	}
}

func questionIDs(st *domain.State) []string {
	raw, err := st.GetDataAttr(keyQuestions)
	if err != nil {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		// JSON round-trips string slices as []any.
		ids := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			ids = append(ids, s)
		}
		return ids
	}
	return nil
}

func index(st *domain.State) int {
	raw, err := st.GetDataAttr(keyIndex)
	if err != nil {
		return 0
	}
	switch v := raw.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
