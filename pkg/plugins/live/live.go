// Package live implements paired classroom sessions. The teacher runs
// the liveteach graph and broadcasts a question/answers cycle; each
// student runs the livestudent graph attached to the teacher's frame,
// and every student transition inspects the teacher's current node
// before it fires. A student whose teacher ends the session is routed
// to END on the next transition rather than left waiting.
package live

import (
	"context"
	"fmt"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/graphspec"
	"github.com/courselets/trail/pkg/plugin"
)

// Graph names for the paired sessions.
const (
	TeacherGraphName = "liveteach"
	StudentGraphName = "livestudent"
)

const (
	nodeQuestion = "QUESTION"
	nodeAnswers  = "ANSWERS"
	nodeWait     = "WAIT"
)

// KeyTeacherStateID is the push data attribute naming the teacher frame
// a student attaches to.
const KeyTeacherStateID = "teacher_state_id"

// Register adds the live-session behaviors to the registry.
func Register(reg *plugin.Registry) {
	reg.Register("live.teach.start", teachStart{})
	reg.Register("live.follow.start", followStart{})
	reg.Register("live.follow.wait", followWait{})
	reg.Register("live.follow.question", followQuestion{})
}

// Source supplies both graphs for deployment.
var Source = graphspec.SourceFunc(func() []*graphspec.Spec {
	teacher := graphspec.New(TeacherGraphName).
		Title("Teach a live session").
		Node(domain.StartNodeName).Behavior("live.teach.start").Done().
		Node(nodeQuestion).Title("Pose the question").Path("ct:live_question").Log().Done().
		Node(nodeAnswers).Title("Discuss the answers").Path("ct:live_answers").Done().
		Node(domain.TerminalNodeName).Done().
		Edge(domain.StartNodeName, "next", nodeQuestion).
		EdgeSpec(graphspec.EdgeSpec{
			From: nodeQuestion, Name: "next", To: nodeAnswers,
			Title: "Reveal answers", ShowOption: true,
		}).
		EdgeSpec(graphspec.EdgeSpec{
			From: nodeAnswers, Name: "next", To: nodeQuestion,
			Title: "Next question", ShowOption: true,
		}).
		EdgeSpec(graphspec.EdgeSpec{
			From: nodeAnswers, Name: "finish", To: domain.TerminalNodeName,
			Title: "End session", ShowOption: true,
		}).
		Spec()

	student := graphspec.New(StudentGraphName).
		Title("Follow a live session").
		Hide(true, true, false).
		Node(domain.StartNodeName).Behavior("live.follow.start").Done().
		Node(nodeWait).Title("Waiting for the teacher").Path("ct:wait").Behavior("live.follow.wait").Done().
		Node(nodeQuestion).Title("Answer the question").Path("ct:live_answer").Behavior("live.follow.question").Log().Done().
		Node(nodeAnswers).Title("Compare answers").Path("ct:live_compare").Done().
		Node(domain.TerminalNodeName).Done().
		Edge(domain.StartNodeName, "next", nodeWait).
		Edge(nodeWait, "next", nodeQuestion).
		EdgeSpec(graphspec.EdgeSpec{
			From: nodeQuestion, Name: "next", To: nodeAnswers,
			Title: "Submit answer", ShowOption: true,
		}).
		EdgeSpec(graphspec.EdgeSpec{
			From: nodeAnswers, Name: "next", To: nodeWait,
			Title: "Ready for the next question", ShowOption: true,
		}).
		Spec()

	return []*graphspec.Spec{teacher, student}
})

// teachStart advances the teacher past START onto the first question.
type teachStart struct{}

func (teachStart) StartEvent(ctx context.Context, t *plugin.Trans) (string, bool, error) {
	path, err := t.Stack.EventOn(ctx, t.R, t.State, "next")
	if err != nil || path == "" {
		return "", false, err
	}
	return path, true, nil
}

// followStart attaches the student to the teacher's frame, then advances
// past START. Pushing a follower onto a session that no longer exists
// fails the push.
type followStart struct{}

func (followStart) StartEvent(ctx context.Context, t *plugin.Trans) (string, bool, error) {
	raw, err := t.State.GetDataAttr(KeyTeacherStateID)
	if err != nil {
		return "", false, fmt.Errorf("live: %w", err)
	}
	teacherID, ok := raw.(string)
	if !ok || teacherID == "" {
		return "", false, fmt.Errorf("live: %s must be a frame ID", KeyTeacherStateID)
	}
	if err := t.Stack.Attach(ctx, t.State, teacherID); err != nil {
		return "", false, err
	}
	path, err := t.Stack.EventOn(ctx, t.R, t.State, "next")
	if err != nil || path == "" {
		return "", false, err
	}
	return path, true, nil
}

// followWait gates entry to the question on the teacher having posed one.
type followWait struct{}

func (followWait) EdgeRoutes() map[string]plugin.NextEdgeFunc {
	return map[string]plugin.NextEdgeFunc{
		"next": plugin.LinkedNodeGuard(
			plugin.StaticEdge(nodeQuestion),
			nodeWait,
			nodeQuestion, nodeAnswers,
		),
	}
}

func (followWait) GetHelp(ctx context.Context, t *plugin.Trans) (string, error) {
	linked, err := t.Stack.LinkedState(ctx, t.State)
	if err != nil {
		return "The live session has ended.", nil
	}
	return fmt.Sprintf("Waiting for the teacher (currently at %s).", linked.Title), nil
}

// followQuestion holds the student on the question until the teacher
// reveals the answers.
type followQuestion struct{}

func (followQuestion) EdgeRoutes() map[string]plugin.NextEdgeFunc {
	return map[string]plugin.NextEdgeFunc{
		"next": plugin.LinkedNodeGuard(
			plugin.StaticEdge(nodeAnswers),
			nodeWait,
			nodeAnswers,
		),
	}
}
