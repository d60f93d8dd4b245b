package stack_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselets/trail/pkg/adapters/memory"
	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/graphspec"
	"github.com/courselets/trail/pkg/plugin"
	"github.com/courselets/trail/pkg/schema"
	"github.com/courselets/trail/pkg/stack"
)

type fixture struct {
	graphs *memory.GraphStore
	states *memory.StateStore
	acts   *memory.ActivityStore
	slot   *memory.Slot
	reg    *plugin.Registry
	stack  *stack.Stack
}

func newFixture(t *testing.T, opts ...stack.Option) *fixture {
	t.Helper()
	f := &fixture{
		graphs: memory.NewGraphStore(),
		states: memory.NewStateStore(),
		acts:   memory.NewActivityStore(),
		slot:   memory.NewSlot(),
		reg:    plugin.NewRegistry(),
	}
	f.stack = stack.New(f.graphs, f.states, f.acts, f.slot, f.reg, opts...)
	return f
}

func (f *fixture) deploy(t *testing.T, spec *graphspec.Spec) *domain.Graph {
	t.Helper()
	g, err := graphspec.Deploy(context.Background(), f.graphs, f.reg, "sysadmin", spec)
	require.NoError(t, err)
	return g
}

// courseSpec is a root activity: a home node that regains control after
// nested activities return.
func courseSpec() *graphspec.Spec {
	return graphspec.New("course").
		Title("Course").
		Node(domain.StartNodeName).Done().
		Node("HOME").Title("Home").Path("ct:home").Done().
		Node("AFTER").Title("After").Path("ct:after").Done().
		Node("CANCELLED").Title("Cancelled").Path("ct:cancelled").Done().
		Node(domain.TerminalNodeName).Done().
		Edge(domain.StartNodeName, "next", "HOME").
		Edge("HOME", "return", "AFTER").
		Edge("HOME", "exceptCancel", "CANCELLED").
		Edge("HOME", "finish", domain.TerminalNodeName).
		Spec()
}

// taskSpec is a nestable activity with a logged work node and a self-loop.
func taskSpec() *graphspec.Spec {
	return graphspec.New("task").
		Title("Task").
		Node(domain.StartNodeName).Done().
		Node("WORK").Title("Work").Path("ct:work").Log().Done().
		Node(domain.TerminalNodeName).Done().
		Edge(domain.StartNodeName, "next", "WORK").
		Edge("WORK", "again", "WORK").
		Edge("WORK", "done", domain.TerminalNodeName).
		Spec()
}

// asideSpec is an ephemeral sub-flow that never owns the session slot.
func asideSpec() *graphspec.Spec {
	return graphspec.New("aside").
		Title("Aside").
		PersistAsRoot(false).
		Node(domain.StartNodeName).Done().
		Node("TALK").Title("Talk").Path("ct:talk").Done().
		Node(domain.TerminalNodeName).Done().
		Edge(domain.StartNodeName, "next", "TALK").
		Edge("TALK", "close", domain.TerminalNodeName).
		Spec()
}

func req(session, user string) *domain.Request {
	return &domain.Request{SessionKey: session, User: user}
}

func TestPushSetsSlotAndOpensLog(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "course", st.Graph)
	assert.Equal(t, domain.StartNodeName, st.Node)
	assert.Equal(t, "alice", st.Owner)

	require.NotEmpty(t, st.ActivityID)
	log, err := f.acts.GetLog(ctx, st.ActivityID)
	require.NoError(t, err)
	assert.Equal(t, "course", log.Graph)
	assert.Nil(t, log.EndedAt)
}

func TestPushUnknownGraph(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.stack.Push(ctx, req("s1", "alice"), "nope", nil)
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}

func TestEventMovesFrame(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)

	path, err := f.stack.Event(ctx, r, "next")
	require.NoError(t, err)
	assert.Equal(t, "ct:home", path)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "HOME", st.Node)
	assert.Equal(t, "Home", st.Title)
}

func TestUnhandledEventIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)

	path, err := f.stack.Event(ctx, r, "bogus")
	require.NoError(t, err)
	assert.Empty(t, path)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, domain.StartNodeName, st.Node)
}

func TestEventWithoutActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.stack.Event(ctx, req("s1", "alice"), "next")
	assert.ErrorIs(t, err, domain.ErrNoActivity)
}

func TestTerminalNodeAutoPops(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	f.deploy(t, taskSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)
	_, err = f.stack.Event(ctx, r, "next")
	require.NoError(t, err)

	outer, err := f.stack.Current(ctx, r)
	require.NoError(t, err)

	_, err = f.stack.Push(ctx, r, "task", nil)
	require.NoError(t, err)
	inner, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, outer.ID, inner.ParentID)
	assert.Equal(t, outer.ActivityID, inner.ActivityID)

	_, err = f.stack.Event(ctx, r, "next")
	require.NoError(t, err)

	// Driving the task to END pops the frame and re-drives "return" on
	// the parent, which declares HOME -return-> AFTER.
	path, err := f.stack.Event(ctx, r, "done")
	require.NoError(t, err)
	assert.Equal(t, "ct:after", path)

	_, err = f.states.Load(ctx, inner.ID)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, outer.ID, st.ID)
	assert.Equal(t, "AFTER", st.Node)
}

func TestPopDefaultsToReturnEvent(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	f.deploy(t, taskSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)
	_, err = f.stack.Event(ctx, r, "next")
	require.NoError(t, err)
	_, err = f.stack.Push(ctx, r, "task", nil)
	require.NoError(t, err)

	path, err := f.stack.Pop(ctx, r, "")
	require.NoError(t, err)
	assert.Equal(t, "ct:after", path)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "AFTER", st.Node)
}

func TestPopWithCancelEvent(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	f.deploy(t, taskSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)
	_, err = f.stack.Event(ctx, r, "next")
	require.NoError(t, err)
	_, err = f.stack.Push(ctx, r, "task", nil)
	require.NoError(t, err)

	path, err := f.stack.Pop(ctx, r, stack.CancelEventName)
	require.NoError(t, err)
	assert.Equal(t, "ct:cancelled", path)
}

func TestPopRootDrainsStack(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)
	root, err := f.stack.Current(ctx, r)
	require.NoError(t, err)

	path, err := f.stack.Pop(ctx, r, "")
	require.NoError(t, err)
	assert.Empty(t, path)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Nil(t, st)

	log, err := f.acts.GetLog(ctx, root.ActivityID)
	require.NoError(t, err)
	assert.NotNil(t, log.EndedAt)
}

func TestStaleSlotTreatedAsNoActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := req("s1", "alice")

	require.NoError(t, f.slot.Set(ctx, "s1", "deleted-frame"))

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Nil(t, st)

	id, err := f.slot.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestResumeChecksOwnerAndChildren(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	f.deploy(t, taskSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)
	outer, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	_, err = f.stack.Push(ctx, r, "task", nil)
	require.NoError(t, err)
	inner, err := f.stack.Current(ctx, r)
	require.NoError(t, err)

	// Simulate an expired browser session.
	require.NoError(t, f.slot.Clear(ctx, "s1"))
	r2 := req("s2", "alice")

	_, err = f.stack.Resume(ctx, req("s2", "mallory"), inner.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = f.stack.Resume(ctx, r2, outer.ID)
	assert.ErrorIs(t, err, domain.ErrHasChildren)

	_, err = f.stack.Resume(ctx, r2, inner.ID)
	require.NoError(t, err)

	st, err := f.stack.Current(ctx, r2)
	require.NoError(t, err)
	assert.Equal(t, inner.ID, st.ID)
}

func TestResumeUnknownState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.stack.Resume(ctx, req("s1", "alice"), "nope")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestEphemeralPushKeepsSlot(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	f.deploy(t, asideSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "course", nil)
	require.NoError(t, err)
	outer, err := f.stack.Current(ctx, r)
	require.NoError(t, err)

	_, err = f.stack.Push(ctx, r, "aside", nil)
	require.NoError(t, err)

	// The slot still points at the course; the aside is addressed by its
	// own frame ID.
	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, outer.ID, st.ID)

	asides, err := f.states.ListChildren(ctx, outer.ID)
	require.NoError(t, err)
	require.Len(t, asides, 1)
	aside := asides[0]

	_, err = f.stack.EventOn(ctx, r, aside, "next")
	require.NoError(t, err)
	aside, err = f.states.Load(ctx, aside.ID)
	require.NoError(t, err)

	_, err = f.stack.EventOn(ctx, r, aside, "close")
	require.NoError(t, err)

	_, err = f.states.Load(ctx, aside.ID)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	st, err = f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, outer.ID, st.ID)
}

func TestSelfLoopReopensActivityEvent(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, taskSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "task", nil)
	require.NoError(t, err)
	_, err = f.stack.Event(ctx, r, "next")
	require.NoError(t, err)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	first := st.ActivityEventID
	require.NotEmpty(t, first)

	_, err = f.stack.Event(ctx, r, "again")
	require.NoError(t, err)

	st, err = f.stack.Current(ctx, r)
	require.NoError(t, err)
	require.NotEmpty(t, st.ActivityEventID)
	assert.NotEqual(t, first, st.ActivityEventID)

	// The first visit closed with the loop event; the second is open.
	ev, err := f.acts.GetEvent(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, ev.EndedAt)
	assert.Equal(t, "again", ev.ExitEvent)

	ev, err = f.acts.GetEvent(ctx, st.ActivityEventID)
	require.NoError(t, err)
	assert.Nil(t, ev.EndedAt)
}

func TestPushSchemaValidation(t *testing.T) {
	f := newFixture(t, stack.WithSchema("task", schema.Schema{
		"unit_id": schema.String(),
	}))
	f.deploy(t, taskSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "task", nil)
	require.Error(t, err)
	var agg *schema.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.NotEmpty(t, agg.Errors)

	_, err = f.stack.Push(ctx, r, "task", map[string]any{"unit_id": "u1"})
	require.NoError(t, err)
}

func TestStartHookAutoAdvances(t *testing.T) {
	f := newFixture(t)
	f.reg.Register("test.autostart", starter{})

	spec := taskSpec()
	n := spec.Nodes[domain.StartNodeName]
	n.Behavior = "test.autostart"
	spec.Nodes[domain.StartNodeName] = n
	f.deploy(t, spec)

	ctx := context.Background()
	r := req("s1", "alice")

	path, err := f.stack.Push(ctx, r, "task", nil)
	require.NoError(t, err)
	assert.Equal(t, "ct:work", path)

	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "WORK", st.Node)
}

type starter struct{}

func (starter) StartEvent(ctx context.Context, t *plugin.Trans) (string, bool, error) {
	path, err := t.Stack.EventOn(ctx, t.R, t.State, "next")
	if err != nil || path == "" {
		return "", false, err
	}
	return path, true, nil
}

func TestLinkedSessions(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, taskSpec())
	ctx := context.Background()

	_, err := f.stack.Push(ctx, req("s1", "teacher"), "task", nil)
	require.NoError(t, err)
	target, err := f.stack.Current(ctx, req("s1", "teacher"))
	require.NoError(t, err)

	_, err = f.stack.Push(ctx, req("s2", "student"), "task", nil)
	require.NoError(t, err)
	follower, err := f.stack.Current(ctx, req("s2", "student"))
	require.NoError(t, err)

	require.NoError(t, f.stack.Attach(ctx, follower, target.ID))

	linked, err := f.stack.LinkedState(ctx, follower)
	require.NoError(t, err)
	assert.Equal(t, target.ID, linked.ID)

	live, err := f.stack.FindLiveSessions(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, follower.ID, live[0].ID)

	// Ending the target must not cascade into followers, but their link
	// reads as broken afterwards.
	_, err = f.stack.Pop(ctx, req("s1", "teacher"), "")
	require.NoError(t, err)

	follower, err = f.states.Load(ctx, follower.ID)
	require.NoError(t, err)
	_, err = f.stack.LinkedState(ctx, follower)
	assert.ErrorIs(t, err, domain.ErrLinkBroken)

	require.NoError(t, f.stack.Detach(ctx, follower))
	_, err = f.stack.LinkedState(ctx, follower)
	assert.ErrorIs(t, err, domain.ErrLinkBroken)
}

func TestAttachUnknownTarget(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, taskSpec())
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "task", nil)
	require.NoError(t, err)
	st, err := f.stack.Current(ctx, r)
	require.NoError(t, err)

	err = f.stack.Attach(ctx, st, "nope")
	assert.ErrorIs(t, err, domain.ErrLinkBroken)
}

func TestOptionsListsVisibleEdges(t *testing.T) {
	f := newFixture(t)
	spec := graphspec.New("menu").
		Node(domain.StartNodeName).Done().
		Node("PICK").Done().
		Node("A").Done().
		Node(domain.TerminalNodeName).Done().
		Edge(domain.StartNodeName, "next", "PICK").
		EdgeSpec(graphspec.EdgeSpec{From: "PICK", Name: "a", To: "A", Title: "Choose A", ShowOption: true}).
		Edge("PICK", "hidden", "A").
		Spec()
	f.deploy(t, spec)
	ctx := context.Background()
	r := req("s1", "alice")

	_, err := f.stack.Push(ctx, r, "menu", nil)
	require.NoError(t, err)
	_, err = f.stack.Event(ctx, r, "next")
	require.NoError(t, err)

	edges, err := f.stack.Options(ctx, r)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].Name)
	assert.Equal(t, "Choose A", edges[0].Title)
}

func TestListOrphans(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, courseSpec())
	ctx := context.Background()

	_, err := f.stack.Push(ctx, req("s1", "alice"), "course", nil)
	require.NoError(t, err)
	_, err = f.stack.Push(ctx, req("s2", "bob"), "course", nil)
	require.NoError(t, err)

	orphans, err := f.stack.ListOrphans(ctx, req("s3", "alice"))
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "alice", orphans[0].Owner)
}
