package live_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselets/trail"
	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/plugins/live"
)

func newEngine(t *testing.T) *trail.Engine {
	t.Helper()
	engine := trail.New()
	live.Register(engine.Registry())
	_, err := engine.Deploy(context.Background(), "sysadmin", live.Source)
	require.NoError(t, err)
	return engine
}

func teacherReq() *domain.Request {
	return &domain.Request{SessionKey: "t1", User: "teacher"}
}

func studentReq() *domain.Request {
	return &domain.Request{SessionKey: "s1", User: "student"}
}

func startSession(t *testing.T, engine *trail.Engine) (teacherID string) {
	t.Helper()
	ctx := context.Background()

	path, err := engine.Sessions().Push(ctx, teacherReq(), live.TeacherGraphName, nil)
	require.NoError(t, err)
	require.Equal(t, "ct:live_question", path)

	st, err := engine.Sessions().Current(ctx, teacherReq())
	require.NoError(t, err)
	require.NotNil(t, st)
	return st.ID
}

func TestStudentRequiresTeacherFrame(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	_, err := engine.Sessions().Push(ctx, studentReq(), live.StudentGraphName, nil)
	assert.ErrorIs(t, err, domain.ErrDataAttrNotSet)

	_, err = engine.Sessions().Push(ctx, studentReq(), live.StudentGraphName, map[string]any{
		live.KeyTeacherStateID: "gone",
	})
	assert.ErrorIs(t, err, domain.ErrLinkBroken)
}

func TestStudentFollowsTeacher(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()
	teacherID := startSession(t, engine)

	path, err := engine.Sessions().Push(ctx, studentReq(), live.StudentGraphName, map[string]any{
		live.KeyTeacherStateID: teacherID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ct:wait", path)

	// The teacher has posed a question, so the student may enter it.
	path, err = engine.Sessions().Event(ctx, studentReq(), "next")
	require.NoError(t, err)
	assert.Equal(t, "ct:live_answer", path)

	// Answers stay hidden until the teacher reveals them: the student is
	// routed back to waiting instead.
	path, err = engine.Sessions().Event(ctx, studentReq(), "next")
	require.NoError(t, err)
	assert.Equal(t, "ct:wait", path)

	_, err = engine.Sessions().Event(ctx, teacherReq(), "next")
	require.NoError(t, err)

	path, err = engine.Sessions().Event(ctx, studentReq(), "next")
	require.NoError(t, err)
	assert.Equal(t, "ct:live_answer", path)
	path, err = engine.Sessions().Event(ctx, studentReq(), "next")
	require.NoError(t, err)
	assert.Equal(t, "ct:live_compare", path)

	followers, err := engine.Stack().FindLiveSessions(ctx, teacherID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "student", followers[0].Owner)
}

func TestTeacherEndingWindsDownStudents(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()
	teacherID := startSession(t, engine)

	_, err := engine.Sessions().Push(ctx, studentReq(), live.StudentGraphName, map[string]any{
		live.KeyTeacherStateID: teacherID,
	})
	require.NoError(t, err)

	// Teacher reveals answers and ends the session.
	_, err = engine.Sessions().Event(ctx, teacherReq(), "next")
	require.NoError(t, err)
	path, err := engine.Sessions().Event(ctx, teacherReq(), "finish")
	require.NoError(t, err)
	assert.Empty(t, path)

	// The student's next transition finds the link broken and is routed
	// to the terminal node, draining their stack.
	path, err = engine.Sessions().Event(ctx, studentReq(), "next")
	require.NoError(t, err)
	assert.Empty(t, path)

	st, err := engine.Sessions().Current(ctx, studentReq())
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestWaitHelpReportsTeacherPosition(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()
	teacherID := startSession(t, engine)

	_, err := engine.Sessions().Push(ctx, studentReq(), live.StudentGraphName, map[string]any{
		live.KeyTeacherStateID: teacherID,
	})
	require.NoError(t, err)

	help, err := engine.Stack().Help(ctx, studentReq())
	require.NoError(t, err)
	assert.Contains(t, help, "Pose the question")
}
