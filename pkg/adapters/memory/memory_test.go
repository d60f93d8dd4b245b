package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselets/trail/pkg/adapters/memory"
	"github.com/courselets/trail/pkg/domain"
)

func TestStateStoreClonesOnSaveAndLoad(t *testing.T) {
	store := memory.NewStateStore()
	ctx := context.Background()

	st := &domain.State{ID: "a", Owner: "alice", Data: map[string]any{"k": "v"}}
	require.NoError(t, store.Save(ctx, st))

	// Mutating the caller's copy must not leak into the store.
	st.Data["k"] = "changed"

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Data["k"])

	// Nor must mutating a loaded copy.
	got.Data["k"] = "changed again"
	got2, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", got2.Data["k"])
}

func TestStateStoreListings(t *testing.T) {
	store := memory.NewStateStore()
	ctx := context.Background()

	root := &domain.State{ID: "root", Owner: "alice"}
	child := &domain.State{ID: "child", Owner: "alice", ParentID: "root"}
	follower := &domain.State{ID: "follower", Owner: "bob", LinkID: "root"}
	loner := &domain.State{ID: "loner", Owner: "alice"}
	for _, st := range []*domain.State{root, child, follower, loner} {
		require.NoError(t, store.Save(ctx, st))
	}

	children, err := store.ListChildren(ctx, "root")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "child", children[0].ID)

	linked, err := store.ListLinked(ctx, "root")
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "follower", linked[0].ID)

	// Only parentless frames that parent nothing are orphans.
	orphans, err := store.ListOrphans(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "loner", orphans[0].ID)
}

func TestStateStoreDeleteIsIdempotent(t *testing.T) {
	store := memory.NewStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.State{ID: "a"}))
	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err := store.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestSlot(t *testing.T) {
	slot := memory.NewSlot()
	ctx := context.Background()

	id, err := slot.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, slot.Set(ctx, "s1", "frame-1"))
	id, err = slot.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "frame-1", id)

	require.NoError(t, slot.Clear(ctx, "s1"))
	require.NoError(t, slot.Clear(ctx, "s1"))
	id, err = slot.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestActivityStore(t *testing.T) {
	store := memory.NewActivityStore()
	ctx := context.Background()

	_, err := store.GetLog(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	_, err = store.GetEvent(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)

	log := &domain.ActivityLog{ID: "l1", Graph: "lesson", Owner: "alice"}
	require.NoError(t, store.SaveLog(ctx, log))
	got, err := store.GetLog(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "lesson", got.Graph)

	ev := &domain.ActivityEvent{ID: "e1", ActivityID: "l1", Node: "ASK"}
	require.NoError(t, store.SaveEvent(ctx, ev))
	gotEv, err := store.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "ASK", gotEv.Node)
}
