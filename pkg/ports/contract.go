package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/history"
	"github.com/goldi-lab/gift/pkg/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	sessionID := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Save and Load", func(t *testing.T) {
		sess := contractSession(t, "main")
		sess.Revision = 3

		require.NoError(t, store.Save(ctx, sessionID, sess), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "main", loaded.Name)
		assert.Equal(t, int64(3), loaded.Revision)
		assert.Equal(t, sess.State.CurrentVersion, loaded.State.CurrentVersion)
		assert.Equal(t, sess.State.CanUndo, loaded.State.CanUndo)
		assert.Equal(t, sess.State.CanRedo, loaded.State.CanRedo)
		assert.Equal(t, sess.State.Versions(), loaded.State.Versions())
		assert.Equal(t, sess.State.Current, loaded.State.Current)

		want, err := json.Marshal(sess.State)
		require.NoError(t, err)
		got, err := json.Marshal(loaded.State)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got), "history must survive the store")
	})

	t.Run("Load Returns a Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Name = "mutated"
		loaded.State.Current.Editor.Inputs = append(loaded.State.Current.Editor.Inputs, "mutated")
		delete(loaded.State.History, loaded.State.CurrentVersion)

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "main", again.Name)
		assert.NotContains(t, again.State.Current.Editor.Inputs, "mutated")
		assert.Contains(t, again.State.History, again.State.CurrentVersion)
	})

	t.Run("Overwrite", func(t *testing.T) {
		sess := domain.NewSession("second")
		sess.Revision = 4
		require.NoError(t, store.Save(ctx, sessionID, sess))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Name)
		assert.Equal(t, int64(4), loaded.Revision)
		assert.Empty(t, loaded.State.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSession("gone")))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewSession(id1)))
		require.NoError(t, store.Save(ctx, id2, domain.NewSession(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
		assert.NotContains(t, sessions, sessionID)
	})
}

// contractSession builds a session whose snapshot has both undo and redo steps.
func contractSession(t *testing.T, name string) *domain.Session {
	t.Helper()
	store := history.NewStore(reducer.Reduce)
	snap := domain.NewSnapshot()

	steps := []domain.Action{
		{Type: domain.ActionAddGlobalInput},
		{Type: domain.ActionNewAutomaton},
		{Type: domain.ActionAddNode, Payload: map[string]any{"automatonId": 1}},
		{Type: domain.ActionAddNode, Payload: map[string]any{"automatonId": 1}},
		{Type: domain.ActionUndo},
	}
	for _, action := range steps {
		var err error
		snap, err = store.Dispatch(snap, action)
		require.NoError(t, err)
	}

	sess := domain.NewSession(name)
	sess.State = snap
	return sess
}
