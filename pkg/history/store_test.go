package history_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/goldi-lab/gift/pkg/history"
	"github.com/goldi-lab/gift/pkg/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type board struct {
	Items []string `json:"items"`
	View  string   `json:"view"`
}

func newBoard() board { return board{Items: []string{}} }

func reduce(draft *board, action history.Action) error {
	switch action.Type {
	case "ADD":
		s, ok := action.Payload.(string)
		if !ok {
			return fmt.Errorf("bad payload %T", action.Payload)
		}
		draft.Items = append(draft.Items, s)
	case "SET_VIEW":
		draft.View, _ = action.Payload.(string)
	}
	return nil
}

func add(s string) history.Action { return history.Action{Type: "ADD", Payload: s} }

var (
	undo = history.Action{Type: history.ActionUndo}
	redo = history.Action{Type: history.ActionRedo}
)

func dispatchAll(t *testing.T, store *history.Store[board], s history.State[board], actions ...history.Action) history.State[board] {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = store.Dispatch(s, a)
		require.NoError(t, err, "dispatch %s", a.Type)
	}
	return s
}

func TestNew(t *testing.T) {
	s := history.New(newBoard())
	assert.Equal(t, -1, s.CurrentVersion)
	assert.Empty(t, s.History)
	assert.False(t, history.CanUndo(s))
	assert.False(t, history.CanRedo(s))
	assert.Equal(t, newBoard(), history.Current(s))
}

func TestStore_Scenario(t *testing.T) {
	store := history.NewStore(reduce)
	s := history.New(newBoard())

	s = dispatchAll(t, store, s, add("A"))
	assert.Equal(t, 0, s.CurrentVersion)
	assert.True(t, s.CanUndo)
	assert.False(t, s.CanRedo)
	assert.Equal(t, []int{0}, s.Versions())

	s = dispatchAll(t, store, s, add("B"))
	assert.Equal(t, 1, s.CurrentVersion)
	assert.Equal(t, []string{"A", "B"}, s.Current.Items)

	s = dispatchAll(t, store, s, undo)
	assert.Equal(t, []string{"A"}, s.Current.Items)
	assert.Equal(t, 0, s.CurrentVersion)
	assert.True(t, s.CanUndo)
	assert.True(t, s.CanRedo)

	s = dispatchAll(t, store, s, undo)
	assert.Equal(t, []string{}, s.Current.Items)
	assert.Equal(t, -1, s.CurrentVersion)
	assert.False(t, s.CanUndo)
	assert.True(t, s.CanRedo)

	s = dispatchAll(t, store, s, redo)
	assert.Equal(t, []string{"A"}, s.Current.Items)
	assert.Equal(t, 0, s.CurrentVersion)
	assert.True(t, s.CanUndo)
	assert.True(t, s.CanRedo)

	s = dispatchAll(t, store, s, redo)
	assert.Equal(t, []string{"A", "B"}, s.Current.Items)
	assert.Equal(t, 1, s.CurrentVersion)
	assert.True(t, s.CanUndo)
	assert.False(t, s.CanRedo)
}

func TestStore_RoundTrip(t *testing.T) {
	store := history.NewStore(reduce)
	s0 := dispatchAll(t, store, history.New(newBoard()), add("x"), add("y"))

	s1 := dispatchAll(t, store, s0, add("z"))
	back := dispatchAll(t, store, s1, undo)
	assert.Equal(t, s0.Current, back.Current)

	again := dispatchAll(t, store, back, redo)
	assert.Equal(t, s1.Current, again.Current)
	assert.Equal(t, s1.CurrentVersion, again.CurrentVersion)
}

func TestStore_BranchInvalidation(t *testing.T) {
	store := history.NewStore(reduce)
	s := dispatchAll(t, store, history.New(newBoard()), add("A"), add("B"), undo)
	require.True(t, s.CanRedo)

	s = dispatchAll(t, store, s, add("C"))
	assert.False(t, s.CanRedo)
	assert.Equal(t, []string{"A", "C"}, s.Current.Items)
	assert.Equal(t, []int{0, 1}, s.Versions())

	after := dispatchAll(t, store, s, redo)
	assert.Equal(t, s, after)
}

func TestStore_BoundedRetention(t *testing.T) {
	store := history.NewStore(reduce)
	s := history.New(newBoard())
	total := history.MaxVersions + 5
	for i := range total {
		s = dispatchAll(t, store, s, add(fmt.Sprint(i)))
	}
	assert.Len(t, s.History, history.MaxVersions)

	undos := 0
	for s.CanUndo {
		s = dispatchAll(t, store, s, undo)
		undos++
	}
	assert.Equal(t, history.MaxVersions, undos)
	assert.Len(t, s.Current.Items, total-history.MaxVersions)

	still := dispatchAll(t, store, s, undo)
	assert.Equal(t, s, still)
}

func TestStore_CustomMaxVersions(t *testing.T) {
	store := history.NewStore(reduce, history.WithMaxVersions(3))
	assert.Equal(t, 3, store.MaxVersions())

	s := dispatchAll(t, store, history.New(newBoard()), add("1"), add("2"), add("3"), add("4"))
	assert.Equal(t, []int{1, 2, 3}, s.Versions())
}

func TestStore_NotUndoableTransparency(t *testing.T) {
	store := history.NewStore(reduce, history.WithNotUndoable("SET_VIEW"))
	assert.False(t, store.IsUndoable("SET_VIEW"))
	assert.False(t, store.IsUndoable(history.ActionUndo))
	assert.True(t, store.IsUndoable("ADD"))

	before := dispatchAll(t, store, history.New(newBoard()), add("A"), add("B"), undo)
	after := dispatchAll(t, store, before, history.Action{Type: "SET_VIEW", Payload: "matrix"})

	assert.Equal(t, "matrix", after.Current.View)
	assert.Equal(t, before.CurrentVersion, after.CurrentVersion)
	assert.Equal(t, before.History, after.History)
	assert.Equal(t, before.CanUndo, after.CanUndo)
	assert.Equal(t, before.CanRedo, after.CanRedo)

	// The view change survives replaying history since patches only touch items.
	redone := dispatchAll(t, store, after, redo)
	assert.Equal(t, "matrix", redone.Current.View)
	assert.Equal(t, []string{"A", "B"}, redone.Current.Items)
}

func TestStore_NoOpIdentity(t *testing.T) {
	store := history.NewStore(reduce)
	s := history.New(newBoard())

	got, err := store.Dispatch(s, undo)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	got, err = store.Dispatch(s, redo)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestStore_UnknownActionOccupiesSlot(t *testing.T) {
	store := history.NewStore(reduce)
	s := dispatchAll(t, store, history.New(newBoard()), add("A"), history.Action{Type: "NOTHING"})

	assert.Equal(t, 1, s.CurrentVersion)
	assert.True(t, s.History[1].Empty())

	s = dispatchAll(t, store, s, undo)
	assert.Equal(t, []string{"A"}, s.Current.Items)
	assert.Equal(t, 0, s.CurrentVersion)
}

func TestStore_ReducerErrorCommitsNothing(t *testing.T) {
	store := history.NewStore(reduce)
	s := dispatchAll(t, store, history.New(newBoard()), add("A"))

	got, err := store.Dispatch(s, history.Action{Type: "ADD", Payload: 42})
	require.Error(t, err)
	assert.Equal(t, s, got)
}

func TestStore_CorruptedPatchFails(t *testing.T) {
	store := history.NewStore(reduce)
	s := dispatchAll(t, store, history.New(newBoard()), add("A"))

	s.History[0] = patch.ChangeSet{
		RedoPatches: []patch.Patch{},
		UndoPatches: []patch.Patch{{Op: "remove", Path: "/items/9"}},
	}
	got, err := store.Dispatch(s, undo)
	require.ErrorIs(t, err, patch.ErrPatchFailed)
	assert.Equal(t, s, got)
	assert.Equal(t, []string{"A"}, got.Current.Items)
}

func TestStore_MissingEntryFails(t *testing.T) {
	store := history.NewStore(reduce)
	s := history.New(newBoard())
	s.CanUndo = true

	_, err := store.Dispatch(s, undo)
	require.ErrorIs(t, err, history.ErrCorruptHistory)
}

func TestStore_InputIsNotMutated(t *testing.T) {
	store := history.NewStore(reduce)
	s := dispatchAll(t, store, history.New(newBoard()), add("A"))
	snapshot, err := json.Marshal(s)
	require.NoError(t, err)

	_ = dispatchAll(t, store, s, add("B"), undo, undo)
	_, err = store.Dispatch(s, add("C"))
	require.NoError(t, err)

	after, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot), string(after))
	assert.Equal(t, []int{0}, s.Versions())
}

func TestStore_LoadState(t *testing.T) {
	store := history.NewStore(reduce)
	saved := dispatchAll(t, store, history.New(newBoard()), add("A"), add("B"), undo)
	other := dispatchAll(t, store, history.New(newBoard()), add("Z"))

	loaded := dispatchAll(t, store, other, history.Action{Type: history.ActionLoadState, Payload: saved})
	assert.Equal(t, saved, loaded)

	loaded = dispatchAll(t, store, other, history.Action{Type: history.ActionLoadState, Payload: &saved})
	assert.Equal(t, saved, loaded)
}

func TestStore_ExportReload(t *testing.T) {
	store := history.NewStore(reduce)
	s := dispatchAll(t, store, history.New(newBoard()), add("A"), add("B"), add("C"), undo)

	raw, err := json.MarshalIndent(s, "", "  ")
	require.NoError(t, err)

	loaded := dispatchAll(t, store, history.New(newBoard()), history.Action{Type: history.ActionLoadState, Payload: raw})
	assert.Equal(t, s, loaded)

	// Both continue identically.
	a := dispatchAll(t, store, s, undo, redo, redo)
	b := dispatchAll(t, store, loaded, undo, redo, redo)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"A", "B", "C"}, b.Current.Items)
}

func TestStore_LoadInvalidSnapshot(t *testing.T) {
	store := history.NewStore(reduce)
	s := dispatchAll(t, store, history.New(newBoard()), add("A"), add("B"))

	for name, payload := range map[string]any{
		"nil":         nil,
		"garbage":     []byte("{not json"),
		"nil pointer": (*history.State[board])(nil),
		"wrong shape": map[string]any{"history": "nope"},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := store.Dispatch(s, history.Action{Type: history.ActionLoadState, Payload: payload})
			require.ErrorIs(t, err, history.ErrInvalidSnapshot)
			assert.Equal(t, s, got)
		})
	}
}
