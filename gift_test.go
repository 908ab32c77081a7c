package gift_test

import (
	"context"
	"testing"

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DispatchUndoRedo(t *testing.T) {
	ctx := context.Background()
	eng := gift.New()

	snap := eng.NewSnapshot()
	next, err := eng.Dispatch(ctx, snap, domain.Action{Type: domain.ActionNewAutomaton})
	require.NoError(t, err)
	assert.Equal(t, 0, next.CurrentVersion)
	assert.True(t, next.CanUndo)
	assert.Len(t, next.Current.Editor.Automatons, 1)

	// The input is untouched.
	assert.Equal(t, -1, snap.CurrentVersion)
	assert.Empty(t, snap.Current.Editor.Automatons)

	undone, err := eng.Undo(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, -1, undone.CurrentVersion)
	assert.Empty(t, undone.Current.Editor.Automatons)
	assert.True(t, undone.CanRedo)

	redone, err := eng.Redo(ctx, undone)
	require.NoError(t, err)
	assert.Equal(t, next.Current, redone.Current)
	assert.False(t, redone.CanRedo)
}

func TestEngine_Hooks(t *testing.T) {
	ctx := gift.ContextWithSession(context.Background(), "s1")

	var events []*domain.DispatchEvent
	var failures []*domain.DispatchEvent
	eng := gift.New(
		gift.WithNotUndoable(domain.ActionChangeLanguage),
		gift.WithLifecycleHooks(domain.LifecycleHooks{
			OnDispatch: func(_ context.Context, evt *domain.DispatchEvent) { events = append(events, evt) },
			OnError:    func(_ context.Context, evt *domain.DispatchEvent) { failures = append(failures, evt) },
		}),
	)

	snap, err := eng.Dispatch(ctx, eng.NewSnapshot(), domain.Action{Type: domain.ActionAddGlobalInput})
	require.NoError(t, err)
	snap, err = eng.Dispatch(ctx, snap, domain.Action{Type: domain.ActionChangeLanguage, Payload: "en"})
	require.NoError(t, err)
	_, err = eng.Undo(ctx, snap)
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, domain.EventDispatch, events[0].Type)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.True(t, events[0].Recorded)
	assert.Equal(t, -1, events[0].FromVersion)
	assert.Equal(t, 0, events[0].ToVersion)

	assert.False(t, events[1].Recorded, "excluded types are not recorded")
	assert.Equal(t, 0, events[1].ToVersion)

	assert.Equal(t, domain.EventUndo, events[2].Type)
	assert.False(t, events[2].Recorded)
	assert.Equal(t, -1, events[2].ToVersion)
	assert.Empty(t, failures)
}

func TestEngine_ErrorKeepsSnapshot(t *testing.T) {
	ctx := context.Background()

	var failures []*domain.DispatchEvent
	eng := gift.New(gift.WithLifecycleHooks(domain.LifecycleHooks{
		OnError: func(_ context.Context, evt *domain.DispatchEvent) { failures = append(failures, evt) },
	}))

	snap, err := eng.Dispatch(ctx, eng.NewSnapshot(), domain.Action{Type: domain.ActionNewAutomaton})
	require.NoError(t, err)

	next, err := eng.Dispatch(ctx, snap, domain.Action{
		Type:    domain.ActionChangeAutomatonName,
		Payload: reducer.AutomatonNamePayload{AutomatonID: 42, NewName: "main"},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, snap, next)

	require.Len(t, failures, 1)
	assert.Equal(t, domain.ActionChangeAutomatonName, failures[0].Action)
	assert.Equal(t, 0, failures[0].ToVersion)
	assert.ErrorIs(t, failures[0].Err, domain.ErrNotFound)
}

func TestEngine_MaxVersions(t *testing.T) {
	ctx := context.Background()
	eng := gift.New(gift.WithMaxVersions(3))
	assert.Equal(t, 3, eng.MaxVersions())

	snap := eng.NewSnapshot()
	var err error
	for range 5 {
		snap, err = eng.Dispatch(ctx, snap, domain.Action{Type: domain.ActionAddGlobalOutput})
		require.NoError(t, err)
	}
	assert.Equal(t, 4, snap.CurrentVersion)
	assert.Equal(t, []int{2, 3, 4}, snap.Versions())
}

func TestEngine_NotUndoable(t *testing.T) {
	ctx := context.Background()
	eng := gift.New(gift.WithNotUndoable(domain.ActionAddGlobalInput))

	snap, err := eng.Dispatch(ctx, eng.NewSnapshot(), domain.Action{Type: domain.ActionAddGlobalInput})
	require.NoError(t, err)
	assert.Equal(t, -1, snap.CurrentVersion)
	assert.False(t, snap.CanUndo)
	assert.Len(t, snap.Current.Editor.Inputs, 1)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	eng := gift.New()

	snap, err := eng.Dispatch(ctx, eng.NewSnapshot(), domain.Action{Type: domain.ActionNewAutomaton})
	require.NoError(t, err)
	snap, err = eng.Dispatch(ctx, snap, domain.Action{
		Type:    domain.ActionAddNode,
		Payload: map[string]any{"automatonId": 1},
	})
	require.NoError(t, err)
	snap, err = eng.Undo(ctx, snap)
	require.NoError(t, err)

	data, err := gift.Export(snap)
	require.NoError(t, err)

	restored, err := eng.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, snap.CurrentVersion, restored.CurrentVersion)
	assert.Equal(t, snap.CanUndo, restored.CanUndo)
	assert.Equal(t, snap.CanRedo, restored.CanRedo)
	assert.Equal(t, snap.Current, restored.Current)

	// The history survives the round trip.
	redone, err := eng.Redo(ctx, restored)
	require.NoError(t, err)
	assert.Len(t, redone.Current.Editor.Nodes, 1)
}

func TestEngine_ImportInvalid(t *testing.T) {
	eng := gift.New()
	_, err := eng.Import(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}
