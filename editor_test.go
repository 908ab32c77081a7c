package gift_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_Lifecycle(t *testing.T) {
	ctx := context.Background()
	ed := gift.NewEditor(gift.New(), "s1")

	var seen []int
	ed.OnChange(func(s domain.Snapshot) { seen = append(seen, s.CurrentVersion) })

	_, err := ed.Dispatch(ctx, domain.Action{Type: domain.ActionNewAutomaton})
	require.NoError(t, err)
	assert.True(t, ed.CanUndo())
	assert.False(t, ed.CanRedo())
	assert.Equal(t, "automaton0", ed.Current().Editor.Automatons[1].Name)

	_, err = ed.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ed.CanUndo())
	assert.True(t, ed.CanRedo())

	_, err = ed.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, -1, 0}, seen)
}

func TestEditor_ErrorDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	ed := gift.NewEditor(gift.New(), "s1")

	calls := 0
	ed.OnChange(func(domain.Snapshot) { calls++ })

	before := ed.State()
	_, err := ed.Dispatch(ctx, domain.Action{Type: domain.ActionRemoveNode, Payload: map[string]any{"nodeId": 9}})
	require.Error(t, err)
	assert.Equal(t, before, ed.State())
	assert.Zero(t, calls)
}

func TestEditor_CurrentIsDetached(t *testing.T) {
	ctx := context.Background()
	ed := gift.NewEditor(gift.New(), "s1")
	_, err := ed.Dispatch(ctx, domain.Action{Type: domain.ActionNewAutomaton})
	require.NoError(t, err)

	cur := ed.Current()
	a := cur.Editor.Automatons[1]
	a.Name = "mutated"
	cur.Editor.Automatons[1] = a
	delete(cur.Editor.Automatons, 1)

	assert.Equal(t, "automaton0", ed.Current().Editor.Automatons[1].Name)

	_, err = ed.Dispatch(ctx, domain.Action{Type: domain.ActionAddGlobalInput})
	require.NoError(t, err)
	_, err = ed.Undo(ctx)
	require.NoError(t, err)
	_, err = ed.Undo(ctx)
	require.NoError(t, err)
	assert.Empty(t, ed.Current().Editor.Automatons)
}

func TestEditor_ExportImport(t *testing.T) {
	ctx := context.Background()
	src := gift.NewEditor(gift.New(), "a")
	_, err := src.Dispatch(ctx, domain.Action{Type: domain.ActionAddGlobalInput})
	require.NoError(t, err)

	data, err := src.Export()
	require.NoError(t, err)

	dst := gift.NewEditor(gift.New(), "b")
	require.NoError(t, dst.Import(ctx, data))
	assert.Equal(t, src.Current(), dst.Current())
	assert.True(t, dst.CanUndo())
}

func TestEditor_Concurrent(t *testing.T) {
	ctx := context.Background()
	ed := gift.NewEditor(gift.New(gift.WithMaxVersions(100)), "s1")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ed.Dispatch(ctx, domain.Action{Type: domain.ActionAddGlobalOutput})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 9, ed.State().CurrentVersion)
	assert.Len(t, ed.Current().Editor.Outputs, 10)
}

func ExampleEditor_undo() {
	ctx := context.Background()
	ed := gift.NewEditor(gift.New(), "example")

	_, _ = ed.Dispatch(ctx, domain.Action{Type: domain.ActionNewAutomaton})
	_, _ = ed.Dispatch(ctx, domain.Action{Type: domain.ActionAddNode, Payload: map[string]any{"automatonId": 1}})
	fmt.Println(len(ed.Current().Editor.Nodes), ed.State().CurrentVersion)

	_, _ = ed.Undo(ctx)
	fmt.Println(len(ed.Current().Editor.Nodes), ed.CanRedo())
	// Output:
	// 1 1
	// 0 true
}
