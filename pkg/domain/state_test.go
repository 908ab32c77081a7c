package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppState_SurvivesJSON(t *testing.T) {
	state := domain.NewAppState()
	state.Editor.Automatons[1] = domain.Automaton{
		ID: 1, Name: "automaton0", NodeIDs: []int{}, TransitionIDs: []int{}, ControlSignals: []string{},
	}

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var back domain.AppState
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, state, back)
}

func TestEditorState_Lookups(t *testing.T) {
	e := domain.NewEditorState()
	e.Automatons[2] = domain.Automaton{ID: 2, Name: "b", NodeIDs: []int{5, 3}, TransitionIDs: []int{9}}
	e.Automatons[1] = domain.Automaton{ID: 1, Name: "a"}
	e.Nodes[3] = domain.Node{ID: 3, AutomatonID: 2}
	e.Nodes[5] = domain.Node{ID: 5, AutomatonID: 2}
	e.Transitions[9] = domain.Transition{ID: 9, AutomatonID: 2, FromNodeID: 3, ToNodeID: 5}

	assert.Equal(t, []int{1, 2}, e.AutomatonIDs())

	nodes := e.NodesOf(2)
	require.Len(t, nodes, 2)
	assert.Equal(t, 3, nodes[0].ID)
	assert.Len(t, e.TransitionsOf(2), 1)
	assert.Nil(t, e.NodesOf(42))

	a, ok := e.AutomatonByName("b")
	assert.True(t, ok)
	assert.Equal(t, 2, a.ID)
	_, ok = e.AutomatonByName("zzz")
	assert.False(t, ok)
}

func TestEventTypeFor(t *testing.T) {
	assert.Equal(t, domain.EventUndo, domain.EventTypeFor(domain.ActionUndo))
	assert.Equal(t, domain.EventRedo, domain.EventTypeFor(domain.ActionRedo))
	assert.Equal(t, domain.EventLoad, domain.EventTypeFor(domain.ActionLoadState))
	assert.Equal(t, domain.EventDispatch, domain.EventTypeFor(domain.ActionAddNode))
}
