package graph_test

import (
	"strings"
	"testing"

	"github.com/goldi-lab/gift/internal/presentation/graph"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func sampleEditor() domain.EditorState {
	ed := domain.NewEditorState()
	ed.Outputs = []string{"y0"}
	ed.Automatons[1] = domain.Automaton{ID: 1, Name: "main", InitialState: 0, NodeIDs: []int{2, 1}, TransitionIDs: []int{1, 2}}
	ed.Nodes[1] = domain.Node{ID: 1, AutomatonID: 1, Number: 0, Outputs: map[string]string{"y0": "1"}}
	ed.Nodes[2] = domain.Node{ID: 2, AutomatonID: 1, Number: 1, Name: "busy", Outputs: map[string]string{}}
	ed.Transitions[1] = domain.Transition{ID: 1, AutomatonID: 1, FromNodeID: 1, ToNodeID: 2, Condition: "x0"}
	ed.Transitions[2] = domain.Transition{ID: 2, AutomatonID: 1, FromNodeID: 2, ToNodeID: 1, Condition: "0"}
	ed.CurrentStates[1] = 1
	return ed
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name: "Shapes and Labels",
			contains: []string{
				"graph TD",
				"subgraph a1[\"main\"]",
				"n1((\"S0 <br/> y0=1\"))",
				"n2[\"busy\"]",
				"n1 -- \"x0\" --> n2",
				"n2 -- \"0\" --> n1",
			},
			notContains: []string{"classDef current"},
		},
		{
			name:    "Current State Overlay",
			overlay: &graph.Overlay{CurrentStates: true},
			contains: []string{
				"classDef current",
				"class n2 current;",
			},
			notContains: []string{"class n1 current;"},
		},
		{
			name:        "Hide Zero Transitions",
			overlay:     &graph.Overlay{HideZeroTransitions: true},
			contains:    []string{"n1 -- \"x0\" --> n2"},
			notContains: []string{"n2 -- \"0\" --> n1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sampleEditor(), tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_EscapesQuotes(t *testing.T) {
	ed := domain.NewEditorState()
	ed.Automatons[1] = domain.Automaton{ID: 1, Name: `say "hi"`, NodeIDs: []int{}, TransitionIDs: []int{}}

	got := graph.GenerateMermaid(ed, nil)
	assert.Contains(t, got, `subgraph a1["say 'hi'"]`)
	assert.Equal(t, 1, strings.Count(got, "end\n"))
}
