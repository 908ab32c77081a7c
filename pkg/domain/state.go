package domain

import (
	"maps"
	"slices"
)

// AppState is the application state versioned by the history store.
// Every collection is non-nil and serialised without omitempty, so a JSON
// round trip yields a structurally equal value.
type AppState struct {
	Editor EditorState `json:"editor"`
	View   ViewConfig  `json:"view"`
}

// EditorState holds the automaton graph and the global signals.
type EditorState struct {
	// ViewState is the active editor tab.
	ViewState ViewState `json:"viewState"`

	// Inputs and Outputs are the global signal names (x and y vectors).
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`

	// InputAssignment holds the simulated value of every global input.
	InputAssignment map[string]bool `json:"inputAssignment"`

	// GlobalInputDontCare is the h-star expression.
	GlobalInputDontCare string `json:"globalInputDontCare"`

	Operators Operators `json:"operators"`

	Automatons  map[int]Automaton  `json:"automatons"`
	Nodes       map[int]Node       `json:"nodes"`
	Transitions map[int]Transition `json:"transitions"`

	// ActiveAutomatons lists the automaton IDs taking part in the simulation.
	ActiveAutomatons []int `json:"activeAutomatons"`

	// CurrentStates maps automaton ID to the number of its current state.
	CurrentStates map[int]int `json:"currentStates"`
}

// ViewConfig holds the display settings of the editor.
type ViewConfig struct {
	Language                         string            `json:"language"`
	MinimizationLevel                MinimizationLevel `json:"minimizationLevel"`
	ShowZeroTransitions              bool              `json:"showZeroTransitions"`
	ShowZeroOutputs                  bool              `json:"showZeroOutputs"`
	ShowOnlyActiveAutomatons         bool              `json:"showOnlyActiveAutomatons"`
	HighlightIncompleteStates        bool              `json:"highlightIncompleteStates"`
	HighlightSelfContradictoryStates bool              `json:"highlightSelfContradictoryStates"`
	ShowMinimizedExpressions         bool              `json:"showMinimizedExpressions"`
}

// Operators holds the symbols used when reading and printing expressions.
type Operators struct {
	And       string `json:"and"`
	Or        string `json:"or"`
	Not       string `json:"not"`
	Xor       string `json:"xor"`
	LogicOne  string `json:"logicOne"`
	LogicZero string `json:"logicZero"`
}

// NewOperators returns the default operator symbols.
func NewOperators() Operators {
	return Operators{
		And:       DefaultAndOperator,
		Or:        DefaultOrOperator,
		Not:       DefaultNotOperator,
		Xor:       DefaultXorOperator,
		LogicOne:  DefaultLogicOne,
		LogicZero: DefaultLogicZero,
	}
}

// NewEditorState creates an empty editor.
func NewEditorState() EditorState {
	return EditorState{
		ViewState:           ViewStateDiagram,
		Inputs:              []string{},
		Outputs:             []string{},
		InputAssignment:     map[string]bool{},
		GlobalInputDontCare: DefaultLogicZero,
		Operators:           NewOperators(),
		Automatons:          map[int]Automaton{},
		Nodes:               map[int]Node{},
		Transitions:         map[int]Transition{},
		ActiveAutomatons:    []int{},
		CurrentStates:       map[int]int{},
	}
}

// NewViewConfig returns the default display settings.
func NewViewConfig() ViewConfig {
	return ViewConfig{
		Language:            DefaultLanguage,
		MinimizationLevel:   MinimizationNone,
		ShowZeroTransitions: true,
		ShowZeroOutputs:     true,
	}
}

// NewAppState creates a clean application state.
func NewAppState() AppState {
	return AppState{
		Editor: NewEditorState(),
		View:   NewViewConfig(),
	}
}

// AutomatonIDs returns the IDs of all automatons in ascending order.
func (e EditorState) AutomatonIDs() []int {
	return slices.Sorted(maps.Keys(e.Automatons))
}

// NodesOf returns the nodes of an automaton ordered by ID.
func (e EditorState) NodesOf(automatonID int) []Node {
	a, ok := e.Automatons[automatonID]
	if !ok {
		return nil
	}
	out := make([]Node, 0, len(a.NodeIDs))
	for _, id := range slices.Sorted(slices.Values(a.NodeIDs)) {
		if n, ok := e.Nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// TransitionsOf returns the transitions of an automaton ordered by ID.
func (e EditorState) TransitionsOf(automatonID int) []Transition {
	a, ok := e.Automatons[automatonID]
	if !ok {
		return nil
	}
	out := make([]Transition, 0, len(a.TransitionIDs))
	for _, id := range slices.Sorted(slices.Values(a.TransitionIDs)) {
		if t, ok := e.Transitions[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// AutomatonByName finds an automaton by its name.
func (e EditorState) AutomatonByName(name string) (Automaton, bool) {
	for _, id := range e.AutomatonIDs() {
		if a := e.Automatons[id]; a.Name == name {
			return a, true
		}
	}
	return Automaton{}, false
}
