package domain

// Automaton is one of the parallel machines of a session.
type Automaton struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Info string `json:"info"`

	// InitialState is the number of the state the automaton starts in.
	InitialState int `json:"initialState"`

	NodeIDs       []int `json:"nodeIds"`
	TransitionIDs []int `json:"transitionIds"`

	// ControlSignals are the internal z-variables of this automaton.
	ControlSignals []string `json:"controlSignals"`
}
