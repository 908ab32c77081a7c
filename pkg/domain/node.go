package domain

// Point is a position on the drawing canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one state of an automaton.
type Node struct {
	ID          int `json:"id"`
	AutomatonID int `json:"automatonId"`

	// Number is the state encoding, unique within the automaton.
	Number int    `json:"number"`
	Name   string `json:"name"`

	Position Point `json:"position"`

	// Outputs maps a global output name to its equation in this state.
	Outputs map[string]string `json:"outputs"`

	// ControlSignals maps a control signal of the automaton to its equation in this state.
	ControlSignals map[string]string `json:"controlSignals"`
}
