package domain

// Bezier describes how a transition is drawn.
type Bezier struct {
	Start   Point `json:"start"`
	End     Point `json:"end"`
	Support Point `json:"support"`
}

// NewBezier draws a straight edge between two positions.
func NewBezier(from, to Point) Bezier {
	return Bezier{
		Start:   from,
		End:     to,
		Support: Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2},
	}
}

// Transition is a directed edge between two nodes of the same automaton.
// At most one transition exists per ordered pair of nodes.
type Transition struct {
	ID          int    `json:"id"`
	AutomatonID int    `json:"automatonId"`
	FromNodeID  int    `json:"fromNodeId"`
	ToNodeID    int    `json:"toNodeId"`
	Condition   string `json:"condition"`
	Bezier      Bezier `json:"bezier"`
}
