package reducer

import (
	"fmt"
	"slices"

	"github.com/goldi-lab/gift/pkg/domain"
)

func numberTaken(e *domain.EditorState, automatonID, number, except int) bool {
	for _, n := range e.NodesOf(automatonID) {
		if n.ID != except && n.Number == number {
			return true
		}
	}
	return false
}

func addNode(s *domain.AppState, payload any) error {
	p, err := decode[AddNodePayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}

	number := 0
	if p.CustomStateNumber != nil {
		number = *p.CustomStateNumber
		if numberTaken(e, a.ID, number, 0) {
			return fmt.Errorf("state number %d: %w", number, domain.ErrConflict)
		}
	} else {
		for numberTaken(e, a.ID, number, 0) {
			number++
		}
	}
	var pos domain.Point
	if p.Position != nil {
		pos = *p.Position
	}

	id := nextID(e.Nodes)
	e.Nodes[id] = domain.Node{
		ID:             id,
		AutomatonID:    a.ID,
		Number:         number,
		Position:       pos,
		Outputs:        map[string]string{},
		ControlSignals: map[string]string{},
	}
	a.NodeIDs = append(a.NodeIDs, id)
	e.Automatons[a.ID] = a
	resetToInitialStates(e)
	return nil
}

func removeNode(s *domain.AppState, payload any) error {
	p, err := decode[NodePayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	a := e.Automatons[n.AutomatonID]

	for id, t := range e.Transitions {
		if t.FromNodeID == n.ID || t.ToNodeID == n.ID {
			delete(e.Transitions, id)
			a.TransitionIDs = removeInt(a.TransitionIDs, id)
		}
	}
	delete(e.Nodes, n.ID)
	a.NodeIDs = removeInt(a.NodeIDs, n.ID)
	e.Automatons[a.ID] = a

	// The initial state falls back to the lowest remaining number.
	if a.InitialState == n.Number {
		a.InitialState = 0
		if rest := e.NodesOf(a.ID); len(rest) > 0 {
			a.InitialState = slices.MinFunc(rest, func(x, y domain.Node) int { return x.Number - y.Number }).Number
		}
		e.Automatons[a.ID] = a
	}
	resetToInitialStates(e)
	return nil
}

func changeNodeNumber(s *domain.AppState, payload any) error {
	p, err := decode[NodeNumberPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	if numberTaken(e, n.AutomatonID, p.NewNodeNumber, n.ID) {
		return fmt.Errorf("state number %d: %w", p.NewNodeNumber, domain.ErrConflict)
	}
	a := e.Automatons[n.AutomatonID]
	if a.InitialState == n.Number {
		a.InitialState = p.NewNodeNumber
		e.Automatons[a.ID] = a
	}
	n.Number = p.NewNodeNumber
	e.Nodes[n.ID] = n
	resetToInitialStates(e)
	return nil
}

func changeNodeName(s *domain.AppState, payload any) error {
	p, err := decode[NodeNamePayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	n.Name = p.NewNodeName
	e.Nodes[n.ID] = n
	return nil
}

func setNodeCords(s *domain.AppState, payload any) error {
	p, err := decode[NodeCordsPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	n.Position = p.NewPosition
	e.Nodes[n.ID] = n
	refreshBeziers(e, n)
	return nil
}

func setOutput(s *domain.AppState, payload any) error {
	p, err := decode[SetOutputPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	i := indexFold(e.Outputs, p.CustomOutputName)
	if i < 0 {
		return fmt.Errorf("output %q: %w", p.CustomOutputName, domain.ErrNotFound)
	}
	n.Outputs[e.Outputs[i]] = p.Equation
	e.Nodes[n.ID] = n
	resetToInitialStates(e)
	return nil
}

func resetOutput(s *domain.AppState, payload any) error {
	p, err := decode[ResetOutputPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	i := indexFold(e.Outputs, p.CustomOutputName)
	if i < 0 {
		return fmt.Errorf("output %q: %w", p.CustomOutputName, domain.ErrNotFound)
	}
	delete(n.Outputs, e.Outputs[i])
	e.Nodes[n.ID] = n
	resetToInitialStates(e)
	return nil
}

func setControlSignal(s *domain.AppState, payload any) error {
	p, err := decode[SetControlSignalPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	a := e.Automatons[n.AutomatonID]
	i := indexFold(a.ControlSignals, p.CustomControlSignalName)
	if i < 0 {
		return fmt.Errorf("control signal %q: %w", p.CustomControlSignalName, domain.ErrNotFound)
	}
	n.ControlSignals[a.ControlSignals[i]] = p.Equation
	e.Nodes[n.ID] = n
	resetToInitialStates(e)
	return nil
}

func resetControlSignal(s *domain.AppState, payload any) error {
	p, err := decode[ResetControlSignalPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	n, err := lookupNode(e, p.NodeID)
	if err != nil {
		return err
	}
	a := e.Automatons[n.AutomatonID]
	if p.AutomatonName != "" && p.AutomatonName != a.Name {
		return fmt.Errorf("node %d in automaton %q: %w", n.ID, p.AutomatonName, domain.ErrNotFound)
	}
	i := indexFold(a.ControlSignals, p.CustomControlSignalName)
	if i < 0 {
		return fmt.Errorf("control signal %q: %w", p.CustomControlSignalName, domain.ErrNotFound)
	}
	delete(n.ControlSignals, a.ControlSignals[i])
	e.Nodes[n.ID] = n
	resetToInitialStates(e)
	return nil
}
