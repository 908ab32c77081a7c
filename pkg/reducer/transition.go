package reducer

import (
	"fmt"
	"strings"

	"github.com/goldi-lab/gift/pkg/domain"
)

// createTransition adds an edge between two nodes of automaton a.
func createTransition(e *domain.EditorState, a domain.Automaton, from, to domain.Node, condition string) {
	id := nextID(e.Transitions)
	e.Transitions[id] = domain.Transition{
		ID:          id,
		AutomatonID: a.ID,
		FromNodeID:  from.ID,
		ToNodeID:    to.ID,
		Condition:   condition,
		Bezier:      domain.NewBezier(from.Position, to.Position),
	}
	a.TransitionIDs = append(a.TransitionIDs, id)
	e.Automatons[a.ID] = a
}

func addTransition(s *domain.AppState, payload any) error {
	p, err := decode[AddTransitionPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}
	from, err := lookupNode(e, p.FromNodeID)
	if err != nil {
		return err
	}
	to, err := lookupNode(e, p.ToNodeID)
	if err != nil {
		return err
	}
	if from.AutomatonID != a.ID || to.AutomatonID != a.ID {
		return fmt.Errorf("nodes %d and %d in automaton %d: %w", from.ID, to.ID, a.ID, domain.ErrNotFound)
	}

	// An existing edge between the same nodes only gets its condition replaced.
	if id := transitionBetween(e, from.ID, to.ID); id != 0 {
		if p.Condition != nil {
			t := e.Transitions[id]
			t.Condition = *p.Condition
			e.Transitions[id] = t
		}
	} else {
		condition := e.Operators.LogicOne
		if p.Condition != nil {
			condition = *p.Condition
		}
		createTransition(e, a, from, to, condition)
	}
	resetToInitialStates(e)
	return nil
}

func deleteTransition(e *domain.EditorState, t domain.Transition) {
	delete(e.Transitions, t.ID)
	if a, ok := e.Automatons[t.AutomatonID]; ok {
		a.TransitionIDs = removeInt(a.TransitionIDs, t.ID)
		e.Automatons[a.ID] = a
	}
}

func removeTransition(s *domain.AppState, payload any) error {
	p, err := decode[TransitionPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	t, err := lookupTransition(e, p.TransitionID)
	if err != nil {
		return err
	}
	deleteTransition(e, t)
	resetToInitialStates(e)
	return nil
}

// changeCondition edits the transition between two nodes. A blank condition
// deletes the edge; a condition between unconnected nodes creates one.
func changeCondition(s *domain.AppState, payload any) error {
	p, err := decode[ConditionPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	from, err := lookupNode(e, p.FromNodeID)
	if err != nil {
		return err
	}
	to, err := lookupNode(e, p.ToNodeID)
	if err != nil {
		return err
	}
	if from.AutomatonID != to.AutomatonID {
		return fmt.Errorf("nodes %d and %d share no automaton: %w", from.ID, to.ID, domain.ErrNotFound)
	}

	id := transitionBetween(e, from.ID, to.ID)
	switch {
	case strings.TrimSpace(p.Condition) == "":
		if id != 0 {
			deleteTransition(e, e.Transitions[id])
		}
	case id != 0:
		t := e.Transitions[id]
		t.Condition = p.Condition
		e.Transitions[id] = t
	default:
		createTransition(e, e.Automatons[from.AutomatonID], from, to, p.Condition)
	}
	resetToInitialStates(e)
	return nil
}

func movePoint(set func(b *domain.Bezier, p domain.Point)) CaseFunc {
	return func(s *domain.AppState, payload any) error {
		p, err := decode[PointPayload](payload)
		if err != nil {
			return err
		}
		e := &s.Editor
		t, err := lookupTransition(e, p.TransitionID)
		if err != nil {
			return err
		}
		set(&t.Bezier, p.NewPoint)
		e.Transitions[t.ID] = t
		return nil
	}
}
