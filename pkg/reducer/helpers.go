package reducer

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goldi-lab/gift/pkg/domain"
)

// nextID returns the smallest free positive key of m.
func nextID[V any](m map[int]V) int {
	id := 1
	for {
		if _, ok := m[id]; !ok {
			return id
		}
		id++
	}
}

// nextName returns prefix followed by the smallest counter not yet taken.
func nextName(prefix string, taken func(string) bool) string {
	for i := 0; ; i++ {
		name := prefix + strconv.Itoa(i)
		if !taken(name) {
			return name
		}
	}
}

func indexFold(list []string, name string) int {
	return slices.IndexFunc(list, func(s string) bool { return strings.EqualFold(s, name) })
}

func removeInt(list []int, v int) []int {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// signalNameTaken reports whether name clashes with any global signal or
// control signal. Signal names are compared case-insensitively.
func signalNameTaken(e *domain.EditorState, name string) bool {
	if indexFold(e.Inputs, name) >= 0 || indexFold(e.Outputs, name) >= 0 {
		return true
	}
	for _, a := range e.Automatons {
		if indexFold(a.ControlSignals, name) >= 0 {
			return true
		}
	}
	return false
}

func automatonNameTaken(e *domain.EditorState, name string, except int) bool {
	for id, a := range e.Automatons {
		if id != except && strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

func lookupAutomaton(e *domain.EditorState, id int) (domain.Automaton, error) {
	a, ok := e.Automatons[id]
	if !ok {
		return a, fmt.Errorf("automaton %d: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func lookupNode(e *domain.EditorState, id int) (domain.Node, error) {
	n, ok := e.Nodes[id]
	if !ok {
		return n, fmt.Errorf("node %d: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

func lookupTransition(e *domain.EditorState, id int) (domain.Transition, error) {
	t, ok := e.Transitions[id]
	if !ok {
		return t, fmt.Errorf("transition %d: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// transitionBetween finds the transition from one node to another, or 0.
func transitionBetween(e *domain.EditorState, from, to int) int {
	for id, t := range e.Transitions {
		if t.FromNodeID == from && t.ToNodeID == to {
			return id
		}
	}
	return 0
}

// resetToInitialStates puts every automaton back into its initial state.
// Every change to the logic of the system ends a running simulation.
func resetToInitialStates(e *domain.EditorState) {
	for id, a := range e.Automatons {
		e.CurrentStates[id] = a.InitialState
	}
}

func identPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
}

// mentions reports whether expr uses the variable name.
func mentions(expr, name string) bool {
	return identPattern(name).MatchString(expr)
}

// renameVariable replaces every use of oldName in expr.
func renameVariable(expr, oldName, newName string) string {
	return identPattern(oldName).ReplaceAllLiteralString(expr, newName)
}

// rewriteExpressions runs fn over every expression stored in the graph.
func rewriteExpressions(e *domain.EditorState, fn func(string) string) {
	for id, t := range e.Transitions {
		t.Condition = fn(t.Condition)
		e.Transitions[id] = t
	}
	for id, n := range e.Nodes {
		for k, v := range n.Outputs {
			n.Outputs[k] = fn(v)
		}
		for k, v := range n.ControlSignals {
			n.ControlSignals[k] = fn(v)
		}
		e.Nodes[id] = n
	}
}

// refreshBeziers redraws the ends of every transition attached to node.
func refreshBeziers(e *domain.EditorState, node domain.Node) {
	for id, t := range e.Transitions {
		if t.FromNodeID != node.ID && t.ToNodeID != node.ID {
			continue
		}
		from, to := e.Nodes[t.FromNodeID], e.Nodes[t.ToNodeID]
		t.Bezier = domain.NewBezier(from.Position, to.Position)
		e.Transitions[id] = t
	}
}
