package reducer

import (
	"fmt"
	"slices"

	"github.com/goldi-lab/gift/pkg/domain"
)

func newAutomaton(s *domain.AppState, payload any) error {
	p, err := decodeOptional[NewAutomatonPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor

	var name string
	if p.Name != nil {
		name = *p.Name
		if automatonNameTaken(e, name, 0) {
			return fmt.Errorf("automaton %q: %w", name, domain.ErrConflict)
		}
	} else {
		name = nextName(domain.AutomatonNamePrefix, func(n string) bool {
			return automatonNameTaken(e, n, 0)
		})
	}
	info := p.Info
	if info == "" {
		info = name
	}

	id := nextID(e.Automatons)
	e.Automatons[id] = domain.Automaton{
		ID:             id,
		Name:           name,
		Info:           info,
		NodeIDs:        []int{},
		TransitionIDs:  []int{},
		ControlSignals: []string{},
	}
	resetToInitialStates(e)
	return nil
}

func removeAutomaton(s *domain.AppState, payload any) error {
	id, err := decode[int](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, id)
	if err != nil {
		return err
	}
	for _, tid := range a.TransitionIDs {
		delete(e.Transitions, tid)
	}
	for _, nid := range a.NodeIDs {
		delete(e.Nodes, nid)
	}
	delete(e.Automatons, id)
	delete(e.CurrentStates, id)
	e.ActiveAutomatons = removeInt(e.ActiveAutomatons, id)
	resetToInitialStates(e)
	return nil
}

func changeAutomatonName(s *domain.AppState, payload any) error {
	p, err := decode[AutomatonNamePayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}
	if automatonNameTaken(e, p.NewName, a.ID) {
		return fmt.Errorf("automaton %q: %w", p.NewName, domain.ErrConflict)
	}
	a.Name = p.NewName
	e.Automatons[a.ID] = a
	return nil
}

func setAutomatonInfo(s *domain.AppState, payload any) error {
	p, err := decode[AutomatonInfoPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}
	a.Info = p.Info
	e.Automatons[a.ID] = a
	return nil
}

func setInitialState(s *domain.AppState, payload any) error {
	p, err := decode[InitialStatePayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}
	found := false
	for _, n := range e.NodesOf(a.ID) {
		if n.Number == p.NewInitialStateNumber {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("state number %d in automaton %d: %w", p.NewInitialStateNumber, a.ID, domain.ErrNotFound)
	}
	a.InitialState = p.NewInitialStateNumber
	e.Automatons[a.ID] = a
	resetToInitialStates(e)
	return nil
}

func addControlSignal(s *domain.AppState, payload any) error {
	p, err := decode[AddControlSignalPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}
	name := ""
	if p.CustomName != nil {
		name = *p.CustomName
	}
	name, err = pickSignalName(e, name, domain.ControlSignalNamePrefix)
	if err != nil {
		return err
	}
	a.ControlSignals = append(a.ControlSignals, name)
	e.Automatons[a.ID] = a
	resetToInitialStates(e)
	return nil
}

func removeControlSignal(s *domain.AppState, payload any) error {
	p, err := decode[ControlSignalPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}
	i := indexFold(a.ControlSignals, p.CustomName)
	if i < 0 {
		return fmt.Errorf("control signal %q: %w", p.CustomName, domain.ErrNotFound)
	}
	removed := a.ControlSignals[i]
	a.ControlSignals = slices.Delete(a.ControlSignals, i, i+1)
	e.Automatons[a.ID] = a
	for _, nid := range a.NodeIDs {
		n := e.Nodes[nid]
		delete(n.ControlSignals, removed)
		e.Nodes[nid] = n
	}
	resetToInitialStates(e)
	return nil
}

func changeControlSignalName(s *domain.AppState, payload any) error {
	p, err := decode[RenameControlSignalPayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	a, err := lookupAutomaton(e, p.AutomatonID)
	if err != nil {
		return err
	}
	i := indexFold(a.ControlSignals, p.OldCustomName)
	if i < 0 {
		return fmt.Errorf("control signal %q: %w", p.OldCustomName, domain.ErrNotFound)
	}
	old := a.ControlSignals[i]
	if old == p.NewCustomName {
		return nil
	}

	a.ControlSignals[i] = ""
	e.Automatons[a.ID] = a
	if signalNameTaken(e, p.NewCustomName) {
		a.ControlSignals[i] = old
		return fmt.Errorf("signal %q: %w", p.NewCustomName, domain.ErrConflict)
	}
	a.ControlSignals[i] = p.NewCustomName

	for _, nid := range a.NodeIDs {
		n := e.Nodes[nid]
		if eq, ok := n.ControlSignals[old]; ok {
			delete(n.ControlSignals, old)
			n.ControlSignals[p.NewCustomName] = eq
			e.Nodes[nid] = n
		}
	}
	return nil
}

func addActiveAutomaton(s *domain.AppState, payload any) error {
	id, err := decode[int](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	if _, err := lookupAutomaton(e, id); err != nil {
		return err
	}
	if !slices.Contains(e.ActiveAutomatons, id) {
		e.ActiveAutomatons = append(e.ActiveAutomatons, id)
	}
	return nil
}

func removeActiveAutomaton(s *domain.AppState, payload any) error {
	id, err := decode[int](payload)
	if err != nil {
		return err
	}
	s.Editor.ActiveAutomatons = removeInt(s.Editor.ActiveAutomatons, id)
	return nil
}

func resetToInitial(s *domain.AppState, _ any) error {
	resetToInitialStates(&s.Editor)
	return nil
}
