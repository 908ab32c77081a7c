package reducer

import (
	"fmt"
	"slices"

	"github.com/goldi-lab/gift/pkg/domain"
)

func changeViewState(s *domain.AppState, payload any) error {
	view, err := decode[domain.ViewState](payload)
	if err != nil {
		return err
	}
	if err := check(string(view), "oneof=STATEDIAGRAM TRANSITIONMATRIX SIMULATION EQUATIONS"); err != nil {
		return err
	}
	s.Editor.ViewState = view
	return nil
}

func addGlobalInput(s *domain.AppState, payload any) error {
	name, err := decodeOptional[string](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	name, err = pickSignalName(e, name, domain.InputNamePrefix)
	if err != nil {
		return err
	}
	e.Inputs = append(e.Inputs, name)
	e.InputAssignment[name] = false
	resetToInitialStates(e)
	return nil
}

func addGlobalOutput(s *domain.AppState, payload any) error {
	name, err := decodeOptional[string](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	name, err = pickSignalName(e, name, domain.OutputNamePrefix)
	if err != nil {
		return err
	}
	e.Outputs = append(e.Outputs, name)
	return nil
}

// pickSignalName validates a requested name or generates one when empty.
func pickSignalName(e *domain.EditorState, name, prefix string) (string, error) {
	if name == "" {
		return nextName(prefix, func(n string) bool { return signalNameTaken(e, n) }), nil
	}
	if err := check(name, "signalname"); err != nil {
		return "", err
	}
	if signalNameTaken(e, name) {
		return "", fmt.Errorf("signal %q: %w", name, domain.ErrConflict)
	}
	return name, nil
}

func removeGlobalInput(s *domain.AppState, payload any) error {
	name, err := decode[string](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	i := indexFold(e.Inputs, name)
	if i < 0 {
		return fmt.Errorf("input %q: %w", name, domain.ErrNotFound)
	}
	removed := e.Inputs[i]
	e.Inputs = slices.Delete(e.Inputs, i, i+1)
	delete(e.InputAssignment, removed)

	// Expressions using the input are no longer valid and fall back to a constant.
	rewriteExpressions(e, func(expr string) string {
		if mentions(expr, removed) {
			return e.Operators.LogicOne
		}
		return expr
	})
	if mentions(e.GlobalInputDontCare, removed) {
		e.GlobalInputDontCare = e.Operators.LogicZero
	}
	resetToInitialStates(e)
	return nil
}

func removeGlobalOutput(s *domain.AppState, payload any) error {
	name, err := decode[string](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	i := indexFold(e.Outputs, name)
	if i < 0 {
		return fmt.Errorf("output %q: %w", name, domain.ErrNotFound)
	}
	removed := e.Outputs[i]
	e.Outputs = slices.Delete(e.Outputs, i, i+1)
	for id, n := range e.Nodes {
		delete(n.Outputs, removed)
		e.Nodes[id] = n
	}
	resetToInitialStates(e)
	return nil
}

func changeGlobalInputName(s *domain.AppState, payload any) error {
	p, err := decode[RenamePayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	i := indexFold(e.Inputs, p.OldCustomName)
	if i < 0 {
		return fmt.Errorf("input %q: %w", p.OldCustomName, domain.ErrNotFound)
	}
	old := e.Inputs[i]
	if old == p.NewCustomName {
		return nil
	}
	e.Inputs[i] = ""
	if signalNameTaken(e, p.NewCustomName) {
		e.Inputs[i] = old
		return fmt.Errorf("signal %q: %w", p.NewCustomName, domain.ErrConflict)
	}
	e.Inputs[i] = p.NewCustomName

	e.InputAssignment[p.NewCustomName] = e.InputAssignment[old]
	delete(e.InputAssignment, old)

	rewriteExpressions(e, func(expr string) string {
		return renameVariable(expr, old, p.NewCustomName)
	})
	e.GlobalInputDontCare = renameVariable(e.GlobalInputDontCare, old, p.NewCustomName)
	return nil
}

func changeGlobalOutputName(s *domain.AppState, payload any) error {
	p, err := decode[RenamePayload](payload)
	if err != nil {
		return err
	}
	e := &s.Editor
	i := indexFold(e.Outputs, p.OldCustomName)
	if i < 0 {
		return fmt.Errorf("output %q: %w", p.OldCustomName, domain.ErrNotFound)
	}
	old := e.Outputs[i]
	if old == p.NewCustomName {
		return nil
	}
	e.Outputs[i] = ""
	if signalNameTaken(e, p.NewCustomName) {
		e.Outputs[i] = old
		return fmt.Errorf("signal %q: %w", p.NewCustomName, domain.ErrConflict)
	}
	e.Outputs[i] = p.NewCustomName

	for id, n := range e.Nodes {
		if eq, ok := n.Outputs[old]; ok {
			delete(n.Outputs, old)
			n.Outputs[p.NewCustomName] = eq
			e.Nodes[id] = n
		}
	}
	return nil
}

func setGlobalInput(value bool) CaseFunc {
	return func(s *domain.AppState, payload any) error {
		p, err := decode[SignalPayload](payload)
		if err != nil {
			return err
		}
		e := &s.Editor
		i := indexFold(e.Inputs, p.CustomName)
		if i < 0 {
			return fmt.Errorf("input %q: %w", p.CustomName, domain.ErrNotFound)
		}
		e.InputAssignment[e.Inputs[i]] = value
		return nil
	}
}

func setGlobalInputDontCare(s *domain.AppState, payload any) error {
	p, err := decode[DontCarePayload](payload)
	if err != nil {
		return err
	}
	s.Editor.GlobalInputDontCare = p.HStarExpression
	resetToInitialStates(&s.Editor)
	return nil
}

func changeCustomOperator(s *domain.AppState, payload any) error {
	p, err := decode[OperatorPayload](payload)
	if err != nil {
		return err
	}
	ops := &s.Editor.Operators
	slots := map[domain.OperatorType]*string{
		domain.OperatorAnd: &ops.And,
		domain.OperatorOr:  &ops.Or,
		domain.OperatorNot: &ops.Not,
		domain.OperatorXor: &ops.Xor,
	}
	target := slots[p.OperatorType]
	for typ, sym := range slots {
		if typ != p.OperatorType && *sym == p.NewOperatorSymbol {
			return fmt.Errorf("operator symbol %q: %w", p.NewOperatorSymbol, domain.ErrConflict)
		}
	}
	if p.NewOperatorSymbol == ops.LogicOne || p.NewOperatorSymbol == ops.LogicZero {
		return fmt.Errorf("operator symbol %q: %w", p.NewOperatorSymbol, domain.ErrConflict)
	}
	*target = p.NewOperatorSymbol
	return nil
}
