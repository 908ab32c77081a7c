package reducer

import (
	"maps"
	"slices"

	"github.com/goldi-lab/gift/pkg/domain"
)

// CaseFunc applies one action type to a draft state.
type CaseFunc func(draft *domain.AppState, payload any) error

var table = map[string]CaseFunc{
	domain.ActionChangeViewState:        changeViewState,
	domain.ActionAddGlobalInput:         addGlobalInput,
	domain.ActionRemoveGlobalInput:      removeGlobalInput,
	domain.ActionChangeGlobalInputName:  changeGlobalInputName,
	domain.ActionSetGlobalInput:         setGlobalInput(true),
	domain.ActionResetGlobalInput:       setGlobalInput(false),
	domain.ActionAddGlobalOutput:        addGlobalOutput,
	domain.ActionRemoveGlobalOutput:     removeGlobalOutput,
	domain.ActionChangeGlobalOutputName: changeGlobalOutputName,
	domain.ActionChangeCustomOperator:   changeCustomOperator,
	domain.ActionSetGlobalInputDontCare: setGlobalInputDontCare,

	domain.ActionNewAutomaton:            newAutomaton,
	domain.ActionRemoveAutomaton:         removeAutomaton,
	domain.ActionChangeAutomatonName:     changeAutomatonName,
	domain.ActionSetAutomatonInfo:        setAutomatonInfo,
	domain.ActionSetInitialState:         setInitialState,
	domain.ActionAddControlSignal:        addControlSignal,
	domain.ActionRemoveControlSignal:     removeControlSignal,
	domain.ActionChangeControlSignalName: changeControlSignalName,
	domain.ActionAddActiveAutomaton:      addActiveAutomaton,
	domain.ActionRemoveActiveAutomaton:   removeActiveAutomaton,
	domain.ActionResetToInitialStates:    resetToInitial,

	domain.ActionAddNode:            addNode,
	domain.ActionRemoveNode:         removeNode,
	domain.ActionChangeNodeNumber:   changeNodeNumber,
	domain.ActionChangeNodeName:     changeNodeName,
	domain.ActionSetNodeCords:       setNodeCords,
	domain.ActionSetOutput:          setOutput,
	domain.ActionResetOutput:        resetOutput,
	domain.ActionSetControlSignal:   setControlSignal,
	domain.ActionResetControlSignal: resetControlSignal,

	domain.ActionAddTransition:    addTransition,
	domain.ActionRemoveTransition: removeTransition,
	domain.ActionChangeCondition:  changeCondition,
	domain.ActionChangeStartPoint: movePoint(func(b *domain.Bezier, p domain.Point) { b.Start = p }),
	domain.ActionChangeEndPoint:   movePoint(func(b *domain.Bezier, p domain.Point) { b.End = p }),
	domain.ActionChangeSupportPoint: movePoint(func(b *domain.Bezier, p domain.Point) {
		b.Support = p
	}),

	domain.ActionChangeLanguage:               changeLanguage,
	domain.ActionSetEquationMinimizationLevel: setMinimizationLevel,
	domain.ActionSetZeroTransitionsVisibility: viewFlag(func(v *domain.ViewConfig) *bool { return &v.ShowZeroTransitions }),
	domain.ActionSetZeroOutputVisibility:      viewFlag(func(v *domain.ViewConfig) *bool { return &v.ShowZeroOutputs }),
	domain.ActionSetAutomatonVisibility:       viewFlag(func(v *domain.ViewConfig) *bool { return &v.ShowOnlyActiveAutomatons }),
	domain.ActionSetIncompleteStatesHighlighting: viewFlag(func(v *domain.ViewConfig) *bool {
		return &v.HighlightIncompleteStates
	}),
	domain.ActionSetSelfContradictoryHighlighting: viewFlag(func(v *domain.ViewConfig) *bool {
		return &v.HighlightSelfContradictoryStates
	}),
	domain.ActionShowMinimizedExpressions: viewFlag(func(v *domain.ViewConfig) *bool {
		return &v.ShowMinimizedExpressions
	}),
}

// Reduce applies action to draft. Action types without a case leave the
// draft untouched and return nil.
func Reduce(draft *domain.AppState, action domain.Action) error {
	fn, ok := table[action.Type]
	if !ok {
		return nil
	}
	return fn(draft, action.Payload)
}

// Handles reports whether the reducer has a case for the action type.
func Handles(actionType string) bool {
	_, ok := table[actionType]
	return ok
}

// Types lists every handled action type in sorted order.
func Types() []string {
	return slices.Sorted(maps.Keys(table))
}
