package domain

import "github.com/goldi-lab/gift/pkg/history"

// Action is a typed request to change the session state.
type Action = history.Action

// Meta actions handled by the history store.
const (
	ActionUndo      = history.ActionUndo
	ActionRedo      = history.ActionRedo
	ActionLoadState = history.ActionLoadState
)

// Editor actions.
const (
	ActionChangeViewState         = "CHANGE_VIEW_STATE"
	ActionAddGlobalInput          = "ADDGLOBALINPUT"
	ActionRemoveGlobalInput       = "REMOVEGLOBALINPUT"
	ActionChangeGlobalInputName   = "CHANGEGLOBALINPUTNAME"
	ActionSetGlobalInput          = "SET_GLOBAL_INPUT"
	ActionResetGlobalInput        = "RESET_GLOBAL_INPUT"
	ActionAddGlobalOutput         = "ADDGLOBALOUTPUT"
	ActionRemoveGlobalOutput      = "REMOVEGLOBALOUTPUT"
	ActionChangeGlobalOutputName  = "CHANGEGLOBALOUTPUTNAME"
	ActionChangeCustomOperator    = "CHANGECUSTOMOPERATOR"
	ActionSetGlobalInputDontCare  = "SET_GLOBAL_INPUT_DONT_CARE"
	ActionNewAutomaton            = "NEWAUTOMATON"
	ActionRemoveAutomaton         = "REMOVEAUTOMATON"
	ActionChangeAutomatonName     = "CHANGEAUTOMATONNAME"
	ActionSetAutomatonInfo        = "SETAUTOMATONINFO"
	ActionSetInitialState         = "SET_INITIAL_STATE"
	ActionAddControlSignal        = "ADDCONTROLSIGNAL"
	ActionRemoveControlSignal     = "REMOVECONTROLSIGNAL"
	ActionChangeControlSignalName = "CHANGECONTROLSIGNALNAME"
	ActionAddActiveAutomaton      = "ADDACTIVEAUTOMATON"
	ActionRemoveActiveAutomaton   = "REMOVEACTIVEAUTOMATON"
	ActionResetToInitialStates    = "RESET_TO_INITAL_STATES"
	ActionAddNode                 = "ADDNODE"
	ActionRemoveNode              = "REMOVENODE"
	ActionChangeNodeNumber        = "CHANGENODENUMBER"
	ActionChangeNodeName          = "CHANGE_NODE_NAME"
	ActionSetNodeCords            = "SETNODECORDS"
	ActionSetOutput               = "SETOUTPUT"
	ActionResetOutput             = "RESETOUTPUT"
	ActionSetControlSignal        = "SETCONTROLSIGNAL"
	ActionResetControlSignal      = "RESETCONTROLSIGNAL"
	ActionAddTransition           = "ADDTRANSITION"
	ActionRemoveTransition        = "REMOVE_TRANSITION"
	ActionChangeCondition         = "CHANGECONDITION"
	ActionChangeStartPoint        = "CHANGESTARTPOINT"
	ActionChangeEndPoint          = "CHANGEENDPOINT"
	ActionChangeSupportPoint      = "CHANGESUPPORTPOINT"
)

// View configuration actions.
const (
	ActionChangeLanguage                   = "CHANGELANGUAGE"
	ActionSetEquationMinimizationLevel     = "SET_EQUATION_MINIMIZATION_LEVEL"
	ActionSetZeroTransitionsVisibility     = "SET_ZERO_TRANSITIONS_VISIBILITY"
	ActionSetZeroOutputVisibility          = "SET_ZERO_OUTPUT_VISIBILITY"
	ActionSetAutomatonVisibility           = "SET_AUTOMATON_VISIBILITY"
	ActionSetIncompleteStatesHighlighting  = "SET_INCOMPLETE_STATES_HIGHLIGHTING"
	ActionSetSelfContradictoryHighlighting = "SET_SELF_CONTRADICTORY_STATES_HIGHLIGHTING"
	ActionShowMinimizedExpressions         = "SHOW_MINIMIZED_EXPRESSIONS"
)
