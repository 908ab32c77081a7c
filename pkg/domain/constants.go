package domain

// ViewState identifies the active editor tab.
type ViewState string

const (
	ViewStateDiagram     ViewState = "STATEDIAGRAM"
	ViewTransitionMatrix ViewState = "TRANSITIONMATRIX"
	ViewSimulation       ViewState = "SIMULATION"
	ViewEquations        ViewState = "EQUATIONS"
)

// MinimizationLevel controls how derived equations are displayed.
type MinimizationLevel string

const (
	MinimizationNone  MinimizationLevel = "UNMINIMIZED"
	MinimizationPlain MinimizationLevel = "MINIMIZED"
	MinimizationHStar MinimizationLevel = "HStarMinimized"
)

// OperatorType names one of the customisable operators.
type OperatorType string

const (
	OperatorAnd OperatorType = "AND_OPERATOR"
	OperatorOr  OperatorType = "OR_OPERATOR"
	OperatorNot OperatorType = "NOT_OPERATOR"
	OperatorXor OperatorType = "EXCLUSIVE_OR_OPERATOR"
)

// Default operator symbols.
const (
	DefaultOrOperator  = "+"
	DefaultAndOperator = "&"
	DefaultNotOperator = "/"
	DefaultXorOperator = "*"
	DefaultLogicOne    = "1"
	DefaultLogicZero   = "0"
)

// Prefixes for generated names.
const (
	AutomatonNamePrefix     = "automaton"
	InputNamePrefix         = "x"
	OutputNamePrefix        = "y"
	ControlSignalNamePrefix = "z"
)

// DefaultLanguage is the UI language of a new session.
const DefaultLanguage = "de"
