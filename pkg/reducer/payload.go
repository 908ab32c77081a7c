package reducer

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

var signalNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Names end up inside boolean expressions, so they must be identifiers.
	_ = v.RegisterValidation("signalname", func(fl validator.FieldLevel) bool {
		return signalNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// decode converts an action payload into T and validates it.
// Typed values pass through; generic maps from JSON or YAML are decoded with
// the json field names.
func decode[T any](payload any) (T, error) {
	var out T
	switch p := payload.(type) {
	case T:
		out = p
	case *T:
		if p == nil {
			return out, fmt.Errorf("%w: nil %T", domain.ErrInvalidPayload, p)
		}
		out = *p
	case nil:
		return out, fmt.Errorf("%w: missing payload", domain.ErrInvalidPayload)
	default:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			Result:           &out,
		})
		if err != nil {
			return out, err
		}
		if err := dec.Decode(payload); err != nil {
			return out, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
	}

	if reflect.Indirect(reflect.ValueOf(out)).Kind() == reflect.Struct {
		if err := validate.Struct(out); err != nil {
			return out, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
	}
	return out, nil
}

// decodeOptional is decode for payloads that may be absent.
func decodeOptional[T any](payload any) (T, error) {
	if payload == nil {
		var zero T
		return zero, nil
	}
	return decode[T](payload)
}

// check validates a scalar payload against a validator tag.
func check(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	return nil
}

// Payload types. Field names follow the JSON the editor front-end sends.

// RenamePayload renames a global input or output; uses of the old name in
// conditions and output equations follow the rename.
type RenamePayload struct {
	OldCustomName string `json:"oldCustomName" validate:"required"`
	NewCustomName string `json:"newCustomName" validate:"required,signalname"`
}

// SignalPayload names the global input to set or reset.
type SignalPayload struct {
	CustomName string `json:"customName" validate:"required"`
}

// OperatorPayload replaces the symbol the editor shows for a boolean operator.
type OperatorPayload struct {
	OperatorType      domain.OperatorType `json:"operatorTyp" validate:"required,oneof=AND_OPERATOR OR_OPERATOR NOT_OPERATOR EXCLUSIVE_OR_OPERATOR"`
	NewOperatorSymbol string              `json:"newOperatorSymbol" validate:"required,max=8"`
}

// DontCarePayload sets the don't care expression of the global inputs.
type DontCarePayload struct {
	HStarExpression string `json:"hStarExpression" validate:"required"`
}

// NewAutomatonPayload creates an automaton. A nil Name picks the next free
// automatonN name.
type NewAutomatonPayload struct {
	Name *string `json:"name" validate:"omitnil,signalname"`
	Info string  `json:"info"`
}

// AutomatonNamePayload renames an automaton.
type AutomatonNamePayload struct {
	AutomatonID int    `json:"automatonId" validate:"required"`
	NewName     string `json:"newName" validate:"required,signalname"`
}

// AutomatonInfoPayload replaces the free-text description of an automaton.
type AutomatonInfoPayload struct {
	AutomatonID int    `json:"automatonId" validate:"required"`
	Info        string `json:"info"`
}

// InitialStatePayload selects the initial state by its state number.
type InitialStatePayload struct {
	AutomatonID           int `json:"automatonId" validate:"required"`
	NewInitialStateNumber int `json:"newInitialStateNumber" validate:"min=0"`
}

// AddControlSignalPayload adds a control signal to an automaton. A nil
// CustomName picks the next free name.
type AddControlSignalPayload struct {
	AutomatonID int     `json:"automatonId" validate:"required"`
	CustomName  *string `json:"customName" validate:"omitnil,signalname"`
}

// ControlSignalPayload removes a control signal from an automaton.
type ControlSignalPayload struct {
	AutomatonID int    `json:"automatonId" validate:"required"`
	CustomName  string `json:"customName" validate:"required"`
}

// RenameControlSignalPayload renames a control signal of an automaton.
type RenameControlSignalPayload struct {
	AutomatonID   int    `json:"automatonId" validate:"required"`
	OldCustomName string `json:"oldCustomName" validate:"required"`
	NewCustomName string `json:"newCustomName" validate:"required,signalname"`
}

// AddNodePayload adds a state to an automaton. Without CustomStateNumber the
// lowest free number is used.
type AddNodePayload struct {
	AutomatonID       int           `json:"automatonId" validate:"required"`
	CustomStateNumber *int          `json:"customStateNumber" validate:"omitnil,min=0"`
	Position          *domain.Point `json:"position"`
}

// NodePayload removes a node together with its transitions.
type NodePayload struct {
	NodeID int `json:"nodeId" validate:"required"`
}

// NodeNumberPayload changes the state number of a node.
type NodeNumberPayload struct {
	NodeID        int `json:"nodeId" validate:"required"`
	NewNodeNumber int `json:"newNodeNumber" validate:"min=0"`
}

// NodeNamePayload sets the display name of a node; empty clears it.
type NodeNamePayload struct {
	NodeID      int    `json:"nodeId" validate:"required"`
	NewNodeName string `json:"newNodeName"`
}

// NodeCordsPayload moves a node on the canvas.
type NodeCordsPayload struct {
	NodeID      int          `json:"nodeId" validate:"required"`
	NewPosition domain.Point `json:"newPosition"`
}

// SetOutputPayload sets the equation of a global output in one node.
type SetOutputPayload struct {
	NodeID           int    `json:"nodeId" validate:"required"`
	CustomOutputName string `json:"customOutputName" validate:"required"`
	Equation         string `json:"equation" validate:"required"`
}

// ResetOutputPayload clears the equation of a global output in one node.
type ResetOutputPayload struct {
	NodeID           int    `json:"nodeId" validate:"required"`
	CustomOutputName string `json:"customOutputName" validate:"required"`
}

// SetControlSignalPayload sets the equation of a control signal in one node.
type SetControlSignalPayload struct {
	NodeID                  int    `json:"nodeId" validate:"required"`
	CustomControlSignalName string `json:"customControlSignalName" validate:"required"`
	Equation                string `json:"equation" validate:"required"`
}

// ResetControlSignalPayload clears the equation of a control signal in one node.
type ResetControlSignalPayload struct {
	AutomatonName           string `json:"automatonName"`
	NodeID                  int    `json:"nodeId" validate:"required"`
	CustomControlSignalName string `json:"customControlSignalName" validate:"required"`
}

// AddTransitionPayload connects two nodes of the same automaton.
type AddTransitionPayload struct {
	AutomatonID int     `json:"automatonId" validate:"required"`
	FromNodeID  int     `json:"fromNodeId" validate:"required"`
	ToNodeID    int     `json:"toNodeId" validate:"required"`
	Condition   *string `json:"condition"`
}

// TransitionPayload removes a transition.
type TransitionPayload struct {
	TransitionID int `json:"transitionId" validate:"required"`
}

// ConditionPayload changes the condition of the transition between two nodes.
type ConditionPayload struct {
	FromNodeID int    `json:"fromNodeId" validate:"required"`
	ToNodeID   int    `json:"toNodeId" validate:"required"`
	Condition  string `json:"condition"`
}

// PointPayload moves one Bezier point of a transition.
type PointPayload struct {
	TransitionID int          `json:"transitionId" validate:"required"`
	NewPoint     domain.Point `json:"newPoint"`
}
