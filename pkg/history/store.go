package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/goldi-lab/gift/pkg/patch"
)

// MaxVersions is the default number of undoable steps kept in the history.
const MaxVersions = 20

// Meta action types handled by the store itself.
const (
	ActionUndo      = "UNDO"
	ActionRedo      = "REDO"
	ActionLoadState = "LOAD_STATE_FROM_FILE"
)

var (
	// ErrInvalidSnapshot is returned when a load payload cannot be read as a versioned state.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrCorruptHistory is returned when a flag promises a version the history does not hold.
	ErrCorruptHistory = errors.New("history entry missing")
)

// Action is a typed request to change state.
type Action struct {
	Type    string `json:"type" yaml:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Reducer applies a single action to a draft of the application state.
// It may mutate draft freely; the store owns the copy.
type Reducer[S any] func(draft *S, action Action) error

// State is the versioned wrapper around the application state.
// Values are treated as immutable: Dispatch always returns a new one.
type State[S any] struct {
	Current        S                       `json:"current"`
	History        map[int]patch.ChangeSet `json:"history"`
	CurrentVersion int                     `json:"currentVersion"`
	CanUndo        bool                    `json:"canUndo"`
	CanRedo        bool                    `json:"canRedo"`
}

// New wraps initial in a fresh versioned state with an empty history.
func New[S any](initial S) State[S] {
	return State[S]{
		Current:        initial,
		History:        map[int]patch.ChangeSet{},
		CurrentVersion: -1,
	}
}

// Versions returns the recorded version numbers in ascending order.
func (s State[S]) Versions() []int {
	return slices.Sorted(maps.Keys(s.History))
}

// Current returns the live application state.
func Current[S any](s State[S]) S { return s.Current }

// CanUndo reports whether an undo step is available.
func CanUndo[S any](s State[S]) bool { return s.CanUndo }

// CanRedo reports whether a redo step is available.
func CanRedo[S any](s State[S]) bool { return s.CanRedo }

// DefaultNotUndoable returns the action types that never create a history entry.
func DefaultNotUndoable() mapset.Set[string] {
	return mapset.NewSet(ActionUndo, ActionRedo)
}

// Option configures a Store.
type Option func(*config)

type config struct {
	maxVersions int
	notUndoable []string
	patchOpts   []patch.Option
}

// WithMaxVersions overrides the retention depth. Values below 1 are ignored.
func WithMaxVersions(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxVersions = n
		}
	}
}

// WithNotUndoable adds action types that change state without being recorded.
func WithNotUndoable(types ...string) Option {
	return func(c *config) {
		c.notUndoable = append(c.notUndoable, types...)
	}
}

// WithPatchOptions passes options through to the patch engine.
func WithPatchOptions(opts ...patch.Option) Option {
	return func(c *config) {
		c.patchOpts = append(c.patchOpts, opts...)
	}
}

// Store turns actions into new versioned states.
type Store[S any] struct {
	reducer     Reducer[S]
	engine      *patch.Engine[S]
	maxVersions int
	notUndoable mapset.Set[string]
}

// NewStore creates a history store around reducer.
func NewStore[S any](reducer Reducer[S], opts ...Option) *Store[S] {
	cfg := config{maxVersions: MaxVersions}
	for _, opt := range opts {
		opt(&cfg)
	}
	if reducer == nil {
		reducer = func(*S, Action) error { return nil }
	}

	notUndoable := DefaultNotUndoable()
	for _, t := range cfg.notUndoable {
		notUndoable.Add(t)
	}

	return &Store[S]{
		reducer:     reducer,
		engine:      patch.New[S](cfg.patchOpts...),
		maxVersions: cfg.maxVersions,
		notUndoable: notUndoable,
	}
}

// MaxVersions returns the retention depth of the store.
func (s *Store[S]) MaxVersions() int { return s.maxVersions }

// IsUndoable reports whether actions of this type are recorded in the history.
func (s *Store[S]) IsUndoable(actionType string) bool {
	return !s.notUndoable.Contains(actionType)
}

// Dispatch applies action to state and returns the resulting state.
// The input value is never modified. Undo or redo without an available step
// returns the input unchanged and no error. Any error leaves the caller with
// the state it passed in.
func (s *Store[S]) Dispatch(state State[S], action Action) (State[S], error) {
	switch action.Type {
	case ActionLoadState:
		loaded, err := decodeSnapshot[S](action.Payload)
		if err != nil {
			return state, err
		}
		return loaded, nil
	case ActionUndo:
		return s.undo(state)
	case ActionRedo:
		return s.redo(state)
	}
	return s.forward(state, action)
}

func (s *Store[S]) undo(state State[S]) (State[S], error) {
	if !state.CanUndo {
		return state, nil
	}
	changes, ok := state.History[state.CurrentVersion]
	if !ok {
		return state, fmt.Errorf("undo version %d: %w", state.CurrentVersion, ErrCorruptHistory)
	}
	prev, err := s.engine.Apply(state.Current, changes.UndoPatches)
	if err != nil {
		return state, fmt.Errorf("undo version %d: %w", state.CurrentVersion, err)
	}

	out := State[S]{
		Current:        prev,
		History:        cloneHistory(state.History),
		CurrentVersion: state.CurrentVersion - 1,
		CanRedo:        true,
	}
	_, out.CanUndo = out.History[out.CurrentVersion]
	return out, nil
}

func (s *Store[S]) redo(state State[S]) (State[S], error) {
	if !state.CanRedo {
		return state, nil
	}
	nextVersion := state.CurrentVersion + 1
	changes, ok := state.History[nextVersion]
	if !ok {
		return state, fmt.Errorf("redo version %d: %w", nextVersion, ErrCorruptHistory)
	}
	next, err := s.engine.Apply(state.Current, changes.RedoPatches)
	if err != nil {
		return state, fmt.Errorf("redo version %d: %w", nextVersion, err)
	}

	out := State[S]{
		Current:        next,
		History:        cloneHistory(state.History),
		CurrentVersion: nextVersion,
		CanUndo:        true,
	}
	_, out.CanRedo = out.History[nextVersion+1]
	return out, nil
}

func (s *Store[S]) forward(state State[S], action Action) (State[S], error) {
	next, changes, err := s.engine.Produce(state.Current, func(draft *S) error {
		return s.reducer(draft, action)
	})
	if err != nil {
		return state, fmt.Errorf("apply %s: %w", action.Type, err)
	}

	out := State[S]{
		Current:        next,
		History:        cloneHistory(state.History),
		CurrentVersion: state.CurrentVersion,
		CanUndo:        state.CanUndo,
		CanRedo:        state.CanRedo,
	}
	if s.notUndoable.Contains(action.Type) {
		return out, nil
	}

	out.CanUndo = true
	out.CanRedo = false
	out.CurrentVersion++
	out.History[out.CurrentVersion] = changes
	// Any redo branch is gone once a new action is recorded.
	delete(out.History, out.CurrentVersion+1)
	delete(out.History, out.CurrentVersion-s.maxVersions)
	return out, nil
}

func cloneHistory(h map[int]patch.ChangeSet) map[int]patch.ChangeSet {
	out := make(map[int]patch.ChangeSet, len(h)+1)
	maps.Copy(out, h)
	return out
}

func decodeSnapshot[S any](payload any) (State[S], error) {
	switch p := payload.(type) {
	case State[S]:
		return p, nil
	case *State[S]:
		if p == nil {
			return State[S]{}, fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
		}
		return *p, nil
	case []byte:
		return unmarshalSnapshot[S](p)
	case json.RawMessage:
		return unmarshalSnapshot[S](p)
	case string:
		return unmarshalSnapshot[S]([]byte(p))
	case nil:
		return State[S]{}, fmt.Errorf("%w: empty payload", ErrInvalidSnapshot)
	default:
		// Generic decoded JSON (map[string]any) from a transport.
		raw, err := json.Marshal(p)
		if err != nil {
			return State[S]{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		return unmarshalSnapshot[S](raw)
	}
}

func unmarshalSnapshot[S any](raw []byte) (State[S], error) {
	var out State[S]
	if err := json.Unmarshal(raw, &out); err != nil {
		return State[S]{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return out, nil
}
