package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mohae/deepcopy"
	"github.com/wI2L/jsondiff"
)

// Engine computes and replays structural deltas for values of type S.
// S must round-trip through encoding/json without loss.
type Engine[S any] struct {
	diffOpts []jsondiff.Option
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	lcs bool
}

// WithArrayLCS diffs arrays by longest common subsequence instead of by
// index, which yields shorter patches when elements are inserted or removed
// in the middle of a list.
func WithArrayLCS() Option {
	return func(c *engineConfig) {
		c.lcs = true
	}
}

// New creates a patch engine for S.
func New[S any](opts ...Option) *Engine[S] {
	cfg := engineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Engine[S]{}
	if cfg.lcs {
		e.diffOpts = append(e.diffOpts, jsondiff.LCS())
	}
	return e
}

// Diff returns the patches that turn before into after (redo) and after
// into before (undo).
func (e *Engine[S]) Diff(before, after S) (ChangeSet, error) {
	b, err := json.Marshal(before)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("encode base state: %w", err)
	}
	a, err := json.Marshal(after)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("encode next state: %w", err)
	}

	redo, err := e.compare(b, a)
	if err != nil {
		return ChangeSet{}, err
	}
	undo, err := e.compare(a, b)
	if err != nil {
		return ChangeSet{}, err
	}
	return ChangeSet{RedoPatches: redo, UndoPatches: undo}, nil
}

func (e *Engine[S]) compare(source, target []byte) ([]Patch, error) {
	ops, err := jsondiff.CompareJSON(source, target, e.diffOpts...)
	if err != nil {
		return nil, fmt.Errorf("diff states: %w", err)
	}
	out := []Patch{}
	if len(ops) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return out, nil
}

// Apply replays patches against state and returns the result as a new value.
// The input is never modified. On failure the returned error wraps
// ErrPatchFailed and the zero value is returned.
func (e *Engine[S]) Apply(state S, patches []Patch) (S, error) {
	var zero S

	doc, err := json.Marshal(state)
	if err != nil {
		return zero, fmt.Errorf("%w: encode state: %v", ErrPatchFailed, err)
	}

	if len(patches) > 0 {
		raw, err := json.Marshal(patches)
		if err != nil {
			return zero, fmt.Errorf("%w: encode patches: %v", ErrPatchFailed, err)
		}
		ops, err := jsonpatch.DecodePatch(raw)
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrPatchFailed, err)
		}
		doc, err = ops.Apply(doc)
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrPatchFailed, err)
		}
	}

	var out S
	if err := json.Unmarshal(doc, &out); err != nil {
		return zero, fmt.Errorf("%w: decode result: %v", ErrPatchFailed, err)
	}
	return out, nil
}

// Produce runs recipe against a private copy of base and returns the
// modified copy together with the patches describing the change.
// If recipe fails, base is returned untouched along with the error.
func (e *Engine[S]) Produce(base S, recipe func(draft *S) error) (S, ChangeSet, error) {
	draft, ok := deepcopy.Copy(base).(S)
	if !ok {
		return base, ChangeSet{}, fmt.Errorf("copy state of type %T", base)
	}
	if err := recipe(&draft); err != nil {
		return base, ChangeSet{}, err
	}
	changes, err := e.Diff(base, draft)
	if err != nil {
		return base, ChangeSet{}, err
	}
	return draft, changes, nil
}
