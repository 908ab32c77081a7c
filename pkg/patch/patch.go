package patch

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrPatchFailed is returned when a patch list cannot be applied to a state.
var ErrPatchFailed = errors.New("patch application failed")

// Patch is a single RFC 6902 operation. The history layer treats it as opaque.
type Patch struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// UnmarshalJSON keeps Value compact so a patch read back from an indented
// export compares equal to the one that was written.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type raw Patch
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if len(r.Value) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, r.Value); err != nil {
			return err
		}
		r.Value = buf.Bytes()
	}
	*p = Patch(r)
	return nil
}

// ChangeSet pairs the forward and inverse patch lists recorded for one version.
type ChangeSet struct {
	// RedoPatches move the state from version v-1 to v.
	RedoPatches []Patch `json:"redoPatches"`
	// UndoPatches move the state from version v back to v-1.
	UndoPatches []Patch `json:"undoPatches"`
}

// Empty reports whether the change set carries no operations in either direction.
func (c ChangeSet) Empty() bool {
	return len(c.RedoPatches) == 0 && len(c.UndoPatches) == 0
}
