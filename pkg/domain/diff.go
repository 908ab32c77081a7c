package domain

import (
	"github.com/goldi-lab/gift/pkg/patch"
)

// StateDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Version *int  `json:"version,omitempty"`
	CanUndo *bool `json:"can_undo,omitempty"`
	CanRedo *bool `json:"can_redo,omitempty"`

	// Patches turn the client's copy of the old AppState into the new one.
	Patches []patch.Patch `json:"patches,omitempty"`

	// State is set instead of Patches on the initial load.
	State *AppState `json:"state,omitempty"`
}

var diffEngine = patch.New[AppState]()

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, the diff carries the entire new state (initial load).
// It returns nil when nothing changed.
func Diff(sessionID string, oldSnap, newSnap *Snapshot) (*StateDiff, error) {
	if newSnap == nil {
		return nil, nil
	}

	diff := &StateDiff{SessionID: sessionID}

	if oldSnap == nil {
		state := newSnap.Current
		diff.State = &state
		diff.Version = &newSnap.CurrentVersion
		diff.CanUndo = &newSnap.CanUndo
		diff.CanRedo = &newSnap.CanRedo
		return diff, nil
	}

	if oldSnap.CurrentVersion != newSnap.CurrentVersion {
		diff.Version = &newSnap.CurrentVersion
	}
	if oldSnap.CanUndo != newSnap.CanUndo {
		diff.CanUndo = &newSnap.CanUndo
	}
	if oldSnap.CanRedo != newSnap.CanRedo {
		diff.CanRedo = &newSnap.CanRedo
	}

	changes, err := diffEngine.Diff(oldSnap.Current, newSnap.Current)
	if err != nil {
		return nil, err
	}
	if len(changes.RedoPatches) > 0 {
		diff.Patches = changes.RedoPatches
	}

	if diff.IsEmpty() {
		return nil, nil
	}
	return diff, nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Version == nil &&
		d.CanUndo == nil &&
		d.CanRedo == nil &&
		len(d.Patches) == 0 &&
		d.State == nil
}
