/*
Package history implements a bounded, patch-based undo/redo store.

Every recorded action stores the patches needed to move one version forward
and one version back instead of a full copy of the state. Version numbers
grow monotonically; the store keeps at most MaxVersions entries and evicts
the oldest one on each new action.

Three action types are handled by the store itself:

  - ActionUndo replays the undo patches of the current version.
  - ActionRedo replays the redo patches of the next version.
  - ActionLoadState replaces the whole versioned state with its payload.

Every other action goes to the Reducer. Action types marked as not undoable
update the state but leave the history untouched.
*/
package history
