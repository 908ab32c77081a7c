/*
Package patch records and replays structural changes to a state value.

Changes are expressed as RFC 6902 JSON Patch operations. Produce runs a
mutation against a private copy of the state and returns both the forward
(redo) and inverse (undo) patch lists, so callers never write inverse
operations by hand:

	next, changes, err := engine.Produce(state, func(draft *State) error {
		draft.Name = "renamed"
		return nil
	})

	prev, err := engine.Apply(next, changes.UndoPatches) // prev == state

Apply is atomic: a patch list either applies completely or the caller keeps
its original value.
*/
package patch
