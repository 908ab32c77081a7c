/*
Package gift is the state core of an editor for designing and simulating
finite-state automata, with bounded undo/redo built on structural patches.

Every user action goes through a single dispatch function. Undoable actions
record the patches needed to move one version forward and one version back,
so any of the last 20 edits can be undone and redone without keeping full
copies of the state.

# Concept

The session state is an immutable value (domain.Snapshot): the live
AppState, a sparse map of version numbers to patch pairs, the current
version and the availability of undo and redo. Engine turns a snapshot and
an action into the next snapshot; Editor keeps one snapshot for an
application shell and serialises access to it.

# Usage

	eng := gift.New(gift.WithLogger(logger))
	ed := gift.NewEditor(eng, "session-1")

	ctx := context.Background()
	_, err := ed.Dispatch(ctx, domain.Action{Type: domain.ActionNewAutomaton})
	if err != nil {
		log.Fatal(err)
	}

	snap, _ := ed.Undo(ctx)
	fmt.Println(snap.CanRedo) // true

	data, _ := ed.Export() // save to a file, restore later with Import

Persistence, HTTP and MCP transports live in pkg/session and pkg/adapters.
*/
package gift
