/*
Package domain contains the data model of the automaton editor.

It defines what an editing session holds: the automatons with their nodes
and transitions, the global input and output signals, the operator symbols
and the view configuration. This package is kept pure and free of I/O; the
reducer package mutates these types, the history package versions them.

# Key Entities

  - AppState: Everything a session edits (EditorState + ViewConfig).
  - Automaton: A named machine owning nodes, transitions and control signals.
  - Node: One state of an automaton, with its number and output equations.
  - Transition: A directed edge between two nodes of the same automaton.
  - Snapshot: The versioned wrapper (current state plus undo/redo history).
  - Session: The persisted unit; a named Snapshot.
*/
package domain
