package domain

import "github.com/goldi-lab/gift/pkg/history"

// Snapshot is the versioned application state: the live AppState plus its
// undo/redo history. It is also the export format of a session.
type Snapshot = history.State[AppState]

// NewSnapshot returns the initial versioned state of a new session.
func NewSnapshot() Snapshot {
	return history.New(NewAppState())
}

// Session is the persisted unit of the stores.
type Session struct {
	Name string `json:"name"`

	// Revision increases on every save.
	Revision int64 `json:"revision"`

	State Snapshot `json:"state"`

	// Sealed carries the encrypted State when written through an encrypting store.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates an empty session.
func NewSession(name string) *Session {
	return &Session{
		Name:  name,
		State: NewSnapshot(),
	}
}
