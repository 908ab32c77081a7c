package gift

import (
	"context"
	"sync"

	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/mohae/deepcopy"
)

// Editor owns the snapshot of a single editing session. The application
// shell creates one and routes every user action through it. Each call is
// one critical section: concurrent callers never observe a half-applied
// action.
type Editor struct {
	mu        sync.Mutex
	engine    *Engine
	sessionID string
	state     domain.Snapshot
	listeners []func(domain.Snapshot)
}

// NewEditor creates an editor holding a fresh session.
func NewEditor(engine *Engine, sessionID string) *Editor {
	return &Editor{
		engine:    engine,
		sessionID: sessionID,
		state:     engine.NewSnapshot(),
	}
}

// OnChange registers fn to be called with every new snapshot.
// Listeners run while the editor is locked and must not call back into it.
func (ed *Editor) OnChange(fn func(domain.Snapshot)) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.listeners = append(ed.listeners, fn)
}

// Dispatch applies action and returns the new snapshot.
func (ed *Editor) Dispatch(ctx context.Context, action domain.Action) (domain.Snapshot, error) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	next, err := ed.engine.Dispatch(ContextWithSession(ctx, ed.sessionID), ed.state, action)
	if err != nil {
		return ed.state, err
	}
	ed.state = next
	for _, fn := range ed.listeners {
		fn(next)
	}
	return next, nil
}

// Undo steps one version back if possible.
func (ed *Editor) Undo(ctx context.Context) (domain.Snapshot, error) {
	return ed.Dispatch(ctx, domain.Action{Type: domain.ActionUndo})
}

// Redo steps one version forward if possible.
func (ed *Editor) Redo(ctx context.Context) (domain.Snapshot, error) {
	return ed.Dispatch(ctx, domain.Action{Type: domain.ActionRedo})
}

// State returns the current snapshot. It shares memory with the editor and
// must be treated as read-only.
func (ed *Editor) State() domain.Snapshot {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.state
}

// Current returns a private copy of the live application state.
func (ed *Editor) Current() domain.AppState {
	return deepcopy.Copy(ed.State().Current).(domain.AppState)
}

// CanUndo reports whether Undo would step back.
func (ed *Editor) CanUndo() bool { return ed.State().CanUndo }

// CanRedo reports whether Redo would step forward.
func (ed *Editor) CanRedo() bool { return ed.State().CanRedo }

// Export serialises the whole session, history included.
func (ed *Editor) Export() ([]byte, error) {
	return Export(ed.State())
}

// Import replaces the session with a previously exported one.
func (ed *Editor) Import(ctx context.Context, data []byte) error {
	_, err := ed.Dispatch(ctx, domain.Action{Type: domain.ActionLoadState, Payload: data})
	return err
}
