package middleware

import (
	"context"

	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/patch"
	"github.com/goldi-lab/gift/pkg/ports"
)

type flattenMiddleware struct {
	next ports.SnapshotStore
}

// NewFlattenMiddleware creates a middleware that persists only the live
// state of each session. Reloaded sessions keep their version number but
// start with no undo or redo steps.
func NewFlattenMiddleware() Middleware {
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &flattenMiddleware{next: next}
	}
}

func (m *flattenMiddleware) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	flat := *session
	flat.State.History = map[int]patch.ChangeSet{}
	flat.State.CanUndo = false
	flat.State.CanRedo = false
	return m.next.Save(ctx, sessionID, &flat)
}

func (m *flattenMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *flattenMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *flattenMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
