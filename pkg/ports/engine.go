package ports

import (
	"context"

	"github.com/goldi-lab/gift/pkg/domain"
)

// Dispatcher is the stateless core used by adapters that keep the snapshot
// elsewhere (session manager, HTTP, MCP). It is implemented by *gift.Engine.
type Dispatcher interface {
	// Dispatch applies action to snap. On error snap is returned unchanged.
	Dispatch(ctx context.Context, snap domain.Snapshot, action domain.Action) (domain.Snapshot, error)

	// NewSnapshot returns the state of a fresh session.
	NewSnapshot() domain.Snapshot
}
