package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/pkg/adapters/memory"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore(), gift.New())
	ctx := context.Background()
	count := 1000

	for i := range count {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, domain.NewSession(sid))
		_, _ = mgr.Dispatch(ctx, sid, domain.Action{Type: domain.ActionAddGlobalInput})
		_ = mgr.Delete(ctx, sid)
	}

	assert.Empty(t, mgr.locks, "lock entries must be released after use")
}
