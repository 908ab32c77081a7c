package memory_test

import (
	"context"
	"testing"

	"github.com/goldi-lab/gift/pkg/adapters/memory"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_SaveIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	sess := domain.NewSession("iso")
	require.NoError(t, store.Save(ctx, "iso", sess))

	sess.State.Current.Editor.Outputs = append(sess.State.Current.Editor.Outputs, "y0")
	sess.Revision = 9

	loaded, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Empty(t, loaded.State.Current.Editor.Outputs)
	assert.Zero(t, loaded.Revision)
}

func TestMemoryStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, id, domain.NewSession(id)))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
