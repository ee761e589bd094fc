package sqlitevec

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "memories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStore_AddGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.Add(ctx, "prefers tabs", []float32{0.25, -0.5, 1}, map[string]any{"source": "chat"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	m, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "prefers tabs", m.Content)
	assert.Equal(t, []float32{0.25, -0.5, 1}, m.Embedding)
	assert.Equal(t, "chat", m.Metadata["source"])
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	store := openTestStore(t)

	m, err := store.Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestStore_SearchRanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	idA, err := store.Add(ctx, "exact", []float32{1, 0, 0}, nil)
	require.NoError(t, err)
	idB, err := store.Add(ctx, "close", []float32{0.9, 0.1, 0}, nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, "orthogonal", []float32{0, 0, 1}, nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, "unembeddable", []float32{0, 0, 0}, nil)
	require.NoError(t, err)

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, idA, results[0].ID)
	assert.Equal(t, idB, results[1].ID)
}

func TestStore_SearchEmpty(t *testing.T) {
	store := openTestStore(t)

	results, err := store.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_DeleteClearCount(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.Add(ctx, "gone soon", []float32{1}, nil)
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.Add(ctx, "a", []float32{1}, nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, "b", []float32{1}, nil)
	require.NoError(t, err)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Clear(ctx))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "memories.db")

	store, err := Open(path)
	require.NoError(t, err)
	id, err := store.Add(ctx, "durable fact", []float32{0.5, 0.5}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	m, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "durable fact", m.Content)
}
