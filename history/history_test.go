package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage("user", "researcher", "hello")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "user", msg.Role)
	assert.Equal(t, "researcher", msg.Agent)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.CreatedAt.IsZero())

	// ULIDs sort lexicographically by creation time.
	next := NewMessage("user", "", "later")
	assert.Less(t, msg.ID, next.ID)
}

// storeFactory lets the contract tests run against every backend.
type storeFactory func(t *testing.T) Store

func storeBackends(t *testing.T) map[string]storeFactory {
	t.Helper()
	return map[string]storeFactory{
		"in_memory": func(t *testing.T) Store {
			return NewInMemoryStore()
		},
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStore_AppendPreservesOrder(t *testing.T) {
	for name, factory := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			contents := []string{"first", "second", "third"}
			for _, c := range contents {
				require.NoError(t, store.Append(ctx, "thread-1", NewMessage("user", "", c)))
			}

			msgs, err := store.Messages(ctx, "thread-1")
			require.NoError(t, err)
			require.Len(t, msgs, 3)
			for i, c := range contents {
				assert.Equal(t, c, msgs[i].Content)
			}
		})
	}
}

func TestStore_ThreadsAreIsolated(t *testing.T) {
	for name, factory := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			require.NoError(t, store.Append(ctx, "a", NewMessage("user", "", "for a")))
			require.NoError(t, store.Append(ctx, "b", NewMessage("user", "", "for b")))

			msgs, err := store.Messages(ctx, "a")
			require.NoError(t, err)
			require.Len(t, msgs, 1)
			assert.Equal(t, "for a", msgs[0].Content)
		})
	}
}

func TestStore_UnknownThreadIsEmpty(t *testing.T) {
	for name, factory := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			msgs, err := factory(t).Messages(context.Background(), "nope")
			require.NoError(t, err)
			assert.Empty(t, msgs)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, factory := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			require.NoError(t, store.Append(ctx, "t", NewMessage("user", "", "ephemeral")))
			require.NoError(t, store.Clear(ctx, "t"))

			msgs, err := store.Messages(ctx, "t")
			require.NoError(t, err)
			assert.Empty(t, msgs)

			// Clearing an already-empty thread is not an error.
			require.NoError(t, store.Clear(ctx, "t"))
		})
	}
}

func TestFileStore_RejectsPathishThreadIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", `win\escape`} {
		err := store.Append(context.Background(), id, NewMessage("user", "", "x"))
		assert.Error(t, err, "thread id %q", id)
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "t", NewMessage("user", "", "durable")))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	msgs, err := reopened.Messages(ctx, "t")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "durable", msgs[0].Content)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "t", NewMessage("assistant", "writer", "kept")))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	msgs, err := reopened.Messages(ctx, "t")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "kept", msgs[0].Content)
	assert.Equal(t, "writer", msgs[0].Agent)
}
