package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telegrask/telegrask"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"), DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, 1, "missing")
	assert.ErrorIs(t, err, telegrask.ErrNotFound)

	require.NoError(t, s.Set(ctx, 1, "name", "alice"))
	require.NoError(t, s.Set(ctx, 1, "age", "30"))
	require.NoError(t, s.Set(ctx, 2, "name", "bob"))

	v, err := s.Get(ctx, 1, "name")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)

	v, err = s.Get(ctx, 2, "name")
	require.NoError(t, err)
	assert.Equal(t, "bob", v)

	keys, err := s.Keys(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "name"}, keys)

	require.NoError(t, s.Delete(ctx, 1, "name"))
	_, err = s.Get(ctx, 1, "name")
	assert.ErrorIs(t, err, telegrask.ErrNotFound)

	assert.NoError(t, s.Delete(ctx, 1, "missing"))
}

func TestStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, 1, "k", "v1"))
	require.NoError(t, s.Set(ctx, 1, "k", "v2"))

	v, err := s.Get(ctx, 1, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s1, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, 1, "k", "v"))
	require.NoError(t, s1.Close())

	// Reopening re-runs migrations as a no-op and keeps the data.
	s2, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	defer s2.Close()

	v, err := s2.Get(ctx, 1, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
