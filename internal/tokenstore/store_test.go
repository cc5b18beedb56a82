package tokenstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_GetEmpty(t *testing.T) {
	s := openMemory(t)

	tok, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStore_SetOverwriteClear(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "first"))
	require.NoError(t, s.Set(ctx, "second"))

	tok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", tok)

	require.NoError(t, s.Clear(ctx))
	tok, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStore_SetEmptyClears(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "abc"))
	require.NoError(t, s.Set(ctx, ""))

	tok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "client.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "persisted"))
	require.NoError(t, s.Close())

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	tok, err := s2.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}
