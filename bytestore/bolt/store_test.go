package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoltStore_Lifecycle(t *testing.T) {
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "descriptors.db"))
	require.NoError(t, err)
	defer db.Close()

	store, err := NewStore(db, "cache")
	require.NoError(t, err)

	// 1. Fresh store is empty
	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	data, err := store.GetBytes(ctx)
	require.NoError(t, err)
	require.Nil(t, data)

	// 2. Write and read back
	payload := []byte("hello bolt world")
	require.NoError(t, store.SetBytes(ctx, payload))

	empty, err = store.IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	got, err := store.GetBytes(ctx)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	// 3. Overwrite
	require.NoError(t, store.SetBytes(ctx, []byte("v2")))

	got, err = store.GetBytes(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestBoltStore_SharedDatabase(t *testing.T) {
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "descriptors.db"))
	require.NoError(t, err)
	defer db.Close()

	a, err := NewStore(db, "a")
	require.NoError(t, err)
	b, err := NewStore(db, "b")
	require.NoError(t, err)

	require.NoError(t, a.SetBytes(ctx, []byte("blob-a")))
	require.NoError(t, b.SetBytes(ctx, []byte("blob-b")))

	gotA, err := a.GetBytes(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("blob-a"), gotA)

	gotB, err := b.GetBytes(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("blob-b"), gotB)
}

func TestBoltStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "descriptors.db")

	db, err := Open(path)
	require.NoError(t, err)

	store, err := NewStore(db, "cache")
	require.NoError(t, err)
	require.NoError(t, store.SetBytes(ctx, []byte("persisted")))
	require.NoError(t, db.Close())

	// Reopen and read the blob back
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	store, err = NewStore(db, "cache")
	require.NoError(t, err)

	got, err := store.GetBytes(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("persisted"), got)
}
