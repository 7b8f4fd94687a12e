package bytestore

import (
	"bytes"
	"context"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressedStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	payload := bytes.Repeat([]byte("descriptor vector data "), 256)

	types := map[string]CompressionType{
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	}

	for name, ct := range types {
		t.Run(name, func(t *testing.T) {
			inner := NewMemoryStore()
			store := NewCompressedStore(inner, ct)

			empty, err := store.IsEmpty(ctx)
			require.NoError(t, err)
			require.True(t, empty)

			require.NoError(t, store.SetBytes(ctx, payload))

			empty, err = store.IsEmpty(ctx)
			require.NoError(t, err)
			require.False(t, empty)

			got, err := store.GetBytes(ctx)
			require.NoError(t, err)
			require.Equal(t, payload, got)
		})
	}
}

func TestCompressedStore_CompressibleDataShrinks(t *testing.T) {
	ctx := context.Background()
	payload := bytes.Repeat([]byte("descriptor vector data "), 256)

	for name, ct := range map[string]CompressionType{
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	} {
		t.Run(name, func(t *testing.T) {
			inner := NewMemoryStore()
			store := NewCompressedStore(inner, ct)

			require.NoError(t, store.SetBytes(ctx, payload))

			stored, err := inner.GetBytes(ctx)
			require.NoError(t, err)
			require.Less(t, len(stored), len(payload))
		})
	}
}

func TestCompressedStore_IncompressibleFallback(t *testing.T) {
	ctx := context.Background()

	// Random bytes do not compress; the blob is stored raw with a header.
	rng := rand.New(rand.NewSource(42))
	payload := make([]byte, 1024)
	_, err := rng.Read(payload)
	require.NoError(t, err)

	inner := NewMemoryStore()
	store := NewCompressedStore(inner, CompressionLZ4)

	require.NoError(t, store.SetBytes(ctx, payload))

	stored, err := inner.GetBytes(ctx)
	require.NoError(t, err)
	require.Len(t, stored, blobHeaderSize+len(payload))
	require.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(stored[0:]))
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(stored[4:]))

	got, err := store.GetBytes(ctx)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestCompressedStore_EmptyBlob(t *testing.T) {
	ctx := context.Background()
	store := NewCompressedStore(NewMemoryStore(), CompressionZSTD)

	require.NoError(t, store.SetBytes(ctx, nil))

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	got, err := store.GetBytes(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCompressedStore_CorruptBlob(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	require.NoError(t, inner.SetBytes(ctx, []byte{0x01, 0x02}))

	store := NewCompressedStore(inner, CompressionLZ4)

	_, err := store.GetBytes(ctx)
	require.Error(t, err)
}
