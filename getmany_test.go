package descgo

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/descgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bulkBackend is a shared fake vector store for bulkElement. It counts
// BulkVectors round trips so tests can assert batching behavior.
type bulkBackend struct {
	mu      sync.Mutex
	vectors map[Key][]float32
	calls   int
	extra   []KeyVector
	err     error
}

func newBulkBackend() *bulkBackend {
	return &bulkBackend{vectors: make(map[Key][]float32)}
}

// bulkElement resolves its vector through a shared bulkBackend and
// advertises the bulk retrieval capability.
type bulkElement struct {
	backend *bulkBackend
	key     Key
}

var (
	_ DescriptorElement  = (*bulkElement)(nil)
	_ BulkVectorProvider = (*bulkElement)(nil)
)

func (e *bulkElement) UUID() Key    { return e.key }
func (e *bulkElement) Type() string { return "bulk" }

func (e *bulkElement) HasVector(_ context.Context) (bool, error) {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()

	_, ok := e.backend.vectors[e.key]

	return ok, nil
}

func (e *bulkElement) Vector(_ context.Context) ([]float32, error) {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()

	return e.backend.vectors[e.key], nil
}

func (e *bulkElement) SetVector(_ context.Context, v []float32) error {
	if v == nil {
		return ErrInvalidVector
	}

	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()

	e.backend.vectors[e.key] = v

	return nil
}

func (e *bulkElement) BulkVectors(_ context.Context, elems []DescriptorElement) ([]KeyVector, error) {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()

	e.backend.calls++

	if e.backend.err != nil {
		return nil, e.backend.err
	}

	pairs := make([]KeyVector, 0, len(elems))
	for _, el := range elems {
		if v, ok := e.backend.vectors[el.UUID()]; ok {
			pairs = append(pairs, KeyVector{Key: el.UUID(), Vector: v})
		}
	}

	return append(pairs, e.backend.extra...), nil
}

func TestGetManyVectors_OrderPreserved(t *testing.T) {
	ctx := context.Background()
	backend := newBulkBackend()

	// Interleave two concrete types so grouping has to reassemble the
	// original order.
	elems := make([]DescriptorElement, 6)
	want := make([][]float32, 6)

	for i := range elems {
		vec := []float32{float32(i), float32(i) + 0.5}
		want[i] = vec

		if i%2 == 0 {
			e := &bulkElement{backend: backend, key: Key(testutil.RandomKey())}
			require.NoError(t, e.SetVector(ctx, vec))
			elems[i] = e
		} else {
			e := NewMemoryElement("random", Key(testutil.RandomKey()))
			require.NoError(t, e.SetVector(ctx, vec))
			elems[i] = e
		}
	}

	got, err := GetManyVectors(ctx, elems)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, want, got)

	// All three bulk-capable elements went through a single round trip.
	assert.Equal(t, 1, backend.calls)
}

func TestGetManyVectors_MissingVector(t *testing.T) {
	ctx := context.Background()

	withVec := NewMemoryElement("random", "a")
	require.NoError(t, withVec.SetVector(ctx, []float32{1, 2}))

	empty := NewMemoryElement("random", "b")

	got, err := GetManyVectors(ctx, []DescriptorElement{withVec, empty})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float32{1, 2}, got[0])
	assert.Nil(t, got[1])
}

func TestGetManyVectors_DuplicateKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("SameElementTwice", func(t *testing.T) {
		e := NewMemoryElement("random", "dup")
		require.NoError(t, e.SetVector(ctx, []float32{7}))

		got, err := GetManyVectors(ctx, []DescriptorElement{e, e})
		require.NoError(t, err)
		require.Len(t, got, 2)

		// The later occurrence wins the slot; the earlier stays nil.
		assert.Nil(t, got[0])
		assert.Equal(t, []float32{7}, got[1])
	})

	t.Run("DistinctElementsSameKey", func(t *testing.T) {
		first := NewMemoryElement("random", "dup")
		require.NoError(t, first.SetVector(ctx, []float32{1}))

		second := NewMemoryElement("random", "dup")
		require.NoError(t, second.SetVector(ctx, []float32{2}))

		got, err := GetManyVectors(ctx, []DescriptorElement{first, second})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Nil(t, got[0])
		assert.Equal(t, []float32{2}, got[1])
	})
}

func TestGetManyVectors_SurplusPairsIgnored(t *testing.T) {
	ctx := context.Background()

	backend := newBulkBackend()
	backend.extra = []KeyVector{{Key: "never-requested", Vector: []float32{9, 9}}}

	e := &bulkElement{backend: backend, key: "a"}
	require.NoError(t, e.SetVector(ctx, []float32{1}))

	got, err := GetManyVectors(ctx, []DescriptorElement{e})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float32{1}, got[0])
}

func TestGetManyVectors_FailFast(t *testing.T) {
	ctx := context.Background()

	t.Run("PerElementFault", func(t *testing.T) {
		healthy := NewMemoryElement("random", "a")
		require.NoError(t, healthy.SetVector(ctx, []float32{1}))

		got, err := GetManyVectors(ctx, []DescriptorElement{healthy, &faultyElement{key: "b"}})
		require.ErrorIs(t, err, errBackend)
		assert.Nil(t, got)
	})

	t.Run("BulkFault", func(t *testing.T) {
		backend := newBulkBackend()
		backend.err = errBackend

		got, err := GetManyVectors(ctx, []DescriptorElement{&bulkElement{backend: backend, key: "a"}})
		require.ErrorIs(t, err, errBackend)
		assert.Nil(t, got)
	})
}

func TestGetManyVectors_Empty(t *testing.T) {
	got, err := GetManyVectors(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetManyVectors_NilElement(t *testing.T) {
	e := NewMemoryElement("random", "a")

	got, err := GetManyVectors(context.Background(), []DescriptorElement{e, nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
	assert.Nil(t, got)
}

func TestGetManyVectors_Concurrency(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(4711)

	elems := make([]DescriptorElement, 32)
	want := make([][]float32, 32)

	for i, vec := range rng.UniformVectors(32, 8) {
		e := NewMemoryElement("random", Key(testutil.RandomKey()))
		require.NoError(t, e.SetVector(ctx, vec))
		elems[i] = e
		want[i] = vec
	}

	got, err := GetManyVectors(ctx, elems, func(o *GetManyOptions) {
		o.Concurrency = 4
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetManyVectors_Metrics(t *testing.T) {
	ctx := context.Background()

	withVec := NewMemoryElement("random", "a")
	require.NoError(t, withVec.SetVector(ctx, []float32{1}))

	empty := NewMemoryElement("random", "b")

	metrics := &BasicMetricsCollector{}

	_, err := GetManyVectors(ctx, []DescriptorElement{withVec, empty}, func(o *GetManyOptions) {
		o.Metrics = metrics
	})
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BulkFetchCount)
	assert.Equal(t, int64(2), stats.BulkFetchRequested)
	assert.Equal(t, int64(1), stats.BulkFetchResolved)
	assert.Equal(t, int64(0), stats.BulkFetchErrors)
}
