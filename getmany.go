package descgo

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/hupe1980/descgo/parallel"
)

// KeyVector pairs a descriptor key with its resolved vector.
type KeyVector struct {
	Key    Key
	Vector []float32
}

// BulkVectorProvider is an optional capability interface for element
// backends that can resolve many vectors in one round trip (e.g. a
// single SELECT ... IN or BatchGetItem instead of N point lookups).
//
// GetManyVectors probes one representative element per concrete type;
// when it implements BulkVectorProvider, the whole type group is handed
// to BulkVectors in one call.
type BulkVectorProvider interface {
	// BulkVectors resolves vectors for elems, all of which share the
	// receiver's concrete type. Pairs may be returned in any order and
	// unresolvable keys may be omitted; an omitted or nil vector means
	// the element has no vector stored.
	BulkVectors(ctx context.Context, elems []DescriptorElement) ([]KeyVector, error)
}

// GetManyVectors resolves the vectors of elems in one batched pass.
//
// The result has exactly one slot per input element, in input order. A
// slot is nil when the element has no vector stored; a missing vector is
// not an error. Elements are grouped by concrete type so that backends
// sharing a connection can batch their reads; elements whose type does
// not implement BulkVectorProvider are fetched concurrently one Vector
// call at a time.
//
// When the same key appears more than once, the later occurrence
// receives the resolved vector and earlier slots stay nil.
//
// Any backend fault aborts the whole call (fail-fast, no partial
// results).
func GetManyVectors(ctx context.Context, elems []DescriptorElement, optFns ...func(o *GetManyOptions)) ([][]float32, error) {
	opts := applyGetManyOptions(optFns)

	results := make([][]float32, len(elems))
	if len(elems) == 0 {
		return results, nil
	}

	start := time.Now()

	// Single pass: group elements by concrete type in first-encounter
	// order and map each key to its result slot (later duplicates win).
	indexByKey := make(map[Key]int, len(elems))
	groups := make(map[reflect.Type][]DescriptorElement)
	var groupOrder []reflect.Type

	for i, elem := range elems {
		if elem == nil {
			return nil, fmt.Errorf("nil descriptor element at index %d", i)
		}

		t := reflect.TypeOf(elem)
		if _, ok := groups[t]; !ok {
			groupOrder = append(groupOrder, t)
		}
		groups[t] = append(groups[t], elem)
		indexByKey[elem.UUID()] = i
	}

	for _, t := range groupOrder {
		pairs, err := fetchGroup(ctx, groups[t], opts)
		if err != nil {
			opts.Logger.LogBulkFetch(ctx, len(elems), 0, err)
			opts.Metrics.RecordBulkFetch(len(elems), 0, time.Since(start), err)
			return nil, err
		}

		for _, kv := range pairs {
			if idx, ok := indexByKey[kv.Key]; ok {
				results[idx] = kv.Vector
			}
		}
	}

	resolved := 0
	for _, v := range results {
		if v != nil {
			resolved++
		}
	}

	opts.Logger.LogBulkFetch(ctx, len(elems), resolved, nil)
	opts.Metrics.RecordBulkFetch(len(elems), resolved, time.Since(start), nil)

	return results, nil
}

// fetchGroup resolves one concrete-type group, preferring the bulk
// capability when the backend offers it.
func fetchGroup(ctx context.Context, group []DescriptorElement, opts GetManyOptions) ([]KeyVector, error) {
	if provider, ok := group[0].(BulkVectorProvider); ok {
		return provider.BulkVectors(ctx, group)
	}

	return parallel.Map(ctx, group, func(ctx context.Context, elem DescriptorElement) (KeyVector, error) {
		v, err := elem.Vector(ctx)
		if err != nil {
			return KeyVector{}, err
		}
		return KeyVector{Key: elem.UUID(), Vector: v}, nil
	}, func(o *parallel.Options) {
		o.Concurrency = opts.Concurrency
		o.Limiter = opts.Limiter
	})
}
