package descgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/bytestore"
)

// Example demonstrates a cached descriptor set surviving a reopen.
func Example() {
	ctx := context.Background()

	// Create a descriptor set with a write-through byte-store cache.
	store := bytestore.NewMemoryStore()

	ds, err := descgo.NewMemorySet(ctx, descgo.WithCacheStore(store))
	if err != nil {
		log.Fatal(err)
	}

	// A descriptor carries an identity plus an optional vector.
	elem := descgo.NewMemoryElement("cnn-pool5", "img-0001")
	if err := elem.SetVector(ctx, []float32{0.12, 0.48, 0.95}); err != nil {
		log.Fatal(err)
	}
	if err := ds.AddDescriptor(ctx, elem); err != nil {
		log.Fatal(err)
	}

	// A second set over the same store starts from the persisted table.
	reopened, err := descgo.NewMemorySet(ctx, descgo.WithCacheStore(store))
	if err != nil {
		log.Fatal(err)
	}

	got, err := reopened.GetDescriptor(ctx, "img-0001")
	if err != nil {
		log.Fatal(err)
	}

	vec, err := got.Vector(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(got.Type(), got.UUID(), vec)
	// Output: cnn-pool5 img-0001 [0.12 0.48 0.95]
}

// Example_batchedRetrieval demonstrates resolving many vectors in one pass.
func Example_batchedRetrieval() {
	ctx := context.Background()

	a := descgo.NewMemoryElement("random", "a")
	_ = a.SetVector(ctx, []float32{1, 2})

	b := descgo.NewMemoryElement("random", "b") // no vector stored

	c := descgo.NewMemoryElement("random", "c")
	_ = c.SetVector(ctx, []float32{5, 6})

	// Results come back in input order; a nil slot means no vector.
	vectors, err := descgo.GetManyVectors(ctx, []descgo.DescriptorElement{a, b, c})
	if err != nil {
		log.Fatal(err)
	}

	for i, v := range vectors {
		fmt.Printf("%d: %v\n", i, v)
	}
	// Output:
	// 0: [1 2]
	// 1: []
	// 2: [5 6]
}

// ExampleEqual demonstrates the vector-contents equality rule.
func ExampleEqual() {
	ctx := context.Background()

	a := descgo.NewMemoryElement("cnn-pool5", "a")
	_ = a.SetVector(ctx, []float32{1, 2, 3})

	b := descgo.NewMemoryElement("hog", "b")
	_ = b.SetVector(ctx, []float32{1, 2, 3})

	// Identity (type label, key) takes no part in equality.
	fmt.Println(descgo.Equal(ctx, a, b))
	// Output: true
}

// ExampleMemorySet_RemoveManyDescriptors demonstrates batched removal.
func ExampleMemorySet_RemoveManyDescriptors() {
	ctx := context.Background()

	ds, err := descgo.NewMemorySet(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for _, key := range []descgo.Key{"a", "b", "c", "d"} {
		if err := ds.AddDescriptor(ctx, descgo.NewMemoryElement("random", key)); err != nil {
			log.Fatal(err)
		}
	}

	if err := ds.RemoveManyDescriptors(ctx, "a", "c"); err != nil {
		log.Fatal(err)
	}

	n, err := ds.Count(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(n)
	// Output: 2
}
