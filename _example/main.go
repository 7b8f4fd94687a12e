package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/bytestore"
	"github.com/hupe1980/descgo/element/sqlite"
	"github.com/hupe1980/descgo/testutil"
)

func main() {
	seed := int64(4711)
	dim := 128
	size := 20000
	batch := 1000

	ctx := context.Background()
	rng := testutil.NewRNG(seed)

	dir, err := os.MkdirTemp("", "descgo-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cache := bytestore.NewLocalStore(filepath.Join(dir, "descriptors.bin"))
	metrics := &descgo.BasicMetricsCollector{}

	ds, err := descgo.NewMemorySet(ctx,
		descgo.WithCacheStore(cache),
		descgo.WithMetricsCollector(metrics),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Add ---")
	fmt.Println("Dimension:", dim)
	fmt.Println("Size:", size)

	keys := make([]descgo.Key, 0, size)
	elems := make([]descgo.DescriptorElement, 0, size)
	for _, v := range rng.UniformVectors(size, dim) {
		elem := descgo.NewMemoryElement("random", descgo.Key(testutil.RandomKey()))
		if err := elem.SetVector(ctx, v); err != nil {
			log.Fatal(err)
		}
		keys = append(keys, elem.UUID())
		elems = append(elems, elem)
	}

	start := time.Now()

	if err := ds.AddManyDescriptors(ctx, elems...); err != nil {
		log.Fatal(err)
	}

	end := time.Since(start)

	fmt.Printf("Seconds: %.2f\n\n", end.Seconds())

	fmt.Println("--- Batched fetch ---")

	start = time.Now()

	stored, err := ds.GetManyDescriptors(ctx, keys[:batch]...)
	if err != nil {
		log.Fatal(err)
	}

	vectors, err := descgo.GetManyVectors(ctx, stored)
	if err != nil {
		log.Fatal(err)
	}

	end = time.Since(start)

	fmt.Println("Vectors:", len(vectors))
	fmt.Printf("Seconds: %.8f\n\n", end.Seconds())

	fmt.Println("--- Mixed backends ---")

	store, err := sqlite.Open(ctx, filepath.Join(dir, "descriptors.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Interleave in-memory and SQLite-backed elements; one call batches
	// each backend separately and stitches the results back in order.
	mixed := make([]descgo.DescriptorElement, 0, 2*batch)
	for i, v := range rng.UniformVectors(2*batch, dim) {
		var elem descgo.DescriptorElement
		if i%2 == 0 {
			elem = descgo.NewMemoryElement("random", descgo.Key(testutil.RandomKey()))
		} else {
			elem = store.Element("random", descgo.Key(testutil.RandomKey()))
		}
		if err := elem.SetVector(ctx, v); err != nil {
			log.Fatal(err)
		}
		mixed = append(mixed, elem)
	}

	start = time.Now()

	vectors, err = descgo.GetManyVectors(ctx, mixed)
	if err != nil {
		log.Fatal(err)
	}

	end = time.Since(start)

	fmt.Println("Vectors:", len(vectors))
	fmt.Printf("Seconds: %.8f\n\n", end.Seconds())

	fmt.Println("--- Reload from cache ---")

	start = time.Now()

	reloaded, err := descgo.NewMemorySet(ctx, descgo.WithCacheStore(cache))
	if err != nil {
		log.Fatal(err)
	}

	end = time.Since(start)

	count, err := reloaded.Count(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Count:", count)
	fmt.Printf("Seconds: %.2f\n\n", end.Seconds())

	stats := metrics.GetStats()
	fmt.Printf("Adds: %d (%d items), cache syncs: %d (%d bytes)\n",
		stats.AddCount, stats.AddItems, stats.CacheSyncCount, stats.CacheSyncBytes)
}
