// Package descgo manages descriptor vectors produced by content-analysis
// pipelines.
//
// A descriptor is a fixed-size []float32 feature vector identified by a
// caller-supplied key plus a type label naming the process that produced
// it. Descgo gives heterogeneous storage backends one contract for
// storing, retrieving, and batch-fetching those vectors, and ships an
// in-memory descriptor set with optional durable caching.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	elem := descgo.NewMemoryElement("cnn-pool5", "img-0001")
//	_ = elem.SetVector(ctx, vector)
//
//	ds, _ := descgo.NewMemorySet(ctx,
//	    descgo.WithCacheStore(bytestore.NewLocalStore("descriptors.bin")),
//	)
//	_ = ds.AddDescriptor(ctx, elem)
//
// Re-opening the set with the same cache store restores the table:
//
//	ds, _ = descgo.NewMemorySet(ctx,
//	    descgo.WithCacheStore(bytestore.NewLocalStore("descriptors.bin")),
//	)
//
// # Batched Retrieval
//
// GetManyVectors resolves many vectors in one pass, grouping elements by
// concrete type so backends sharing a connection can batch their reads:
//
//	vectors, _ := descgo.GetManyVectors(ctx, elems)
//	// vectors[i] belongs to elems[i]; nil means no vector stored
//
// Backends that can answer many lookups in one round trip implement
// BulkVectorProvider; everything else is fanned out concurrently.
//
// # Equality
//
// Two elements are equal when their vectors are elementwise equal. The
// key and type label deliberately do not participate:
//
//	same := descgo.Equal(ctx, a, b)
//
// # Key Features
//
//   - Uniform DescriptorElement contract over memory, SQLite, DynamoDB
//   - Order-preserving batched vector retrieval with per-type batching
//   - Write-through cached in-memory descriptor set
//   - Pluggable cache byte stores (file, S3, MinIO, bbolt, compressed)
//   - Construct-from-configuration registries
package descgo
