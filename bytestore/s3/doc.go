// Package s3 provides an Amazon S3 implementation of the bytestore.ByteStore
// interface. Each store addresses a single object; a missing object reads as
// an empty store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//
//	store := s3.NewStore(s3.NewFromConfig(cfg), "my-bucket", "descriptors/cache.bin")
//
// # Features
//
//   - CRC32C integrity validation on writes
//   - Multipart uploads for large tables
//   - Missing objects read as empty
package s3
