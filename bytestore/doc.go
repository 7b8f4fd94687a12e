// Package bytestore defines the durable byte store contract used for
// descriptor table caching, plus reference implementations.
//
// A ByteStore addresses exactly one opaque blob. MemoryStore keeps it on
// the heap, LocalStore in a single file with atomic replacement, and
// CompressedStore wraps any inner store with block compression. Cloud
// backends live in the s3, minio and bolt subpackages.
package bytestore
