package bytestore

import "context"

// ByteStore is an opaque replaceable byte buffer. One instance addresses
// exactly one blob; SetBytes replaces the previous contents wholesale.
//
// The descriptor cache layer serializes an entire table into a single
// blob, so stores never need partial updates or range reads. The only
// format contract is round-trip fidelity: GetBytes returns exactly what
// the last SetBytes stored.
type ByteStore interface {
	// IsEmpty reports whether the store currently holds no bytes.
	IsEmpty(ctx context.Context) (bool, error)

	// GetBytes returns the stored bytes, or nil when the store is empty.
	// The returned slice is owned by the caller.
	GetBytes(ctx context.Context) ([]byte, error)

	// SetBytes replaces the stored bytes.
	SetBytes(ctx context.Context, data []byte) error
}
