package descgo

import (
	"context"
)

// Key identifies a descriptor element within its logical namespace.
//
// Keys are caller-assigned and must be unique per set. A Key is plain
// string data: its equality and its byte encoding are stable across
// process restarts, which matters when a set is persisted through a
// byte store and reloaded later.
type Key string

// DescriptorElement is a single descriptor: an immutable identity
// (type label + key) plus an optional vector payload.
//
// The type label names the process that produced the descriptor. It is
// used for grouping and labeling only; it takes no part in equality.
//
// Implementations that resolve vectors from remote storage should honor
// ctx on Vector, SetVector and HasVector. Elements hold no reference to
// any containing DescriptorSet; removing an element from a set does not
// invalidate a held element value.
type DescriptorElement interface {
	// UUID returns the element's key. No side effects.
	UUID() Key

	// Type returns the type label of the producing process.
	Type() string

	// HasVector reports whether a vector is currently attached.
	// A missing vector is (false, nil); the error return is reserved
	// for backend faults.
	HasVector(ctx context.Context) (bool, error)

	// Vector returns the stored vector, or (nil, nil) when no vector is
	// attached. The returned slice is owned by the caller; mutating it
	// must not affect the element's internal storage.
	Vector(ctx context.Context) ([]float32, error)

	// SetVector replaces the stored vector unconditionally, including
	// overwrite of an existing one. A nil vector is rejected with
	// ErrInvalidVector.
	SetVector(ctx context.Context, v []float32) error
}

// Equal reports whether two descriptor elements are equal under the
// vector-contents rule: a == b iff their vectors are elementwise equal.
// Absent vectors are equal only to each other; absent vs present is
// false.
//
// Type label and key are deliberately ignored. Two elements with equal
// vectors but different identities compare equal. This mirrors the
// upstream contract this library is compatible with; identity-based
// lookups should key on UUID instead.
//
// A vector that cannot be retrieved is treated as absent.
func Equal(ctx context.Context, a, b DescriptorElement) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, err := a.Vector(ctx)
	if err != nil {
		va = nil
	}
	vb, err := b.Vector(ctx)
	if err != nil {
		vb = nil
	}

	return VectorsEqual(va, vb)
}

// VectorsEqual reports elementwise equality of two vectors.
// Two nil vectors are equal; nil vs non-nil is not. A zero-length
// non-nil vector counts as present.
func VectorsEqual(a, b []float32) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
