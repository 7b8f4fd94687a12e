package descgo

import (
	"context"
	"iter"
)

// DescriptorSet indexes DescriptorElement instances by their key.
//
// Inserting an element whose key is already present overwrites the stored
// element, so Count always equals the number of distinct keys. Iteration
// order is the set's internal order; mutating a set while iterating over
// it is undefined.
type DescriptorSet interface {
	// AddDescriptor adds or overwrites one element.
	AddDescriptor(ctx context.Context, elem DescriptorElement) error

	// AddManyDescriptors adds or overwrites a batch of elements.
	AddManyDescriptors(ctx context.Context, elems ...DescriptorElement) error

	// GetDescriptor returns the element stored under key, or ErrNotFound.
	GetDescriptor(ctx context.Context, key Key) (DescriptorElement, error)

	// GetManyDescriptors returns the elements stored under keys, in key
	// order. Any missing key fails the whole call with ErrNotFound; no
	// partial results are returned.
	GetManyDescriptors(ctx context.Context, keys ...Key) ([]DescriptorElement, error)

	// RemoveDescriptor removes the element stored under key, or returns
	// ErrNotFound.
	RemoveDescriptor(ctx context.Context, key Key) error

	// RemoveManyDescriptors removes a batch of keys. If any key is absent
	// the call fails with ErrNotFound and nothing is removed.
	RemoveManyDescriptors(ctx context.Context, keys ...Key) error

	// HasDescriptor reports whether key is present. A missing key is
	// (false, nil), never an error.
	HasDescriptor(ctx context.Context, key Key) (bool, error)

	// Count returns the number of stored elements.
	Count(ctx context.Context) (int, error)

	// Clear removes all elements.
	Clear(ctx context.Context) error

	// Keys returns an iterator over all stored keys.
	Keys() iter.Seq[Key]

	// Descriptors returns an iterator over all stored elements.
	Descriptors() iter.Seq[DescriptorElement]

	// Items returns an iterator over (key, element) pairs.
	Items() iter.Seq2[Key, DescriptorElement]
}
