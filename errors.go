package descgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested key is absent from a set.
	//
	// Single and batch get/remove operations fail with it; the batched
	// vector retrieval protocol tolerates missing vectors instead (an
	// unresolvable element yields a nil slot, not an error).
	ErrNotFound = errors.New("descriptor not found")

	// ErrInvalidVector is returned when SetVector is called with a
	// malformed payload (nil vector, or a vector a dimensioned backend
	// cannot accept).
	ErrInvalidVector = errors.New("invalid vector")
)

// DimensionMismatchError indicates a vector whose length does not match
// a backend's configured dimension.
//
// It unwraps to ErrInvalidVector, so errors.Is(err, ErrInvalidVector)
// matches.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrInvalidVector }
