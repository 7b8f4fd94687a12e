package descgo

import (
	"bytes"
	"context"
	"encoding/gob"
)

// MemoryElement is the reference DescriptorElement backend: the vector
// lives in process memory and serializes together with the identity.
//
// It deliberately does not implement BulkVectorProvider, so batched
// retrieval of memory elements exercises the default concurrent path.
type MemoryElement struct {
	typeLabel string
	key       Key
	vector    []float32
}

// Compile time checks to ensure MemoryElement satisfies the contracts.
var (
	_ DescriptorElement = (*MemoryElement)(nil)
	_ gob.GobEncoder    = (*MemoryElement)(nil)
	_ gob.GobDecoder    = (*MemoryElement)(nil)
)

func init() {
	// Interface-valued tables (map[Key]DescriptorElement) gob-encode
	// through this registration.
	gob.Register(&MemoryElement{})
}

// NewMemoryElement creates an element with no vector attached.
func NewMemoryElement(typeLabel string, key Key) *MemoryElement {
	return &MemoryElement{
		typeLabel: typeLabel,
		key:       key,
	}
}

// UUID returns the element's identity key.
func (e *MemoryElement) UUID() Key {
	return e.key
}

// Type returns the label of the producing process.
func (e *MemoryElement) Type() string {
	return e.typeLabel
}

// HasVector reports whether a vector is currently attached.
func (e *MemoryElement) HasVector(_ context.Context) (bool, error) {
	return e.vector != nil, nil
}

// Vector returns a copy of the stored vector, or (nil, nil) when no
// vector is attached.
func (e *MemoryElement) Vector(_ context.Context) ([]float32, error) {
	if e.vector == nil {
		return nil, nil
	}

	// Return a copy to prevent external mutation
	copied := make([]float32, len(e.vector))
	copy(copied, e.vector)
	return copied, nil
}

// SetVector replaces the stored vector. A nil vector is rejected with
// ErrInvalidVector.
func (e *MemoryElement) SetVector(_ context.Context, v []float32) error {
	if v == nil {
		return ErrInvalidVector
	}

	// Copy to prevent external mutation
	copied := make([]float32, len(v))
	copy(copied, v)
	e.vector = copied
	return nil
}

// GobEncode method for MemoryElement.
func (e *MemoryElement) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(e.typeLabel); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.key); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.vector); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for MemoryElement.
func (e *MemoryElement) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	if err := decoder.Decode(&e.typeLabel); err != nil {
		return err
	}

	if err := decoder.Decode(&e.key); err != nil {
		return err
	}

	return decoder.Decode(&e.vector)
}
