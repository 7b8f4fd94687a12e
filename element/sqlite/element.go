package sqlite

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/hupe1980/descgo"
)

func init() {
	// Lets interface-valued descriptor tables holding sqlite elements
	// gob round-trip.
	gob.Register(&Element{})
}

// Element is a descriptor element whose vector lives in a SQLite
// descriptor table. The element itself carries only the identity and
// the store binding; the vector is resolved on demand.
type Element struct {
	typeLabel string
	key       descgo.Key
	path      string
	dim       int

	store *Store
}

var (
	_ descgo.DescriptorElement  = (*Element)(nil)
	_ descgo.BulkVectorProvider = (*Element)(nil)
	_ gob.GobEncoder            = (*Element)(nil)
	_ gob.GobDecoder            = (*Element)(nil)
)

// NewElement returns an element bound to the SQLite database at path,
// opening (or reusing) the store through the package registry.
func NewElement(ctx context.Context, path, typeLabel string, key descgo.Key, optFns ...func(o *Options)) (*Element, error) {
	s, err := Open(ctx, path, optFns...)
	if err != nil {
		return nil, err
	}

	return s.Element(typeLabel, key), nil
}

// UUID returns the element's key.
func (e *Element) UUID() descgo.Key { return e.key }

// Type returns the type label of the producing process.
func (e *Element) Type() string { return e.typeLabel }

// resolveStore returns the bound store, reattaching through the
// registry after a gob decode or a store Close.
func (e *Element) resolveStore(ctx context.Context) (*Store, error) {
	if e.store == nil {
		s, err := lookupStore(ctx, e.path, e.dim)
		if err != nil {
			return nil, fmt.Errorf("reattach store %q: %w", e.path, err)
		}
		e.store = s
	}

	return e.store, nil
}

// HasVector reports whether a vector row exists for the element's key.
func (e *Element) HasVector(ctx context.Context) (bool, error) {
	s, err := e.resolveStore(ctx)
	if err != nil {
		return false, err
	}

	return s.hasVector(ctx, e.key)
}

// Vector returns the stored vector, or (nil, nil) when no row exists.
func (e *Element) Vector(ctx context.Context) ([]float32, error) {
	s, err := e.resolveStore(ctx)
	if err != nil {
		return nil, err
	}

	return s.getVector(ctx, e.key)
}

// SetVector upserts the vector row for the element's key.
func (e *Element) SetVector(ctx context.Context, v []float32) error {
	s, err := e.resolveStore(ctx)
	if err != nil {
		return err
	}

	return s.setVector(ctx, e.typeLabel, e.key, v)
}

// BulkVectors resolves the whole group with chunked IN queries, split by
// database path when the group spans multiple stores.
func (e *Element) BulkVectors(ctx context.Context, elems []descgo.DescriptorElement) ([]descgo.KeyVector, error) {
	byStore := make(map[*Store][]descgo.Key)
	var order []*Store

	for _, el := range elems {
		se, ok := el.(*Element)
		if !ok {
			return nil, fmt.Errorf("unexpected element type %T in sqlite bulk fetch", el)
		}

		s, err := se.resolveStore(ctx)
		if err != nil {
			return nil, err
		}

		if _, seen := byStore[s]; !seen {
			order = append(order, s)
		}
		byStore[s] = append(byStore[s], se.key)
	}

	var pairs []descgo.KeyVector
	for _, s := range order {
		got, err := s.bulkVectors(ctx, byStore[s])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, got...)
	}

	return pairs, nil
}

// GobEncode method for Element. The vector intentionally stays in the
// database; only identity and store binding are serialized.
func (e *Element) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(e.typeLabel); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.key); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.path); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.dim); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for Element. The store handle is reattached lazily on
// first use.
func (e *Element) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	if err := decoder.Decode(&e.typeLabel); err != nil {
		return err
	}

	if err := decoder.Decode(&e.key); err != nil {
		return err
	}

	if err := decoder.Decode(&e.path); err != nil {
		return err
	}

	if err := decoder.Decode(&e.dim); err != nil {
		return err
	}

	e.store = nil
	return nil
}
