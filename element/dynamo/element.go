package dynamo

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/hupe1980/descgo"
)

func init() {
	// Lets interface-valued descriptor tables holding dynamo elements
	// gob round-trip.
	gob.Register(&Element{})
}

// Element is a descriptor element whose vector lives in a DynamoDB
// table. The element itself carries only the identity and the table
// binding; the vector is resolved on demand.
type Element struct {
	typeLabel string
	key       descgo.Key
	table     string
	dim       int

	store *Store
}

var (
	_ descgo.DescriptorElement  = (*Element)(nil)
	_ descgo.BulkVectorProvider = (*Element)(nil)
	_ gob.GobEncoder            = (*Element)(nil)
	_ gob.GobDecoder            = (*Element)(nil)
)

// UUID returns the element's key.
func (e *Element) UUID() descgo.Key { return e.key }

// Type returns the type label of the producing process.
func (e *Element) Type() string { return e.typeLabel }

// resolveStore returns the bound store, reattaching through the table
// registry after a gob decode.
func (e *Element) resolveStore() (*Store, error) {
	if e.store == nil {
		s, err := lookupStore(e.table)
		if err != nil {
			return nil, err
		}
		e.store = s
	}

	return e.store, nil
}

// HasVector reports whether an item exists for the element's key.
func (e *Element) HasVector(ctx context.Context) (bool, error) {
	s, err := e.resolveStore()
	if err != nil {
		return false, err
	}

	return s.hasVector(ctx, e.key)
}

// Vector returns the stored vector, or (nil, nil) when no item exists.
func (e *Element) Vector(ctx context.Context) ([]float32, error) {
	s, err := e.resolveStore()
	if err != nil {
		return nil, err
	}

	return s.getVector(ctx, e.key)
}

// SetVector replaces the item for the element's key.
func (e *Element) SetVector(ctx context.Context, v []float32) error {
	s, err := e.resolveStore()
	if err != nil {
		return err
	}

	return s.setVector(ctx, e.typeLabel, e.key, v)
}

// BulkVectors resolves the whole group with BatchGetItem pages, split by
// table when the group spans multiple stores.
func (e *Element) BulkVectors(ctx context.Context, elems []descgo.DescriptorElement) ([]descgo.KeyVector, error) {
	byStore := make(map[*Store][]descgo.Key)
	var order []*Store

	for _, el := range elems {
		de, ok := el.(*Element)
		if !ok {
			return nil, fmt.Errorf("unexpected element type %T in dynamo bulk fetch", el)
		}

		s, err := de.resolveStore()
		if err != nil {
			return nil, err
		}

		if _, seen := byStore[s]; !seen {
			order = append(order, s)
		}
		byStore[s] = append(byStore[s], de.key)
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

// GobEncode method for Element. The vector intentionally stays in
// DynamoDB; only identity and table binding are serialized.
func (e *Element) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(e.typeLabel); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.key); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.table); err != nil {
		return nil, err
	}

	if err := encoder.Encode(e.dim); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for Element. The store binding is reattached lazily
// on first use.
func (e *Element) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	if err := decoder.Decode(&e.typeLabel); err != nil {
		return err
	}

	if err := decoder.Decode(&e.key); err != nil {
		return err
	}

	if err := decoder.Decode(&e.table); err != nil {
		return err
	}

	if err := decoder.Decode(&e.dim); err != nil {
		return err
	}

	e.store = nil
	return nil
}
