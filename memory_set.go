package descgo

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/descgo/bytestore"
	"github.com/hupe1980/descgo/codec"
	"github.com/hupe1980/descgo/persistence"
)

// MemorySet is the reference DescriptorSet: a map table with an optional
// write-through byte-store cache.
//
// Every mutating call applies the in-memory change first and then
// re-serializes the full table into the cache store, so the cache always
// mirrors the table once the call returns. A cache write fault is
// returned to the caller, but the in-memory mutation stands.
//
// MemorySet performs no internal locking; callers must serialize
// concurrent mutation.
type MemorySet struct {
	table    map[Key]DescriptorElement
	cache    bytestore.ByteStore
	codec    codec.Codec
	protocol int
	logger   *Logger
	metrics  MetricsCollector
}

var _ DescriptorSet = (*MemorySet)(nil)

// NewMemorySet creates a descriptor set, seeding the table from the
// cache store when one is configured and non-empty.
//
// A cache blob that fails to decode is fatal: the error is returned and
// no half-loaded set is handed out.
func NewMemorySet(ctx context.Context, optFns ...Option) (*MemorySet, error) {
	opts := applyMemorySetOptions(optFns)

	if opts.Protocol < -1 || opts.Protocol > int(persistence.Version) {
		return nil, fmt.Errorf("protocol version %d: %w", opts.Protocol, persistence.ErrInvalidVersion)
	}

	s := &MemorySet{
		table:    make(map[Key]DescriptorElement),
		cache:    opts.CacheStore,
		codec:    opts.Codec,
		protocol: opts.Protocol,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}

	if s.cache != nil {
		if err := s.loadCache(ctx); err != nil {
			s.logger.LogCacheLoad(ctx, 0, err)
			return nil, err
		}
		s.logger.LogCacheLoad(ctx, len(s.table), nil)
	}

	return s, nil
}

// loadCache replaces the table with the deserialized cache contents.
// An empty store leaves the table empty.
func (s *MemorySet) loadCache(ctx context.Context) error {
	empty, err := s.cache.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check cache store: %w", err)
	}
	if empty {
		return nil
	}

	data, err := s.cache.GetBytes(ctx)
	if err != nil {
		return fmt.Errorf("read cache store: %w", err)
	}
	if data == nil {
		return nil
	}

	header, payload, err := persistence.DecodeBlob(data)
	if err != nil {
		return fmt.Errorf("decode cache blob: %w", err)
	}

	c, ok := codec.ByName(header.Codec)
	if !ok {
		return fmt.Errorf("cache blob uses unknown codec %q", header.Codec)
	}

	table := make(map[Key]DescriptorElement)
	if err := c.Unmarshal(payload, &table); err != nil {
		return fmt.Errorf("decode cache table: %w", err)
	}

	s.table = table
	return nil
}

// CacheTable serializes the full table into the cache store. Without a
// cache store it is a no-op. An empty table is written as a valid empty
// blob, not as an absent one.
func (s *MemorySet) CacheTable(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	start := time.Now()

	blob, err := s.encodeTable()
	if err == nil {
		err = s.cache.SetBytes(ctx, blob)
	}

	s.logger.LogCacheSync(ctx, len(blob), err)
	s.metrics.RecordCacheSync(len(blob), time.Since(start), err)

	if err != nil {
		return fmt.Errorf("cache table: %w", err)
	}
	return nil
}

func (s *MemorySet) encodeTable() ([]byte, error) {
	payload, err := s.codec.Marshal(s.table)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return persistence.EncodeBlob(s.codec.Name(), s.protocol, payload)
}

// AddDescriptor adds or overwrites one element and resyncs the cache.
func (s *MemorySet) AddDescriptor(ctx context.Context, elem DescriptorElement) error {
	start := time.Now()

	if elem == nil {
		err := fmt.Errorf("nil descriptor element")
		s.logger.LogAdd(ctx, 0, err)
		s.metrics.RecordAdd(0, time.Since(start), err)
		return err
	}

	s.table[elem.UUID()] = elem
	err := s.CacheTable(ctx)

	s.logger.LogAdd(ctx, 1, err)
	s.metrics.RecordAdd(1, time.Since(start), err)
	return err
}

// AddManyDescriptors adds or overwrites a batch of elements with at most
// one cache resync. An empty batch is a no-op.
func (s *MemorySet) AddManyDescriptors(ctx context.Context, elems ...DescriptorElement) error {
	if len(elems) == 0 {
		return nil
	}

	start := time.Now()

	for i, elem := range elems {
		if elem == nil {
			err := fmt.Errorf("nil descriptor element at index %d", i)
			s.logger.LogAdd(ctx, 0, err)
			s.metrics.RecordAdd(0, time.Since(start), err)
			return err
		}
	}

	for _, elem := range elems {
		s.table[elem.UUID()] = elem
	}
	err := s.CacheTable(ctx)

	s.logger.LogAdd(ctx, len(elems), err)
	s.metrics.RecordAdd(len(elems), time.Since(start), err)
	return err
}

// GetDescriptor returns the element stored under key.
func (s *MemorySet) GetDescriptor(_ context.Context, key Key) (DescriptorElement, error) {
	elem, ok := s.table[key]
	if !ok {
		return nil, fmt.Errorf("descriptor %q: %w", string(key), ErrNotFound)
	}
	return elem, nil
}

// GetManyDescriptors returns the elements stored under keys, in key
// order. The first missing key fails the whole call.
func (s *MemorySet) GetManyDescriptors(_ context.Context, keys ...Key) ([]DescriptorElement, error) {
	elems := make([]DescriptorElement, 0, len(keys))
	for _, key := range keys {
		elem, ok := s.table[key]
		if !ok {
			return nil, fmt.Errorf("descriptor %q: %w", string(key), ErrNotFound)
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

// RemoveDescriptor removes the element stored under key and resyncs the
// cache.
func (s *MemorySet) RemoveDescriptor(ctx context.Context, key Key) error {
	start := time.Now()

	if _, ok := s.table[key]; !ok {
		err := fmt.Errorf("descriptor %q: %w", string(key), ErrNotFound)
		s.logger.LogRemove(ctx, 0, err)
		s.metrics.RecordRemove(0, time.Since(start), err)
		return err
	}

	delete(s.table, key)
	err := s.CacheTable(ctx)

	s.logger.LogRemove(ctx, 1, err)
	s.metrics.RecordRemove(1, time.Since(start), err)
	return err
}

// RemoveManyDescriptors removes a batch of keys with at most one cache
// resync. All keys are validated before anything is removed; any absent
// key fails the call and the table is unchanged. An empty batch is a
// no-op.
func (s *MemorySet) RemoveManyDescriptors(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}

	start := time.Now()

	for _, key := range keys {
		if _, ok := s.table[key]; !ok {
			err := fmt.Errorf("descriptor %q: %w", string(key), ErrNotFound)
			s.logger.LogRemove(ctx, 0, err)
			s.metrics.RecordRemove(0, time.Since(start), err)
			return err
		}
	}

	for _, key := range keys {
		delete(s.table, key)
	}
	err := s.CacheTable(ctx)

	s.logger.LogRemove(ctx, len(keys), err)
	s.metrics.RecordRemove(len(keys), time.Since(start), err)
	return err
}

// HasDescriptor reports whether key is present. A missing key is
// (false, nil).
func (s *MemorySet) HasDescriptor(_ context.Context, key Key) (bool, error) {
	_, ok := s.table[key]
	return ok, nil
}

// Count returns the number of stored elements.
func (s *MemorySet) Count(_ context.Context) (int, error) {
	return len(s.table), nil
}

// Clear removes all elements. On a cached set the serialized empty table
// is written out; the store itself is kept.
func (s *MemorySet) Clear(ctx context.Context) error {
	s.table = make(map[Key]DescriptorElement)
	return s.CacheTable(ctx)
}

// Keys returns an iterator over all stored keys.
func (s *MemorySet) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for k := range s.table {
			if !yield(k) {
				return
			}
		}
	}
}

// Descriptors returns an iterator over all stored elements.
func (s *MemorySet) Descriptors() iter.Seq[DescriptorElement] {
	return func(yield func(DescriptorElement) bool) {
		for _, elem := range s.table {
			if !yield(elem) {
				return
			}
		}
	}
}

// Items returns an iterator over (key, element) pairs.
func (s *MemorySet) Items() iter.Seq2[Key, DescriptorElement] {
	return func(yield func(Key, DescriptorElement) bool) {
		for k, elem := range s.table {
			if !yield(k, elem) {
				return
			}
		}
	}
}
