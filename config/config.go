package config

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/bytestore"
)

// ElementConstructor builds a descriptor element for the given identity
// from its raw JSON configuration. The reader of raw owns its parsing;
// an empty payload arrives as "{}".
type ElementConstructor func(ctx context.Context, typeLabel string, key descgo.Key, raw json.RawMessage) (descgo.DescriptorElement, error)

// SetConstructor builds a descriptor set from its raw JSON configuration.
type SetConstructor func(ctx context.Context, raw json.RawMessage) (descgo.DescriptorSet, error)

// ByteStoreConstructor builds a byte store from its raw JSON configuration.
type ByteStoreConstructor func(ctx context.Context, raw json.RawMessage) (bytestore.ByteStore, error)

var (
	registryMu            sync.RWMutex
	elementConstructors   = map[string]ElementConstructor{}
	setConstructors       = map[string]SetConstructor{}
	byteStoreConstructors = map[string]ByteStoreConstructor{}
)

// RegisterElement registers an element constructor under a stable type
// name. Registering a name again replaces the previous constructor.
//
// Implementations should typically call this from an init() function.
func RegisterElement(name string, ctor ElementConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	elementConstructors[name] = ctor
}

// RegisterSet registers a set constructor under a stable type name.
// Registering a name again replaces the previous constructor.
//
// Implementations should typically call this from an init() function.
func RegisterSet(name string, ctor SetConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	setConstructors[name] = ctor
}

// RegisterByteStore registers a byte store constructor under a stable
// type name. Registering a name again replaces the previous constructor.
//
// Implementations should typically call this from an init() function.
func RegisterByteStore(name string, ctor ByteStoreConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	byteStoreConstructors[name] = ctor
}

// NewElement builds a descriptor element of the named type. The identity
// (typeLabel, key) is positional and takes no part in raw.
func NewElement(ctx context.Context, name, typeLabel string, key descgo.Key, raw json.RawMessage) (descgo.DescriptorElement, error) {
	registryMu.RLock()
	ctor, ok := elementConstructors[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown element type: %q", name)
	}

	return ctor(ctx, typeLabel, key, normalize(raw))
}

// NewSet builds a descriptor set of the named type.
func NewSet(ctx context.Context, name string, raw json.RawMessage) (descgo.DescriptorSet, error) {
	registryMu.RLock()
	ctor, ok := setConstructors[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown set type: %q", name)
	}

	return ctor(ctx, normalize(raw))
}

// NewByteStore builds a byte store of the named type.
func NewByteStore(ctx context.Context, name string, raw json.RawMessage) (bytestore.ByteStore, error) {
	registryMu.RLock()
	ctor, ok := byteStoreConstructors[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown byte store type: %q", name)
	}

	return ctor(ctx, normalize(raw))
}

// ElementTypeNames returns the registered element type names, sorted.
func ElementTypeNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(elementConstructors)
}

// SetTypeNames returns the registered set type names, sorted.
func SetTypeNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(setConstructors)
}

// ByteStoreTypeNames returns the registered byte store type names, sorted.
func ByteStoreTypeNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(byteStoreConstructors)
}

// normalize lets callers omit the configuration payload entirely.
func normalize(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
