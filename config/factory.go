package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/descgo"
)

// ElementFactory binds an element type name and its configuration once,
// then mints elements for any number of (typeLabel, key) identities.
// Safe for concurrent use.
type ElementFactory struct {
	name string
	ctor ElementConstructor
	raw  json.RawMessage
}

// NewElementFactory resolves name against the element registry and
// binds raw as the configuration shared by every minted element.
func NewElementFactory(name string, raw json.RawMessage) (*ElementFactory, error) {
	registryMu.RLock()
	ctor, ok := elementConstructors[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown element type: %q", name)
	}

	return &ElementFactory{
		name: name,
		ctor: ctor,
		raw:  normalize(raw),
	}, nil
}

// TypeName returns the bound element type name.
func (f *ElementFactory) TypeName() string { return f.name }

// NewElement mints an element with the bound type and configuration.
func (f *ElementFactory) NewElement(ctx context.Context, typeLabel string, key descgo.Key) (descgo.DescriptorElement, error) {
	return f.ctor(ctx, typeLabel, key, f.raw)
}
