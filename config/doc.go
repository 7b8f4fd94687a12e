// Package config constructs descriptor elements, descriptor sets and
// byte stores from declarative JSON configuration.
//
// Implementations register a constructor under a stable type name,
// typically from an init() function; applications then name the type
// and hand over the raw configuration payload:
//
//	raw := json.RawMessage(`{
//	    "cache_store": {"type": "local", "config": {"path": "/var/cache/descriptors.bin"}}
//	}`)
//	ds, err := config.NewSet(ctx, "memory", raw)
//
// Identity never appears in a configuration payload: the type label and
// key of an element are positional arguments, so one configuration can
// mint any number of elements. ElementFactory packages exactly that
// pattern for code producing descriptors in bulk.
//
// The memory element, the memory set and the memory, local, compressed
// and bolt byte stores are registered by this package. Importing
// element/sqlite or element/dynamo adds the "sqlite" and "dynamo"
// element types.
package config
