package codec

import (
	"bytes"
	"encoding/gob"
)

// Gob is the standard-library gob codec.
//
// Gob is the only built-in codec that round-trips interface-valued
// containers (e.g. a map of DescriptorElement values), provided the
// concrete types are registered with encoding/gob. Element
// implementations register themselves in their package init.
//
// Gob output is Go-specific. Use JSON where the bytes must be readable
// from other runtimes.
type Gob struct{}

// Marshal encodes the value with gob.
func (Gob) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the gob data into v.
func (Gob) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Name returns the unique name of the codec ("gob").
func (Gob) Name() string { return "gob" }

// Default is the default codec used by the library.
//
// NOTE: This affects newly-created cache blobs. Existing persisted blobs are
// self-describing (they store the codec name in their header) and are opened
// by selecting the appropriate codec by name.
var Default Codec = Gob{}
