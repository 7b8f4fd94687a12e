// Package conv provides safe numeric conversion utilities and the
// byte-level vector codec shared by storage-backed elements.
//
// The integer helpers perform bounds checking to prevent overflow when
// converting between Go's int (platform-dependent) and fixed-width types,
// typically while validating untrusted lengths read from disk or the
// network. For conversions that are provably safe by domain constraints,
// use direct type casts instead.
//
// The vector codec packs []float32 as little-endian IEEE 754 bytes. This
// is the wire form used for vector BLOB/binary columns; it is stable
// across platforms and releases.
package conv
