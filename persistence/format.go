// Package persistence frames descriptor-table snapshots as self-describing
// binary blobs: magic number, format version, codec name, payload, CRC32.
//
// The framing makes corrupt or foreign bytes fail loudly at decode time
// instead of producing a silently wrong table. There is no recovery path:
// a blob that does not verify is a fatal condition for the caller.
package persistence

import "errors"

const (
	// MagicNumber identifies descgo snapshot blobs (ASCII: "DSC0").
	MagicNumber = 0x44534330
	// Version is the current blob format version.
	Version uint16 = 1
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrTruncated      = errors.New("truncated blob")
)

// Header describes a decoded snapshot blob.
type Header struct {
	Version uint16
	Codec   string // codec name recorded at encode time
}
