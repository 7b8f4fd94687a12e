package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Blob layout (little-endian):
//
//	magic      uint32
//	version    uint16
//	codecLen   uint8
//	codecName  [codecLen]byte
//	payloadLen uint32
//	payload    [payloadLen]byte
//	checksum   uint32 (CRC32 of payload)

// EncodeBlob frames a codec payload as a self-describing snapshot blob.
//
// version selects the blob format version; -1 and 0 select the current
// Version. Requesting any other unknown version fails with
// ErrInvalidVersion.
func EncodeBlob(codecName string, version int, payload []byte) ([]byte, error) {
	v, err := resolveVersion(version)
	if err != nil {
		return nil, err
	}
	if len(codecName) == 0 || len(codecName) > 255 {
		return nil, fmt.Errorf("invalid codec name %q", codecName)
	}

	var buf bytes.Buffer
	buf.Grow(11 + len(codecName) + len(payload) + 4)

	if err := binary.Write(&buf, binary.LittleEndian, uint32(MagicNumber)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	buf.WriteByte(byte(len(codecName)))
	buf.WriteString(codecName)
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(payload))); err != nil {
		return nil, err
	}

	cw := NewChecksumWriter(&buf)
	if _, err := cw.Write(payload); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, cw.Sum()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeBlob parses and verifies a snapshot blob, returning its header and
// codec payload.
//
// Verification failures are fatal to the blob: ErrInvalidMagic,
// ErrInvalidVersion, ErrTruncated, or a *ChecksumMismatchError.
func DecodeBlob(data []byte) (Header, []byte, error) {
	var hdr Header
	r := bytes.NewReader(data)

	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if magic != MagicNumber {
		return hdr, nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, magic)
	}

	if err := binary.Read(r, binary.LittleEndian, &hdr.Version); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if hdr.Version == 0 || hdr.Version > Version {
		return hdr, nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, hdr.Version)
	}

	nameLen, err := r.ReadByte()
	if err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	hdr.Codec = string(name)

	var payloadLen uint32
	if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	payload := make([]byte, payloadLen)
	cr := NewChecksumReader(r)
	if _, err := io.ReadFull(cr, payload); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	var expected uint32
	if err := binary.Read(r, binary.LittleEndian, &expected); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if err := cr.Verify(expected); err != nil {
		return hdr, nil, err
	}

	return hdr, payload, nil
}

func resolveVersion(version int) (uint16, error) {
	switch {
	case version == -1 || version == 0:
		return Version, nil
	case version == int(Version):
		return Version, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}
}
