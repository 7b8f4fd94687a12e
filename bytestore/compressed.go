package bytestore

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast, good for hot data).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio, good for cold data).
	CompressionZSTD CompressionType = 2
)

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	// Level 3 balances compression ratio vs speed
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Blob format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// If CompressedSize == 0, the data is stored uncompressed.
const blobHeaderSize = 8

// CompressedStore wraps another ByteStore and transparently compresses
// the blob on write and decompresses it on read.
//
// A blob must be read back with the same compression type it was written
// with; the wrapped store only ever sees the framed, compressed bytes.
type CompressedStore struct {
	inner       ByteStore
	compression CompressionType
}

var _ ByteStore = (*CompressedStore)(nil)

// NewCompressedStore creates a CompressedStore around inner.
func NewCompressedStore(inner ByteStore, compression CompressionType) *CompressedStore {
	return &CompressedStore{
		inner:       inner,
		compression: compression,
	}
}

// IsEmpty delegates to the wrapped store.
func (s *CompressedStore) IsEmpty(ctx context.Context) (bool, error) {
	return s.inner.IsEmpty(ctx)
}

// GetBytes reads the wrapped store and decompresses the blob.
func (s *CompressedStore) GetBytes(ctx context.Context) ([]byte, error) {
	data, err := s.inner.GetBytes(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return decompressBlob(data, s.compression)
}

// SetBytes compresses the blob and writes it to the wrapped store.
func (s *CompressedStore) SetBytes(ctx context.Context, data []byte) error {
	compressed, err := compressBlob(data, s.compression)
	if err != nil {
		return err
	}
	return s.inner.SetBytes(ctx, compressed)
}

// compressBlob compresses data using the specified algorithm.
// Returns the compressed data with header, or original data if compression doesn't help.
func compressBlob(data []byte, compressionType CompressionType) ([]byte, error) {
	if compressionType == CompressionNone || len(data) == 0 {
		return data, nil
	}

	var compressed []byte
	var err error

	switch compressionType {
	case CompressionLZ4:
		compressed, err = compressBlobLZ4(data)
	case CompressionZSTD:
		compressed, err = compressBlobZSTD(data)
	default:
		return data, nil
	}

	if err != nil {
		return nil, err
	}

	// If compression doesn't help (ratio > 0.9), store uncompressed
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		// Store uncompressed with header
		result := make([]byte, blobHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0) // 0 = uncompressed
		copy(result[blobHeaderSize:], data)
		return result, nil
	}

	// Store compressed with header
	result := make([]byte, blobHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[blobHeaderSize:], compressed)
	return result, nil
}

// compressBlobLZ4 compresses data using LZ4.
func compressBlobLZ4(data []byte) ([]byte, error) {
	maxCompressedSize := lz4.CompressBlockBound(len(data))
	compressed := make([]byte, maxCompressedSize)

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, nil // Incompressible
	}

	return compressed[:n], nil
}

// compressBlobZSTD compresses data using ZSTD.
func compressBlobZSTD(data []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil), nil
}

// decompressBlob decompresses a blob written by compressBlob.
func decompressBlob(data []byte, compressionType CompressionType) ([]byte, error) {
	if compressionType == CompressionNone {
		return data, nil
	}

	if len(data) < blobHeaderSize {
		return nil, errors.New("blob too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		// Uncompressed blob
		if uint32(len(data)) < blobHeaderSize+uncompressedSize {
			return nil, errors.New("blob data too small")
		}
		return data[blobHeaderSize : blobHeaderSize+uncompressedSize], nil
	}

	// Compressed blob
	if uint32(len(data)) < blobHeaderSize+compressedSize {
		return nil, errors.New("compressed blob data too small")
	}

	compressedData := data[blobHeaderSize : blobHeaderSize+compressedSize]
	result := make([]byte, uncompressedSize)

	switch compressionType {
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressedData, result[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return decoded, nil

	default: // LZ4 or fallback
		n, err := lz4.UncompressBlock(compressedData, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return result, nil
	}
}
