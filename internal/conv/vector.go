package conv

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Float32SliceToBytes packs a vector as little-endian IEEE 754 bytes,
// 4 bytes per component.
func Float32SliceToBytes(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// BytesToFloat32Slice unpacks a little-endian vector produced by
// Float32SliceToBytes. The byte length must be a multiple of 4.
func BytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector bytes length %d is not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
