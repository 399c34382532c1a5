package bst

import (
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
)

// Block framing: one header byte telling whether the payload is an LZ4
// block or raw bytes. CompressBlock signals incompressible input by writing
// nothing, and such planes are stored as is.
const (
	blockRaw = byte(0)
	blockLZ4 = byte(1)
)

// CompressUInt32Slice compresses a slice of uint32-s with LZ4.
func CompressUInt32Slice(data []uint32) []byte {
	raw := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}

	dst := make([]byte, 1+lz4.CompressBlockBound(len(raw)))

	var compressor lz4.Compressor

	n, err := compressor.CompressBlock(raw, dst[1:])
	if err != nil {
		panic(err)
	}

	if n == 0 {
		dst[0] = blockRaw

		return append(dst[:1], raw...)
	}

	dst[0] = blockLZ4

	return dst[:1+n]
}

// DecompressUInt32Slice decompresses a slice of uint32-s previously
// compressed with CompressUInt32Slice. The result must be preallocated to
// the original length.
func DecompressUInt32Slice(data []byte, result []uint32) {
	raw := make([]byte, len(result)*4)

	switch data[0] {
	case blockRaw:
		doAssert(len(data)-1 == len(raw))
		copy(raw, data[1:])
	case blockLZ4:
		n, err := lz4.UncompressBlock(data[1:], raw)
		if err != nil {
			panic(err)
		}

		doAssert(n == len(raw))
	default:
		panic("bst: unknown block framing")
	}

	for i := range result {
		result[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
}

// DeltaEncodeUInt32Slice replaces each element with the difference from its
// predecessor, in place. Differences wrap around, so any sequence survives
// a round trip through DeltaDecodeUInt32Slice.
func DeltaEncodeUInt32Slice(data []uint32) {
	for i := len(data) - 1; i > 0; i-- {
		data[i] -= data[i-1]
	}
}

// DeltaDecodeUInt32Slice reverses DeltaEncodeUInt32Slice in place.
func DeltaDecodeUInt32Slice(data []uint32) {
	for i := 1; i < len(data); i++ {
		data[i] += data[i-1]
	}
}
