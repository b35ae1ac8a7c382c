// Package encoding implements the byte-level wire format: little-endian
// fixed-width integers, length-prefixed dynamic containers, untagged
// fixed containers, one-byte option and bool tags.
//
// Writers follow the append convention: they take a destination slice
// and return it extended, so callers compose encodings without
// pre-sizing buffers. The Reader mirrors every writer and reports an
// ErrBufferUnderrun when fewer bytes remain than an operation needs.
package encoding

import (
	"math"

	"github.com/cockroachdb/errors"
)

var (
	// ErrBufferUnderrun is reported when a read needs more bytes than
	// remain in the buffer.
	ErrBufferUnderrun = errors.New("buffer underrun")

	// ErrInvalidBoolEncoding is reported when a bool byte is neither 0
	// nor 1.
	ErrInvalidBoolEncoding = errors.New("invalid bool encoding")
)

func EncodeBool(dst []byte, x bool) []byte {
	if x {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func EncodeU8(dst []byte, x uint8) []byte {
	return append(dst, x)
}

func EncodeU16(dst []byte, x uint16) []byte {
	return append(dst, byte(x), byte(x>>8))
}

func EncodeU32(dst []byte, x uint32) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
	)
}

func EncodeU64(dst []byte, x uint64) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

func EncodeI8(dst []byte, x int8) []byte {
	return append(dst, byte(x))
}

func EncodeI16(dst []byte, x int16) []byte {
	return EncodeU16(dst, uint16(x))
}

func EncodeI32(dst []byte, x int32) []byte {
	return EncodeU32(dst, uint32(x))
}

func EncodeI64(dst []byte, x int64) []byte {
	return EncodeU64(dst, uint64(x))
}

func EncodeF32(dst []byte, x float32) []byte {
	return EncodeU32(dst, math.Float32bits(x))
}

func EncodeF64(dst []byte, x float64) []byte {
	return EncodeU64(dst, math.Float64bits(x))
}

// EncodeString writes a u32 length prefix followed by the raw UTF-8
// bytes. The empty string is a 4-byte zero prefix and nothing else.
func EncodeString(dst []byte, x string) []byte {
	dst = EncodeU32(dst, uint32(len(x)))
	return append(dst, x...)
}

// EncodeBytes writes a u32 length prefix followed by the raw bytes.
func EncodeBytes(dst []byte, x []byte) []byte {
	dst = EncodeU32(dst, uint32(len(x)))
	return append(dst, x...)
}

// EncodeFixedBytes writes the bytes as-is, no prefix. The length is
// part of the schema, not of the wire format.
func EncodeFixedBytes(dst []byte, x []byte) []byte {
	return append(dst, x...)
}

// EncodeOptionTag writes the one-byte presence tag of an option. The
// payload, if present, is appended by the caller.
func EncodeOptionTag(dst []byte, present bool) []byte {
	if present {
		return append(dst, 1)
	}
	return append(dst, 0)
}
