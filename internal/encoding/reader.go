package encoding

import (
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
)

// Reader consumes a byte buffer left to right, mirroring every writer
// operation. It never copies payload bytes unless the caller asks for
// an owned slice.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// take returns the next n bytes without copying.
func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, errors.Wrapf(ErrBufferUnderrun, "need %d bytes, %d remaining", n, r.Remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Wrapf(ErrInvalidBoolEncoding, "byte 0x%02x", b[0])
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) |
		uint32(b[1])<<8 |
		uint32(b[2])<<16 |
		uint32(b[3])<<24, nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return uint64(b[0]) |
		uint64(b[1])<<8 |
		uint64(b[2])<<16 |
		uint64(b[3])<<24 |
		uint64(b[4])<<32 |
		uint64(b[5])<<40 |
		uint64(b[6])<<48 |
		uint64(b[7])<<56, nil
}

func (r *Reader) ReadU128() (*big.Int, error) {
	b, err := r.take(16)
	if err != nil {
		return nil, err
	}
	return decodeU128(b), nil
}

func (r *Reader) ReadI8() (int8, error) {
	x, err := r.ReadU8()
	return int8(x), err
}

func (r *Reader) ReadI16() (int16, error) {
	x, err := r.ReadU16()
	return int16(x), err
}

func (r *Reader) ReadI32() (int32, error) {
	x, err := r.ReadU32()
	return int32(x), err
}

func (r *Reader) ReadI64() (int64, error) {
	x, err := r.ReadU64()
	return int64(x), err
}

func (r *Reader) ReadI128() (*big.Int, error) {
	b, err := r.take(16)
	if err != nil {
		return nil, err
	}
	return decodeI128(b), nil
}

func (r *Reader) ReadF32() (float32, error) {
	x, err := r.ReadU32()
	return math.Float32frombits(x), err
}

func (r *Reader) ReadF64() (float64, error) {
	x, err := r.ReadU64()
	return math.Float64frombits(x), err
}

// ReadLen reads a u32 length prefix and narrows it to int. The length
// is additionally bounded by the remaining bytes so a corrupt prefix
// surfaces as an underrun instead of a giant allocation.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return 0, errors.Wrapf(ErrBufferUnderrun, "length prefix %d exceeds %d remaining bytes", n, r.Remaining())
	}
	return int(n), nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBytes reads a length-prefixed byte sequence. The returned slice
// is owned by the caller.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadFixedBytes reads exactly n raw bytes. The returned slice is owned
// by the caller.
func (r *Reader) ReadFixedBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadOptionTag reads the one-byte presence tag of an option. A tag
// other than 0 or 1 is malformed.
func (r *Reader) ReadOptionTag() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Newf("invalid option tag 0x%02x", b[0])
}
