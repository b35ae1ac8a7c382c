package encoding

import (
	"math/big"

	"github.com/cockroachdb/errors"
)

// 128-bit integers don't fit the host's native widths, so they cross
// the API boundary as *big.Int and are narrowed only here, at the wire.

var (
	u128Max = new(big.Int).Lsh(big.NewInt(1), 128) // 2^128
	i128Max = new(big.Int).Lsh(big.NewInt(1), 127) // 2^127
	i128Min = new(big.Int).Neg(i128Max)
)

// EncodeU128 writes x as 16 little-endian bytes. x must fit in
// [0, 2^128).
func EncodeU128(dst []byte, x *big.Int) ([]byte, error) {
	if x.Sign() < 0 || x.Cmp(u128Max) >= 0 {
		return nil, errors.Newf("u128 out of range: %s", x)
	}
	return appendLittle128(dst, x), nil
}

// EncodeI128 writes x as 16 little-endian two's-complement bytes. x
// must fit in [-2^127, 2^127).
func EncodeI128(dst []byte, x *big.Int) ([]byte, error) {
	if x.Cmp(i128Min) < 0 || x.Cmp(i128Max) >= 0 {
		return nil, errors.Newf("i128 out of range: %s", x)
	}
	if x.Sign() < 0 {
		x = new(big.Int).Add(x, u128Max)
	}
	return appendLittle128(dst, x), nil
}

func appendLittle128(dst []byte, x *big.Int) []byte {
	var be [16]byte
	x.FillBytes(be[:])
	for i := 15; i >= 0; i-- {
		dst = append(dst, be[i])
	}
	return dst
}

func decodeU128(b []byte) *big.Int {
	var be [16]byte
	for i := 0; i < 16; i++ {
		be[i] = b[15-i]
	}
	return new(big.Int).SetBytes(be[:])
}

func decodeI128(b []byte) *big.Int {
	x := decodeU128(b)
	if x.Cmp(i128Max) >= 0 {
		x.Sub(x, u128Max)
	}
	return x
}
