package layout

import (
	"math"
	"math/big"

	"github.com/cockroachdb/errors"

	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/types"
)

// Primitive layouts are stateless, one shared instance per kind.

var boolLayout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, errors.Newf("expected bool, got %T", v)
		}
		return encoding.EncodeBool(dst, b), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadBool()
	},
}

var u8Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asUint(v, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeU8(dst, uint8(x)), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadU8()
	},
}

var u16Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asUint(v, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeU16(dst, uint16(x)), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadU16()
	},
}

var u32Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asUint(v, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeU32(dst, uint32(x)), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadU32()
	},
}

var u64Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asUint(v, math.MaxUint64)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeU64(dst, x), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadU64()
	},
}

var u128Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asBig(v)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeU128(dst, x)
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadU128()
	},
}

var i8Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asInt(v, math.MinInt8, math.MaxInt8)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeI8(dst, int8(x)), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadI8()
	},
}

var i16Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asInt(v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeI16(dst, int16(x)), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadI16()
	},
}

var i32Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asInt(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeI32(dst, int32(x)), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadI32()
	},
}

var i64Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asInt(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeI64(dst, x), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadI64()
	},
}

var i128Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, err := asBig(v)
		if err != nil {
			return nil, err
		}
		return encoding.EncodeI128(dst, x)
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadI128()
	},
}

var f32Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, ok := v.(float32)
		if !ok {
			return nil, errors.Newf("expected float32, got %T", v)
		}
		return encoding.EncodeF32(dst, x), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadF32()
	},
}

var f64Layout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		x, ok := v.(float64)
		if !ok {
			return nil, errors.Newf("expected float64, got %T", v)
		}
		return encoding.EncodeF64(dst, x), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadF64()
	},
}

var stringLayout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Newf("expected string, got %T", v)
		}
		return encoding.EncodeString(dst, s), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadString()
	},
}

var bytesLayout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		b, ok := v.([]byte)
		if !ok {
			return nil, errors.Newf("expected []byte, got %T", v)
		}
		return encoding.EncodeBytes(dst, b), nil
	},
	dec: func(r *encoding.Reader) (any, error) {
		return r.ReadBytes()
	},
}

var pubkeyLayout = &Layout{
	enc: func(dst []byte, v any) ([]byte, error) {
		switch pk := v.(type) {
		case types.Pubkey:
			return encoding.EncodeFixedBytes(dst, pk[:]), nil
		case []byte:
			if len(pk) != types.PubkeyLen {
				return nil, errors.Wrapf(ErrArraySizeMismatch, "pubkey wants %d bytes, got %d", types.PubkeyLen, len(pk))
			}
			return encoding.EncodeFixedBytes(dst, pk), nil
		case string:
			decoded, err := types.PubkeyFromBase58(pk)
			if err != nil {
				return nil, err
			}
			return encoding.EncodeFixedBytes(dst, decoded[:]), nil
		}
		return nil, errors.Newf("expected pubkey, got %T", v)
	},
	dec: func(r *encoding.Reader) (any, error) {
		b, err := r.ReadFixedBytes(types.PubkeyLen)
		if err != nil {
			return nil, err
		}
		return types.PubkeyFromBytes(b)
	},
}

// asUint widens any Go integer value to uint64 and range-checks it.
func asUint(v any, max uint64) (uint64, error) {
	var x uint64
	switch n := v.(type) {
	case uint8:
		x = uint64(n)
	case uint16:
		x = uint64(n)
	case uint32:
		x = uint64(n)
	case uint64:
		x = n
	case uint:
		x = uint64(n)
	case int8:
		if n < 0 {
			return 0, errors.Newf("negative value %d for unsigned type", n)
		}
		x = uint64(n)
	case int16:
		if n < 0 {
			return 0, errors.Newf("negative value %d for unsigned type", n)
		}
		x = uint64(n)
	case int32:
		if n < 0 {
			return 0, errors.Newf("negative value %d for unsigned type", n)
		}
		x = uint64(n)
	case int64:
		if n < 0 {
			return 0, errors.Newf("negative value %d for unsigned type", n)
		}
		x = uint64(n)
	case int:
		if n < 0 {
			return 0, errors.Newf("negative value %d for unsigned type", n)
		}
		x = uint64(n)
	case *big.Int:
		if !n.IsUint64() {
			return 0, errors.Newf("value %s does not fit in u64", n)
		}
		x = n.Uint64()
	default:
		return 0, errors.Newf("expected unsigned integer, got %T", v)
	}
	if x > max {
		return 0, errors.Newf("value %d exceeds maximum %d", x, max)
	}
	return x, nil
}

// asInt widens any Go integer value to int64 and range-checks it.
func asInt(v any, min, max int64) (int64, error) {
	var x int64
	switch n := v.(type) {
	case int8:
		x = int64(n)
	case int16:
		x = int64(n)
	case int32:
		x = int64(n)
	case int64:
		x = n
	case int:
		x = int64(n)
	case uint8:
		x = int64(n)
	case uint16:
		x = int64(n)
	case uint32:
		x = int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0, errors.Newf("value %d does not fit in i64", n)
		}
		x = int64(n)
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, errors.Newf("value %d does not fit in i64", n)
		}
		x = int64(n)
	case *big.Int:
		if !n.IsInt64() {
			return 0, errors.Newf("value %s does not fit in i64", n)
		}
		x = n.Int64()
	default:
		return 0, errors.Newf("expected integer, got %T", v)
	}
	if x < min || x > max {
		return 0, errors.Newf("value %d out of range [%d, %d]", x, min, max)
	}
	return x, nil
}

// asBig lifts any Go integer value to *big.Int. 128-bit range checks
// happen at the wire in package encoding.
func asBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint8:
		return big.NewInt(int64(n)), nil
	case uint16:
		return big.NewInt(int64(n)), nil
	case uint32:
		return big.NewInt(int64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	}
	return nil, errors.Newf("expected integer, got %T", v)
}
