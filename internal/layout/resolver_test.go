package layout_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/layout"
	"github.com/idlkit/idlkit/internal/testutil"
	"github.com/idlkit/idlkit/internal/types"
)

var bigIntCmp = cmp.Comparer(func(a, b *big.Int) bool {
	return a.Cmp(b) == 0
})

func roundTrip(t *testing.T, r *layout.Resolver, typ idl.Type, v any) {
	t.Helper()

	l := r.Resolve(typ)

	data, err := l.Encode(nil, v)
	require.NoError(t, err)

	rd := encoding.NewReader(data)
	got, err := l.Decode(rd)
	require.NoError(t, err)
	require.Zero(t, rd.Remaining(), "decode must consume the whole encoding")

	if diff := cmp.Diff(v, got, bigIntCmp); diff != "" {
		t.Fatalf("round trip mismatch for %s (-want +got):\n%s", typ, diff)
	}
}

func TestRoundTripEveryKind(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())

	pk := types.Pubkey{}
	for i := range pk {
		pk[i] = byte(i)
	}

	u128, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	i128, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)

	tests := []struct {
		name string
		typ  idl.Type
		v    any
	}{
		{"bool", idl.Bool(), true},
		{"u8", idl.U8(), uint8(255)},
		{"u16", idl.U16(), uint16(65535)},
		{"u32", idl.U32(), uint32(25)},
		{"u64", idl.U64(), uint64(1) << 63},
		{"u128", idl.U128(), u128},
		{"i8", idl.I8(), int8(-128)},
		{"i16", idl.I16(), int16(-1)},
		{"i32", idl.I32(), int32(-42)},
		{"i64", idl.I64(), int64(-1) << 62},
		{"i128", idl.I128(), i128},
		{"f32", idl.F32(), float32(1.5)},
		{"f64", idl.F64(), -2.25},
		{"string", idl.String(), "hello"},
		{"empty string", idl.String(), ""},
		{"bytes", idl.Bytes(), []byte{1, 2, 3}},
		{"pubkey", idl.Pubkey(), pk},
		{"vec", idl.Vec(idl.U32()), []any{uint32(1), uint32(2), uint32(3)}},
		{"empty vec", idl.Vec(idl.U32()), []any{}},
		{"vec of u8 is bytes", idl.Vec(idl.U8()), []byte{9, 8}},
		{"option present", idl.Option(idl.U8()), uint8(42)},
		{"option absent", idl.Option(idl.U8()), nil},
		{"nested option", idl.Option(idl.Option(idl.Bool())), true},
		{"array", idl.Array(idl.U16(), 3), []any{uint16(1), uint16(2), uint16(3)}},
		{"byte array", idl.Array(idl.U8(), 4), []byte{1, 2, 3, 4}},
		{"tuple", idl.TupleOf(idl.U8(), idl.String()), []any{uint8(1), "x"}},
		{"defined struct", idl.Defined("Point"), map[string]any{"x": int64(1), "y": int64(-2)}},
		{
			"defined enum unit", idl.Defined("Shape"),
			types.Enum("Dot", nil),
		},
		{
			"defined enum named", idl.Defined("Shape"),
			types.Enum("Circle", map[string]any{
				"center": map[string]any{"x": int64(0), "y": int64(0)},
				"radius": uint32(7),
			}),
		},
		{
			"defined enum tuple", idl.Defined("Shape"),
			types.Enum("Segment", []any{
				map[string]any{"x": int64(1), "y": int64(1)},
				map[string]any{"x": int64(2), "y": int64(2)},
			}),
		},
		{
			"recursive defined", idl.Defined("Node"),
			map[string]any{
				"value": uint32(1),
				"next": map[string]any{
					"value": uint32(2),
					"next":  nil,
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roundTrip(t, r, test.typ, test.v)
		})
	}
}

func TestOptionWireFormat(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())
	l := r.Resolve(idl.Option(idl.U8()))

	data, err := l.Encode(nil, uint8(42))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 42}, data)

	data, err = l.Encode(nil, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0}, data)
}

func TestStructMissingField(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())
	l := r.Resolve(idl.Defined("Point"))

	_, err := l.Encode(nil, map[string]any{"x": int64(1)})
	require.ErrorIs(t, err, layout.ErrMissingField)
	require.Contains(t, err.Error(), `"y"`)
}

func TestEnumTagBoundaries(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())
	l := r.Resolve(idl.Defined("Shape"))

	// first variant
	v, err := l.Decode(encoding.NewReader([]byte{0}))
	require.NoError(t, err)
	require.Equal(t, types.Enum("Dot", nil), v)

	// last variant
	segment := []byte{2}
	segment = append(segment, make([]byte, 32)...) // two Points
	v, err = l.Decode(encoding.NewReader(segment))
	require.NoError(t, err)
	name, _, ok := types.EnumVariant(v)
	require.True(t, ok)
	require.Equal(t, "Segment", name)

	// one past the last variant
	_, err = l.Decode(encoding.NewReader([]byte{3}))
	require.ErrorIs(t, err, layout.ErrUnknownEnumVariant)
}

func TestEnumUnknownVariantNameOnEncode(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())
	l := r.Resolve(idl.Defined("Shape"))

	_, err := l.Encode(nil, types.Enum("Square", nil))
	require.ErrorIs(t, err, layout.ErrUnknownEnumVariant)
}

func TestEnumWireFormat(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())
	l := r.Resolve(idl.Defined("Shape"))

	data, err := l.Encode(nil, types.Enum("Circle", map[string]any{
		"center": map[string]any{"x": int64(0), "y": int64(0)},
		"radius": uint32(5),
	}))
	require.NoError(t, err)

	// 1-byte tag, 16-byte Point, u32 radius
	require.Len(t, data, 1+16+4)
	require.Equal(t, byte(1), data[0])
	require.Equal(t, []byte{5, 0, 0, 0}, data[17:])
}

func TestUnknownTypeIsLazy(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())

	// resolving never fails, even for a name missing from the table
	l := r.Resolve(idl.Defined("Missing"))

	_, err := l.Encode(nil, map[string]any{})
	require.ErrorIs(t, err, layout.ErrUnknownType)

	_, err = l.Decode(encoding.NewReader([]byte{1, 2, 3}))
	require.ErrorIs(t, err, layout.ErrUnknownType)
}

func TestArraySizeMismatch(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())

	_, err := r.Resolve(idl.Array(idl.U16(), 3)).Encode(nil, []any{uint16(1)})
	require.ErrorIs(t, err, layout.ErrArraySizeMismatch)

	_, err = r.Resolve(idl.Array(idl.U8(), 4)).Encode(nil, []byte{1, 2})
	require.ErrorIs(t, err, layout.ErrArraySizeMismatch)
}

func TestIntegerRangeChecks(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())

	_, err := r.Resolve(idl.U8()).Encode(nil, 256)
	require.Error(t, err)

	_, err = r.Resolve(idl.U8()).Encode(nil, -1)
	require.Error(t, err)

	_, err = r.Resolve(idl.I8()).Encode(nil, 128)
	require.Error(t, err)

	// widening across Go types is fine as long as the value fits
	data, err := r.Resolve(idl.U64()).Encode(nil, 42)
	require.NoError(t, err)
	require.Equal(t, []byte{42, 0, 0, 0, 0, 0, 0, 0}, data)
}

func TestResolverMemoization(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())

	// both expressions go through the same memoized entry; pointer
	// equality of results is not part of the contract, behavior is
	a := r.Resolve(idl.Defined("Point"))
	b := r.Resolve(idl.Defined("Point"))

	v := map[string]any{"x": int64(3), "y": int64(4)}
	da, err := a.Encode(nil, v)
	require.NoError(t, err)
	db, err := b.Encode(nil, v)
	require.NoError(t, err)
	require.Equal(t, da, db)

	r.Reset()
	dc, err := a.Encode(nil, v)
	require.NoError(t, err)
	require.Equal(t, da, dc)
}

func TestConcurrentResolveAndDecode(t *testing.T) {
	r := layout.NewResolver(testutil.SampleIDL())
	l := r.Resolve(idl.Defined("Node"))

	v := map[string]any{
		"value": uint32(7),
		"next":  map[string]any{"value": uint32(8), "next": nil},
	}
	data, err := l.Encode(nil, v)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := l.Decode(encoding.NewReader(data))
				require.NoError(t, err)
				require.Equal(t, v, got)
			}
		}()
	}
	wg.Wait()
}
