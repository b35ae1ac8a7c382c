package layout

import (
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"

	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/types"
)

// Resolver compiles type expressions against one schema's named-type
// table. Compiled layouts for defined types are memoized by name; the
// memo table is read-mostly and safe for concurrent decoders.
type Resolver struct {
	schema *idl.IDL

	defined sync.Map // name -> *Layout
	group   singleflight.Group
}

func NewResolver(schema *idl.IDL) *Resolver {
	return &Resolver{schema: schema}
}

// Resolve returns the compiled layout for a type expression. It always
// succeeds: a reference to a type missing from the table only fails
// when the layout is first used.
func (r *Resolver) Resolve(t idl.Type) *Layout {
	switch t.Kind {
	case idl.KindBool:
		return boolLayout
	case idl.KindU8:
		return u8Layout
	case idl.KindU16:
		return u16Layout
	case idl.KindU32:
		return u32Layout
	case idl.KindU64:
		return u64Layout
	case idl.KindU128:
		return u128Layout
	case idl.KindI8:
		return i8Layout
	case idl.KindI16:
		return i16Layout
	case idl.KindI32:
		return i32Layout
	case idl.KindI64:
		return i64Layout
	case idl.KindI128:
		return i128Layout
	case idl.KindF32:
		return f32Layout
	case idl.KindF64:
		return f64Layout
	case idl.KindString:
		return stringLayout
	case idl.KindBytes:
		return bytesLayout
	case idl.KindPubkey:
		return pubkeyLayout
	case idl.KindVec:
		return r.compileVec(*t.Inner)
	case idl.KindOption:
		return r.compileOption(*t.Inner)
	case idl.KindArray:
		return r.compileArray(*t.Inner, t.Len)
	case idl.KindDefined:
		return r.compileDefined(t.Defined)
	case idl.KindTuple:
		return r.compileTuple(t.Tuple)
	}

	err := errors.Newf("invalid type kind %d", t.Kind)
	return &Layout{
		enc: func([]byte, any) ([]byte, error) { return nil, err },
		dec: func(*encoding.Reader) (any, error) { return nil, err },
	}
}

// ResolveDef compiles a named definition body directly, without going
// through the type table. Accounts and events use it for their inline
// struct shapes.
func (r *Resolver) ResolveDef(def idl.Def) *Layout {
	if def.Kind == idl.DefEnum {
		return r.compileEnum(def.Variants)
	}
	return r.compileStruct(def.Fields)
}

// Reset drops every memoized layout. Used by tests; nothing else
// invalidates the cache during the resolver's lifetime.
func (r *Resolver) Reset() {
	r.defined.Range(func(k, _ any) bool {
		r.defined.Delete(k)
		return true
	})
}

// compileDefined produces a layout that dereferences the named
// definition on first use. The indirection is what tolerates cyclic
// and mutually recursive schemas, and what delays "unknown type" to
// the first encode or decode.
func (r *Resolver) compileDefined(name string) *Layout {
	return &Layout{
		enc: func(dst []byte, v any) ([]byte, error) {
			l, err := r.lookupDefined(name)
			if err != nil {
				return nil, err
			}
			return l.enc(dst, v)
		},
		dec: func(rd *encoding.Reader) (any, error) {
			l, err := r.lookupDefined(name)
			if err != nil {
				return nil, err
			}
			return l.dec(rd)
		},
	}
}

func (r *Resolver) lookupDefined(name string) (*Layout, error) {
	if l, ok := r.defined.Load(name); ok {
		return l.(*Layout), nil
	}

	// singleflight so concurrent first uses compile the definition
	// once. Losing the race is harmless, the insert is idempotent.
	l, err, _ := r.group.Do(name, func() (any, error) {
		if l, ok := r.defined.Load(name); ok {
			return l, nil
		}
		def, ok := r.schema.LookupType(name)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownType, "%q", name)
		}
		compiled := r.ResolveDef(def)
		actual, _ := r.defined.LoadOrStore(name, compiled)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return l.(*Layout), nil
}

func (r *Resolver) compileStruct(fields []idl.Field) *Layout {
	inner := make([]*Layout, len(fields))
	for i := range fields {
		inner[i] = r.Resolve(fields[i].Type)
	}

	return &Layout{
		enc: func(dst []byte, v any) ([]byte, error) {
			m, ok := v.(map[string]any)
			if !ok {
				return nil, errors.Newf("expected struct value, got %T", v)
			}
			var err error
			for i := range fields {
				fv, present := m[fields[i].Name]
				if !present {
					return nil, errors.Wrapf(ErrMissingField, "%q", fields[i].Name)
				}
				dst, err = inner[i].enc(dst, fv)
				if err != nil {
					return nil, errors.Wrapf(err, "field %q", fields[i].Name)
				}
			}
			return dst, nil
		},
		dec: func(rd *encoding.Reader) (any, error) {
			m := make(map[string]any, len(fields))
			for i := range fields {
				fv, err := inner[i].dec(rd)
				if err != nil {
					return nil, errors.Wrapf(err, "field %q", fields[i].Name)
				}
				m[fields[i].Name] = fv
			}
			return m, nil
		},
	}
}

func (r *Resolver) compileEnum(variants []idl.Variant) *Layout {
	payloads := make([]*Layout, len(variants))
	byName := make(map[string]int, len(variants))
	for i := range variants {
		byName[variants[i].Name] = i
		switch {
		case len(variants[i].Fields) > 0:
			payloads[i] = r.compileStruct(variants[i].Fields)
		case len(variants[i].Tuple) > 0:
			payloads[i] = r.compileTuple(variants[i].Tuple)
		}
	}

	return &Layout{
		enc: func(dst []byte, v any) ([]byte, error) {
			name, payload, ok := types.EnumVariant(v)
			if !ok {
				return nil, errors.Newf("expected enum value, got %T", v)
			}
			idx, ok := byName[name]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownEnumVariant, "%q", name)
			}
			dst = encoding.EncodeU8(dst, uint8(idx))
			if payloads[idx] == nil {
				return dst, nil
			}
			dst, err := payloads[idx].enc(dst, payload)
			if err != nil {
				return nil, errors.Wrapf(err, "variant %q", name)
			}
			return dst, nil
		},
		dec: func(rd *encoding.Reader) (any, error) {
			tag, err := rd.ReadU8()
			if err != nil {
				return nil, err
			}
			if int(tag) >= len(variants) {
				return nil, errors.Wrapf(ErrUnknownEnumVariant, "tag %d out of range, %d variants", tag, len(variants))
			}
			if payloads[tag] == nil {
				return types.Enum(variants[tag].Name, nil), nil
			}
			payload, err := payloads[tag].dec(rd)
			if err != nil {
				return nil, errors.Wrapf(err, "variant %q", variants[tag].Name)
			}
			return types.Enum(variants[tag].Name, payload), nil
		},
	}
}

func (r *Resolver) compileTuple(ts []idl.Type) *Layout {
	inner := make([]*Layout, len(ts))
	for i := range ts {
		inner[i] = r.Resolve(ts[i])
	}

	return &Layout{
		enc: func(dst []byte, v any) ([]byte, error) {
			items, ok := v.([]any)
			if !ok {
				return nil, errors.Newf("expected tuple value, got %T", v)
			}
			if len(items) != len(inner) {
				return nil, errors.Wrapf(ErrArraySizeMismatch, "tuple wants %d elements, got %d", len(inner), len(items))
			}
			var err error
			for i := range inner {
				dst, err = inner[i].enc(dst, items[i])
				if err != nil {
					return nil, errors.Wrapf(err, "tuple element %d", i)
				}
			}
			return dst, nil
		},
		dec: func(rd *encoding.Reader) (any, error) {
			items := make([]any, len(inner))
			for i := range inner {
				item, err := inner[i].dec(rd)
				if err != nil {
					return nil, errors.Wrapf(err, "tuple element %d", i)
				}
				items[i] = item
			}
			return items, nil
		},
	}
}

func (r *Resolver) compileVec(elem idl.Type) *Layout {
	// Vec<u8> is byte-for-byte the bytes encoding and round-trips as
	// []byte rather than a boxed []any.
	if elem.Kind == idl.KindU8 {
		return bytesLayout
	}

	inner := r.Resolve(elem)
	return &Layout{
		enc: func(dst []byte, v any) ([]byte, error) {
			items, ok := v.([]any)
			if !ok {
				return nil, errors.Newf("expected slice value, got %T", v)
			}
			dst = encoding.EncodeU32(dst, uint32(len(items)))
			var err error
			for i := range items {
				dst, err = inner.enc(dst, items[i])
				if err != nil {
					return nil, errors.Wrapf(err, "element %d", i)
				}
			}
			return dst, nil
		},
		dec: func(rd *encoding.Reader) (any, error) {
			n, err := rd.ReadLen()
			if err != nil {
				return nil, err
			}
			items := make([]any, n)
			for i := 0; i < n; i++ {
				items[i], err = inner.dec(rd)
				if err != nil {
					return nil, errors.Wrapf(err, "element %d", i)
				}
			}
			return items, nil
		},
	}
}

func (r *Resolver) compileArray(elem idl.Type, size int) *Layout {
	if elem.Kind == idl.KindU8 {
		return &Layout{
			enc: func(dst []byte, v any) ([]byte, error) {
				b, ok := v.([]byte)
				if !ok {
					return nil, errors.Newf("expected []byte value, got %T", v)
				}
				if len(b) != size {
					return nil, errors.Wrapf(ErrArraySizeMismatch, "want %d bytes, got %d", size, len(b))
				}
				return encoding.EncodeFixedBytes(dst, b), nil
			},
			dec: func(rd *encoding.Reader) (any, error) {
				return rd.ReadFixedBytes(size)
			},
		}
	}

	inner := r.Resolve(elem)
	return &Layout{
		enc: func(dst []byte, v any) ([]byte, error) {
			items, ok := v.([]any)
			if !ok {
				return nil, errors.Newf("expected slice value, got %T", v)
			}
			if len(items) != size {
				return nil, errors.Wrapf(ErrArraySizeMismatch, "want %d elements, got %d", size, len(items))
			}
			var err error
			for i := range items {
				dst, err = inner.enc(dst, items[i])
				if err != nil {
					return nil, errors.Wrapf(err, "element %d", i)
				}
			}
			return dst, nil
		},
		dec: func(rd *encoding.Reader) (any, error) {
			items := make([]any, size)
			var err error
			for i := 0; i < size; i++ {
				items[i], err = inner.dec(rd)
				if err != nil {
					return nil, errors.Wrapf(err, "element %d", i)
				}
			}
			return items, nil
		},
	}
}

func (r *Resolver) compileOption(elem idl.Type) *Layout {
	inner := r.Resolve(elem)
	return &Layout{
		enc: func(dst []byte, v any) ([]byte, error) {
			if v == nil {
				return encoding.EncodeOptionTag(dst, false), nil
			}
			dst = encoding.EncodeOptionTag(dst, true)
			return inner.enc(dst, v)
		},
		dec: func(rd *encoding.Reader) (any, error) {
			present, err := rd.ReadOptionTag()
			if err != nil {
				return nil, err
			}
			if !present {
				return nil, nil
			}
			return inner.dec(rd)
		},
	}
}
