package idl

import (
	"strconv"
	"strings"
)

// Kind enumerates every type expression the schema grammar allows. The
// set is closed: every switch over it is exhaustive and new kinds only
// appear with a grammar change.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindF32
	KindF64
	KindString
	KindBytes
	KindPubkey
	KindVec
	KindOption
	KindArray
	KindDefined
	KindTuple
)

// Type is a type expression. Compound kinds reference their inner
// expressions; Defined references the named-type table by name.
type Type struct {
	Kind    Kind
	Inner   *Type  // vec, option, array
	Len     int    // array
	Defined string // defined
	Tuple   []Type // tuple
}

// Convenience constructors, mostly for tests and hand-built schemas.

func Bool() Type             { return Type{Kind: KindBool} }
func U8() Type               { return Type{Kind: KindU8} }
func U16() Type              { return Type{Kind: KindU16} }
func U32() Type              { return Type{Kind: KindU32} }
func U64() Type              { return Type{Kind: KindU64} }
func U128() Type             { return Type{Kind: KindU128} }
func I8() Type               { return Type{Kind: KindI8} }
func I16() Type              { return Type{Kind: KindI16} }
func I32() Type              { return Type{Kind: KindI32} }
func I64() Type              { return Type{Kind: KindI64} }
func I128() Type             { return Type{Kind: KindI128} }
func F32() Type              { return Type{Kind: KindF32} }
func F64() Type              { return Type{Kind: KindF64} }
func String() Type           { return Type{Kind: KindString} }
func Bytes() Type            { return Type{Kind: KindBytes} }
func Pubkey() Type           { return Type{Kind: KindPubkey} }
func Vec(inner Type) Type    { return Type{Kind: KindVec, Inner: &inner} }
func Option(inner Type) Type { return Type{Kind: KindOption, Inner: &inner} }
func Array(inner Type, n int) Type {
	return Type{Kind: KindArray, Inner: &inner, Len: n}
}
func Defined(name string) Type { return Type{Kind: KindDefined, Defined: name} }
func TupleOf(ts ...Type) Type  { return Type{Kind: KindTuple, Tuple: ts} }

var primitiveNames = map[Kind]string{
	KindBool:   "bool",
	KindU8:     "u8",
	KindU16:    "u16",
	KindU32:    "u32",
	KindU64:    "u64",
	KindU128:   "u128",
	KindI8:     "i8",
	KindI16:    "i16",
	KindI32:    "i32",
	KindI64:    "i64",
	KindI128:   "i128",
	KindF32:    "f32",
	KindF64:    "f64",
	KindString: "string",
	KindBytes:  "bytes",
	KindPubkey: "pubkey",
}

// String renders the expression the way the schema grammar spells it,
// with compound kinds in angle-bracket form: Option<u64>, Vec<Foo>,
// Array<u8; 32>.
func (t Type) String() string {
	if s, ok := primitiveNames[t.Kind]; ok {
		return s
	}

	switch t.Kind {
	case KindVec:
		return "Vec<" + t.Inner.String() + ">"
	case KindOption:
		return "Option<" + t.Inner.String() + ">"
	case KindArray:
		return "Array<" + t.Inner.String() + "; " + strconv.Itoa(t.Len) + ">"
	case KindDefined:
		return t.Defined
	case KindTuple:
		var sb strings.Builder
		sb.WriteByte('(')
		for i := range t.Tuple {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.Tuple[i].String())
		}
		sb.WriteByte(')')
		return sb.String()
	}

	return "unknown"
}

// KindOf maps a primitive spelling to its kind.
func KindOf(name string) (Kind, bool) {
	for k, s := range primitiveNames {
		if s == name {
			return k, true
		}
	}
	return 0, false
}
