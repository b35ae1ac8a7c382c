// Package layout turns schema type expressions into executable,
// memoized encode/decode pairs.
//
// Defined-type references resolve lazily, at first encode or decode,
// through the resolver's name-indexed cache. Lazy dereferencing is what
// makes cyclic and mutually recursive schemas work: compiling a struct
// never recurses into the definitions its fields reference.
package layout

import (
	"github.com/cockroachdb/errors"

	"github.com/idlkit/idlkit/internal/encoding"
)

var (
	// ErrMissingField is reported when a required struct field is
	// absent from the value being encoded.
	ErrMissingField = errors.New("missing field")

	// ErrUnknownEnumVariant is reported when a wire tag is out of range
	// at decode, or a variant name is not declared at encode.
	ErrUnknownEnumVariant = errors.New("unknown enum variant")

	// ErrUnknownType is reported when a defined-type reference has no
	// entry in the schema's type table. It surfaces at first use, never
	// at construction.
	ErrUnknownType = errors.New("unknown type")

	// ErrArraySizeMismatch is reported when a value's length does not
	// match the fixed length its type declares.
	ErrArraySizeMismatch = errors.New("array size mismatch")
)

// Layout is the compiled codec for one type expression.
type Layout struct {
	enc func(dst []byte, v any) ([]byte, error)
	dec func(r *encoding.Reader) (any, error)
}

// Encode appends the wire form of v to dst.
func (l *Layout) Encode(dst []byte, v any) ([]byte, error) {
	return l.enc(dst, v)
}

// Decode reads one value from r.
func (l *Layout) Decode(r *encoding.Reader) (any, error) {
	return l.dec(r)
}
