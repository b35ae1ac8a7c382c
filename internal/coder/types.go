package coder

import (
	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/layout"
)

// Types encodes and decodes values of the schema's named types, with no
// discriminator framing. Nested defined-type references go through the
// same resolver, so layouts are shared with the other coders.
type Types struct {
	resolver *layout.Resolver
}

func newTypes(resolver *layout.Resolver) *Types {
	return &Types{resolver: resolver}
}

// Encode produces the raw wire bytes of a value of the named type.
// A name missing from the type table is a hard error: callers at this
// layer have already committed to a type.
func (t *Types) Encode(name string, v any) ([]byte, error) {
	l := t.resolver.Resolve(idl.Defined(name))
	return l.Encode(nil, v)
}

// Decode reads one value of the named type from data. Trailing bytes
// are not an error here: type values are routinely embedded in larger
// buffers.
func (t *Types) Decode(name string, data []byte) (any, error) {
	l := t.resolver.Resolve(idl.Defined(name))
	return l.Decode(encoding.NewReader(data))
}
