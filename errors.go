package idlkit

import (
	"github.com/idlkit/idlkit/internal/coder"
	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/layout"
)

// The full error taxonomy of the codec, re-exported for errors.Is
// checks. The codec never logs and never downgrades a failure: the
// decision to log, retry or propagate belongs to the caller.
var (
	// ErrBufferUnderrun is returned when a decode needs more bytes
	// than remain in the buffer.
	ErrBufferUnderrun = encoding.ErrBufferUnderrun

	// ErrInvalidBoolEncoding is returned when a bool byte is neither 0
	// nor 1.
	ErrInvalidBoolEncoding = encoding.ErrInvalidBoolEncoding

	// ErrMissingField is returned when a required struct field is
	// absent from a value being encoded.
	ErrMissingField = layout.ErrMissingField

	// ErrUnknownEnumVariant is returned for an out-of-range wire tag
	// at decode, or an undeclared variant name at encode.
	ErrUnknownEnumVariant = layout.ErrUnknownEnumVariant

	// ErrUnknownType is returned when a name has no entry in the
	// schema, at first use.
	ErrUnknownType = layout.ErrUnknownType

	// ErrArraySizeMismatch is returned when a value's length does not
	// match its type's fixed length.
	ErrArraySizeMismatch = layout.ErrArraySizeMismatch

	// ErrAccountDidNotDeserialize is returned for account buffers too
	// short to carry a discriminator.
	ErrAccountDidNotDeserialize = coder.ErrAccountDidNotDeserialize

	// ErrInvalidArgument is returned when instruction arguments don't
	// match the declared list.
	ErrInvalidArgument = coder.ErrInvalidArgument

	// ErrVariableSize is returned by Accounts.Size for accounts whose
	// footprint depends on the value.
	ErrVariableSize = coder.ErrVariableSize
)

// DiscriminatorMismatchError reports an identity-tag comparison
// failure: both tags in hex and the index of the first differing byte.
// Retrieve it with errors.As.
type DiscriminatorMismatchError = discriminator.MismatchError
