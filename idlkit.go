// Package idlkit is a schema-driven binary codec. It converts between
// structured program data (on-chain account state, instruction
// arguments, emitted events, user-defined composite types) and the
// compact Borsh wire format, driven entirely by an IDL supplied at
// construction.
//
// A Coder is built once per schema and is immutable and safe for
// concurrent use:
//
//	schema, err := idlkit.ParseIDL(jsonBytes)
//	if err != nil { ... }
//	c := idlkit.NewCoder(schema)
//
//	data, err := c.Accounts.Encode("User", map[string]any{...})
//	v, ok, err := c.Accounts.Decode("User", data)
//
// Encode paths where the caller has committed to a type raise typed
// errors. Probing decode paths (Instructions.Decode, Events.Decode,
// Accounts.DecodeAny) return an absent result on any failure, because
// they run speculatively against many candidate schemas.
package idlkit

import (
	"github.com/idlkit/idlkit/internal/coder"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/types"
)

// IDL is a parsed schema document.
type IDL = idl.IDL

// Coder bundles the four coders built from one schema: Accounts,
// Instructions, Events and Types.
type Coder = coder.Coder

// Option configures a Coder.
type Option = coder.Option

// Instruction is a decoded instruction.
type Instruction = coder.Instruction

// Event is a decoded event.
type Event = coder.Event

// Unknown is the placeholder produced by probing decoders in
// permissive mode.
type Unknown = coder.Unknown

// FormattedInstruction is the human-readable rendering of an
// instruction.
type FormattedInstruction = coder.FormattedInstruction

// Pubkey is a 32-byte public key.
type Pubkey = types.Pubkey

// AccountMeta describes one account passed alongside an instruction.
type AccountMeta = types.AccountMeta

// NewCoder builds a coder set from a schema. Construction never fails:
// type resolution is lazy, so even a schema with an empty type table is
// usable and unknown references surface at first use.
func NewCoder(schema *IDL, opts ...Option) *Coder {
	return coder.New(schema, opts...)
}

// ParseIDL decodes a schema document from JSON.
func ParseIDL(data []byte) (*IDL, error) {
	return idl.Parse(data)
}

// Re-exported options.
var (
	WithDiscriminatorBypass = coder.WithDiscriminatorBypass
	WithValidationCache     = coder.WithValidationCache
	WithPermissiveUnknown   = coder.WithPermissiveUnknown
)

// PubkeyFromBytes builds a key from exactly 32 raw bytes.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	return types.PubkeyFromBytes(b)
}

// PubkeyFromBase58 decodes the text form of a key.
func PubkeyFromBase58(s string) (Pubkey, error) {
	return types.PubkeyFromBase58(s)
}

// EnumValue builds the value form of an enum variant: a single-entry
// map from variant name to payload, nil payload for unit variants.
func EnumValue(variant string, payload any) map[string]any {
	return types.Enum(variant, payload)
}
