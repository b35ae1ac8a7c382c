// Package coder exposes the four schema-driven coders: accounts,
// instructions, events and named types. A Coder is built once from a
// parsed schema and is immutable and safe for concurrent use
// afterwards; every encode and decode is a pure function over bytes
// and values.
package coder

import (
	"github.com/cockroachdb/errors"

	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/layout"
)

var (
	// ErrAccountDidNotDeserialize is reported when account bytes are
	// too short to carry a discriminator.
	ErrAccountDidNotDeserialize = errors.New("account did not deserialize")

	// ErrInvalidArgument is reported when instruction arguments don't
	// match the declared argument list.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrVariableSize is reported by Accounts.Size when the account
	// struct contains a dynamically sized field.
	ErrVariableSize = errors.New("variable size")
)

// Unknown is the placeholder produced by probing decoders in
// permissive mode when no entity matches the discriminator. It keeps
// the raw bytes so log-scanning callers retain diagnostics.
type Unknown struct {
	Discriminator []byte
	Data          []byte
}

// Option configures a Coder.
type Option func(*config)

type config struct {
	bypass     bool
	cache      bool
	permissive bool
}

// WithDiscriminatorBypass disables discriminator validation. Meant for
// hand-authored fixtures whose prefixes are not real discriminators.
func WithDiscriminatorBypass() Option {
	return func(c *config) {
		c.bypass = true
	}
}

// WithValidationCache memoizes discriminator validation outcomes.
func WithValidationCache() Option {
	return func(c *config) {
		c.cache = true
	}
}

// WithPermissiveUnknown makes the probing decoders (Instructions,
// Events, Accounts.DecodeAny) return an Unknown placeholder instead of
// an absent result when no discriminator matches.
func WithPermissiveUnknown() Option {
	return func(c *config) {
		c.permissive = true
	}
}

// Coder bundles the four coders built from one schema.
type Coder struct {
	Accounts     *Accounts
	Instructions *Instructions
	Events       *Events
	Types        *Types
}

// New builds a coder set from a schema. It never fails, even for an
// empty schema: type resolution is lazy and unknown names surface at
// first use.
func New(schema *idl.IDL, opts ...Option) *Coder {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var vopts []discriminator.ValidatorOption
	if cfg.bypass {
		vopts = append(vopts, discriminator.WithBypass())
	}
	if cfg.cache {
		vopts = append(vopts, discriminator.WithCache())
	}

	resolver := layout.NewResolver(schema)
	validator := discriminator.NewValidator(vopts...)

	return &Coder{
		Accounts:     newAccounts(schema, resolver, validator, cfg.permissive),
		Instructions: newInstructions(schema, resolver, validator, cfg.permissive),
		Events:       newEvents(schema, resolver, cfg.permissive),
		Types:        newTypes(resolver),
	}
}

// entityDiscriminator returns the explicit schema-supplied tag when it
// has the right length, the computed one otherwise.
func entityDiscriminator(explicit []byte, compute func() [discriminator.Size]byte) [discriminator.Size]byte {
	if len(explicit) == discriminator.Size {
		var d [discriminator.Size]byte
		copy(d[:], explicit)
		return d
	}
	return compute()
}
