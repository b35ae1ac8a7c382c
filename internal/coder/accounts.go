package coder

import (
	"github.com/cockroachdb/errors"

	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/layout"
)

// Accounts frames account structs with their 8-byte discriminator.
type Accounts struct {
	resolver   *layout.Resolver
	validator  *discriminator.Validator
	permissive bool

	byName map[string]*accountEntry
	byDisc map[[discriminator.Size]byte]*accountEntry
}

type accountEntry struct {
	def    idl.Account
	disc   [discriminator.Size]byte
	layout *layout.Layout
}

func newAccounts(schema *idl.IDL, resolver *layout.Resolver, validator *discriminator.Validator, permissive bool) *Accounts {
	a := Accounts{
		resolver:   resolver,
		validator:  validator,
		permissive: permissive,
		byName:     make(map[string]*accountEntry, len(schema.Accounts)),
		byDisc:     make(map[[discriminator.Size]byte]*accountEntry, len(schema.Accounts)),
	}

	for i := range schema.Accounts {
		acc := schema.Accounts[i]
		entry := accountEntry{
			def:    acc,
			disc:   entityDiscriminator(acc.Discriminator, func() [discriminator.Size]byte { return discriminator.Account(acc.Name) }),
			layout: resolver.ResolveDef(acc.Type),
		}
		a.byName[acc.Name] = &entry
		a.byDisc[entry.disc] = &entry
	}

	return &a
}

// Discriminator returns the 8-byte tag of the named account.
func (a *Accounts) Discriminator(name string) ([]byte, error) {
	entry, ok := a.byName[name]
	if !ok {
		return nil, errors.Wrapf(layout.ErrUnknownType, "account %q", name)
	}
	return entry.disc[:], nil
}

// Encode produces discriminator ++ struct bytes for the named account.
// Shape problems (missing field, wrong type) are hard errors.
func (a *Accounts) Encode(name string, v any) ([]byte, error) {
	entry, ok := a.byName[name]
	if !ok {
		return nil, errors.Wrapf(layout.ErrUnknownType, "account %q", name)
	}

	dst := make([]byte, 0, discriminator.Size+64)
	dst = append(dst, entry.disc[:]...)
	dst, err := entry.layout.Encode(dst, v)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding account %q", name)
	}
	return dst, nil
}

// Decode deserializes data as the named account.
//
// The bool is the probing contract: false means "these bytes are not
// that account", so callers trying several candidate account types can
// move on to the next one. The error carries the diagnostic for the
// absence — a *discriminator.MismatchError with the first differing
// byte index, or the payload decode failure — and
// ErrAccountDidNotDeserialize for buffers too short to carry a
// discriminator at all.
func (a *Accounts) Decode(name string, data []byte) (map[string]any, bool, error) {
	entry, ok := a.byName[name]
	if !ok {
		return nil, false, errors.Wrapf(layout.ErrUnknownType, "account %q", name)
	}

	if len(data) < discriminator.Size {
		return nil, false, errors.Wrapf(ErrAccountDidNotDeserialize, "account %q: %d bytes", name, len(data))
	}

	if err := a.validator.Validate(entry.disc[:], data[:discriminator.Size], "account "+name); err != nil {
		return nil, false, err
	}

	v, err := entry.layout.Decode(encoding.NewReader(data[discriminator.Size:]))
	if err != nil {
		return nil, false, errors.Wrapf(err, "decoding account %q", name)
	}
	return v.(map[string]any), true, nil
}

// DecodeAny probes every declared account by discriminator and decodes
// the first match. Absent on no match, unless the coder is permissive,
// in which case the value is an Unknown carrying the raw bytes.
func (a *Accounts) DecodeAny(data []byte) (string, any, bool) {
	if len(data) < discriminator.Size {
		return "", nil, false
	}

	var disc [discriminator.Size]byte
	copy(disc[:], data)

	entry, ok := a.byDisc[disc]
	if !ok {
		if a.permissive {
			return "", Unknown{Discriminator: disc[:], Data: data[discriminator.Size:]}, true
		}
		return "", nil, false
	}

	v, err := entry.layout.Decode(encoding.NewReader(data[discriminator.Size:]))
	if err != nil {
		return "", nil, false
	}
	return entry.def.Name, v, true
}

// Size returns the fixed byte footprint of the named account,
// discriminator included. Accounts containing a vec, string, bytes or
// option field have no fixed footprint and report ErrVariableSize.
func (a *Accounts) Size(name string) (int, error) {
	entry, ok := a.byName[name]
	if !ok {
		return 0, errors.Wrapf(layout.ErrUnknownType, "account %q", name)
	}

	n, fixed := a.resolver.SizeOfDef(entry.def.Type)
	if !fixed {
		return 0, errors.Wrapf(ErrVariableSize, "account %q", name)
	}
	return discriminator.Size + n, nil
}
