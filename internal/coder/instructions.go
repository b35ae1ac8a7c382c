package coder

import (
	"github.com/cockroachdb/errors"

	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/encoding"
	"github.com/idlkit/idlkit/internal/idl"
	"github.com/idlkit/idlkit/internal/layout"
)

// Instruction is a decoded instruction: its name and its arguments by
// name. Discriminator and Data are only populated for the permissive
// unknown placeholder.
type Instruction struct {
	Name string
	Args map[string]any

	Discriminator []byte
	Data          []byte
}

// Instructions frames ordered instruction arguments with the
// instruction's 8-byte discriminator.
type Instructions struct {
	validator  *discriminator.Validator
	permissive bool

	byName map[string]*instructionEntry
	byDisc map[[discriminator.Size]byte]*instructionEntry
}

type instructionEntry struct {
	def  idl.Instruction
	disc [discriminator.Size]byte
	args []*layout.Layout
}

func newInstructions(schema *idl.IDL, resolver *layout.Resolver, validator *discriminator.Validator, permissive bool) *Instructions {
	ic := Instructions{
		validator:  validator,
		permissive: permissive,
		byName:     make(map[string]*instructionEntry, len(schema.Instructions)),
		byDisc:     make(map[[discriminator.Size]byte]*instructionEntry, len(schema.Instructions)),
	}

	for i := range schema.Instructions {
		ix := schema.Instructions[i]
		entry := instructionEntry{
			def:  ix,
			disc: entityDiscriminator(ix.Discriminator, func() [discriminator.Size]byte { return discriminator.Instruction(ix.Name) }),
			args: make([]*layout.Layout, len(ix.Args)),
		}
		for j := range ix.Args {
			entry.args[j] = resolver.Resolve(ix.Args[j].Type)
		}
		ic.byName[ix.Name] = &entry
		ic.byDisc[entry.disc] = &entry
	}

	return &ic
}

// Discriminator returns the 8-byte tag of the named instruction.
func (ic *Instructions) Discriminator(name string) ([]byte, error) {
	entry, ok := ic.byName[name]
	if !ok {
		return nil, errors.Wrapf(layout.ErrUnknownType, "instruction %q", name)
	}
	return entry.disc[:], nil
}

// Encode produces discriminator ++ ordered argument encodings. The
// supplied arguments must match the declared list exactly: a missing
// or an extra argument is a hard error naming the offender.
func (ic *Instructions) Encode(name string, args map[string]any) ([]byte, error) {
	entry, ok := ic.byName[name]
	if !ok {
		return nil, errors.Wrapf(layout.ErrUnknownType, "instruction %q", name)
	}

	for argName := range args {
		if !entry.hasArg(argName) {
			return nil, errors.Wrapf(ErrInvalidArgument, "unexpected argument %q", argName)
		}
	}

	dst := make([]byte, 0, discriminator.Size+64)
	dst = append(dst, entry.disc[:]...)

	var err error
	for i := range entry.def.Args {
		argName := entry.def.Args[i].Name
		v, present := args[argName]
		if !present {
			return nil, errors.Wrapf(ErrInvalidArgument, "missing argument %q", argName)
		}
		dst, err = entry.args[i].Encode(dst, v)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", argName)
		}
	}

	return dst, nil
}

// Decode probes data against every declared instruction by its 8-byte
// prefix. It is a best-effort try operation by contract: a short
// buffer, an unmatched discriminator, a malformed payload or trailing
// garbage all yield an absent result, never an error.
func (ic *Instructions) Decode(data []byte) (*Instruction, bool) {
	if len(data) < discriminator.Size {
		return nil, false
	}

	var disc [discriminator.Size]byte
	copy(disc[:], data)

	entry, ok := ic.byDisc[disc]
	if !ok {
		if ic.permissive {
			return &Instruction{
				Discriminator: disc[:],
				Data:          data[discriminator.Size:],
			}, true
		}
		return nil, false
	}

	rd := encoding.NewReader(data[discriminator.Size:])
	args := make(map[string]any, len(entry.def.Args))
	for i := range entry.def.Args {
		v, err := entry.args[i].Decode(rd)
		if err != nil {
			return nil, false
		}
		args[entry.def.Args[i].Name] = v
	}
	if rd.Remaining() != 0 {
		return nil, false
	}

	return &Instruction{Name: entry.def.Name, Args: args}, true
}

func (e *instructionEntry) hasArg(name string) bool {
	for i := range e.def.Args {
		if e.def.Args[i].Name == name {
			return true
		}
	}
	return false
}
