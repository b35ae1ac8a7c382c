// Package idl describes the schema document driving the codec: the
// accounts, instructions, events and named types of a program, plus the
// type expressions they are built from.
package idl

// IDL is a parsed schema document. A zero IDL is valid and describes a
// program with no entities; coders built from it resolve everything
// lazily and only fail at first use.
type IDL struct {
	Address      string
	Metadata     Metadata
	Accounts     []Account
	Instructions []Instruction
	Events       []Event
	Types        []TypeDef
}

// Metadata carries informational fields from the schema header.
type Metadata struct {
	Name    string
	Version string
	Spec    string
}

// TypeDef is an entry of the named-type table.
type TypeDef struct {
	Name string
	Type Def
}

// DefKind discriminates between the two shapes a named definition can take.
type DefKind uint8

const (
	DefStruct DefKind = iota + 1
	DefEnum
)

// Def is the body of a named definition: an ordered list of fields for a
// struct, an ordered list of variants for an enum. Field and variant
// order is significant, it is the wire order.
type Def struct {
	Kind     DefKind
	Fields   []Field
	Variants []Variant
}

// Field is a named struct field or instruction argument.
type Field struct {
	Name string
	Type Type
}

// Variant is one case of an enum. Its index in the variant list is the
// wire tag. The payload is either named fields, positional tuple types,
// or nothing.
type Variant struct {
	Name   string
	Fields []Field
	Tuple  []Type
}

// Account declares an account entity: a struct body plus an optional
// explicit discriminator overriding the computed one.
type Account struct {
	Name          string
	Discriminator []byte
	Type          Def
}

// Instruction declares an instruction entity: account slots and ordered
// arguments.
type Instruction struct {
	Name          string
	Discriminator []byte
	Accounts      []InstructionAccount
	Args          []Field
}

// InstructionAccount is one declared account slot of an instruction.
type InstructionAccount struct {
	Name     string
	Writable bool
	Signer   bool
}

// Event declares an event entity: a flat list of fields.
type Event struct {
	Name          string
	Discriminator []byte
	Fields        []Field
}

// LookupType returns the named definition from the type table.
func (i *IDL) LookupType(name string) (Def, bool) {
	for idx := range i.Types {
		if i.Types[idx].Name == name {
			return i.Types[idx].Type, true
		}
	}
	return Def{}, false
}

// LookupAccount returns the account declaration by name.
func (i *IDL) LookupAccount(name string) (*Account, bool) {
	for idx := range i.Accounts {
		if i.Accounts[idx].Name == name {
			return &i.Accounts[idx], true
		}
	}
	return nil, false
}

// LookupInstruction returns the instruction declaration by name.
func (i *IDL) LookupInstruction(name string) (*Instruction, bool) {
	for idx := range i.Instructions {
		if i.Instructions[idx].Name == name {
			return &i.Instructions[idx], true
		}
	}
	return nil, false
}

// LookupEvent returns the event declaration by name.
func (i *IDL) LookupEvent(name string) (*Event, bool) {
	for idx := range i.Events {
		if i.Events[idx].Name == name {
			return &i.Events[idx], true
		}
	}
	return nil, false
}
