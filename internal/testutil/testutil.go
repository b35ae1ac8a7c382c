// Package testutil provides the schema fixtures shared by codec tests.
package testutil

import (
	"github.com/idlkit/idlkit/internal/idl"
)

// SampleIDL builds the schema used across the test suite: two
// accounts, two instructions, one event and a type table exercising
// structs, enums in every payload shape, and a self-referential type.
func SampleIDL() *idl.IDL {
	return &idl.IDL{
		Metadata: idl.Metadata{Name: "sample", Version: "0.1.0"},
		Accounts: []idl.Account{
			{
				Name:          "User",
				Discriminator: []byte{1, 2, 3, 4, 5, 6, 7, 8},
				Type: idl.Def{
					Kind: idl.DefStruct,
					Fields: []idl.Field{
						{Name: "authority", Type: idl.Pubkey()},
						{Name: "name", Type: idl.String()},
						{Name: "age", Type: idl.U32()},
						{Name: "active", Type: idl.Bool()},
					},
				},
			},
			{
				Name: "Counter",
				Type: idl.Def{
					Kind: idl.DefStruct,
					Fields: []idl.Field{
						{Name: "count", Type: idl.U64()},
						{Name: "flag", Type: idl.Bool()},
						{Name: "seed", Type: idl.Array(idl.U8(), 32)},
					},
				},
			},
		},
		Instructions: []idl.Instruction{
			{
				Name: "initialize",
				Accounts: []idl.InstructionAccount{
					{Name: "user", Writable: true, Signer: true},
					{Name: "payer", Writable: true, Signer: true},
					{Name: "systemProgram"},
				},
				Args: []idl.Field{
					{Name: "owner", Type: idl.Pubkey()},
					{Name: "amount", Type: idl.U64()},
				},
			},
			{
				Name: "transfer",
				Accounts: []idl.InstructionAccount{
					{Name: "from", Writable: true, Signer: true},
					{Name: "to", Writable: true},
				},
				Args: []idl.Field{
					{Name: "amount", Type: idl.U64()},
					{Name: "memo", Type: idl.Option(idl.String())},
				},
			},
		},
		Events: []idl.Event{
			{
				Name: "TransferEvent",
				Fields: []idl.Field{
					{Name: "from", Type: idl.Pubkey()},
					{Name: "to", Type: idl.Pubkey()},
					{Name: "amount", Type: idl.U64()},
				},
			},
		},
		Types: []idl.TypeDef{
			{
				Name: "Point",
				Type: idl.Def{
					Kind: idl.DefStruct,
					Fields: []idl.Field{
						{Name: "x", Type: idl.I64()},
						{Name: "y", Type: idl.I64()},
					},
				},
			},
			{
				Name: "Shape",
				Type: idl.Def{
					Kind: idl.DefEnum,
					Variants: []idl.Variant{
						{Name: "Dot"},
						{Name: "Circle", Fields: []idl.Field{
							{Name: "center", Type: idl.Defined("Point")},
							{Name: "radius", Type: idl.U32()},
						}},
						{Name: "Segment", Tuple: []idl.Type{
							idl.Defined("Point"),
							idl.Defined("Point"),
						}},
					},
				},
			},
			{
				Name: "Node",
				Type: idl.Def{
					Kind: idl.DefStruct,
					Fields: []idl.Field{
						{Name: "value", Type: idl.U32()},
						{Name: "next", Type: idl.Option(idl.Defined("Node"))},
					},
				},
			},
		},
	}
}
