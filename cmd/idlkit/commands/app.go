// Package commands wires the idlkit CLI: one command per file, shared
// helpers in the idlutil package.
package commands

import (
	"github.com/urfave/cli/v3"
)

// NewApp creates the idlkit CLI app.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "idlkit",
		Usage: "Inspect binary program data against an IDL",
		Commands: []*cli.Command{
			NewAccountCommand(),
			NewInstructionCommand(),
			NewEventCommand(),
			NewDiscriminatorCommand(),
		},
	}
}

// idlFlag is shared by every command; all of them need a schema.
func idlFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "idl",
		Aliases:  []string{"i"},
		Usage:    "path to the IDL JSON file",
		Required: true,
	}
}

func encodingFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "encoding",
		Aliases: []string{"e"},
		Usage:   "input data encoding: base64 or hex",
		Value:   "base64",
	}
}
