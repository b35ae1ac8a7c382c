package commands

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/idl"
)

// NewDiscriminatorCommand returns a cli.Command for "idlkit discriminator".
func NewDiscriminatorCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "discriminator",
		Usage:     "Print the 8-byte discriminators of the IDL's entities.",
		UsageText: `idlkit discriminator --idl program.json`,
		Description: `Prints every entity's discriminator in hex. Explicit discriminators
from the IDL are shown as-is, the rest are computed from the
namespaced entity name.`,
		Flags: []cli.Flag{
			idlFlag(),
		},
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		schema, err := idl.ParseFile(cmd.String("idl"))
		if err != nil {
			return err
		}

		print := func(family, name string, explicit []byte, compute func(string) [discriminator.Size]byte) {
			var d [discriminator.Size]byte
			if len(explicit) == discriminator.Size {
				copy(d[:], explicit)
			} else {
				d = compute(name)
			}
			fmt.Printf("%-12s %-24s %s\n", family, name, hex.EncodeToString(d[:]))
		}

		for i := range schema.Accounts {
			print("account", schema.Accounts[i].Name, schema.Accounts[i].Discriminator, discriminator.Account)
		}
		for i := range schema.Instructions {
			print("instruction", schema.Instructions[i].Name, schema.Instructions[i].Discriminator, discriminator.Instruction)
		}
		for i := range schema.Events {
			print("event", schema.Events[i].Name, schema.Events[i].Discriminator, discriminator.Event)
		}

		return nil
	}

	return &cmd
}
