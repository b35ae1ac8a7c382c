package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/idlkit/idlkit"
	"github.com/idlkit/idlkit/cmd/idlkit/idlutil"
	"github.com/idlkit/idlkit/internal/idl"
)

// NewInstructionCommand returns a cli.Command for "idlkit instruction".
func NewInstructionCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "instruction",
		Usage:     "Decode raw instruction data against the IDL.",
		UsageText: `idlkit instruction --idl program.json [data]`,
		Description: `Looks the instruction up by its 8-byte discriminator and prints its
name and arguments as JSON:

$ idlkit instruction -i program.json -e hex 0xabcd...`,
		Flags: []cli.Flag{
			idlFlag(),
			encodingFlag(),
			&cli.BoolFlag{
				Name:  "permissive",
				Usage: "print raw bytes for unmatched discriminators instead of failing.",
			},
		},
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		schema, err := idl.ParseFile(cmd.String("idl"))
		if err != nil {
			return err
		}

		data, err := idlutil.ReadData(cmd.Args().First(), cmd.String("encoding"), os.Stdin)
		if err != nil {
			return err
		}

		var opts []idlkit.Option
		if cmd.Bool("permissive") {
			opts = append(opts, idlkit.WithPermissiveUnknown())
		}
		c := idlkit.NewCoder(schema, opts...)

		ix, ok := c.Instructions.Decode(data)
		if !ok {
			return errors.New("data matches no declared instruction")
		}
		if ix.Name == "" {
			fmt.Println("instruction: <unknown>")
			return idlutil.PrintJSON(os.Stdout, map[string]any{
				"discriminator": ix.Discriminator,
				"data":          ix.Data,
			})
		}
		fmt.Printf("instruction: %s\n", ix.Name)
		return idlutil.PrintJSON(os.Stdout, ix.Args)
	}

	return &cmd
}
