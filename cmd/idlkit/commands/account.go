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

// NewAccountCommand returns a cli.Command for "idlkit account".
func NewAccountCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "account",
		Usage:     "Decode raw account data against the IDL.",
		UsageText: `idlkit account --idl program.json [--name User] [data]`,
		Description: `Decodes account bytes and prints the value as JSON.

With --name, the data is decoded as that account and the discriminator
is validated. Without it, every declared account is probed by
discriminator and the first match wins. Data is read from the argument
or from standard input:

$ idlkit account -i program.json -n User "AQIDBAUGBwgA..."
$ cat dump.hex | idlkit account -i program.json -e hex`,
		Flags: []cli.Flag{
			idlFlag(),
			encodingFlag(),
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "account name. Defaults to probing all accounts.",
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

		c := idlkit.NewCoder(schema)

		if name := cmd.String("name"); name != "" {
			v, _, err := c.Accounts.Decode(name, data)
			if err != nil {
				return err
			}
			return idlutil.PrintJSON(os.Stdout, v)
		}

		name, v, ok := c.Accounts.DecodeAny(data)
		if !ok {
			return errors.New("data matches no declared account")
		}
		fmt.Printf("account: %s\n", name)
		return idlutil.PrintJSON(os.Stdout, v)
	}

	return &cmd
}
