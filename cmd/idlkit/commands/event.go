package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/idlkit/idlkit"
	"github.com/idlkit/idlkit/cmd/idlkit/idlutil"
	"github.com/idlkit/idlkit/internal/idl"
)

// NewEventCommand returns a cli.Command for "idlkit event".
func NewEventCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "event",
		Usage:     "Decode a base64 event payload against the IDL.",
		UsageText: `idlkit event --idl program.json [payload]`,
		Description: `Decodes an event payload as emitted in program logs. The payload is
base64, the way log lines carry it:

$ idlkit event -i program.json "YWJjZGVmZ2g..."`,
		Flags: []cli.Flag{
			idlFlag(),
		},
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		schema, err := idl.ParseFile(cmd.String("idl"))
		if err != nil {
			return err
		}

		payload := cmd.Args().First()
		if payload == "" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			payload = strings.TrimSpace(string(b))
		}

		c := idlkit.NewCoder(schema)

		ev, ok := c.Events.Decode(payload)
		if !ok {
			return errors.New("payload matches no declared event")
		}
		fmt.Printf("event: %s\n", ev.Name)
		return idlutil.PrintJSON(os.Stdout, ev.Data)
	}

	return &cmd
}
