// Package idlutil holds the plumbing shared by the CLI commands:
// reading raw data in its accepted encodings and rendering decoded
// values as JSON.
package idlutil

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/idlkit/idlkit"
)

// ReadData decodes the raw input according to the requested encoding.
// An empty argument reads from r instead, so data can be piped in.
func ReadData(arg, encoding string, r io.Reader) ([]byte, error) {
	if arg == "" {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		arg = strings.TrimSpace(string(b))
	}

	switch encoding {
	case "base64":
		return base64.StdEncoding.DecodeString(arg)
	case "hex":
		return hex.DecodeString(strings.TrimPrefix(arg, "0x"))
	}
	return nil, errors.Newf("unsupported encoding %q", encoding)
}

// PrintJSON renders a decoded value as indented JSON on w. Byte slices
// come out as hex, pubkeys as base58, 128-bit integers as decimal
// strings.
func PrintJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(jsonable(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func jsonable(v any) any {
	switch x := v.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case *big.Int:
		return x.String()
	case idlkit.Pubkey:
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = jsonable(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = jsonable(val)
		}
		return out
	}
	return v
}
