package coder

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/idlkit/idlkit/internal/layout"
	"github.com/idlkit/idlkit/internal/types"
)

// FormattedInstruction is the human-readable rendering of a decoded
// instruction: arguments with their type names, account slots paired
// with the supplied metas.
type FormattedInstruction struct {
	Name     string
	Args     []FormattedArg
	Accounts []FormattedAccount
}

// FormattedArg renders one argument with its compound type name
// (Option<T>, Vec<T>, Array<T; N>).
type FormattedArg struct {
	Name  string
	Type  string
	Value string
}

// FormattedAccount pairs a declared account slot with a supplied meta.
type FormattedAccount struct {
	Name       string
	Pubkey     types.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Format pairs the instruction's declared account slots with the
// positionally supplied metas. Extra metas beyond the declared slots
// are kept with an empty name; fewer metas than slots simply produce
// fewer rows. Argument values render with their schema type names.
func (ic *Instructions) Format(ix *Instruction, metas []types.AccountMeta) (*FormattedInstruction, error) {
	entry, ok := ic.byName[ix.Name]
	if !ok {
		return nil, errors.Wrapf(layout.ErrUnknownType, "instruction %q", ix.Name)
	}

	out := FormattedInstruction{Name: ix.Name}

	for i := range entry.def.Args {
		arg := entry.def.Args[i]
		value := "<missing>"
		if v, present := ix.Args[arg.Name]; present {
			value = renderValue(v)
		}
		out.Args = append(out.Args, FormattedArg{
			Name:  arg.Name,
			Type:  arg.Type.String(),
			Value: value,
		})
	}

	for i := range metas {
		var name string
		if i < len(entry.def.Accounts) {
			name = entry.def.Accounts[i].Name
		}
		out.Accounts = append(out.Accounts, FormattedAccount{
			Name:       name,
			Pubkey:     metas[i].Pubkey,
			IsSigner:   metas[i].IsSigner,
			IsWritable: metas[i].IsWritable,
		})
	}

	return &out, nil
}

// renderValue produces a stable, single-line rendering of a decoded
// value. Struct keys are sorted so output doesn't depend on map order.
func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case string:
		return strconv.Quote(x)
	case *big.Int:
		return x.String()
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case types.Pubkey:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i := range x {
			parts[i] = renderValue(x[i])
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + renderValue(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}
