package coder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idlkit/idlkit/internal/coder"
	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/layout"
	"github.com/idlkit/idlkit/internal/testutil"
	"github.com/idlkit/idlkit/internal/types"
)

func TestInstructionsRoundTrip(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	owner := types.Pubkey{}
	owner[0] = 7

	data, err := c.Instructions.Encode("initialize", map[string]any{
		"owner":  owner,
		"amount": uint64(1000),
	})
	require.NoError(t, err)

	computed := discriminator.Instruction("initialize")
	require.Equal(t, computed[:], data[:8])

	ix, ok := c.Instructions.Decode(data)
	require.True(t, ok)
	require.Equal(t, "initialize", ix.Name)
	require.Equal(t, owner, ix.Args["owner"])
	require.Equal(t, uint64(1000), ix.Args["amount"])
}

func TestInstructionsEncodeOptionArg(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	data, err := c.Instructions.Encode("transfer", map[string]any{
		"amount": uint64(5),
		"memo":   "rent",
	})
	require.NoError(t, err)

	ix, ok := c.Instructions.Decode(data)
	require.True(t, ok)
	require.Equal(t, "rent", ix.Args["memo"])

	// absent option still has to be supplied, as nil
	data, err = c.Instructions.Encode("transfer", map[string]any{
		"amount": uint64(5),
		"memo":   nil,
	})
	require.NoError(t, err)

	ix, ok = c.Instructions.Decode(data)
	require.True(t, ok)
	require.Nil(t, ix.Args["memo"])
}

func TestInstructionsEncodeArgumentMismatch(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	_, err := c.Instructions.Encode("initialize", map[string]any{
		"owner": types.Pubkey{},
	})
	require.ErrorIs(t, err, coder.ErrInvalidArgument)
	require.Contains(t, err.Error(), `missing argument "amount"`)

	_, err = c.Instructions.Encode("initialize", map[string]any{
		"owner":  types.Pubkey{},
		"amount": uint64(1),
		"bonus":  uint64(2),
	})
	require.ErrorIs(t, err, coder.ErrInvalidArgument)
	require.Contains(t, err.Error(), `unexpected argument "bonus"`)
}

func TestInstructionsEncodeUnknownName(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	_, err := c.Instructions.Encode("burn", map[string]any{})
	require.ErrorIs(t, err, layout.ErrUnknownType)

	_, err = c.Instructions.Discriminator("burn")
	require.ErrorIs(t, err, layout.ErrUnknownType)
}

func TestInstructionsDecodeAbsent(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	good, err := c.Instructions.Encode("transfer", map[string]any{
		"amount": uint64(5),
		"memo":   nil,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"short buffer", []byte{1, 2, 3}},
		{"unknown discriminator", append([]byte{0, 0, 0, 0, 0, 0, 0, 0}, 1, 2, 3)},
		{"truncated payload", good[:len(good)-4]},
		{"trailing garbage", append(append([]byte{}, good...), 0xFF)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ix, ok := c.Instructions.Decode(test.data)
			require.False(t, ok)
			require.Nil(t, ix)
		})
	}
}

func TestInstructionsDecodePermissive(t *testing.T) {
	c := coder.New(testutil.SampleIDL(), coder.WithPermissiveUnknown())

	data := append([]byte{0, 0, 0, 0, 0, 0, 0, 0}, 1, 2, 3)
	ix, ok := c.Instructions.Decode(data)
	require.True(t, ok)
	require.Empty(t, ix.Name)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, ix.Discriminator)
	require.Equal(t, []byte{1, 2, 3}, ix.Data)
}

func TestInstructionsFormat(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	data, err := c.Instructions.Encode("transfer", map[string]any{
		"amount": uint64(500),
		"memo":   "rent",
	})
	require.NoError(t, err)

	ix, ok := c.Instructions.Decode(data)
	require.True(t, ok)

	from := types.Pubkey{}
	from[0] = 1
	to := types.Pubkey{}
	to[0] = 2

	out, err := c.Instructions.Format(ix, []types.AccountMeta{
		{Pubkey: from, IsSigner: true, IsWritable: true},
		{Pubkey: to, IsWritable: true},
	})
	require.NoError(t, err)
	require.Equal(t, "transfer", out.Name)

	require.Len(t, out.Args, 2)
	require.Equal(t, "amount", out.Args[0].Name)
	require.Equal(t, "u64", out.Args[0].Type)
	require.Equal(t, "500", out.Args[0].Value)
	require.Equal(t, "memo", out.Args[1].Name)
	require.Equal(t, "Option<string>", out.Args[1].Type)
	require.Equal(t, `"rent"`, out.Args[1].Value)

	require.Len(t, out.Accounts, 2)
	require.Equal(t, "from", out.Accounts[0].Name)
	require.True(t, out.Accounts[0].IsSigner)
	require.True(t, out.Accounts[0].IsWritable)
	require.Equal(t, "to", out.Accounts[1].Name)
	require.False(t, out.Accounts[1].IsSigner)
}

func TestInstructionsFormatMetaCounts(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	ix := &coder.Instruction{
		Name: "initialize",
		Args: map[string]any{"owner": types.Pubkey{}, "amount": uint64(1)},
	}

	// fewer metas than declared slots: rows only for what was supplied
	out, err := c.Instructions.Format(ix, []types.AccountMeta{{}})
	require.NoError(t, err)
	require.Len(t, out.Accounts, 1)
	require.Equal(t, "user", out.Accounts[0].Name)

	// extra metas beyond the declared slots keep an empty name
	out, err = c.Instructions.Format(ix, make([]types.AccountMeta, 5))
	require.NoError(t, err)
	require.Len(t, out.Accounts, 5)
	require.Equal(t, "systemProgram", out.Accounts[2].Name)
	require.Empty(t, out.Accounts[3].Name)
	require.Empty(t, out.Accounts[4].Name)
}
