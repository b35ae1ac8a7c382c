package coder_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/idlkit/idlkit/internal/coder"
	"github.com/idlkit/idlkit/internal/discriminator"
	"github.com/idlkit/idlkit/internal/layout"
	"github.com/idlkit/idlkit/internal/testutil"
	"github.com/idlkit/idlkit/internal/types"
)

func userValue() map[string]any {
	return map[string]any{
		"authority": types.Pubkey{},
		"name":      "Alice",
		"age":       uint32(25),
		"active":    true,
	}
}

func TestAccountsEncode(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	data, err := c.Accounts.Encode("User", userValue())
	require.NoError(t, err)

	var want []byte
	want = append(want, 1, 2, 3, 4, 5, 6, 7, 8) // explicit discriminator
	want = append(want, make([]byte, 32)...)    // authority
	want = append(want, 5, 0, 0, 0, 'A', 'l', 'i', 'c', 'e')
	want = append(want, 25, 0, 0, 0) // age
	want = append(want, 1)           // active
	require.Equal(t, want, data)
}

func TestAccountsRoundTrip(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	data, err := c.Accounts.Encode("User", userValue())
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, data[:8])

	v, ok, err := c.Accounts.Decode("User", data)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, userValue(), v)
}

func TestAccountsDecodeWrongDiscriminator(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	data, err := c.Accounts.Encode("Counter", map[string]any{
		"count": uint64(1),
		"flag":  false,
		"seed":  make([]byte, 32),
	})
	require.NoError(t, err)

	// probing contract: absent result, with the mismatch diagnostic
	v, ok, err := c.Accounts.Decode("User", data)
	require.False(t, ok)
	require.Nil(t, v)

	var mismatch *discriminator.MismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, 0, mismatch.FirstDiff)
	require.Equal(t, "account User", mismatch.Context)
}

func TestAccountsDecodeShortBuffer(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	_, ok, err := c.Accounts.Decode("User", []byte{1, 2, 3})
	require.False(t, ok)
	require.ErrorIs(t, err, coder.ErrAccountDidNotDeserialize)
}

func TestAccountsDecodeTruncatedPayload(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	data, err := c.Accounts.Encode("User", userValue())
	require.NoError(t, err)

	v, ok, err := c.Accounts.Decode("User", data[:len(data)-3])
	require.False(t, ok)
	require.Nil(t, v)
	require.Error(t, err)
}

func TestAccountsUnknownName(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	_, err := c.Accounts.Encode("Ghost", map[string]any{})
	require.ErrorIs(t, err, layout.ErrUnknownType)

	_, _, err = c.Accounts.Decode("Ghost", make([]byte, 16))
	require.ErrorIs(t, err, layout.ErrUnknownType)

	_, err = c.Accounts.Size("Ghost")
	require.ErrorIs(t, err, layout.ErrUnknownType)
}

func TestAccountsEncodeMissingField(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	v := userValue()
	delete(v, "age")

	_, err := c.Accounts.Encode("User", v)
	require.ErrorIs(t, err, layout.ErrMissingField)
	require.Contains(t, err.Error(), `"age"`)
}

func TestAccountsSize(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	// 8 discriminator + 8 count + 1 flag + 32 seed
	n, err := c.Accounts.Size("Counter")
	require.NoError(t, err)
	require.Equal(t, 49, n)

	// User has a string field
	_, err = c.Accounts.Size("User")
	require.ErrorIs(t, err, coder.ErrVariableSize)
}

func TestAccountsDiscriminator(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	// explicit discriminator from the schema wins
	d, err := c.Accounts.Discriminator("User")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, d)

	// computed for the rest, stable across coder instances
	d1, err := c.Accounts.Discriminator("Counter")
	require.NoError(t, err)
	d2, err := coder.New(testutil.SampleIDL()).Accounts.Discriminator("Counter")
	require.NoError(t, err)
	require.Equal(t, d1, d2)

	computed := discriminator.Account("Counter")
	require.Equal(t, computed[:], d1)
}

func TestAccountsDecodeAny(t *testing.T) {
	c := coder.New(testutil.SampleIDL())

	data, err := c.Accounts.Encode("Counter", map[string]any{
		"count": uint64(9),
		"flag":  true,
		"seed":  make([]byte, 32),
	})
	require.NoError(t, err)

	name, v, ok := c.Accounts.DecodeAny(data)
	require.True(t, ok)
	require.Equal(t, "Counter", name)
	require.Equal(t, uint64(9), v.(map[string]any)["count"])

	// unmatched discriminator is absent in strict mode
	garbage := append([]byte{9, 9, 9, 9, 9, 9, 9, 9}, 1, 2, 3)
	_, _, ok = c.Accounts.DecodeAny(garbage)
	require.False(t, ok)

	_, _, ok = c.Accounts.DecodeAny([]byte{1, 2})
	require.False(t, ok)
}

func TestAccountsDecodeAnyPermissive(t *testing.T) {
	c := coder.New(testutil.SampleIDL(), coder.WithPermissiveUnknown())

	garbage := append([]byte{9, 9, 9, 9, 9, 9, 9, 9}, 1, 2, 3)
	name, v, ok := c.Accounts.DecodeAny(garbage)
	require.True(t, ok)
	require.Empty(t, name)

	unknown, isUnknown := v.(coder.Unknown)
	require.True(t, isUnknown)
	require.Equal(t, []byte{9, 9, 9, 9, 9, 9, 9, 9}, unknown.Discriminator)
	require.Equal(t, []byte{1, 2, 3}, unknown.Data)
}

func TestAccountsDiscriminatorBypass(t *testing.T) {
	c := coder.New(testutil.SampleIDL(), coder.WithDiscriminatorBypass())

	data, err := c.Accounts.Encode("User", userValue())
	require.NoError(t, err)

	// corrupt the prefix; bypass mode decodes anyway
	data[0] ^= 0xFF
	v, ok, err := c.Accounts.Decode("User", data)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, userValue(), v)
}

func TestAccountsValidationCache(t *testing.T) {
	c := coder.New(testutil.SampleIDL(), coder.WithValidationCache())

	data, err := c.Accounts.Encode("User", userValue())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		v, ok, err := c.Accounts.Decode("User", data)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "Alice", v["name"])
	}
}
