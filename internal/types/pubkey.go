// Package types holds the value-level vocabulary shared by the coders:
// public keys, account metas and the enum value shape.
package types

import (
	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"
)

// PubkeyLen is the raw byte length of a public key on the wire.
const PubkeyLen = 32

// Pubkey is a 32-byte public key. On the wire it is the raw bytes, no
// prefix; in text form it is base58.
type Pubkey [PubkeyLen]byte

// PubkeyFromBytes builds a key from exactly 32 raw bytes.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var pk Pubkey
	if len(b) != PubkeyLen {
		return pk, errors.Newf("pubkey must be %d bytes, got %d", PubkeyLen, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// PubkeyFromBase58 decodes the text form.
func PubkeyFromBase58(s string) (Pubkey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, errors.Wrapf(err, "decoding pubkey %q", s)
	}
	return PubkeyFromBytes(b)
}

func (pk Pubkey) Bytes() []byte {
	return pk[:]
}

func (pk Pubkey) String() string {
	return base58.Encode(pk[:])
}

// IsZero reports whether the key is the all-zero key.
func (pk Pubkey) IsZero() bool {
	return pk == Pubkey{}
}

// AccountMeta describes one account passed alongside an instruction.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}
