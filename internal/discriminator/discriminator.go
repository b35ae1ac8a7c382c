// Package discriminator computes and validates the 8-byte identity
// tags that prefix accounts, instructions and events on the wire.
//
// A tag is the first 8 bytes of the SHA-256 digest of the namespaced
// entity name ("account:Foo", "global:bar", "event:Baz"). The
// computation is pure: the same name always yields the same tag, within
// a run and across runs.
package discriminator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Size is the byte length of every discriminator.
const Size = 8

// Namespaces used for the three entity families.
const (
	AccountNamespace     = "account"
	InstructionNamespace = "global"
	EventNamespace       = "event"
)

// Compute derives the tag for a name under a namespace.
func Compute(namespace, name string) [Size]byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	var d [Size]byte
	copy(d[:], h[:Size])
	return d
}

// Account derives the tag of an account entity.
func Account(name string) [Size]byte {
	return Compute(AccountNamespace, name)
}

// Instruction derives the tag of an instruction entity.
func Instruction(name string) [Size]byte {
	return Compute(InstructionNamespace, name)
}

// Event derives the tag of an event entity.
func Event(name string) [Size]byte {
	return Compute(EventNamespace, name)
}

// MismatchError reports an exact-comparison failure with enough detail
// to locate the divergence: both values in hex and the index of the
// first differing byte.
type MismatchError struct {
	Context   string
	Expected  []byte
	Actual    []byte
	FirstDiff int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("discriminator mismatch for %s: expected %s, got %s, first differing byte at index %d",
		e.Context, hex.EncodeToString(e.Expected), hex.EncodeToString(e.Actual), e.FirstDiff)
}
