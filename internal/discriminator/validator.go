package discriminator

import (
	"sync"
)

// Validator compares expected and actual discriminators. It can cache
// validation outcomes and can run in bypass mode, where every
// comparison succeeds; bypass exists for hand-authored fixtures whose
// prefixes are not real discriminators.
//
// The cache is safe for concurrent use. Inserts are idempotent: two
// goroutines validating the same triple race only on who stores the
// identical outcome first.
type Validator struct {
	bypass bool
	cache  *sync.Map // cacheKey -> error (nil for success)
}

type cacheKey struct {
	expected [Size]byte
	actual   [Size]byte
	context  string
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithBypass makes every validation succeed.
func WithBypass() ValidatorOption {
	return func(v *Validator) {
		v.bypass = true
	}
}

// WithCache memoizes validation outcomes per (expected, actual,
// context) triple.
func WithCache() ValidatorOption {
	return func(v *Validator) {
		v.cache = &sync.Map{}
	}
}

func NewValidator(opts ...ValidatorOption) *Validator {
	var v Validator
	for _, opt := range opts {
		opt(&v)
	}
	return &v
}

// Validate compares the two tags byte for byte. On mismatch it returns
// a *MismatchError naming the caller-supplied context.
func (v *Validator) Validate(expected, actual []byte, context string) error {
	if v.bypass {
		return nil
	}

	if v.cache == nil {
		return compare(expected, actual, context)
	}

	var key cacheKey
	copy(key.expected[:], expected)
	copy(key.actual[:], actual)
	key.context = context

	if outcome, ok := v.cache.Load(key); ok {
		if outcome == nil {
			return nil
		}
		return outcome.(error)
	}

	err := compare(expected, actual, context)
	if err == nil {
		v.cache.LoadOrStore(key, nil)
		return nil
	}
	outcome, _ := v.cache.LoadOrStore(key, err)
	if outcome == nil {
		return nil
	}
	return outcome.(error)
}

// Reset drops every cached outcome. Used by tests; nothing invalidates
// the cache otherwise.
func (v *Validator) Reset() {
	if v.cache != nil {
		v.cache = &sync.Map{}
	}
}

func compare(expected, actual []byte, context string) error {
	n := len(expected)
	if len(actual) < n {
		n = len(actual)
	}
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			return &MismatchError{
				Context:   context,
				Expected:  expected,
				Actual:    actual,
				FirstDiff: i,
			}
		}
	}
	if len(expected) != len(actual) {
		return &MismatchError{
			Context:   context,
			Expected:  expected,
			Actual:    actual,
			FirstDiff: n,
		}
	}
	return nil
}
