package types

// Decoded values are plain Go data shaped by the schema:
//
//	struct        map[string]any, one entry per field
//	vec / array   []any
//	tuple         []any
//	option        nil when absent, the payload value when present
//	enum          map[string]any with a single entry, variant name to
//	              payload (nil for unit variants)
//	pubkey        Pubkey
//	u128 / i128   *big.Int
//	other scalars native Go types
//
// The helpers below build and take apart the enum shape so callers
// don't depend on its representation.

// Enum builds the value form of an enum variant. Pass nil payload for a
// unit variant.
func Enum(variant string, payload any) map[string]any {
	return map[string]any{variant: payload}
}

// EnumVariant extracts the variant name and payload from an enum value.
// It reports false if v does not have the single-entry enum shape.
func EnumVariant(v any) (name string, payload any, ok bool) {
	m, isMap := v.(map[string]any)
	if !isMap || len(m) != 1 {
		return "", nil, false
	}
	for k, p := range m {
		return k, p, true
	}
	return "", nil, false
}
