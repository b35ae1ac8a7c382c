package layout

import (
	"github.com/idlkit/idlkit/internal/idl"
)

// SizeOf returns the fixed byte footprint of a type expression. The
// second result is false when the footprint depends on the value, which
// is the case as soon as a string, bytes, vec or option appears.
func (r *Resolver) SizeOf(t idl.Type) (int, bool) {
	return r.sizeOf(t, make(map[string]bool))
}

// SizeOfDef is SizeOf for a named definition body.
func (r *Resolver) SizeOfDef(def idl.Def) (int, bool) {
	return r.sizeOfDef(def, make(map[string]bool))
}

func (r *Resolver) sizeOf(t idl.Type, seen map[string]bool) (int, bool) {
	switch t.Kind {
	case idl.KindBool, idl.KindU8, idl.KindI8:
		return 1, true
	case idl.KindU16, idl.KindI16:
		return 2, true
	case idl.KindU32, idl.KindI32, idl.KindF32:
		return 4, true
	case idl.KindU64, idl.KindI64, idl.KindF64:
		return 8, true
	case idl.KindU128, idl.KindI128:
		return 16, true
	case idl.KindPubkey:
		return 32, true

	case idl.KindString, idl.KindBytes, idl.KindVec, idl.KindOption:
		return 0, false

	case idl.KindArray:
		n, fixed := r.sizeOf(*t.Inner, seen)
		if !fixed {
			return 0, false
		}
		return n * t.Len, true

	case idl.KindTuple:
		var total int
		for i := range t.Tuple {
			n, fixed := r.sizeOf(t.Tuple[i], seen)
			if !fixed {
				return 0, false
			}
			total += n
		}
		return total, true

	case idl.KindDefined:
		// a repeated name means a cycle, which can only terminate
		// through a variable-size kind
		if seen[t.Defined] {
			return 0, false
		}
		seen[t.Defined] = true
		defer delete(seen, t.Defined)

		def, ok := r.schema.LookupType(t.Defined)
		if !ok {
			return 0, false
		}
		return r.sizeOfDef(def, seen)
	}

	return 0, false
}

func (r *Resolver) sizeOfDef(def idl.Def, seen map[string]bool) (int, bool) {
	if def.Kind == idl.DefEnum {
		// fixed only when every variant payload has the same fixed
		// size, so the tag fully determines the footprint
		var common int
		for i := range def.Variants {
			var size int
			switch {
			case len(def.Variants[i].Fields) > 0:
				n, fixed := r.sizeOfFields(def.Variants[i].Fields, seen)
				if !fixed {
					return 0, false
				}
				size = n
			case len(def.Variants[i].Tuple) > 0:
				for _, t := range def.Variants[i].Tuple {
					n, fixed := r.sizeOf(t, seen)
					if !fixed {
						return 0, false
					}
					size += n
				}
			}
			if i == 0 {
				common = size
			} else if size != common {
				return 0, false
			}
		}
		return 1 + common, true
	}

	return r.sizeOfFields(def.Fields, seen)
}

func (r *Resolver) sizeOfFields(fields []idl.Field, seen map[string]bool) (int, bool) {
	var total int
	for i := range fields {
		n, fixed := r.sizeOf(fields[i].Type, seen)
		if !fixed {
			return 0, false
		}
		total += n
	}
	return total, true
}
