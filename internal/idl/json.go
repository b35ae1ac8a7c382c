package idl

import (
	"os"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

// Parse decodes a schema document from its JSON form.
//
// Structural problems (malformed JSON, a type expression that is neither
// a known primitive nor a recognized compound) are reported immediately.
// Semantic problems, like a defined-type reference with no matching entry
// in the type table, are not: resolution is lazy and happens at first use
// by the layout resolver, so a partially specified schema still parses.
func Parse(data []byte) (*IDL, error) {
	var out IDL

	if v, err := jsonparser.GetString(data, "address"); err == nil {
		out.Address = v
	}
	if v, err := jsonparser.GetString(data, "metadata", "name"); err == nil {
		out.Metadata.Name = v
	}
	if v, err := jsonparser.GetString(data, "metadata", "version"); err == nil {
		out.Metadata.Version = v
	}
	if v, err := jsonparser.GetString(data, "metadata", "spec"); err == nil {
		out.Metadata.Spec = v
	}

	err := eachObject(data, "accounts", func(value []byte) error {
		acc, err := parseAccount(value)
		if err != nil {
			return err
		}
		out.Accounts = append(out.Accounts, acc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachObject(data, "instructions", func(value []byte) error {
		ix, err := parseInstruction(value)
		if err != nil {
			return err
		}
		out.Instructions = append(out.Instructions, ix)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachObject(data, "events", func(value []byte) error {
		ev, err := parseEvent(value)
		if err != nil {
			return err
		}
		out.Events = append(out.Events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachObject(data, "types", func(value []byte) error {
		name, err := jsonparser.GetString(value, "name")
		if err != nil {
			return errors.Wrap(err, "type entry missing name")
		}
		tv, _, _, err := jsonparser.Get(value, "type")
		if err != nil {
			return errors.Wrapf(err, "type %q missing body", name)
		}
		def, err := parseDef(tv)
		if err != nil {
			return errors.Wrapf(err, "type %q", name)
		}
		out.Types = append(out.Types, TypeDef{Name: name, Type: def})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ParseFile reads and parses a schema document from disk.
func ParseFile(path string) (*IDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	i, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return i, nil
}

// eachObject walks the array at key and hands each element to fn. A
// missing key is not an error, the section is simply empty.
func eachObject(data []byte, key string, fn func(value []byte) error) error {
	section, dataType, _, err := jsonparser.Get(data, key)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil
		}
		return err
	}
	if dataType != jsonparser.Array {
		return errors.Newf("%s: expected array, got %s", key, dataType)
	}

	var inner error
	_, err = jsonparser.ArrayEach(section, func(value []byte, dataType jsonparser.ValueType, offset int, _ error) {
		if inner != nil {
			return
		}
		inner = fn(value)
	})
	if err != nil {
		return err
	}
	return inner
}

func parseAccount(value []byte) (Account, error) {
	var acc Account
	var err error

	acc.Name, err = jsonparser.GetString(value, "name")
	if err != nil {
		return acc, errors.Wrap(err, "account missing name")
	}

	acc.Discriminator, err = parseDiscriminator(value)
	if err != nil {
		return acc, errors.Wrapf(err, "account %q", acc.Name)
	}

	tv, _, _, err := jsonparser.Get(value, "type")
	if err != nil {
		return acc, errors.Wrapf(err, "account %q missing type", acc.Name)
	}
	acc.Type, err = parseDef(tv)
	if err != nil {
		return acc, errors.Wrapf(err, "account %q", acc.Name)
	}

	return acc, nil
}

func parseInstruction(value []byte) (Instruction, error) {
	var ix Instruction
	var err error

	ix.Name, err = jsonparser.GetString(value, "name")
	if err != nil {
		return ix, errors.Wrap(err, "instruction missing name")
	}

	ix.Discriminator, err = parseDiscriminator(value)
	if err != nil {
		return ix, errors.Wrapf(err, "instruction %q", ix.Name)
	}

	err = eachObject(value, "accounts", func(av []byte) error {
		var slot InstructionAccount
		slot.Name, _ = jsonparser.GetString(av, "name")
		// both the old and the new spelling of the flags are accepted
		if b, err := jsonparser.GetBoolean(av, "writable"); err == nil {
			slot.Writable = b
		} else if b, err := jsonparser.GetBoolean(av, "isMut"); err == nil {
			slot.Writable = b
		}
		if b, err := jsonparser.GetBoolean(av, "signer"); err == nil {
			slot.Signer = b
		} else if b, err := jsonparser.GetBoolean(av, "isSigner"); err == nil {
			slot.Signer = b
		}
		ix.Accounts = append(ix.Accounts, slot)
		return nil
	})
	if err != nil {
		return ix, errors.Wrapf(err, "instruction %q accounts", ix.Name)
	}

	ix.Args, err = parseNamedFields(value, "args")
	if err != nil {
		return ix, errors.Wrapf(err, "instruction %q args", ix.Name)
	}

	return ix, nil
}

func parseEvent(value []byte) (Event, error) {
	var ev Event
	var err error

	ev.Name, err = jsonparser.GetString(value, "name")
	if err != nil {
		return ev, errors.Wrap(err, "event missing name")
	}

	ev.Discriminator, err = parseDiscriminator(value)
	if err != nil {
		return ev, errors.Wrapf(err, "event %q", ev.Name)
	}

	ev.Fields, err = parseNamedFields(value, "fields")
	if err != nil {
		return ev, errors.Wrapf(err, "event %q", ev.Name)
	}

	return ev, nil
}

func parseDef(value []byte) (Def, error) {
	kind, err := jsonparser.GetString(value, "kind")
	if err != nil {
		return Def{}, errors.Wrap(err, "definition missing kind")
	}

	switch kind {
	case "struct":
		fields, err := parseNamedFields(value, "fields")
		if err != nil {
			return Def{}, err
		}
		return Def{Kind: DefStruct, Fields: fields}, nil

	case "enum":
		var def Def
		def.Kind = DefEnum
		err := eachObject(value, "variants", func(vv []byte) error {
			variant, err := parseVariant(vv)
			if err != nil {
				return err
			}
			def.Variants = append(def.Variants, variant)
			return nil
		})
		if err != nil {
			return Def{}, err
		}
		return def, nil
	}

	return Def{}, errors.Newf("unsupported definition kind %q", kind)
}

func parseVariant(value []byte) (Variant, error) {
	var v Variant
	var err error

	v.Name, err = jsonparser.GetString(value, "name")
	if err != nil {
		return v, errors.Wrap(err, "variant missing name")
	}

	fields, dataType, _, err := jsonparser.Get(value, "fields")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return v, nil // unit variant
		}
		return v, err
	}
	if dataType != jsonparser.Array {
		return v, errors.Newf("variant %q: fields must be an array", v.Name)
	}

	// A variant payload is either named ({"name","type"} objects) or a
	// tuple (bare type expressions). The first element decides.
	var inner error
	_, err = jsonparser.ArrayEach(fields, func(fv []byte, dataType jsonparser.ValueType, offset int, _ error) {
		if inner != nil {
			return
		}
		if dataType == jsonparser.Object {
			if _, nameErr := jsonparser.GetString(fv, "name"); nameErr == nil {
				f, err := parseField(fv)
				if err != nil {
					inner = err
					return
				}
				v.Fields = append(v.Fields, f)
				return
			}
		}
		t, err := parseType(fv, dataType)
		if err != nil {
			inner = err
			return
		}
		v.Tuple = append(v.Tuple, t)
	})
	if err != nil {
		return v, err
	}
	if inner != nil {
		return v, errors.Wrapf(inner, "variant %q", v.Name)
	}
	if len(v.Fields) > 0 && len(v.Tuple) > 0 {
		return v, errors.Newf("variant %q mixes named and positional fields", v.Name)
	}

	return v, nil
}

func parseNamedFields(value []byte, key string) ([]Field, error) {
	var fields []Field
	err := eachObject(value, key, func(fv []byte) error {
		f, err := parseField(fv)
		if err != nil {
			return err
		}
		fields = append(fields, f)
		return nil
	})
	return fields, err
}

func parseField(value []byte) (Field, error) {
	var f Field
	var err error

	f.Name, err = jsonparser.GetString(value, "name")
	if err != nil {
		return f, errors.Wrap(err, "field missing name")
	}

	tv, dataType, _, err := jsonparser.Get(value, "type")
	if err != nil {
		return f, errors.Wrapf(err, "field %q missing type", f.Name)
	}
	f.Type, err = parseType(tv, dataType)
	if err != nil {
		return f, errors.Wrapf(err, "field %q", f.Name)
	}

	return f, nil
}

func parseType(value []byte, dataType jsonparser.ValueType) (Type, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return Type{}, err
		}
		if k, ok := KindOf(s); ok {
			return Type{Kind: k}, nil
		}
		return Type{}, errors.Newf("unknown primitive type %q", s)

	case jsonparser.Object:
		return parseCompoundType(value)
	}

	return Type{}, errors.Newf("invalid type expression: %s", dataType)
}

func parseCompoundType(value []byte) (Type, error) {
	if inner, dataType, _, err := jsonparser.Get(value, "vec"); err == nil {
		t, err := parseType(inner, dataType)
		if err != nil {
			return Type{}, err
		}
		return Vec(t), nil
	}

	if inner, dataType, _, err := jsonparser.Get(value, "option"); err == nil {
		t, err := parseType(inner, dataType)
		if err != nil {
			return Type{}, err
		}
		return Option(t), nil
	}

	if inner, _, _, err := jsonparser.Get(value, "array"); err == nil {
		return parseArrayType(inner)
	}

	if inner, dataType, _, err := jsonparser.Get(value, "defined"); err == nil {
		// both {"defined":"Foo"} and {"defined":{"name":"Foo"}} occur
		switch dataType {
		case jsonparser.String:
			s, err := jsonparser.ParseString(inner)
			if err != nil {
				return Type{}, err
			}
			return Defined(s), nil
		case jsonparser.Object:
			s, err := jsonparser.GetString(inner, "name")
			if err != nil {
				return Type{}, errors.Wrap(err, "defined type missing name")
			}
			return Defined(s), nil
		}
		return Type{}, errors.Newf("invalid defined type: %s", dataType)
	}

	if inner, _, _, err := jsonparser.Get(value, "tuple"); err == nil {
		var ts []Type
		var innerErr error
		_, err := jsonparser.ArrayEach(inner, func(tv []byte, dataType jsonparser.ValueType, offset int, _ error) {
			if innerErr != nil {
				return
			}
			t, err := parseType(tv, dataType)
			if err != nil {
				innerErr = err
				return
			}
			ts = append(ts, t)
		})
		if err != nil {
			return Type{}, err
		}
		if innerErr != nil {
			return Type{}, innerErr
		}
		return TupleOf(ts...), nil
	}

	return Type{}, errors.New("unrecognized compound type expression")
}

// parseArrayType decodes the [T, N] pair of an array expression.
func parseArrayType(value []byte) (Type, error) {
	var elem Type
	var size int64
	var idx int
	var innerErr error

	_, err := jsonparser.ArrayEach(value, func(av []byte, dataType jsonparser.ValueType, offset int, _ error) {
		if innerErr != nil {
			return
		}
		switch idx {
		case 0:
			elem, innerErr = parseType(av, dataType)
		case 1:
			size, innerErr = jsonparser.ParseInt(av)
		default:
			innerErr = errors.New("array expression has more than two elements")
		}
		idx++
	})
	if err != nil {
		return Type{}, err
	}
	if innerErr != nil {
		return Type{}, innerErr
	}
	if idx != 2 {
		return Type{}, errors.New("array expression must be [type, size]")
	}
	if size < 0 {
		return Type{}, errors.Newf("negative array size %d", size)
	}

	return Array(elem, int(size)), nil
}

func parseDiscriminator(value []byte) ([]byte, error) {
	section, dataType, _, err := jsonparser.Get(value, "discriminator")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, nil
		}
		return nil, err
	}
	if dataType != jsonparser.Array {
		return nil, errors.Newf("discriminator must be an array of bytes, got %s", dataType)
	}

	var out []byte
	var innerErr error
	_, err = jsonparser.ArrayEach(section, func(bv []byte, dataType jsonparser.ValueType, offset int, _ error) {
		if innerErr != nil {
			return
		}
		n, err := jsonparser.ParseInt(bv)
		if err != nil {
			innerErr = err
			return
		}
		if n < 0 || n > 255 {
			innerErr = errors.Newf("discriminator byte %d out of range", n)
			return
		}
		out = append(out, byte(n))
	})
	if err != nil {
		return nil, err
	}
	if innerErr != nil {
		return nil, innerErr
	}

	return out, nil
}
