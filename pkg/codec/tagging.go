package codec

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

func (c *Codec) encodeSum(st *SumType, rv reflect.Value) (value.Value, error) {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return value.Value{}, &EncodeError{Type: st.name, Reason: "nil variant pointer", Err: ErrUnregisteredVariant}
		}
		rv = rv.Elem()
	}

	idx, ok := st.byType[rv.Type()]
	if !ok {
		return value.Value{}, &EncodeError{
			Type:   st.name,
			Reason: rv.Type().String() + " is not a registered variant",
			Err:    ErrUnregisteredVariant,
		}
	}
	variant := &st.variants[idx]

	payload, err := c.encodePayload(variant, rv)
	if err != nil {
		return value.Value{}, atPath(variant.Name(), err)
	}

	switch st.discipline {
	case External:
		if variant.shape == ShapeUnit {
			if variant.bareTag {
				return value.String(variant.tag), nil
			}
			return value.Object(value.Field(variant.tag, value.Null())), nil
		}
		return value.Object(value.Field(variant.tag, payload)), nil
	case Discriminator:
		members := []value.Member{value.Field(st.field, value.String(variant.tag))}
		if variant.shape == ShapeRecord {
			members = append(members, payload.Members()...)
		}
		return value.Object(members...), nil
	default:
		return payload, nil
	}
}

func (c *Codec) encodePayload(variant *Variant, rv reflect.Value) (value.Value, error) {
	switch variant.shape {
	case ShapeUnit:
		return value.Null(), nil
	case ShapeRecord:
		return c.encodeStruct(rv)
	default:
		if variant.wrapped {
			return c.encode(rv.Field(variant.field))
		}
		return c.encodePlain(rv)
	}
}

func (c *Codec) decodeSum(st *SumType, v value.Value) (reflect.Value, error) {
	switch st.discipline {
	case External:
		return c.decodeExternal(st, v)
	case Discriminator:
		return c.decodeDiscriminated(st, v)
	default:
		return c.decodeSniffed(st, v)
	}
}

// decodeExternal tries a single-key object with a known key first, then a
// bare string equal to a known tag. A sum type may mix both unit forms.
func (c *Codec) decodeExternal(st *SumType, v value.Value) (reflect.Value, error) {
	switch v.Kind() {
	case value.KindObject:
		if v.Len() != 1 {
			return reflect.Value{}, &UnknownVariantError{Type: st.name, Observed: describe(v)}
		}
		m := v.Members()[0]
		idx, ok := st.byTag[m.Key]
		if !ok {
			return reflect.Value{}, &UnknownVariantError{Type: st.name, Observed: describe(v)}
		}
		out, err := c.decodePayload(&st.variants[idx], m.Value)
		if err != nil {
			return reflect.Value{}, atPath(m.Key, err)
		}
		return out, nil
	case value.KindString:
		s, _ := v.AsString()
		idx, ok := st.byTag[s]
		if !ok {
			return reflect.Value{}, &UnknownVariantError{Type: st.name, Observed: describe(v)}
		}
		variant := &st.variants[idx]
		if variant.shape != ShapeUnit {
			return reflect.Value{}, &ShapeMismatchError{Type: st.name + "." + variant.tag, Expected: "object", Actual: "string"}
		}
		return reflect.New(variant.typ).Elem(), nil
	default:
		return reflect.Value{}, &ShapeMismatchError{Type: st.name, Expected: "object or string", Actual: v.Kind().String()}
	}
}

func (c *Codec) decodeDiscriminated(st *SumType, v value.Value) (reflect.Value, error) {
	if v.Kind() != value.KindObject {
		return reflect.Value{}, &ShapeMismatchError{Type: st.name, Expected: "object", Actual: v.Kind().String()}
	}

	tagValue, ok := v.Get(st.field)
	if !ok {
		return reflect.Value{}, &MissingDiscriminatorError{Type: st.name, Field: st.field}
	}
	tag, ok := tagValue.AsString()
	if !ok {
		return reflect.Value{}, &ShapeMismatchError{Type: st.name + "." + st.field, Expected: "string", Actual: tagValue.Kind().String()}
	}

	idx, ok := st.byTag[tag]
	if !ok {
		return reflect.Value{}, &UnknownVariantError{Type: st.name, Observed: st.field + "=" + strconv.Quote(tag)}
	}

	return c.decodePayload(&st.variants[idx], v.Without(st.field))
}

// decodeSniffed selects the first variant, in declaration order, whose
// matcher accepts v. Later variants with overlapping matchers never win.
func (c *Codec) decodeSniffed(st *SumType, v value.Value) (reflect.Value, error) {
	for i := range st.variants {
		if st.variants[i].matcher.Match(v) {
			return c.decodePayload(&st.variants[i], v)
		}
	}
	return reflect.Value{}, &UnknownVariantError{Type: st.name, Observed: describe(v)}
}

func (c *Codec) decodePayload(variant *Variant, payload value.Value) (reflect.Value, error) {
	out := reflect.New(variant.typ).Elem()

	switch variant.shape {
	case ShapeUnit:
		return out, nil
	case ShapeRecord:
		if payload.Kind() != value.KindObject {
			return reflect.Value{}, &ShapeMismatchError{Type: variant.typ.Name(), Expected: "object", Actual: payload.Kind().String()}
		}
		if err := c.decodeStruct(payload, out); err != nil {
			return reflect.Value{}, err
		}
	default:
		var err error
		if variant.wrapped {
			err = c.decode(payload, out.Field(variant.field))
		} else {
			err = c.decodePlain(payload, out)
		}
		if err != nil {
			return reflect.Value{}, err
		}
	}

	return out, nil
}

// describe summarizes a value for error messages.
func describe(v value.Value) string {
	switch v.Kind() {
	case value.KindObject:
		return "object with keys [" + strings.Join(v.Keys(), " ") + "]"
	case value.KindString:
		s, _ := v.AsString()
		return strconv.Quote(s)
	case value.KindNumber:
		return "number " + v.Literal()
	default:
		return v.Kind().String()
	}
}
