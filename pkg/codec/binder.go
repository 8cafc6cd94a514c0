package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

// fieldInfo is the wire view of one struct field.
type fieldInfo struct {
	name      string
	index     int
	typ       reflect.Type
	omitEmpty bool
	inline    bool
}

// fieldsOf lists the fields of a struct the way they appear on the wire.
// It follows encoding/json tag rules and adds the ",inline" option, which
// merges the members of the field's own object into the parent object.
// Embedded structs without a name are inlined as well.
func fieldsOf(t reflect.Type) []fieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	fields := make([]fieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		options := strings.Split(opts, ",")
		inline := slices.Contains(options, "inline") ||
			(sf.Anonymous && name == "" && (sf.Type.Kind() == reflect.Struct || sf.Type.Kind() == reflect.Interface))

		if !sf.IsExported() && !(inline && sf.Type.Kind() == reflect.Struct) {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		fields = append(fields, fieldInfo{
			name:      name,
			index:     i,
			typ:       sf.Type,
			omitEmpty: slices.Contains(options, "omitempty"),
			inline:    inline,
		})
	}

	return fields
}

// encode converts rv to a Value, applying sum type tagging where rv's static
// or dynamic type belongs to a registered sum type.
func (c *Codec) encode(rv reflect.Value) (value.Value, error) {
	if !rv.IsValid() {
		return value.Null(), nil
	}

	t := rv.Type()
	if t == valueType {
		return rv.Interface().(value.Value), nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return value.Null(), nil
		}
		if st, ok := c.reg.sums[t]; ok {
			return c.encodeSum(st, rv.Elem())
		}
		return c.encode(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return value.Null(), nil
		}
		return c.encode(rv.Elem())
	}

	if st, ok := c.reg.owners[t]; ok {
		return c.encodeSum(st, rv)
	}

	return c.encodePlain(rv)
}

// encodePlain converts rv without consulting sum type ownership of rv itself.
func (c *Codec) encodePlain(rv reflect.Value) (value.Value, error) {
	t := rv.Type()
	if t == valueType {
		return rv.Interface().(value.Value), nil
	}

	if t.Implements(marshalerType) {
		return marshalWith(rv.Interface().(json.Marshaler))
	}
	if rv.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return marshalWith(rv.Addr().Interface().(json.Marshaler))
	}

	switch t.Kind() {
	case reflect.Struct:
		return c.encodeStruct(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return value.Null(), nil
		}
		return c.encodeItems(rv)
	case reflect.Array:
		return c.encodeItems(rv)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return value.Value{}, fmt.Errorf("%w: %s: map keys must be strings", ErrUnsupportedType, t)
		}
		if rv.IsNil() {
			return value.Null(), nil
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
		members := make([]value.Member, 0, len(keys))
		for _, k := range keys {
			item, err := c.encode(rv.MapIndex(k))
			if err != nil {
				return value.Value{}, atPath(k.String(), err)
			}
			members = append(members, value.Field(k.String(), item))
		}
		return value.Object(members...), nil
	case reflect.String:
		return value.String(rv.String()), nil
	case reflect.Bool:
		return value.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return value.Float(rv.Float()), nil
	case reflect.Interface, reflect.Pointer:
		return c.encode(rv)
	}

	return value.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func (c *Codec) encodeItems(rv reflect.Value) (value.Value, error) {
	items := make([]value.Value, rv.Len())
	for i := range items {
		item, err := c.encode(rv.Index(i))
		if err != nil {
			return value.Value{}, atPath("["+strconv.Itoa(i)+"]", err)
		}
		items[i] = item
	}
	return value.Array(items...), nil
}

func (c *Codec) encodeStruct(rv reflect.Value) (value.Value, error) {
	fields := fieldsOf(rv.Type())
	members := make([]value.Member, 0, len(fields))

	for _, f := range fields {
		fv := rv.Field(f.index)

		if f.inline {
			inner, err := c.encode(fv)
			if err != nil {
				return value.Value{}, err
			}
			if inner.IsNull() {
				continue
			}
			if inner.Kind() != value.KindObject {
				return value.Value{}, &EncodeError{
					Type:   rv.Type().Name(),
					Reason: fmt.Sprintf("inline field %s encoded to %s, want object", f.name, inner.Kind()),
					Err:    ErrShapeMismatch,
				}
			}
			members = append(members, inner.Members()...)
			continue
		}

		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}

		item, err := c.encode(fv)
		if err != nil {
			return value.Value{}, atPath(f.name, err)
		}
		members = append(members, value.Field(f.name, item))
	}

	return value.Object(members...), nil
}

// decode stores v into rv, which must be settable.
func (c *Codec) decode(v value.Value, rv reflect.Value) error {
	t := rv.Type()
	if t == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if v.IsNull() {
			rv.Set(reflect.Zero(t))
			return nil
		}
		if st, ok := c.reg.sums[t]; ok {
			got, err := c.decodeSum(st, v)
			if err != nil {
				return err
			}
			rv.Set(got)
			return nil
		}
		if t.NumMethod() == 0 {
			rv.Set(reflect.ValueOf(v))
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUnregisteredType, t)
	case reflect.Pointer:
		if v.IsNull() {
			rv.Set(reflect.Zero(t))
			return nil
		}
		elem := reflect.New(t.Elem())
		if err := c.decode(v, elem.Elem()); err != nil {
			return err
		}
		rv.Set(elem)
		return nil
	}

	if st, ok := c.reg.owners[t]; ok {
		got, err := c.decodeSum(st, v)
		if err != nil {
			return err
		}
		if got.Type() != t {
			return &ShapeMismatchError{Type: st.name, Expected: t.Name(), Actual: got.Type().Name()}
		}
		rv.Set(got)
		return nil
	}

	return c.decodePlain(v, rv)
}

// decodePlain stores v into rv without consulting sum type ownership of rv itself.
func (c *Codec) decodePlain(v value.Value, rv reflect.Value) error {
	t := rv.Type()
	if t == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}

	if rv.CanAddr() && reflect.PointerTo(t).Implements(unmarshalerType) {
		raw, _ := v.MarshalJSON()
		return rv.Addr().Interface().(json.Unmarshaler).UnmarshalJSON(raw)
	}

	mismatch := func(expected string) error {
		return &ShapeMismatchError{Type: typeName(t), Expected: expected, Actual: v.Kind().String()}
	}

	switch t.Kind() {
	case reflect.Struct:
		if v.IsNull() {
			return nil
		}
		if v.Kind() != value.KindObject {
			return mismatch("object")
		}
		return c.decodeStruct(v, rv)
	case reflect.Slice:
		if v.IsNull() {
			rv.Set(reflect.Zero(t))
			return nil
		}
		if v.Kind() != value.KindArray {
			return mismatch("array")
		}
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			if err := c.decode(v.Index(i), out.Index(i)); err != nil {
				return atPath("["+strconv.Itoa(i)+"]", err)
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		if v.IsNull() {
			return nil
		}
		if v.Kind() != value.KindArray {
			return mismatch("array")
		}
		if v.Len() > t.Len() {
			return mismatch(fmt.Sprintf("array of at most %d items", t.Len()))
		}
		for i := 0; i < v.Len(); i++ {
			if err := c.decode(v.Index(i), rv.Index(i)); err != nil {
				return atPath("["+strconv.Itoa(i)+"]", err)
			}
		}
		return nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return fmt.Errorf("%w: %s: map keys must be strings", ErrUnsupportedType, t)
		}
		if v.IsNull() {
			rv.Set(reflect.Zero(t))
			return nil
		}
		if v.Kind() != value.KindObject {
			return mismatch("object")
		}
		out := reflect.MakeMapWithSize(t, v.Len())
		for _, m := range v.Members() {
			elem := reflect.New(t.Elem()).Elem()
			if err := c.decode(m.Value, elem); err != nil {
				return atPath(m.Key, err)
			}
			out.SetMapIndex(reflect.ValueOf(m.Key).Convert(t.Key()), elem)
		}
		rv.Set(out)
		return nil
	}

	if v.IsNull() {
		return nil
	}

	switch t.Kind() {
	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return mismatch("string")
		}
		rv.SetString(s)
		return nil
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return mismatch("bool")
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Kind() != value.KindNumber {
			return mismatch("integer")
		}
		n, err := strconv.ParseInt(v.Literal(), 10, t.Bits())
		if err != nil {
			return &ShapeMismatchError{Type: typeName(t), Expected: "integer", Actual: "number " + v.Literal()}
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Kind() != value.KindNumber {
			return mismatch("unsigned integer")
		}
		n, err := strconv.ParseUint(v.Literal(), 10, t.Bits())
		if err != nil {
			return &ShapeMismatchError{Type: typeName(t), Expected: "unsigned integer", Actual: "number " + v.Literal()}
		}
		rv.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		if v.Kind() != value.KindNumber {
			return mismatch("number")
		}
		f, err := strconv.ParseFloat(v.Literal(), t.Bits())
		if err != nil {
			return &ShapeMismatchError{Type: typeName(t), Expected: "number", Actual: "number " + v.Literal()}
		}
		rv.SetFloat(f)
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// decodeStruct fills the fields of rv from the members of the object v.
// Unknown members are ignored and absent members leave fields untouched.
func (c *Codec) decodeStruct(v value.Value, rv reflect.Value) error {
	for _, f := range fieldsOf(rv.Type()) {
		fv := rv.Field(f.index)

		if f.inline {
			if err := c.decode(v, fv); err != nil {
				return err
			}
			continue
		}

		member, ok := v.Get(f.name)
		if !ok {
			continue
		}
		if err := c.decode(member, fv); err != nil {
			return atPath(f.name, err)
		}
	}
	return nil
}

func marshalWith(m json.Marshaler) (value.Value, error) {
	raw, err := m.MarshalJSON()
	if err != nil {
		return value.Value{}, err
	}
	return value.Parse(raw)
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	case reflect.Struct:
		if v.Type() == valueType {
			return v.Interface().(value.Value).IsNull()
		}
	}
	return false
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
