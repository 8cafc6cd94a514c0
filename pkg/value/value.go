// Package value provides an ordered, structural representation of JSON.
//
// Every encoder and decoder in this module operates on a Value rather than on
// raw bytes. A Value is immutable: helpers that "modify" an object return a new
// Value and leave the receiver untouched, so trees can be shared freely between
// goroutines.
//
// Object members keep the order in which they were parsed or constructed, but
// that order is irrelevant for Equal. Numbers keep their literal text so that
// 64-bit and 128-bit quantities survive a round trip unchanged.
package value

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the JSON type held by a Value.
type Kind uint8

const (
	// KindNull is the zero Kind; the zero Value is JSON null.
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Field is shorthand for constructing a Member.
func Field(key string, v Value) Member {
	return Member{Key: key, Value: v}
}

// Value is a node of a JSON tree.
type Value struct {
	kind Kind
	b    bool
	s    string // string content or number literal
	arr  []Value
	obj  []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns a JSON number holding n.
func Int(n int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)} }

// Uint returns a JSON number holding n.
func Uint(n uint64) Value { return Value{kind: KindNumber, s: strconv.FormatUint(n, 10)} }

// Float returns a JSON number holding f in its shortest representation.
func Float(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number returns a JSON number from its literal text.
// The literal must follow the JSON number grammar.
func Number(lit string) (Value, error) {
	if !isNumberLiteral(lit) {
		return Value{}, fmt.Errorf("%w: invalid number literal %q", ErrInvalidJSON, lit)
	}
	return Value{kind: KindNumber, s: lit}, nil
}

// Array returns a JSON array holding items in order.
func Array(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// Object returns a JSON object holding members in order.
// If a key repeats, the last value wins and keeps the position of the first occurrence.
func Object(members ...Member) Value {
	obj := make([]Member, 0, len(members))
	for _, m := range members {
		if i := indexOf(obj, m.Key); i >= 0 {
			obj[i].Value = m.Value
			continue
		}
		obj = append(obj, m)
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Literal returns the literal text of a number, or "" for other kinds.
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.s
}

// IsInteger reports whether v is a number written without a fraction or exponent.
func (v Value) IsInteger() bool {
	if v.kind != KindNumber {
		return false
	}
	return !strings.ContainsAny(v.s, ".eE")
}

// Int64 returns the number held by v if it is an integer that fits in int64.
func (v Value) Int64() (int64, bool) {
	if !v.IsInteger() {
		return 0, false
	}
	n, err := strconv.ParseInt(v.s, 10, 64)
	return n, err == nil
}

// Uint64 returns the number held by v if it is an integer that fits in uint64.
func (v Value) Uint64() (uint64, bool) {
	if !v.IsInteger() {
		return 0, false
	}
	n, err := strconv.ParseUint(v.s, 10, 64)
	return n, err == nil
}

// Float64 returns the number held by v as a float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	return f, err == nil
}

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Index returns the i-th array item, or null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Members returns a copy of the object members in order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Member, len(v.obj))
	copy(out, v.obj)
	return out
}

// Keys returns the object keys in order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.obj))
	for i, m := range v.obj {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the member value stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	if i := indexOf(v.obj, key); i >= 0 {
		return v.obj[i].Value, true
	}
	return Value{}, false
}

// Has reports whether v is an object containing key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// With returns a copy of the object with key set to val.
// An existing key keeps its position; a new key is appended.
func (v Value) With(key string, val Value) Value {
	if v.kind != KindObject {
		return v
	}
	return Object(append(v.Members(), Field(key, val))...)
}

// Without returns a copy of the object with key removed.
func (v Value) Without(key string) Value {
	if v.kind != KindObject {
		return v
	}
	obj := make([]Member, 0, len(v.obj))
	for _, m := range v.obj {
		if m.Key != key {
			obj = append(obj, m)
		}
	}
	return Value{kind: KindObject, obj: obj}
}

// Equal reports whether v and o are structurally equal.
// Object member order is ignored; numbers compare by numeric value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		return numbersEqual(v.s, o.s)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for _, m := range v.obj {
			other, ok := o.Get(m.Key)
			if !ok || !m.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the compact JSON text of v.
func (v Value) String() string {
	return string(v.appendJSON(nil))
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	fa, _, errA := big.ParseFloat(a, 10, 256, big.ToNearestEven)
	fb, _, errB := big.ParseFloat(b, 10, 256, big.ToNearestEven)
	if errA != nil || errB != nil {
		return false
	}
	return fa.Cmp(fb) == 0
}

func indexOf(obj []Member, key string) int {
	for i, m := range obj {
		if m.Key == key {
			return i
		}
	}
	return -1
}
