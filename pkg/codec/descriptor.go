package codec

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Discipline is the tagging convention a sum type uses on the wire.
type Discipline uint8

const (
	// External puts the variant name in a single-key wrapping object,
	// or uses the bare string itself for unit variants declared with BareUnit.
	External Discipline = iota + 1
	// Discriminator puts the variant name in a designated field of a flat object.
	Discriminator
	// Sniff has no tag at all; the first matching predicate selects the variant.
	Sniff
)

func (d Discipline) String() string {
	switch d {
	case External:
		return "external"
	case Discriminator:
		return "discriminator"
	case Sniff:
		return "sniff"
	default:
		return fmt.Sprintf("discipline(%d)", uint8(d))
	}
}

// Shape is the payload layout of a variant, inferred from its Go type.
type Shape uint8

const (
	// ShapeUnit is a struct without fields; it carries no payload.
	ShapeUnit Shape = iota + 1
	// ShapeRecord is a struct whose fields are the payload object members.
	ShapeRecord
	// ShapeBare is a single value: either a non-struct type or the one field of a Wrapped struct.
	ShapeBare
)

func (s Shape) String() string {
	switch s {
	case ShapeUnit:
		return "unit"
	case ShapeRecord:
		return "record"
	case ShapeBare:
		return "bare"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Variant describes one alternative of a sum type.
// Build variants with Tagged, BareUnit, Wrapped or When.
type Variant struct {
	typ     reflect.Type
	tag     string
	matcher Matcher
	shape   Shape
	bareTag bool
	wrapped bool
	field   int
	err     error
}

// Type returns the Go type of the variant.
func (v Variant) Type() reflect.Type { return v.typ }

// Tag returns the wire name of the variant; empty for sniffed variants.
func (v Variant) Tag() string { return v.tag }

// Matcher returns the selection predicate of a sniffed variant.
func (v Variant) Matcher() Matcher { return v.matcher }

// Shape returns the payload layout of the variant.
func (v Variant) Shape() Shape { return v.shape }

// Name returns a human readable name used in errors.
func (v Variant) Name() string {
	if v.tag != "" {
		return v.tag
	}
	if v.typ != nil {
		return v.typ.Name()
	}
	return "<nil>"
}

// Tagged declares a variant selected by tag. Under External an empty struct
// encodes as {"tag":null}; any other type encodes as {"tag":payload}.
// Under Discriminator the tag is written to the discriminator field.
func Tagged[V any](tag string) Variant {
	return newVariant(reflect.TypeFor[V](), tag, nil, false)
}

// BareUnit declares a unit variant of an External sum type that is
// written as the bare JSON string "tag" instead of a wrapping object.
func BareUnit[V any](tag string) Variant {
	v := newVariant(reflect.TypeFor[V](), tag, nil, false)
	v.bareTag = true
	if v.err == nil && v.shape != ShapeUnit {
		v.err = fmt.Errorf("bare unit variant %s must be a struct without fields", v.typ)
	}
	return v
}

// Wrapped declares a tagged variant whose struct holds its payload in
// its single field. Use it when the payload is itself a sum type.
func Wrapped[V any](tag string) Variant {
	return newVariant(reflect.TypeFor[V](), tag, nil, true)
}

// When declares a sniffed variant selected by m.
func When[V any](m Matcher) Variant {
	return newVariant(reflect.TypeFor[V](), "", m, false)
}

func newVariant(t reflect.Type, tag string, m Matcher, wrapped bool) Variant {
	v := Variant{typ: t, tag: tag, matcher: m, wrapped: wrapped}

	switch {
	case t.Kind() == reflect.Pointer:
		v.err = fmt.Errorf("variant %s must not be a pointer type", t)
	case wrapped:
		fields := fieldsOf(t)
		if t.Kind() != reflect.Struct || len(fields) != 1 || fields[0].inline {
			v.err = fmt.Errorf("wrapped variant %s must be a struct with exactly one field", t)
			break
		}
		v.shape = ShapeBare
		v.field = fields[0].index
	case t.Kind() == reflect.Struct && len(fieldsOf(t)) == 0:
		v.shape = ShapeUnit
	case t.Kind() == reflect.Struct:
		v.shape = ShapeRecord
	default:
		v.shape = ShapeBare
	}

	return v
}

// SumType is the descriptor of one closed set of variants.
// It is owned by a Registry and immutable once the registry is built.
type SumType struct {
	name       string
	iface      reflect.Type
	discipline Discipline
	field      string
	variants   []Variant

	byTag  map[string]int
	byType map[reflect.Type]int
}

// Externally declares a sum type using the External discipline.
// I must be the interface type implemented by every variant.
func Externally[I any](variants ...Variant) *SumType {
	return newSumType[I](External, "", variants)
}

// ByField declares a sum type using the Discriminator discipline on field.
func ByField[I any](field string, variants ...Variant) *SumType {
	return newSumType[I](Discriminator, field, variants)
}

// ByContent declares a sum type using the Sniff discipline.
// Variants are tried in the order given and the first match wins.
func ByContent[I any](variants ...Variant) *SumType {
	return newSumType[I](Sniff, "", variants)
}

func newSumType[I any](d Discipline, field string, variants []Variant) *SumType {
	t := reflect.TypeFor[I]()
	return &SumType{
		name:       t.Name(),
		iface:      t,
		discipline: d,
		field:      field,
		variants:   slices.Clone(variants),
	}
}

// Name returns the Go name of the sum type interface.
func (st *SumType) Name() string { return st.name }

// Interface returns the sum type interface.
func (st *SumType) Interface() reflect.Type { return st.iface }

// Discipline returns the tagging convention of the sum type.
func (st *SumType) Discipline() Discipline { return st.discipline }

// Field returns the discriminator field name, or "" for other disciplines.
func (st *SumType) Field() string { return st.field }

// Variants returns the variants in declaration order.
func (st *SumType) Variants() []Variant { return slices.Clone(st.variants) }

func (st *SumType) compile() error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if st.iface.Kind() != reflect.Interface {
		fail("%s is not an interface type", st.iface)
	}
	if len(st.variants) == 0 {
		fail("no variants")
	}
	if st.discipline == Discriminator && st.field == "" {
		fail("discriminator field is empty")
	}

	st.byTag = make(map[string]int, len(st.variants))
	st.byType = make(map[reflect.Type]int, len(st.variants))

	for i, v := range st.variants {
		if v.err != nil {
			fail("%v", v.err)
			continue
		}
		if st.iface.Kind() == reflect.Interface && !v.typ.Implements(st.iface) {
			fail("%s does not implement %s", v.typ, st.iface)
		}
		if _, dup := st.byType[v.typ]; dup {
			fail("variant type %s declared twice", v.typ)
		}
		st.byType[v.typ] = i

		switch st.discipline {
		case External, Discriminator:
			if v.tag == "" || v.matcher != nil {
				fail("variant %s must be declared with a tag", v.typ)
				continue
			}
			if _, dup := st.byTag[v.tag]; dup {
				fail("tag %q declared twice", v.tag)
			}
			st.byTag[v.tag] = i
		case Sniff:
			if v.matcher == nil || v.tag != "" {
				fail("variant %s must be declared with a matcher", v.typ)
			}
			if v.shape == ShapeUnit {
				fail("sniffed variant %s has no payload to match", v.typ)
			}
		default:
			fail("unknown discipline %d", st.discipline)
		}

		if v.bareTag && st.discipline != External {
			fail("bare unit variant %s is only valid for external tagging", v.typ)
		}
		if st.discipline == Discriminator {
			if v.shape == ShapeBare {
				fail("variant %s must be a struct to share an object with the discriminator", v.typ)
			}
			for _, f := range fieldsOf(v.typ) {
				if f.name == st.field {
					fail("variant %s declares the discriminator field %q", v.typ, st.field)
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrInvalidDescriptor, st.name, strings.Join(problems, "; "))
	}
	return nil
}

// Matcher is a selection predicate for a sniffed variant.
type Matcher interface {
	Match(v value.Value) bool
	String() string
}

type kindMatcher struct {
	kind    value.Kind
	integer bool
}

// IsInteger matches numbers written without a fraction or exponent.
func IsInteger() Matcher { return kindMatcher{kind: value.KindNumber, integer: true} }

// IsString matches any JSON string.
func IsString() Matcher { return kindMatcher{kind: value.KindString} }

func (m kindMatcher) Match(v value.Value) bool {
	if m.integer {
		return v.IsInteger()
	}
	return v.Kind() == m.kind
}

func (m kindMatcher) String() string {
	if m.integer {
		return "is integer"
	}
	return "is " + m.kind.String()
}

type keysMatcher struct {
	keys []string
}

// HasKeys matches objects containing every one of keys.
// With no keys it matches any object.
func HasKeys(keys ...string) Matcher { return keysMatcher{keys: slices.Clone(keys)} }

// IsObject matches any JSON object.
func IsObject() Matcher { return keysMatcher{} }

func (m keysMatcher) Match(v value.Value) bool {
	if v.Kind() != value.KindObject {
		return false
	}
	for _, k := range m.keys {
		if !v.Has(k) {
			return false
		}
	}
	return true
}

func (m keysMatcher) String() string {
	if len(m.keys) == 0 {
		return "is object"
	}
	return "has keys {" + strings.Join(m.keys, ",") + "}"
}

// covers reports whether every value accepted by b is also accepted by a.
func covers(a, b Matcher) bool {
	switch am := a.(type) {
	case kindMatcher:
		bm, ok := b.(kindMatcher)
		return ok && am.kind == bm.kind && (!am.integer || bm.integer)
	case keysMatcher:
		bm, ok := b.(keysMatcher)
		if !ok {
			return false
		}
		for _, k := range am.keys {
			if !slices.Contains(bm.keys, k) {
				return false
			}
		}
		return true
	}
	return false
}
