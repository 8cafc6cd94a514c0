package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

var (
	valueType       = reflect.TypeFor[value.Value]()
	marshalerType   = reflect.TypeFor[json.Marshaler]()
	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
)

// Registry maps sum type interfaces to their descriptors.
// It is built once with NewRegistry and never modified afterwards,
// so a single instance may be shared by any number of goroutines.
type Registry struct {
	sums   map[reflect.Type]*SumType
	owners map[reflect.Type]*SumType
}

// NewRegistry validates the descriptors and builds a registry from them.
// Every problem found is reported in the returned error, joined.
func NewRegistry(sums ...*SumType) (*Registry, error) {
	r := &Registry{
		sums:   make(map[reflect.Type]*SumType, len(sums)),
		owners: make(map[reflect.Type]*SumType),
	}

	var errs []error
	for _, st := range sums {
		if st == nil {
			errs = append(errs, fmt.Errorf("%w: nil sum type", ErrInvalidDescriptor))
			continue
		}
		if err := st.compile(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.sums[st.iface]; dup {
			errs = append(errs, fmt.Errorf("%w: %s registered twice", ErrInvalidDescriptor, st.name))
			continue
		}
		r.sums[st.iface] = st

		for _, v := range st.variants {
			if other, taken := r.owners[v.typ]; taken {
				errs = append(errs, fmt.Errorf("%w: %s is a variant of both %s and %s",
					ErrInvalidDescriptor, v.typ, other.name, st.name))
				continue
			}
			r.owners[v.typ] = st
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// Lookup returns the descriptor registered for the interface type t.
func (r *Registry) Lookup(t reflect.Type) (*SumType, bool) {
	st, ok := r.sums[t]
	return st, ok
}

// LookupFor is the generic form of Registry.Lookup.
func LookupFor[I any](r *Registry) (*SumType, bool) {
	return r.Lookup(reflect.TypeFor[I]())
}

// SumTypes returns all registered descriptors ordered by name.
func (r *Registry) SumTypes() []*SumType {
	out := make([]*SumType, 0, len(r.sums))
	for _, st := range r.sums {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b *SumType) int { return strings.Compare(a.name, b.name) })
	return out
}

// Verify walks the given root types, and every registered variant, and fails
// if any reachable interface-typed field has no descriptor. Run it once at
// startup so schema gaps surface before the first request.
func (r *Registry) Verify(roots ...reflect.Type) error {
	seen := make(map[reflect.Type]bool)
	var errs []error

	var walk func(t reflect.Type, from string)
	walk = func(t reflect.Type, from string) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true

		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			walk(t.Elem(), from)
		case reflect.Map:
			if t.Key().Kind() != reflect.String {
				errs = append(errs, fmt.Errorf("%w: %s referenced from %s: map keys must be strings",
					ErrUnsupportedType, t, from))
			}
			walk(t.Elem(), from)
		case reflect.Interface:
			if t.NumMethod() == 0 {
				return
			}
			st, ok := r.sums[t]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %s referenced from %s", ErrUnregisteredType, t, from))
				return
			}
			for _, v := range st.variants {
				walk(v.typ, st.name)
			}
		case reflect.Struct:
			if t == valueType || reflect.PointerTo(t).Implements(unmarshalerType) {
				return
			}
			for _, f := range fieldsOf(t) {
				walk(f.typ, t.Name()+"."+f.name)
			}
		case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
			errs = append(errs, fmt.Errorf("%w: %s referenced from %s", ErrUnsupportedType, t, from))
		}
	}

	for _, root := range roots {
		walk(root, "root")
	}
	for _, st := range r.SumTypes() {
		walk(st.iface, "registry")
	}

	return errors.Join(errs...)
}

// Shadow records a sniffed variant that can never be selected because an
// earlier variant of the same sum type accepts every value it would accept.
type Shadow struct {
	Type   string
	Winner string
	Loser  string
}

func (s Shadow) String() string {
	return fmt.Sprintf("%s: %s shadows %s", s.Type, s.Winner, s.Loser)
}

// Shadowed lists unreachable sniffed variants. First-match-wins still applies
// to them at decode time; the list exists so callers can report the overlap.
func (r *Registry) Shadowed() []Shadow {
	var out []Shadow
	for _, st := range r.SumTypes() {
		if st.discipline != Sniff {
			continue
		}
		for j := 1; j < len(st.variants); j++ {
			for i := 0; i < j; i++ {
				if covers(st.variants[i].matcher, st.variants[j].matcher) {
					out = append(out, Shadow{
						Type:   st.name,
						Winner: st.variants[i].typ.Name(),
						Loser:  st.variants[j].typ.Name(),
					})
					break
				}
			}
		}
	}
	return out
}
