// Package codec encodes and decodes Go values to and from value.Value trees,
// with first-class support for closed sum types (tagged unions).
//
// A sum type is a Go interface with an unexported marker method, implemented
// by one concrete type per variant. Its wire representation is chosen by a
// descriptor registered in a Registry:
//
//   - Externally: the variant name is the single key of a wrapping object,
//     {"CodeHash":"..."}. Unit variants are {"FullAccess":null}, or the bare
//     string "Unknown" when declared with BareUnit.
//   - ByField: the variant name lives in a designated field of a flat object,
//     {"name":"HANDLER_ERROR","cause":{...}}.
//   - ByContent: there is no tag; matchers are tried in declaration order and
//     the first one that accepts the value selects the variant.
//
// Plain records are bound field by field using encoding/json struct tags.
// Unknown object members are ignored on decode; missing members leave the
// field at its zero value. Types implementing json.Marshaler and
// json.Unmarshaler (for example decimal.Decimal) are delegated to.
//
// A Codec holds nothing but its Registry, so both are safe for concurrent use
// and the codec performs no I/O and never logs. Failures are returned as typed
// errors: UnknownVariantError, MissingDiscriminatorError, ShapeMismatchError,
// MalformedEnvelopeError and EncodeError, each matching its sentinel with
// errors.Is.
//
// Example:
//
//	reg, err := codec.NewRegistry(
//	    codec.ByContent[BlockID](
//	        codec.When[BlockHeight](codec.IsInteger()),
//	        codec.When[BlockHash](codec.IsString()),
//	    ),
//	)
//	if err != nil {
//	    return err
//	}
//	c := codec.New(reg)
//
//	var id BlockID
//	err = c.Decode(value.MustParse(`123456`), &id) // id == BlockHeight(123456)
package codec

import (
	"reflect"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Codec converts between Go values and value trees using a Registry.
type Codec struct {
	reg *Registry
}

// New returns a codec bound to reg.
func New(reg *Registry) *Codec {
	return &Codec{reg: reg}
}

// Registry returns the registry the codec was built with.
func (c *Codec) Registry() *Registry { return c.reg }

// Encode converts v to a value tree. If v is a variant of a registered sum
// type it is tagged accordingly.
func (c *Codec) Encode(v any) (value.Value, error) {
	if v == nil {
		return value.Null(), nil
	}
	return c.encode(reflect.ValueOf(v))
}

// Decode stores the value tree v into the value pointed to by out.
func (c *Codec) Decode(v value.Value, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	return c.decode(v, rv.Elem())
}

// Marshal encodes v and returns its compact JSON text.
func (c *Codec) Marshal(v any) ([]byte, error) {
	tree, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	return tree.MarshalJSON()
}

// Unmarshal parses data and decodes it into out.
func (c *Codec) Unmarshal(data []byte, out any) error {
	tree, err := value.Parse(data)
	if err != nil {
		return err
	}
	return c.Decode(tree, out)
}

// DecodeAs decodes v into a new value of type T.
func DecodeAs[T any](c *Codec, v value.Value) (T, error) {
	var out T
	err := c.Decode(v, &out)
	return out, err
}
