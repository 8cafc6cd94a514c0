package codec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownVariant is matched by UnknownVariantError.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrMissingDiscriminator is matched by MissingDiscriminatorError.
	ErrMissingDiscriminator = errors.New("missing discriminator")
	// ErrShapeMismatch is matched by ShapeMismatchError.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrMalformedEnvelope is matched by MalformedEnvelopeError.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrUnregisteredVariant is returned when encoding a value whose type is not
	// a variant of the sum type it is stored in. This is a programmer error.
	ErrUnregisteredVariant = errors.New("unregistered variant")
	// ErrUnregisteredType is returned when an interface type has no descriptor.
	ErrUnregisteredType = errors.New("unregistered sum type")
	// ErrInvalidDescriptor is returned by NewRegistry for inconsistent descriptors.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	// ErrUnsupportedType is returned for Go types the binder cannot map to JSON.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrInvalidTarget is returned when Decode is not given a non-nil pointer.
	ErrInvalidTarget = errors.New("decode target must be a non-nil pointer")
)

// UnknownVariantError reports a payload that matched none of the variants of a sum type.
// Observed describes what was seen: the object keys, the bare string or the value kind.
type UnknownVariantError struct {
	Type     string
	Observed string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant in %s: %s", e.Type, e.Observed)
}

func (e *UnknownVariantError) Is(target error) bool { return target == ErrUnknownVariant }

// MissingDiscriminatorError reports an object lacking the field that names its variant.
type MissingDiscriminatorError struct {
	Type  string
	Field string
}

func (e *MissingDiscriminatorError) Error() string {
	return fmt.Sprintf("missing discriminator %q in %s", e.Field, e.Type)
}

func (e *MissingDiscriminatorError) Is(target error) bool { return target == ErrMissingDiscriminator }

// ShapeMismatchError reports a value whose JSON kind differs from the one required.
type ShapeMismatchError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// MalformedEnvelopeError reports a response that is not exactly one of result or error.
type MalformedEnvelopeError struct {
	Reason string
}

func (e *MalformedEnvelopeError) Error() string {
	return "malformed envelope: " + e.Reason
}

func (e *MalformedEnvelopeError) Is(target error) bool { return target == ErrMalformedEnvelope }

// EncodeError reports a value that cannot be represented by its sum type.
type EncodeError struct {
	Type   string
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %s", e.Type, e.Reason)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// pathError prefixes a nested failure with the JSON path at which it happened.
// Wrapping keeps the typed cause reachable through errors.As.
type pathError struct {
	path []string
	err  error
}

func (e *pathError) Error() string {
	return strings.Join(e.path, ".") + ": " + e.err.Error()
}

func (e *pathError) Unwrap() error { return e.err }

// atPath wraps err with one more path segment, merging with an existing pathError.
func atPath(segment string, err error) error {
	if err == nil {
		return nil
	}
	var pe *pathError
	if errors.As(err, &pe) && pe == err {
		return &pathError{path: append([]string{segment}, pe.path...), err: pe.err}
	}
	return &pathError{path: []string{segment}, err: err}
}

// Path returns the JSON path of a decode or encode failure, if one was recorded.
func Path(err error) string {
	var pe *pathError
	if errors.As(err, &pe) {
		return strings.Join(pe.path, ".")
	}
	return ""
}
