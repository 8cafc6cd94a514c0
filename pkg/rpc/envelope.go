package rpc

import (
	"fmt"

	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Version is the JSON-RPC protocol version sent with every request.
const Version = "2.0"

// NewRequest builds a JSON-RPC request object. The members are written in
// the order jsonrpc, id, method, params.
func NewRequest(id string, method Method, params value.Value) value.Value {
	return value.Object(
		value.Field("jsonrpc", value.String(Version)),
		value.Field("id", value.String(id)),
		value.Field("method", value.String(method.String())),
		value.Field("params", params),
	)
}

// Envelope is a decoded JSON-RPC response. Exactly one of Result and Error
// is meaningful: Error is nil on success.
type Envelope[T any] struct {
	JSONRPC string
	ID      value.Value
	Result  T
	Error   *Error
}

// IsError reports whether the response carried an error.
func (e Envelope[T]) IsError() bool { return e.Error != nil }

// Unwrap returns the result, or the RPC error as a Go error.
func (e Envelope[T]) Unwrap() (T, error) {
	if e.Error != nil {
		var zero T
		return zero, e.Error
	}
	return e.Result, nil
}

// DecodeEnvelope decodes a response object. A response must be an object
// holding exactly one of "result" and "error"; anything else fails with a
// codec.MalformedEnvelopeError. A present "result" that is null decodes to
// the zero value of T.
func DecodeEnvelope[T any](c *codec.Codec, v value.Value) (Envelope[T], error) {
	var env Envelope[T]

	if v.Kind() != value.KindObject {
		return env, &codec.MalformedEnvelopeError{Reason: "response is " + v.Kind().String() + ", not an object"}
	}

	result, hasResult := v.Get("result")
	errValue, hasError := v.Get("error")
	switch {
	case hasResult && hasError:
		return env, &codec.MalformedEnvelopeError{Reason: "both result and error are present"}
	case !hasResult && !hasError:
		return env, &codec.MalformedEnvelopeError{Reason: "neither result nor error is present"}
	}

	if version, ok := v.Get("jsonrpc"); ok {
		env.JSONRPC, _ = version.AsString()
	}
	env.ID, _ = v.Get("id")

	if hasError {
		if errValue.Kind() != value.KindObject {
			return env, &codec.MalformedEnvelopeError{Reason: "error is " + errValue.Kind().String() + ", not an object"}
		}
		rpcErr := new(Error)
		if err := c.Decode(errValue, rpcErr); err != nil {
			return env, fmt.Errorf("error: %w", err)
		}
		env.Error = rpcErr
		return env, nil
	}

	if err := c.Decode(result, &env.Result); err != nil {
		return env, fmt.Errorf("result: %w", err)
	}
	return env, nil
}
