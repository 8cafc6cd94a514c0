package rpc

import (
	"errors"
	"fmt"

	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Dialer error messages
var (
	ErrNilRequest      = errors.New("nil request")
	ErrTransport       = errors.New("transport failure")
	ErrHTTPStatus      = errors.New("unexpected http status")
	ErrReadResponse    = errors.New("error reading response")
	ErrInvalidResponse = errors.New("invalid response body")
)

// Client error messages
var (
	ErrQueryFailed      = errors.New("query failed")
	ErrUnexpectedResult = errors.New("unexpected query result")
)

// Error is the error member of a JSON-RPC response. Name and Cause are set by
// nodes that report structured errors; Data is the legacy free-form detail.
//
// Error implements the error interface, so a failed call can be inspected
// with errors.As:
//
//	var rpcErr *rpc.Error
//	if errors.As(err, &rpcErr) && rpcErr.CauseName() == "UNKNOWN_BLOCK" {
//	    // retry against an archival node
//	}
type Error struct {
	Code    int64        `json:"code"`
	Message string       `json:"message"`
	Data    *value.Value `json:"data,omitempty"`
	Name    *value.Value `json:"name,omitempty"`
	Cause   *value.Value `json:"cause,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if name := e.CauseName(); name != "" {
		return fmt.Sprintf("JSON-RPC error %d: %s (%s)", e.Code, e.Message, name)
	}
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// CauseName returns the name of the cause, such as "UNKNOWN_ACCOUNT",
// or "" when the node sent no structured cause.
func (e *Error) CauseName() string {
	if e.Cause == nil {
		return ""
	}
	name, _ := e.Cause.Get("name")
	s, _ := name.AsString()
	return s
}

// Kind decodes the structured part of the error into its typed form.
// It fails with codec.ErrMissingDiscriminator when the node sent no name.
func (e *Error) Kind(c *codec.Codec) (ErrorKind, error) {
	members := make([]value.Member, 0, 2)
	if e.Name != nil {
		members = append(members, value.Field("name", *e.Name))
	}
	if e.Cause != nil {
		members = append(members, value.Field("cause", *e.Cause))
	}

	var kind ErrorKind
	if err := c.Decode(value.Object(members...), &kind); err != nil {
		return nil, err
	}
	return kind, nil
}

// ============================================================================
// Structured Error Kinds
// ============================================================================

// ErrorKind is the structured error class, selected by the "name" member.
type ErrorKind interface{ isErrorKind() }

// RequestValidationErrorKind means the request itself was rejected.
type RequestValidationErrorKind struct {
	Cause RequestValidationError `json:"cause"`
}

// HandlerErrorKind means the method ran and failed. The cause is specific to
// each method and is kept raw; its "name" member identifies it.
type HandlerErrorKind struct {
	Cause value.Value `json:"cause"`
}

// Name returns the handler-specific error name, such as "UNKNOWN_BLOCK".
func (k HandlerErrorKind) Name() string {
	name, _ := k.Cause.Get("name")
	s, _ := name.AsString()
	return s
}

// InternalErrorKind means the node failed for reasons of its own.
type InternalErrorKind struct {
	Cause InternalError `json:"cause"`
}

func (RequestValidationErrorKind) isErrorKind() {}
func (HandlerErrorKind) isErrorKind()           {}
func (InternalErrorKind) isErrorKind()          {}

// RequestValidationError is the cause of a RequestValidationErrorKind.
type RequestValidationError interface{ isRequestValidationError() }

type MethodNotFoundInfo struct {
	MethodName string `json:"method_name"`
}

// MethodNotFound means the node does not serve the requested method.
type MethodNotFound struct {
	Info MethodNotFoundInfo `json:"info"`
}

type ParseErrorInfo struct {
	ErrorMessage string `json:"error_message"`
}

// ParseError means the params could not be parsed.
type ParseError struct {
	Info ParseErrorInfo `json:"info"`
}

func (MethodNotFound) isRequestValidationError() {}
func (ParseError) isRequestValidationError()     {}

// InternalError is the cause of an InternalErrorKind.
type InternalError interface{ isInternalError() }

type InternalErrorInfo struct {
	ErrorMessage string `json:"error_message"`
}

// InternalServerError carries the node's description of the failure.
type InternalServerError struct {
	Info InternalErrorInfo `json:"info"`
}

func (InternalServerError) isInternalError() {}
