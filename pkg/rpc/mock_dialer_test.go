package rpc_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/near/near-jsonrpc-go/pkg/rpc"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// MockHandler answers one method. It returns the whole response object.
type MockHandler func(id, params value.Value) (value.Value, error)

// MockDialer is a Dialer that dispatches requests to registered handlers
// and records every request it sees.
type MockDialer struct {
	mu       sync.Mutex
	handlers map[rpc.Method]MockHandler
	requests []value.Value
}

var _ rpc.Dialer = (*MockDialer)(nil)

func NewMockDialer() *MockDialer {
	return &MockDialer{handlers: make(map[rpc.Method]MockHandler)}
}

// RegisterHandler sets the handler for method.
func (d *MockDialer) RegisterHandler(method rpc.Method, h MockHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[method] = h
}

// RegisterResult answers method with a result given as JSON text.
func (d *MockDialer) RegisterResult(method rpc.Method, resultJSON string) {
	result := value.MustParse(resultJSON)
	d.RegisterHandler(method, func(id, _ value.Value) (value.Value, error) {
		return value.Object(
			value.Field("jsonrpc", value.String(rpc.Version)),
			value.Field("id", id),
			value.Field("result", result),
		), nil
	})
}

// RegisterError answers method with an error object given as JSON text.
func (d *MockDialer) RegisterError(method rpc.Method, errorJSON string) {
	rpcErr := value.MustParse(errorJSON)
	d.RegisterHandler(method, func(id, _ value.Value) (value.Value, error) {
		return value.Object(
			value.Field("jsonrpc", value.String(rpc.Version)),
			value.Field("id", id),
			value.Field("error", rpcErr),
		), nil
	})
}

// Requests returns the requests sent so far.
func (d *MockDialer) Requests() []value.Value {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]value.Value(nil), d.requests...)
}

// LastParams returns the params of the most recent request.
func (d *MockDialer) LastParams() value.Value {
	reqs := d.Requests()
	if len(reqs) == 0 {
		return value.Null()
	}
	params, _ := reqs[len(reqs)-1].Get("params")
	return params
}

func (d *MockDialer) Call(ctx context.Context, req value.Value) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Value{}, err
	}

	d.mu.Lock()
	d.requests = append(d.requests, req)
	method, _ := req.Get("method")
	name, _ := method.AsString()
	h, ok := d.handlers[rpc.Method(name)]
	d.mu.Unlock()

	if !ok {
		return value.Value{}, fmt.Errorf("%w: no handler for %s", rpc.ErrTransport, name)
	}
	id, _ := req.Get("id")
	params, _ := req.Get("params")
	return h(id, params)
}
