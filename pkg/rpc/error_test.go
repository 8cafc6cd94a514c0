package rpc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/rpc"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

func decodeError(t *testing.T, c *codec.Codec, text string) *rpc.Error {
	t.Helper()
	rpcErr := new(rpc.Error)
	require.NoError(t, c.Decode(value.MustParse(text), rpcErr))
	return rpcErr
}

func TestError_RequestValidation(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	rpcErr := decodeError(t, c, `{
		"name":"REQUEST_VALIDATION_ERROR",
		"cause":{"name":"METHOD_NOT_FOUND","info":{"method_name":"foo"}},
		"code":-32601,"message":"Method not found","data":"foo"}`)

	assert.Equal(t, "METHOD_NOT_FOUND", rpcErr.CauseName())
	require.NotNil(t, rpcErr.Data)
	assert.Equal(t, `"foo"`, rpcErr.Data.String())

	kind, err := rpcErr.Kind(c)
	require.NoError(t, err)
	assert.Equal(t, rpc.RequestValidationErrorKind{
		Cause: rpc.MethodNotFound{Info: rpc.MethodNotFoundInfo{MethodName: "foo"}},
	}, kind)
}

func TestError_Handler(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	rpcErr := decodeError(t, c, `{
		"name":"HANDLER_ERROR",
		"cause":{"name":"UNKNOWN_ACCOUNT","info":{"requested_account_id":"nobody.near","block_height":1,"block_hash":"h"}},
		"code":-32000,"message":"Server error"}`)

	kind, err := rpcErr.Kind(c)
	require.NoError(t, err)

	handler, ok := kind.(rpc.HandlerErrorKind)
	require.True(t, ok, "got %T", kind)
	assert.Equal(t, "UNKNOWN_ACCOUNT", handler.Name())

	info, _ := handler.Cause.Get("info")
	account, _ := info.Get("requested_account_id")
	assert.Equal(t, `"nobody.near"`, account.String())
}

func TestError_Internal(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	rpcErr := decodeError(t, c, `{
		"name":"INTERNAL_ERROR",
		"cause":{"name":"INTERNAL_ERROR","info":{"error_message":"db closed"}},
		"code":-32000,"message":"Server error"}`)

	kind, err := rpcErr.Kind(c)
	require.NoError(t, err)
	assert.Equal(t, rpc.InternalErrorKind{
		Cause: rpc.InternalServerError{Info: rpc.InternalErrorInfo{ErrorMessage: "db closed"}},
	}, kind)
}

func TestError_LegacyWithoutName(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	rpcErr := decodeError(t, c, `{"code":-32000,"message":"Server error","data":"Block not found"}`)
	assert.Empty(t, rpcErr.CauseName())
	assert.Equal(t, "JSON-RPC error -32000: Server error", rpcErr.Error())

	_, err := rpcErr.Kind(c)
	require.ErrorIs(t, err, codec.ErrMissingDiscriminator)
}

func TestError_UnknownKind(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	rpcErr := decodeError(t, c, `{"name":"TIMEOUT_ERROR","cause":{"name":"TIMEOUT"},"code":-32000,"message":"Server error"}`)

	_, err := rpcErr.Kind(c)
	require.ErrorIs(t, err, codec.ErrUnknownVariant)
	assert.Contains(t, err.Error(), "TIMEOUT_ERROR")
}
