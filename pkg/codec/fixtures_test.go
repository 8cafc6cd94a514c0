package codec_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Permission is externally tagged with a null-valued unit variant.
type Permission interface{ isPermission() }

type FullAccess struct{}

type FunctionCall struct {
	Allowance   *decimal.Decimal `json:"allowance,omitempty"`
	ReceiverID  string           `json:"receiver_id"`
	MethodNames []string         `json:"method_names"`
}

func (FullAccess) isPermission()   {}
func (FunctionCall) isPermission() {}

// Rogue implements Permission but is never registered.
type Rogue struct{}

func (Rogue) isPermission() {}

// Status mixes bare-string and null-valued unit variants.
type Status interface{ isStatus() }

type StatusUnknown struct{}
type StatusPending struct{}
type StatusSuccessValue string
type StatusFailure struct {
	Cause value.Value
}

func (StatusUnknown) isStatus()      {}
func (StatusPending) isStatus()      {}
func (StatusSuccessValue) isStatus() {}
func (StatusFailure) isStatus()      {}

// BlockID is sniffed by primitive kind.
type BlockID interface{ isBlockID() }

type BlockHeight uint64
type BlockHash string

func (BlockHeight) isBlockID() {}
func (BlockHash) isBlockID()   {}

// RequestError uses a "name" discriminator.
type RequestError interface{ isRequestError() }

type MethodNotFoundInfo struct {
	MethodName string `json:"method_name"`
}

type MethodNotFound struct {
	Info MethodNotFoundInfo `json:"info"`
}

type ParseErrorInfo struct {
	ErrorMessage string `json:"error_message"`
}

type ParseError struct {
	Info ParseErrorInfo `json:"info"`
}

type Timeout struct{}

func (MethodNotFound) isRequestError() {}
func (ParseError) isRequestError()     {}
func (Timeout) isRequestError()        {}

// Reference is sniffed by key presence.
type Reference interface{ isReference() }

type ByBlockID struct {
	BlockID BlockID `json:"block_id"`
}

type ByFinality struct {
	Finality string `json:"finality"`
}

func (ByBlockID) isReference()  {}
func (ByFinality) isReference() {}

// Query carries a sniffed reference inline next to its discriminator.
type Query interface{ isQuery() }

type ViewAccount struct {
	Reference Reference `json:",inline"`
	AccountID string    `json:"account_id"`
}

type ViewState struct {
	Reference    Reference `json:",inline"`
	AccountID    string    `json:"account_id"`
	Prefix       string    `json:"prefix_base64"`
	IncludeProof bool      `json:"include_proof,omitempty"`
}

func (ViewAccount) isQuery() {}
func (ViewState) isQuery()   {}

// Identifier has two variants selected by the same predicate.
type Identifier interface{ isIdentifier() }

type IdentifierHash string
type IdentifierAccount string

func (IdentifierHash) isIdentifier()    {}
func (IdentifierAccount) isIdentifier() {}

// Account is a plain record exercising the binder.
type Account struct {
	Amount     decimal.Decimal       `json:"amount"`
	Locked     decimal.Decimal       `json:"locked"`
	CodeHash   string                `json:"code_hash"`
	StorageUse uint64                `json:"storage_usage"`
	Paid       *uint64               `json:"storage_paid_at"`
	Labels     map[string]string     `json:"labels,omitempty"`
	Keys       []Permission          `json:"keys,omitempty"`
	Extra      value.Value           `json:"extra,omitempty"`
	Nested     map[string]Permission `json:"nested,omitempty"`
	Ignored    string                `json:"-"`
	internal   string
}

func testSchema() []*codec.SumType {
	return []*codec.SumType{
		codec.Externally[Permission](
			codec.Tagged[FullAccess]("FullAccess"),
			codec.Tagged[FunctionCall]("FunctionCall"),
		),
		codec.Externally[Status](
			codec.BareUnit[StatusUnknown]("Unknown"),
			codec.Tagged[StatusPending]("Pending"),
			codec.Tagged[StatusSuccessValue]("SuccessValue"),
			codec.Wrapped[StatusFailure]("Failure"),
		),
		codec.ByContent[BlockID](
			codec.When[BlockHeight](codec.IsInteger()),
			codec.When[BlockHash](codec.IsString()),
		),
		codec.ByField[RequestError]("name",
			codec.Tagged[MethodNotFound]("METHOD_NOT_FOUND"),
			codec.Tagged[ParseError]("PARSE_ERROR"),
			codec.Tagged[Timeout]("TIMEOUT"),
		),
		codec.ByContent[Reference](
			codec.When[ByBlockID](codec.HasKeys("block_id")),
			codec.When[ByFinality](codec.HasKeys("finality")),
		),
		codec.ByField[Query]("request_type",
			codec.Tagged[ViewAccount]("view_account"),
			codec.Tagged[ViewState]("view_state"),
		),
		codec.ByContent[Identifier](
			codec.When[IdentifierHash](codec.IsString()),
			codec.When[IdentifierAccount](codec.IsString()),
		),
	}
}

func newTestCodec(t *testing.T) *codec.Codec {
	t.Helper()

	reg, err := codec.NewRegistry(testSchema()...)
	require.NoError(t, err)

	return codec.New(reg)
}
