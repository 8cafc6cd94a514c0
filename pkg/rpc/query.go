package rpc

import (
	"github.com/shopspring/decimal"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Balance is an amount of yoctoNEAR. Balances exceed 64 bits, so they travel
// as decimal strings and are held as arbitrary precision decimals.
type Balance = decimal.Decimal

// RawValue is a member whose structure is not modelled. It keeps the
// received JSON, including number literals, exactly as sent.
type RawValue = value.Value

// ============================================================================
// Query Requests
// ============================================================================

// QueryRequest is the parameter of the query method. The "request_type"
// member selects the variant, and the block reference is carried in the
// same flat object.
//
// Example:
//
//	req := rpc.ViewAccountRequest{Reference: rpc.Final(), AccountID: "alice.near"}
//	// {"request_type":"view_account","finality":"final","account_id":"alice.near"}
type QueryRequest interface{ isQueryRequest() }

// ViewAccountRequest reads the account record.
type ViewAccountRequest struct {
	Reference BlockReference `json:",inline"`
	AccountID string         `json:"account_id"`
}

// ViewCodeRequest reads the deployed contract code.
type ViewCodeRequest struct {
	Reference BlockReference `json:",inline"`
	AccountID string         `json:"account_id"`
}

// ViewStateRequest reads contract storage under a key prefix.
type ViewStateRequest struct {
	Reference    BlockReference `json:",inline"`
	AccountID    string         `json:"account_id"`
	PrefixBase64 string         `json:"prefix_base64"`
	IncludeProof bool           `json:"include_proof,omitempty"`
}

// ViewAccessKeyRequest reads one access key.
type ViewAccessKeyRequest struct {
	Reference BlockReference `json:",inline"`
	AccountID string         `json:"account_id"`
	PublicKey string         `json:"public_key"`
}

// ViewAccessKeyListRequest lists all access keys of an account.
type ViewAccessKeyListRequest struct {
	Reference BlockReference `json:",inline"`
	AccountID string         `json:"account_id"`
}

// CallFunctionRequest runs a view function of a contract.
type CallFunctionRequest struct {
	Reference  BlockReference `json:",inline"`
	AccountID  string         `json:"account_id"`
	MethodName string         `json:"method_name"`
	ArgsBase64 string         `json:"args_base64"`
}

// ViewGlobalContractCodeRequest reads a global contract by code hash.
type ViewGlobalContractCodeRequest struct {
	Reference BlockReference `json:",inline"`
	CodeHash  string         `json:"code_hash"`
}

// ViewGlobalContractCodeByAccountRequest reads a global contract by the
// account that deployed it.
type ViewGlobalContractCodeByAccountRequest struct {
	Reference BlockReference `json:",inline"`
	AccountID string         `json:"account_id"`
}

func (ViewAccountRequest) isQueryRequest()                     {}
func (ViewCodeRequest) isQueryRequest()                        {}
func (ViewStateRequest) isQueryRequest()                       {}
func (ViewAccessKeyRequest) isQueryRequest()                   {}
func (ViewAccessKeyListRequest) isQueryRequest()               {}
func (CallFunctionRequest) isQueryRequest()                    {}
func (ViewGlobalContractCodeRequest) isQueryRequest()          {}
func (ViewGlobalContractCodeByAccountRequest) isQueryRequest() {}

// ============================================================================
// Query Responses
// ============================================================================

// QueryResponse is the result of the query method. It carries no tag; the
// variant is recognised by the members present.
type QueryResponse interface{ isQueryResponse() }

// QueryHeader is the block a query was evaluated at.
type QueryHeader struct {
	BlockHeight uint64 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
}

// AccountView is returned for view_account.
type AccountView struct {
	QueryHeader
	Amount              Balance `json:"amount"`
	Locked              Balance `json:"locked"`
	CodeHash            string  `json:"code_hash"`
	StorageUsage        uint64  `json:"storage_usage"`
	StoragePaidAt       uint64  `json:"storage_paid_at"`
	GlobalCodeHash      *string `json:"global_contract_hash,omitempty"`
	GlobalCodeAccountID *string `json:"global_contract_account_id,omitempty"`
}

// ContractCodeView is returned for view_code and the global contract queries.
type ContractCodeView struct {
	QueryHeader
	CodeBase64 string `json:"code_base64"`
	Hash       string `json:"hash"`
}

// StateItem is one key-value pair of contract storage, both base64 encoded.
type StateItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ViewStateResult is returned for view_state.
type ViewStateResult struct {
	QueryHeader
	Values []StateItem `json:"values"`
	Proof  []string    `json:"proof,omitempty"`
}

// CallResult is returned for call_function. Result holds the raw bytes
// returned by the contract, sent as an array of numbers.
type CallResult struct {
	QueryHeader
	Result []byte   `json:"result"`
	Logs   []string `json:"logs"`
}

// AccessKeyView is returned for view_access_key.
type AccessKeyView struct {
	QueryHeader
	AccessKey
}

// AccessKeyList is returned for view_access_key_list.
type AccessKeyList struct {
	QueryHeader
	Keys []AccessKeyInfoView `json:"keys"`
}

// QueryErrorResult is the legacy form of a failed query, where the node
// reports the failure inside a successful result.
type QueryErrorResult struct {
	QueryHeader
	Error string   `json:"error"`
	Logs  []string `json:"logs"`
}

func (AccountView) isQueryResponse()      {}
func (ContractCodeView) isQueryResponse() {}
func (ViewStateResult) isQueryResponse()  {}
func (CallResult) isQueryResponse()       {}
func (AccessKeyView) isQueryResponse()    {}
func (AccessKeyList) isQueryResponse()    {}
func (QueryErrorResult) isQueryResponse() {}

// ============================================================================
// Access Keys
// ============================================================================

// AccessKey is an access key with its nonce and permission.
type AccessKey struct {
	Nonce      uint64              `json:"nonce"`
	Permission AccessKeyPermission `json:"permission"`
}

// AccessKeyInfoView pairs a public key with its access key.
type AccessKeyInfoView struct {
	PublicKey string    `json:"public_key"`
	AccessKey AccessKey `json:"access_key"`
}

// AccessKeyPermission is externally tagged:
// {"FullAccess":null} or {"FunctionCall":{...}}.
type AccessKeyPermission interface{ isAccessKeyPermission() }

// FullAccessPermission grants unrestricted use of the account.
type FullAccessPermission struct{}

// FunctionCallPermission restricts the key to calling methods of one contract.
// A nil Allowance means the key may spend an unlimited amount on gas.
type FunctionCallPermission struct {
	Allowance   *Balance `json:"allowance"`
	ReceiverID  string   `json:"receiver_id"`
	MethodNames []string `json:"method_names"`
}

func (FullAccessPermission) isAccessKeyPermission()   {}
func (FunctionCallPermission) isAccessKeyPermission() {}

// ============================================================================
// Global Contracts
// ============================================================================

// GlobalContractIdentifier names a global contract, externally tagged:
// {"CodeHash":"..."} or {"AccountId":"..."}.
type GlobalContractIdentifier interface{ isGlobalContractIdentifier() }

// GlobalCodeHash names a global contract by the hash of its code.
type GlobalCodeHash string

// GlobalAccountID names a global contract by the account that deployed it.
type GlobalAccountID string

func (GlobalCodeHash) isGlobalContractIdentifier()  {}
func (GlobalAccountID) isGlobalContractIdentifier() {}

// GlobalContractIdentifierView is the untagged form used inside receipts.
// Both variants are plain strings, so decoding always yields the first one,
// GlobalCodeHashView. Callers that need to tell them apart must use context
// outside the value.
type GlobalContractIdentifierView interface{ isGlobalContractIdentifierView() }

type GlobalCodeHashView string
type GlobalAccountIDView string

func (GlobalCodeHashView) isGlobalContractIdentifierView()  {}
func (GlobalAccountIDView) isGlobalContractIdentifierView() {}

// globalCodeQuery builds the query matching a global contract identifier.
func globalCodeQuery(ref BlockReference, id GlobalContractIdentifier) QueryRequest {
	switch id := id.(type) {
	case GlobalCodeHash:
		return ViewGlobalContractCodeRequest{Reference: ref, CodeHash: string(id)}
	case GlobalAccountID:
		return ViewGlobalContractCodeByAccountRequest{Reference: ref, AccountID: string(id)}
	default:
		panic("rpc: unhandled GlobalContractIdentifier variant")
	}
}
