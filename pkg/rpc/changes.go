package rpc

// StateChangesRequest is the parameter of EXPERIMENTAL_changes. The
// "changes_type" member selects the variant; the block reference shares
// the same object.
type StateChangesRequest interface{ isStateChangesRequest() }

// AccountWithPublicKey names one access key.
type AccountWithPublicKey struct {
	AccountID string `json:"account_id"`
	PublicKey string `json:"public_key"`
}

type AccountChangesRequest struct {
	Reference  BlockReference `json:",inline"`
	AccountIDs []string       `json:"account_ids"`
}

type SingleAccessKeyChangesRequest struct {
	Reference BlockReference         `json:",inline"`
	Keys      []AccountWithPublicKey `json:"keys"`
}

type AllAccessKeyChangesRequest struct {
	Reference  BlockReference `json:",inline"`
	AccountIDs []string       `json:"account_ids"`
}

type ContractCodeChangesRequest struct {
	Reference  BlockReference `json:",inline"`
	AccountIDs []string       `json:"account_ids"`
}

type DataChangesRequest struct {
	Reference       BlockReference `json:",inline"`
	AccountIDs      []string       `json:"account_ids"`
	KeyPrefixBase64 string         `json:"key_prefix_base64"`
}

func (AccountChangesRequest) isStateChangesRequest()         {}
func (SingleAccessKeyChangesRequest) isStateChangesRequest() {}
func (AllAccessKeyChangesRequest) isStateChangesRequest()    {}
func (ContractCodeChangesRequest) isStateChangesRequest()    {}
func (DataChangesRequest) isStateChangesRequest()            {}

// StateChangesResponse is the result of EXPERIMENTAL_changes.
type StateChangesResponse struct {
	BlockHash string                 `json:"block_hash"`
	Changes   []StateChangeWithCause `json:"changes"`
}

// StateChangeWithCause is one state change. Type names the kind of change
// (account_update, data_deletion, ...) and Change holds its raw payload.
type StateChangeWithCause struct {
	Cause  StateChangeCause `json:"cause"`
	Type   string           `json:"type"`
	Change RawValue         `json:"change"`
}

// StateChangeCause explains what produced a state change. The "type"
// member selects the variant.
type StateChangeCause interface{ isStateChangeCause() }

type NotWritableToDisk struct{}
type InitialState struct{}

type TransactionProcessing struct {
	TxHash string `json:"tx_hash"`
}

type ActionReceiptProcessingStarted struct {
	ReceiptHash string `json:"receipt_hash"`
}

type ActionReceiptGasReward struct {
	ReceiptHash string `json:"receipt_hash"`
}

type ReceiptProcessing struct {
	ReceiptHash string `json:"receipt_hash"`
}

type PostponedReceipt struct {
	ReceiptHash string `json:"receipt_hash"`
}

type UpdatedDelayedReceipts struct{}
type ValidatorAccountsUpdate struct{}
type Migration struct{}
type BandwidthSchedulerStateUpdate struct{}

func (NotWritableToDisk) isStateChangeCause()              {}
func (InitialState) isStateChangeCause()                   {}
func (TransactionProcessing) isStateChangeCause()          {}
func (ActionReceiptProcessingStarted) isStateChangeCause() {}
func (ActionReceiptGasReward) isStateChangeCause()         {}
func (ReceiptProcessing) isStateChangeCause()              {}
func (PostponedReceipt) isStateChangeCause()               {}
func (UpdatedDelayedReceipts) isStateChangeCause()         {}
func (ValidatorAccountsUpdate) isStateChangeCause()        {}
func (Migration) isStateChangeCause()                      {}
func (BandwidthSchedulerStateUpdate) isStateChangeCause()  {}

// StateChangesInBlockResponse is the result of EXPERIMENTAL_changes_in_block.
type StateChangesInBlockResponse struct {
	BlockHash string            `json:"block_hash"`
	Changes   []StateChangeKind `json:"changes"`
}

// StateChangeKind names an account touched in a block and how.
type StateChangeKind interface{ isStateChangeKind() }

type AccountTouched struct {
	AccountID string `json:"account_id"`
}

type AccessKeyTouched struct {
	AccountID string `json:"account_id"`
}

type DataTouched struct {
	AccountID string `json:"account_id"`
}

type ContractCodeTouched struct {
	AccountID string `json:"account_id"`
}

func (AccountTouched) isStateChangeKind()      {}
func (AccessKeyTouched) isStateChangeKind()    {}
func (DataTouched) isStateChangeKind()         {}
func (ContractCodeTouched) isStateChangeKind() {}

// TouchedAccount returns the account a change kind refers to.
func TouchedAccount(k StateChangeKind) string {
	switch k := k.(type) {
	case AccountTouched:
		return k.AccountID
	case AccessKeyTouched:
		return k.AccountID
	case DataTouched:
		return k.AccountID
	case ContractCodeTouched:
		return k.AccountID
	default:
		panic("rpc: unhandled StateChangeKind variant")
	}
}
