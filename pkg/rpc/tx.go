package rpc

// TxExecutionStatus is how far a transaction must progress before the node
// replies to send_tx, tx and EXPERIMENTAL_tx_status.
type TxExecutionStatus string

const (
	TxNone               TxExecutionStatus = "NONE"
	TxIncluded           TxExecutionStatus = "INCLUDED"
	TxExecutedOptimistic TxExecutionStatus = "EXECUTED_OPTIMISTIC"
	TxIncludedFinal      TxExecutionStatus = "INCLUDED_FINAL"
	TxExecuted           TxExecutionStatus = "EXECUTED"
	TxFinal              TxExecutionStatus = "FINAL"
)

// ============================================================================
// Requests
// ============================================================================

// SendTxRequest submits a signed transaction.
type SendTxRequest struct {
	SignedTxBase64 string            `json:"signed_tx_base64"`
	WaitUntil      TxExecutionStatus `json:"wait_until,omitempty"`
}

// TxStatusRequest looks a transaction up either by hash and sender or by the
// signed transaction itself.
type TxStatusRequest interface{ isTxStatusRequest() }

// TxStatusByHash looks a transaction up by its hash and signer.
type TxStatusByHash struct {
	TxHash          string            `json:"tx_hash"`
	SenderAccountID string            `json:"sender_account_id"`
	WaitUntil       TxExecutionStatus `json:"wait_until,omitempty"`
}

// TxStatusBySignedTx looks a transaction up by its signed encoding.
type TxStatusBySignedTx struct {
	SignedTxBase64 string            `json:"signed_tx_base64"`
	WaitUntil      TxExecutionStatus `json:"wait_until,omitempty"`
}

func (TxStatusByHash) isTxStatusRequest()     {}
func (TxStatusBySignedTx) isTxStatusRequest() {}

// ReceiptRequest names the receipt for EXPERIMENTAL_receipt.
type ReceiptRequest struct {
	ReceiptID string `json:"receipt_id"`
}

// ============================================================================
// Responses
// ============================================================================

// TxResponse is the result of send_tx, broadcast_tx_commit, tx and
// EXPERIMENTAL_tx_status. Outcome members are absent when the requested
// wait_until level did not include execution.
type TxResponse struct {
	FinalExecutionStatus TxExecutionStatus        `json:"final_execution_status"`
	Status               FinalExecutionStatus     `json:"status,omitempty"`
	Transaction          *SignedTransactionView   `json:"transaction,omitempty"`
	TransactionOutcome   *ExecutionOutcomeWithID  `json:"transaction_outcome,omitempty"`
	ReceiptsOutcome      []ExecutionOutcomeWithID `json:"receipts_outcome,omitempty"`
	Receipts             []ReceiptView            `json:"receipts,omitempty"`
}

// IsFinal reports whether the outcome can no longer change.
func (r TxResponse) IsFinal() bool {
	return r.FinalExecutionStatus == TxFinal
}

// SignedTransactionView is a transaction as included in a chunk.
type SignedTransactionView struct {
	SignerID    string       `json:"signer_id"`
	PublicKey   string       `json:"public_key"`
	Nonce       uint64       `json:"nonce"`
	ReceiverID  string       `json:"receiver_id"`
	Actions     []ActionView `json:"actions"`
	PriorityFee uint64       `json:"priority_fee,omitempty"`
	Signature   string       `json:"signature"`
	Hash        string       `json:"hash"`
}

// ExecutionOutcomeWithID is the outcome of a transaction or receipt.
type ExecutionOutcomeWithID struct {
	ID        string               `json:"id"`
	BlockHash string               `json:"block_hash"`
	Outcome   ExecutionOutcomeView `json:"outcome"`
	Proof     []RawValue           `json:"proof"`
}

// ExecutionOutcomeView describes what executing a transaction or receipt did.
type ExecutionOutcomeView struct {
	Logs        []string        `json:"logs"`
	ReceiptIDs  []string        `json:"receipt_ids"`
	GasBurnt    uint64          `json:"gas_burnt"`
	TokensBurnt Balance         `json:"tokens_burnt"`
	ExecutorID  string          `json:"executor_id"`
	Status      ExecutionStatus `json:"status"`
	Metadata    RawValue        `json:"metadata,omitempty"`
}

// ============================================================================
// Execution Status
// ============================================================================

// FinalExecutionStatus is the overall status of a transaction. NotStarted and
// Started arrive as bare strings, the others as single-key objects.
type FinalExecutionStatus interface{ isFinalExecutionStatus() }

type TxNotStarted struct{}
type TxStarted struct{}

// TxFailure carries the error that aborted the transaction.
type TxFailure struct {
	Error TxExecutionError
}

// TxSuccessValue is the base64 value returned by the last receipt.
type TxSuccessValue string

func (TxNotStarted) isFinalExecutionStatus()   {}
func (TxStarted) isFinalExecutionStatus()      {}
func (TxFailure) isFinalExecutionStatus()      {}
func (TxSuccessValue) isFinalExecutionStatus() {}

// ExecutionStatus is the status of a single transaction or receipt outcome.
type ExecutionStatus interface{ isExecutionStatus() }

type ExecutionUnknown struct{}

// ExecutionFailure carries the error the execution failed with.
type ExecutionFailure struct {
	Error TxExecutionError
}

// ExecutionSuccessValue is the base64 value returned by the execution.
type ExecutionSuccessValue string

// ExecutionSuccessReceiptID is the receipt the execution resolved to.
type ExecutionSuccessReceiptID string

func (ExecutionUnknown) isExecutionStatus()          {}
func (ExecutionFailure) isExecutionStatus()          {}
func (ExecutionSuccessValue) isExecutionStatus()     {}
func (ExecutionSuccessReceiptID) isExecutionStatus() {}

// TxExecutionError is either an action failure or a transaction that was
// rejected before execution.
type TxExecutionError interface{ isTxExecutionError() }

// ActionError locates the failing action. Kind is an externally tagged
// enum with many variants and is kept raw.
type ActionError struct {
	Index *uint64  `json:"index,omitempty"`
	Kind  RawValue `json:"kind"`
}

// InvalidTxError explains why the transaction was rejected.
type InvalidTxError struct {
	Reason RawValue
}

func (ActionError) isTxExecutionError()    {}
func (InvalidTxError) isTxExecutionError() {}

// ============================================================================
// Actions
// ============================================================================

// ActionView is one action of a transaction or action receipt.
type ActionView interface{ isActionView() }

type CreateAccountAction struct{}

type DeployContractAction struct {
	Code string `json:"code"`
}

type FunctionCallAction struct {
	MethodName string  `json:"method_name"`
	Args       string  `json:"args"`
	Gas        uint64  `json:"gas"`
	Deposit    Balance `json:"deposit"`
}

type TransferAction struct {
	Deposit Balance `json:"deposit"`
}

type StakeAction struct {
	Stake     Balance `json:"stake"`
	PublicKey string  `json:"public_key"`
}

type AddKeyAction struct {
	PublicKey string    `json:"public_key"`
	AccessKey AccessKey `json:"access_key"`
}

type DeleteKeyAction struct {
	PublicKey string `json:"public_key"`
}

type DeleteAccountAction struct {
	BeneficiaryID string `json:"beneficiary_id"`
}

// DelegateAction is a meta transaction relayed on behalf of its sender.
type DelegateAction struct {
	DelegateAction RawValue `json:"delegate_action"`
	Signature      string   `json:"signature"`
}

type DeployGlobalContractAction struct {
	Code string `json:"code"`
}

type DeployGlobalContractByAccountAction struct {
	Code string `json:"code"`
}

type UseGlobalContractAction struct {
	CodeHash string `json:"code_hash"`
}

type UseGlobalContractByAccountAction struct {
	AccountID string `json:"account_id"`
}

func (CreateAccountAction) isActionView()                 {}
func (DeployContractAction) isActionView()                {}
func (FunctionCallAction) isActionView()                  {}
func (TransferAction) isActionView()                      {}
func (StakeAction) isActionView()                         {}
func (AddKeyAction) isActionView()                        {}
func (DeleteKeyAction) isActionView()                     {}
func (DeleteAccountAction) isActionView()                 {}
func (DelegateAction) isActionView()                      {}
func (DeployGlobalContractAction) isActionView()          {}
func (DeployGlobalContractByAccountAction) isActionView() {}
func (UseGlobalContractAction) isActionView()             {}
func (UseGlobalContractByAccountAction) isActionView()    {}

// ============================================================================
// Receipts
// ============================================================================

// ReceiptView is the result of EXPERIMENTAL_receipt and the receipts of a chunk.
type ReceiptView struct {
	PredecessorID string          `json:"predecessor_id"`
	ReceiverID    string          `json:"receiver_id"`
	ReceiptID     string          `json:"receipt_id"`
	Receipt       ReceiptEnumView `json:"receipt"`
	Priority      uint64          `json:"priority,omitempty"`
}

// ReceiptEnumView is the body of a receipt.
type ReceiptEnumView interface{ isReceiptEnumView() }

// ActionReceipt executes actions on behalf of a signer.
type ActionReceipt struct {
	SignerID            string       `json:"signer_id"`
	SignerPublicKey     string       `json:"signer_public_key"`
	GasPrice            Balance      `json:"gas_price"`
	OutputDataReceivers []RawValue   `json:"output_data_receivers"`
	InputDataIDs        []string     `json:"input_data_ids"`
	Actions             []ActionView `json:"actions"`
	IsPromiseYield      bool         `json:"is_promise_yield,omitempty"`
}

// DataReceipt delivers the result of a promise.
type DataReceipt struct {
	DataID          string  `json:"data_id"`
	Data            *string `json:"data"`
	IsPromiseResume bool    `json:"is_promise_resume,omitempty"`
}

// GlobalContractDistributionReceipt spreads a global contract across shards.
type GlobalContractDistributionReceipt struct {
	ID                     GlobalContractIdentifierView `json:"id"`
	TargetShard            uint64                       `json:"target_shard"`
	AlreadyDeliveredShards []uint64                     `json:"already_delivered_shards"`
	Code                   string                       `json:"code"`
}

func (ActionReceipt) isReceiptEnumView()                     {}
func (DataReceipt) isReceiptEnumView()                       {}
func (GlobalContractDistributionReceipt) isReceiptEnumView() {}
