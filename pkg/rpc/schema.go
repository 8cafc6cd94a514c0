package rpc

import (
	"reflect"

	"github.com/near/near-jsonrpc-go/pkg/codec"
)

// SumTypes returns the descriptors of every union in the NEAR API.
// Callers extending the schema can append their own and build a registry
// with codec.NewRegistry.
func SumTypes() []*codec.SumType {
	return []*codec.SumType{
		// References
		codec.ByContent[BlockID](
			codec.When[BlockHeight](codec.IsInteger()),
			codec.When[BlockHash](codec.IsString()),
		),
		codec.ByContent[BlockReference](
			codec.When[AtBlock](codec.HasKeys("block_id")),
			codec.When[AtFinality](codec.HasKeys("finality")),
			codec.When[AtSyncCheckpoint](codec.HasKeys("sync_checkpoint")),
		),
		codec.ByContent[ChunkReference](
			codec.When[ChunkInBlock](codec.HasKeys("block_id", "shard_id")),
			codec.When[ChunkByHash](codec.HasKeys("chunk_id")),
		),

		// Queries
		codec.ByField[QueryRequest]("request_type",
			codec.Tagged[ViewAccountRequest]("view_account"),
			codec.Tagged[ViewCodeRequest]("view_code"),
			codec.Tagged[ViewStateRequest]("view_state"),
			codec.Tagged[ViewAccessKeyRequest]("view_access_key"),
			codec.Tagged[ViewAccessKeyListRequest]("view_access_key_list"),
			codec.Tagged[CallFunctionRequest]("call_function"),
			codec.Tagged[ViewGlobalContractCodeRequest]("view_global_contract_code"),
			codec.Tagged[ViewGlobalContractCodeByAccountRequest]("view_global_contract_code_by_account_id"),
		),
		codec.ByContent[QueryResponse](
			codec.When[AccountView](codec.HasKeys("amount", "code_hash")),
			codec.When[ContractCodeView](codec.HasKeys("code_base64")),
			codec.When[ViewStateResult](codec.HasKeys("values")),
			codec.When[CallResult](codec.HasKeys("result", "logs")),
			codec.When[AccessKeyList](codec.HasKeys("keys")),
			codec.When[AccessKeyView](codec.HasKeys("nonce", "permission")),
			codec.When[QueryErrorResult](codec.HasKeys("error")),
		),
		codec.Externally[AccessKeyPermission](
			codec.Tagged[FullAccessPermission]("FullAccess"),
			codec.Tagged[FunctionCallPermission]("FunctionCall"),
		),
		codec.Externally[GlobalContractIdentifier](
			codec.Tagged[GlobalCodeHash]("CodeHash"),
			codec.Tagged[GlobalAccountID]("AccountId"),
		),
		codec.ByContent[GlobalContractIdentifierView](
			codec.When[GlobalCodeHashView](codec.IsString()),
			codec.When[GlobalAccountIDView](codec.IsString()),
		),

		// Transactions
		codec.ByContent[TxStatusRequest](
			codec.When[TxStatusByHash](codec.HasKeys("tx_hash")),
			codec.When[TxStatusBySignedTx](codec.HasKeys("signed_tx_base64")),
		),
		codec.Externally[FinalExecutionStatus](
			codec.BareUnit[TxNotStarted]("NotStarted"),
			codec.BareUnit[TxStarted]("Started"),
			codec.Wrapped[TxFailure]("Failure"),
			codec.Tagged[TxSuccessValue]("SuccessValue"),
		),
		codec.Externally[ExecutionStatus](
			codec.BareUnit[ExecutionUnknown]("Unknown"),
			codec.Wrapped[ExecutionFailure]("Failure"),
			codec.Tagged[ExecutionSuccessValue]("SuccessValue"),
			codec.Tagged[ExecutionSuccessReceiptID]("SuccessReceiptId"),
		),
		codec.Externally[TxExecutionError](
			codec.Tagged[ActionError]("ActionError"),
			codec.Wrapped[InvalidTxError]("InvalidTxError"),
		),
		codec.Externally[ActionView](
			codec.BareUnit[CreateAccountAction]("CreateAccount"),
			codec.Tagged[DeployContractAction]("DeployContract"),
			codec.Tagged[FunctionCallAction]("FunctionCall"),
			codec.Tagged[TransferAction]("Transfer"),
			codec.Tagged[StakeAction]("Stake"),
			codec.Tagged[AddKeyAction]("AddKey"),
			codec.Tagged[DeleteKeyAction]("DeleteKey"),
			codec.Tagged[DeleteAccountAction]("DeleteAccount"),
			codec.Tagged[DelegateAction]("Delegate"),
			codec.Tagged[DeployGlobalContractAction]("DeployGlobalContract"),
			codec.Tagged[DeployGlobalContractByAccountAction]("DeployGlobalContractByAccountId"),
			codec.Tagged[UseGlobalContractAction]("UseGlobalContract"),
			codec.Tagged[UseGlobalContractByAccountAction]("UseGlobalContractByAccountId"),
		),
		codec.Externally[ReceiptEnumView](
			codec.Tagged[ActionReceipt]("Action"),
			codec.Tagged[DataReceipt]("Data"),
			codec.Tagged[GlobalContractDistributionReceipt]("GlobalContractDistribution"),
		),

		// State changes
		codec.ByField[StateChangesRequest]("changes_type",
			codec.Tagged[AccountChangesRequest]("account_changes"),
			codec.Tagged[SingleAccessKeyChangesRequest]("single_access_key_changes"),
			codec.Tagged[AllAccessKeyChangesRequest]("all_access_key_changes"),
			codec.Tagged[ContractCodeChangesRequest]("contract_code_changes"),
			codec.Tagged[DataChangesRequest]("data_changes"),
		),
		codec.ByField[StateChangeCause]("type",
			codec.Tagged[NotWritableToDisk]("not_writable_to_disk"),
			codec.Tagged[InitialState]("initial_state"),
			codec.Tagged[TransactionProcessing]("transaction_processing"),
			codec.Tagged[ActionReceiptProcessingStarted]("action_receipt_processing_started"),
			codec.Tagged[ActionReceiptGasReward]("action_receipt_gas_reward"),
			codec.Tagged[ReceiptProcessing]("receipt_processing"),
			codec.Tagged[PostponedReceipt]("postponed_receipt"),
			codec.Tagged[UpdatedDelayedReceipts]("updated_delayed_receipts"),
			codec.Tagged[ValidatorAccountsUpdate]("validator_accounts_update"),
			codec.Tagged[Migration]("migration"),
			codec.Tagged[BandwidthSchedulerStateUpdate]("bandwidth_scheduler_state_update"),
		),
		codec.ByField[StateChangeKind]("type",
			codec.Tagged[AccountTouched]("account_touched"),
			codec.Tagged[AccessKeyTouched]("access_key_touched"),
			codec.Tagged[DataTouched]("data_touched"),
			codec.Tagged[ContractCodeTouched]("contract_code_touched"),
		),

		// Validators and light client
		codec.ByContent[ValidatorsRequest](
			codec.When[ValidatorsLatest](codec.IsString()),
			codec.When[ValidatorsByEpoch](codec.HasKeys("epoch_id")),
			codec.When[ValidatorsByBlock](codec.HasKeys("block_id")),
		),
		codec.ByField[LightClientProofRequest]("type",
			codec.Tagged[TransactionProofRequest]("transaction"),
			codec.Tagged[ReceiptProofRequest]("receipt"),
		),

		// Errors
		codec.ByField[ErrorKind]("name",
			codec.Tagged[RequestValidationErrorKind]("REQUEST_VALIDATION_ERROR"),
			codec.Tagged[HandlerErrorKind]("HANDLER_ERROR"),
			codec.Tagged[InternalErrorKind]("INTERNAL_ERROR"),
		),
		codec.ByField[RequestValidationError]("name",
			codec.Tagged[MethodNotFound]("METHOD_NOT_FOUND"),
			codec.Tagged[ParseError]("PARSE_ERROR"),
		),
		codec.ByField[InternalError]("name",
			codec.Tagged[InternalServerError]("INTERNAL_ERROR"),
		),
	}
}

// NewSchema builds the registry of all NEAR API unions.
func NewSchema() (*codec.Registry, error) {
	return codec.NewRegistry(SumTypes()...)
}

// Roots lists the request and response shapes of every method. Passing them
// to Registry.Verify checks that every union they reach is registered.
func Roots() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[BlockReference](),
		reflect.TypeFor[BlockView](),
		reflect.TypeFor[ChunkReference](),
		reflect.TypeFor[ChunkView](),
		reflect.TypeFor[StateChangesRequest](),
		reflect.TypeFor[StateChangesResponse](),
		reflect.TypeFor[StateChangesInBlockResponse](),
		reflect.TypeFor[GasPriceRequest](),
		reflect.TypeFor[GasPriceView](),
		reflect.TypeFor[QueryRequest](),
		reflect.TypeFor[QueryResponse](),
		reflect.TypeFor[GlobalContractIdentifier](),
		reflect.TypeFor[SendTxRequest](),
		reflect.TypeFor[TxStatusRequest](),
		reflect.TypeFor[TxResponse](),
		reflect.TypeFor[ReceiptRequest](),
		reflect.TypeFor[ReceiptView](),
		reflect.TypeFor[CongestionLevel](),
		reflect.TypeFor[StatusResponse](),
		reflect.TypeFor[NetworkInfoResponse](),
		reflect.TypeFor[ValidatorsRequest](),
		reflect.TypeFor[EpochValidatorInfo](),
		reflect.TypeFor[ValidatorsOrderedRequest](),
		reflect.TypeFor[[]ValidatorStakeView](),
		reflect.TypeFor[MaintenanceWindowsRequest](),
		reflect.TypeFor[[]BlockRange](),
		reflect.TypeFor[GenesisConfig](),
		reflect.TypeFor[ProtocolConfigView](),
		reflect.TypeFor[SplitStorageInfo](),
		reflect.TypeFor[LightClientProofRequest](),
		reflect.TypeFor[LightClientProofResponse](),
		reflect.TypeFor[LightClientBlockProofRequest](),
		reflect.TypeFor[LightClientBlockProofResponse](),
		reflect.TypeFor[NextLightClientBlockRequest](),
		reflect.TypeFor[LightClientBlockView](),
		reflect.TypeFor[Error](),
		reflect.TypeFor[ErrorKind](),
	}
}
