// Package rpc provides typed access to the NEAR JSON-RPC API.
//
// Requests and responses are modelled as Go structs and sealed interfaces.
// Every union on the wire is declared once in NewSchema and encoded or decoded
// through a codec.Codec, so the same rules apply to every method.
package rpc

// Method is a NEAR JSON-RPC method name.
type Method string

// String returns the method name as sent on the wire.
func (m Method) String() string {
	return string(m)
}

const (
	BlockMethod                             Method = "block"
	BlockEffectsMethod                      Method = "block_effects"
	BroadcastTxAsyncMethod                  Method = "broadcast_tx_async"
	BroadcastTxCommitMethod                 Method = "broadcast_tx_commit"
	ChangesMethod                           Method = "changes"
	ChunkMethod                             Method = "chunk"
	ClientConfigMethod                      Method = "client_config"
	GasPriceMethod                          Method = "gas_price"
	GenesisConfigMethod                     Method = "genesis_config"
	HealthMethod                            Method = "health"
	LightClientProofMethod                  Method = "light_client_proof"
	MaintenanceWindowsMethod                Method = "maintenance_windows"
	NetworkInfoMethod                       Method = "network_info"
	NextLightClientBlockMethod              Method = "next_light_client_block"
	QueryMethod                             Method = "query"
	SendTxMethod                            Method = "send_tx"
	StatusMethod                            Method = "status"
	TxMethod                                Method = "tx"
	ValidatorsMethod                        Method = "validators"
	ExperimentalChangesMethod               Method = "EXPERIMENTAL_changes"
	ExperimentalChangesInBlockMethod        Method = "EXPERIMENTAL_changes_in_block"
	ExperimentalCongestionLevelMethod       Method = "EXPERIMENTAL_congestion_level"
	ExperimentalGenesisConfigMethod         Method = "EXPERIMENTAL_genesis_config"
	ExperimentalLightClientBlockProofMethod Method = "EXPERIMENTAL_light_client_block_proof"
	ExperimentalLightClientProofMethod      Method = "EXPERIMENTAL_light_client_proof"
	ExperimentalMaintenanceWindowsMethod    Method = "EXPERIMENTAL_maintenance_windows"
	ExperimentalProtocolConfigMethod        Method = "EXPERIMENTAL_protocol_config"
	ExperimentalReceiptMethod               Method = "EXPERIMENTAL_receipt"
	ExperimentalSplitStorageInfoMethod      Method = "EXPERIMENTAL_split_storage_info"
	ExperimentalTxStatusMethod              Method = "EXPERIMENTAL_tx_status"
	ExperimentalValidatorsOrderedMethod     Method = "EXPERIMENTAL_validators_ordered"
)

// Methods lists every method the client implements.
var Methods = []Method{
	BlockMethod,
	BlockEffectsMethod,
	BroadcastTxAsyncMethod,
	BroadcastTxCommitMethod,
	ChangesMethod,
	ChunkMethod,
	ClientConfigMethod,
	GasPriceMethod,
	GenesisConfigMethod,
	HealthMethod,
	LightClientProofMethod,
	MaintenanceWindowsMethod,
	NetworkInfoMethod,
	NextLightClientBlockMethod,
	QueryMethod,
	SendTxMethod,
	StatusMethod,
	TxMethod,
	ValidatorsMethod,
	ExperimentalChangesMethod,
	ExperimentalChangesInBlockMethod,
	ExperimentalCongestionLevelMethod,
	ExperimentalGenesisConfigMethod,
	ExperimentalLightClientBlockProofMethod,
	ExperimentalLightClientProofMethod,
	ExperimentalMaintenanceWindowsMethod,
	ExperimentalProtocolConfigMethod,
	ExperimentalReceiptMethod,
	ExperimentalSplitStorageInfoMethod,
	ExperimentalTxStatusMethod,
	ExperimentalValidatorsOrderedMethod,
}
