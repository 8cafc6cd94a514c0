package rpc

// ============================================================================
// Block and Chunk References
// ============================================================================

// BlockID identifies a block either by height or by hash.
// On the wire it is an untagged union: a JSON integer is a height,
// a JSON string is a base58 hash.
type BlockID interface{ isBlockID() }

// BlockHeight selects a block by its height.
type BlockHeight uint64

// BlockHash selects a block by its base58-encoded hash.
type BlockHash string

func (BlockHeight) isBlockID() {}
func (BlockHash) isBlockID()   {}

// Finality is the consensus level a query is evaluated at.
type Finality string

const (
	// FinalityOptimistic uses the latest block the node has seen.
	FinalityOptimistic Finality = "optimistic"
	// FinalityNearFinal uses a block that is very likely to become final.
	FinalityNearFinal Finality = "near-final"
	// FinalityFinal uses the latest final block.
	FinalityFinal Finality = "final"
)

// SyncCheckpoint names a block relative to the node's local history.
type SyncCheckpoint string

const (
	SyncCheckpointGenesis           SyncCheckpoint = "genesis"
	SyncCheckpointEarliestAvailable SyncCheckpoint = "earliest_available"
)

// BlockReference selects the block a request applies to. Exactly one of
// block_id, finality or sync_checkpoint is present on the wire.
type BlockReference interface{ isBlockReference() }

// AtBlock references a block by height or hash.
type AtBlock struct {
	BlockID BlockID `json:"block_id"`
}

// AtFinality references the latest block with the given finality.
type AtFinality struct {
	Finality Finality `json:"finality"`
}

// AtSyncCheckpoint references a block by sync checkpoint.
type AtSyncCheckpoint struct {
	SyncCheckpoint SyncCheckpoint `json:"sync_checkpoint"`
}

func (AtBlock) isBlockReference()          {}
func (AtFinality) isBlockReference()       {}
func (AtSyncCheckpoint) isBlockReference() {}

// Final is shorthand for a reference to the latest final block.
func Final() BlockReference { return AtFinality{Finality: FinalityFinal} }

// Optimistic is shorthand for a reference to the latest optimistic block.
func Optimistic() BlockReference { return AtFinality{Finality: FinalityOptimistic} }

// AtHeight references a block by height.
func AtHeight(height uint64) BlockReference { return AtBlock{BlockID: BlockHeight(height)} }

// AtHash references a block by hash.
func AtHash(hash string) BlockReference { return AtBlock{BlockID: BlockHash(hash)} }

// ChunkReference selects a chunk either by block and shard or by chunk hash.
type ChunkReference interface{ isChunkReference() }

// ChunkInBlock references the chunk of a shard within a block.
type ChunkInBlock struct {
	BlockID BlockID `json:"block_id"`
	ShardID uint64  `json:"shard_id"`
}

// ChunkByHash references a chunk by its hash.
type ChunkByHash struct {
	ChunkID string `json:"chunk_id"`
}

func (ChunkInBlock) isChunkReference() {}
func (ChunkByHash) isChunkReference()  {}

// ============================================================================
// Blocks and Chunks
// ============================================================================

// BlockView is the result of the block method.
type BlockView struct {
	Author string            `json:"author"`
	Header BlockHeaderView   `json:"header"`
	Chunks []ChunkHeaderView `json:"chunks"`
}

// BlockHeaderView carries the commonly used block header fields.
// Members not modelled here are ignored when decoding.
type BlockHeaderView struct {
	Height                uint64               `json:"height"`
	PrevHeight            *uint64              `json:"prev_height,omitempty"`
	EpochID               string               `json:"epoch_id"`
	NextEpochID           string               `json:"next_epoch_id"`
	Hash                  string               `json:"hash"`
	PrevHash              string               `json:"prev_hash"`
	PrevStateRoot         string               `json:"prev_state_root"`
	OutcomeRoot           string               `json:"outcome_root"`
	Timestamp             uint64               `json:"timestamp"`
	TimestampNanosec      string               `json:"timestamp_nanosec"`
	RandomValue           string               `json:"random_value"`
	ChunksIncluded        uint64               `json:"chunks_included"`
	GasPrice              Balance              `json:"gas_price"`
	TotalSupply           Balance              `json:"total_supply"`
	LastFinalBlock        string               `json:"last_final_block"`
	LastDSFinalBlock      string               `json:"last_ds_final_block"`
	NextBPHash            string               `json:"next_bp_hash"`
	BlockMerkleRoot       string               `json:"block_merkle_root"`
	LatestProtocolVersion uint32               `json:"latest_protocol_version"`
	Approvals             []*string            `json:"approvals"`
	Signature             string               `json:"signature"`
	ValidatorProposals    []ValidatorStakeView `json:"validator_proposals,omitempty"`
}

// ChunkHeaderView describes one chunk as included in a block.
type ChunkHeaderView struct {
	ChunkHash            string  `json:"chunk_hash"`
	PrevBlockHash        string  `json:"prev_block_hash"`
	OutcomeRoot          string  `json:"outcome_root"`
	PrevStateRoot        string  `json:"prev_state_root"`
	EncodedMerkleRoot    string  `json:"encoded_merkle_root"`
	EncodedLength        uint64  `json:"encoded_length"`
	HeightCreated        uint64  `json:"height_created"`
	HeightIncluded       uint64  `json:"height_included"`
	ShardID              uint64  `json:"shard_id"`
	GasUsed              uint64  `json:"gas_used"`
	GasLimit             uint64  `json:"gas_limit"`
	BalanceBurnt         Balance `json:"balance_burnt"`
	OutgoingReceiptsRoot string  `json:"outgoing_receipts_root"`
	TxRoot               string  `json:"tx_root"`
	Signature            string  `json:"signature"`
}

// ChunkView is the result of the chunk method.
type ChunkView struct {
	Author       string                  `json:"author"`
	Header       ChunkHeaderView         `json:"header"`
	Transactions []SignedTransactionView `json:"transactions"`
	Receipts     []ReceiptView           `json:"receipts"`
}

// ============================================================================
// Node and Network
// ============================================================================

// StatusResponse is the result of the status method.
type StatusResponse struct {
	ChainID               string          `json:"chain_id"`
	GenesisHash           string          `json:"genesis_hash"`
	LatestProtocolVersion uint32          `json:"latest_protocol_version"`
	ProtocolVersion       uint32          `json:"protocol_version"`
	NodePublicKey         string          `json:"node_public_key"`
	NodeKey               *string         `json:"node_key,omitempty"`
	RPCAddr               *string         `json:"rpc_addr,omitempty"`
	SyncInfo              StatusSyncInfo  `json:"sync_info"`
	UptimeSec             int64           `json:"uptime_sec"`
	Validators            []ValidatorInfo `json:"validators"`
	ValidatorAccountID    *string         `json:"validator_account_id,omitempty"`
	ValidatorPublicKey    *string         `json:"validator_public_key,omitempty"`
	Version               NodeVersion     `json:"version"`
}

// StatusSyncInfo reports how far the node has synced.
type StatusSyncInfo struct {
	LatestBlockHash     string  `json:"latest_block_hash"`
	LatestBlockHeight   uint64  `json:"latest_block_height"`
	LatestStateRoot     string  `json:"latest_state_root"`
	LatestBlockTime     string  `json:"latest_block_time"`
	Syncing             bool    `json:"syncing"`
	EarliestBlockHash   *string `json:"earliest_block_hash,omitempty"`
	EarliestBlockHeight *uint64 `json:"earliest_block_height,omitempty"`
	EarliestBlockTime   *string `json:"earliest_block_time,omitempty"`
	EpochID             *string `json:"epoch_id,omitempty"`
	EpochStartHeight    *uint64 `json:"epoch_start_height,omitempty"`
}

// ValidatorInfo names a validator known to the node.
type ValidatorInfo struct {
	AccountID string `json:"account_id"`
}

// NodeVersion is the build information reported by a node.
type NodeVersion struct {
	Version      string `json:"version"`
	Build        string `json:"build"`
	Commit       string `json:"commit,omitempty"`
	RustcVersion string `json:"rustc_version,omitempty"`
}

// NetworkInfoResponse is the result of the network_info method.
type NetworkInfoResponse struct {
	ActivePeers         []PeerInfo      `json:"active_peers"`
	NumActivePeers      uint32          `json:"num_active_peers"`
	PeerMaxCount        uint32          `json:"peer_max_count"`
	SentBytesPerSec     uint64          `json:"sent_bytes_per_sec"`
	ReceivedBytesPerSec uint64          `json:"received_bytes_per_sec"`
	KnownProducers      []KnownProducer `json:"known_producers"`
}

// PeerInfo describes a connected peer.
type PeerInfo struct {
	ID        string  `json:"id"`
	Addr      *string `json:"addr,omitempty"`
	AccountID *string `json:"account_id,omitempty"`
}

// KnownProducer is a block producer the node knows how to reach.
type KnownProducer struct {
	AccountID string   `json:"account_id"`
	Addr      *string  `json:"addr,omitempty"`
	PeerID    string   `json:"peer_id"`
	NextHops  []string `json:"next_hops,omitempty"`
}

// ============================================================================
// Validators
// ============================================================================

// ValidatorsRequest selects the epoch to report validators for. It is either
// the string "latest", an object with epoch_id, or an object with block_id.
type ValidatorsRequest interface{ isValidatorsRequest() }

// ValidatorsLatest requests the current epoch. Its only valid value is Latest.
type ValidatorsLatest string

// Latest selects the validators of the current epoch.
const Latest ValidatorsLatest = "latest"

// ValidatorsByEpoch requests the validators of a given epoch.
type ValidatorsByEpoch struct {
	EpochID string `json:"epoch_id"`
}

// ValidatorsByBlock requests the validators of the epoch containing a block.
type ValidatorsByBlock struct {
	BlockID BlockID `json:"block_id"`
}

func (ValidatorsLatest) isValidatorsRequest()  {}
func (ValidatorsByEpoch) isValidatorsRequest() {}
func (ValidatorsByBlock) isValidatorsRequest() {}

// EpochValidatorInfo is the result of the validators method.
type EpochValidatorInfo struct {
	CurrentValidators []CurrentEpochValidatorInfo `json:"current_validators"`
	NextValidators    []NextEpochValidatorInfo    `json:"next_validators"`
	CurrentFishermen  []ValidatorStakeView        `json:"current_fishermen,omitempty"`
	NextFishermen     []ValidatorStakeView        `json:"next_fishermen,omitempty"`
	CurrentProposals  []ValidatorStakeView        `json:"current_proposals"`
	PrevEpochKickout  []ValidatorKickoutView      `json:"prev_epoch_kickout"`
	EpochStartHeight  uint64                      `json:"epoch_start_height"`
	EpochHeight       uint64                      `json:"epoch_height"`
}

// CurrentEpochValidatorInfo describes a validator of the current epoch.
type CurrentEpochValidatorInfo struct {
	AccountID         string   `json:"account_id"`
	PublicKey         string   `json:"public_key"`
	IsSlashed         bool     `json:"is_slashed"`
	Stake             Balance  `json:"stake"`
	Shards            []uint64 `json:"shards"`
	NumProducedBlocks uint64   `json:"num_produced_blocks"`
	NumExpectedBlocks uint64   `json:"num_expected_blocks"`
	NumProducedChunks uint64   `json:"num_produced_chunks"`
	NumExpectedChunks uint64   `json:"num_expected_chunks"`
}

// NextEpochValidatorInfo describes a validator elected for the next epoch.
type NextEpochValidatorInfo struct {
	AccountID string   `json:"account_id"`
	PublicKey string   `json:"public_key"`
	Stake     Balance  `json:"stake"`
	Shards    []uint64 `json:"shards"`
}

// ValidatorStakeView is a staking proposal or a validator seat.
type ValidatorStakeView struct {
	AccountID                   string  `json:"account_id"`
	PublicKey                   string  `json:"public_key"`
	Stake                       Balance `json:"stake"`
	ValidatorStakeStructVersion string  `json:"validator_stake_struct_version,omitempty"`
}

// ValidatorKickoutView explains why a validator lost its seat.
// The reason is an externally tagged enum that is kept as a raw value.
type ValidatorKickoutView struct {
	AccountID string   `json:"account_id"`
	Reason    RawValue `json:"reason"`
}

// ValidatorsOrderedRequest selects the block for EXPERIMENTAL_validators_ordered.
type ValidatorsOrderedRequest struct {
	BlockID BlockID `json:"block_id"`
}

// ============================================================================
// Gas, Protocol and Genesis
// ============================================================================

// GasPriceRequest selects the block to report the gas price for.
// A nil BlockID asks for the latest block.
type GasPriceRequest struct {
	BlockID BlockID `json:"block_id"`
}

// GasPriceView is the result of the gas_price method.
type GasPriceView struct {
	GasPrice Balance `json:"gas_price"`
}

// ProtocolConfigView is the result of EXPERIMENTAL_protocol_config.
type ProtocolConfigView struct {
	ProtocolVersion       uint32   `json:"protocol_version"`
	ChainID               string   `json:"chain_id"`
	GenesisTime           string   `json:"genesis_time"`
	GenesisHeight         uint64   `json:"genesis_height"`
	EpochLength           uint64   `json:"epoch_length"`
	NumBlockProducerSeats uint64   `json:"num_block_producer_seats"`
	MinGasPrice           Balance  `json:"min_gas_price"`
	MaxGasPrice           Balance  `json:"max_gas_price"`
	GasLimit              uint64   `json:"gas_limit"`
	ProtocolTreasury      string   `json:"protocol_treasury_account"`
	RuntimeConfig         RawValue `json:"runtime_config"`
	ShardLayout           RawValue `json:"shard_layout,omitempty"`
}

// GenesisConfig is the result of EXPERIMENTAL_genesis_config.
type GenesisConfig struct {
	ProtocolVersion       uint32        `json:"protocol_version"`
	ChainID               string        `json:"chain_id"`
	GenesisTime           string        `json:"genesis_time"`
	GenesisHeight         uint64        `json:"genesis_height"`
	EpochLength           uint64        `json:"epoch_length"`
	NumBlockProducerSeats uint64        `json:"num_block_producer_seats"`
	TotalSupply           Balance       `json:"total_supply"`
	MinGasPrice           Balance       `json:"min_gas_price"`
	MaxGasPrice           Balance       `json:"max_gas_price"`
	GasLimit              uint64        `json:"gas_limit"`
	ProtocolTreasury      string        `json:"protocol_treasury_account"`
	Validators            []AccountInfo `json:"validators"`
	ShardLayout           RawValue      `json:"shard_layout,omitempty"`
}

// AccountInfo is a genesis validator record.
type AccountInfo struct {
	AccountID string  `json:"account_id"`
	PublicKey string  `json:"public_key"`
	Amount    Balance `json:"amount"`
}

// CongestionLevel is the result of EXPERIMENTAL_congestion_level, a number
// between 0 (no congestion) and 1 (fully congested).
type CongestionLevel struct {
	CongestionLevel float64 `json:"congestion_level"`
}

// MaintenanceWindowsRequest names the validator to compute windows for.
type MaintenanceWindowsRequest struct {
	AccountID string `json:"account_id"`
}

// BlockRange is a half-open range of block heights [Start, End).
type BlockRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// SplitStorageInfo is the result of EXPERIMENTAL_split_storage_info.
type SplitStorageInfo struct {
	ColdHeadHeight  *uint64 `json:"cold_head_height,omitempty"`
	FinalHeadHeight *uint64 `json:"final_head_height,omitempty"`
	HeadHeight      *uint64 `json:"head_height,omitempty"`
	HotDBKind       *string `json:"hot_db_kind,omitempty"`
}

// ============================================================================
// Light Client
// ============================================================================

// LightClientProofRequest asks for an execution outcome proof.
// The "type" member selects between transaction and receipt proofs.
type LightClientProofRequest interface{ isLightClientProofRequest() }

// TransactionProofRequest proves the outcome of a transaction.
type TransactionProofRequest struct {
	TransactionHash string `json:"transaction_hash"`
	SenderID        string `json:"sender_id"`
	LightClientHead string `json:"light_client_head"`
}

// ReceiptProofRequest proves the outcome of a receipt.
type ReceiptProofRequest struct {
	ReceiptID       string `json:"receipt_id"`
	ReceiverID      string `json:"receiver_id"`
	LightClientHead string `json:"light_client_head"`
}

func (TransactionProofRequest) isLightClientProofRequest() {}
func (ReceiptProofRequest) isLightClientProofRequest()     {}

// LightClientProofResponse is the result of EXPERIMENTAL_light_client_proof.
type LightClientProofResponse struct {
	OutcomeProof     RawValue   `json:"outcome_proof"`
	OutcomeRootProof []RawValue `json:"outcome_root_proof"`
	BlockHeaderLite  RawValue   `json:"block_header_lite"`
	BlockProof       []RawValue `json:"block_proof"`
}

// LightClientBlockProofRequest asks for a proof that a block is part of the chain.
type LightClientBlockProofRequest struct {
	BlockHash       string `json:"block_hash"`
	LightClientHead string `json:"light_client_head"`
}

// LightClientBlockProofResponse is the result of EXPERIMENTAL_light_client_block_proof.
type LightClientBlockProofResponse struct {
	BlockHeaderLite RawValue   `json:"block_header_lite"`
	BlockProof      []RawValue `json:"block_proof"`
}

// NextLightClientBlockRequest names the last block the light client knows.
type NextLightClientBlockRequest struct {
	LastBlockHash string `json:"last_block_hash"`
}

// LightClientBlockView is the result of next_light_client_block. It is empty
// when the light client is already at the head.
type LightClientBlockView struct {
	PrevBlockHash      string     `json:"prev_block_hash,omitempty"`
	NextBlockInnerHash string     `json:"next_block_inner_hash,omitempty"`
	InnerLite          RawValue   `json:"inner_lite,omitempty"`
	InnerRestHash      string     `json:"inner_rest_hash,omitempty"`
	NextBPs            []RawValue `json:"next_bps,omitempty"`
	ApprovalsAfterNext []*string  `json:"approvals_after_next,omitempty"`
}

// IsEmpty reports whether the node had no newer light client block.
func (b LightClientBlockView) IsEmpty() bool {
	return b.PrevBlockHash == "" && b.InnerLite.IsNull()
}
