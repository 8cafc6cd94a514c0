package rpc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/log"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

const tracerName = "near-jsonrpc"

// Client provides typed access to a NEAR JSON-RPC endpoint.
// It wraps a Dialer and a codec built from NewSchema, and is safe for
// concurrent use.
//
// A call fails with one of three kinds of error:
//   - *Error when the node answered with a JSON-RPC error;
//   - a codec error (codec.ErrUnknownVariant, codec.ErrShapeMismatch, ...)
//     when the response does not fit the expected shape;
//   - a transport error from the Dialer (ErrTransport, ErrHTTPStatus, ...).
//
// Example:
//
//	dialer := rpc.NewHTTPDialer("https://rpc.testnet.near.org", rpc.DefaultHTTPDialerConfig)
//	client, err := rpc.NewClient(dialer, rpc.WithLogger(lg))
//	if err != nil {
//	    return err
//	}
//
//	account, err := client.ViewAccount(ctx, "alice.testnet", rpc.Final())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(account.Amount)
type Client struct {
	dialer  Dialer
	codec   *codec.Codec
	logger  log.Logger
	metrics *Metrics
	cache   Cache
	tracer  trace.Tracer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRegistry makes the client use reg instead of NewSchema. The registry
// must still describe every union reachable from Roots.
func WithRegistry(reg *codec.Registry) ClientOption {
	return func(c *Client) { c.codec = codec.New(reg) }
}

// WithLogger sets the logger used for per-call and startup messages.
func WithLogger(lg log.Logger) ClientOption {
	return func(c *Client) { c.logger = lg }
}

// WithMetrics makes the client record Prometheus metrics.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithCache makes the client serve immutable lookups from cache.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

// WithTracerProvider sets the provider the client takes its tracer from.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// NewClient creates a client sending requests through dialer.
//
// The schema is checked before the client is returned: every union reachable
// from a request or response shape must be registered, or NewClient fails.
// Sniffed variants that can never be selected are logged at Warn.
func NewClient(dialer Dialer, opts ...ClientOption) (*Client, error) {
	c := &Client{
		dialer: dialer,
		logger: log.NewNoopLogger(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.codec == nil {
		reg, err := NewSchema()
		if err != nil {
			return nil, fmt.Errorf("build schema: %w", err)
		}
		c.codec = codec.New(reg)
	}

	reg := c.codec.Registry()
	if err := reg.Verify(Roots()...); err != nil {
		return nil, fmt.Errorf("schema self-test: %w", err)
	}
	for _, s := range reg.Shadowed() {
		c.logger.Warn("sniffed variant can never be decoded", "type", s.Type, "winner", s.Winner, "shadowed", s.Loser)
	}

	return c, nil
}

// Codec returns the codec the client encodes and decodes with.
func (c *Client) Codec() *codec.Codec { return c.codec }

// Call invokes an arbitrary method. Params are encoded with the client's
// codec (a value.Value is sent as is) and the result is decoded into out,
// which must be a non-nil pointer.
//
// Example:
//
//	var out value.Value
//	err := client.Call(ctx, rpc.StatusMethod, nil, &out)
func (c *Client) Call(ctx context.Context, method Method, params, out any) error {
	return c.do(ctx, method, params, func(result value.Value) error {
		return c.codec.Decode(result, out)
	})
}

// call performs one request and decodes its result into T.
func call[T any](ctx context.Context, c *Client, method Method, params any) (T, error) {
	var out T
	err := c.do(ctx, method, params, func(result value.Value) error {
		decoded, err := codec.DecodeAs[T](c.codec, result)
		if err != nil {
			return err
		}
		out = decoded
		return nil
	})
	return out, err
}

// do performs one request and hands its result to decode. The call counts as
// successful only once decode accepts the result.
func (c *Client) do(ctx context.Context, method Method, params any, decode func(value.Value) error) error {
	ctx, span := c.tracer.Start(ctx, "near.rpc/"+method.String(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("rpc.system", "jsonrpc"), attribute.String("rpc.method", method.String())))
	defer span.End()

	ctx = log.SetContextLogger(ctx, c.logger.WithKV("method", method.String()))
	lg := log.FromContext(ctx)
	start := time.Now()

	fail := func(outcome string, err error) error {
		c.metrics.observe(method, outcome, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return err
	}

	paramsValue, err := c.codec.Encode(params)
	if err != nil {
		lg.Warn("unencodable params", "error", err, "path", codec.Path(err))
		return fail(outcomeEncode, fmt.Errorf("%s params: %w", method, err))
	}

	key, lookup := cacheKey(method, paramsValue)
	lookup = lookup && c.cache != nil
	if lookup {
		if cached, ok := c.fromCache(ctx, method, key); ok {
			err := decode(cached)
			if err == nil {
				lg.Debug("served from cache")
				c.metrics.observe(method, outcomeCacheHit, time.Since(start))
				return nil
			}
			lg.Warn("ignoring undecodable cache entry", "error", err)
		}
	}

	req := NewRequest(uuid.NewString(), method, paramsValue)
	res, err := c.dialer.Call(ctx, req)
	if err != nil {
		lg.Warn("request failed", "error", err)
		return fail(outcomeTransport, err)
	}

	env, err := DecodeEnvelope[value.Value](c.codec, res)
	if err != nil {
		lg.Warn("undecodable response", "error", err, "path", codec.Path(err))
		c.metrics.decodeFailed(method, err)
		return fail(outcomeDecode, fmt.Errorf("%s: %w", method, err))
	}
	if env.Error != nil {
		lg.Debug("node returned an error", "code", env.Error.Code, "message", env.Error.Message, "cause", env.Error.CauseName())
		return fail(outcomeRPCError, env.Error)
	}

	if err := decode(env.Result); err != nil {
		lg.Warn("undecodable result", "error", err, "path", codec.Path(err))
		c.metrics.decodeFailed(method, err)
		return fail(outcomeDecode, fmt.Errorf("%s: result: %w", method, err))
	}

	if lookup && cacheable(method, env.Result) {
		if err := c.cache.Put(ctx, method.String(), key, env.Result); err != nil {
			lg.Warn("failed to store result in cache", "error", err)
		}
	}

	c.metrics.observe(method, outcomeOK, time.Since(start))
	lg.Debug("request completed", "elapsed", time.Since(start))
	return nil
}

func (c *Client) fromCache(ctx context.Context, method Method, key string) (value.Value, bool) {
	cached, ok, err := c.cache.Get(ctx, method.String(), key)
	if err != nil {
		log.FromContext(ctx).Warn("cache lookup failed", "error", err)
		return value.Value{}, false
	}
	return cached, ok
}

// ============================================================================
// Blocks and Chunks
// ============================================================================

// Block returns the block selected by ref.
//
// Example:
//
//	block, err := client.Block(ctx, rpc.AtHeight(120_000_000))
func (c *Client) Block(ctx context.Context, ref BlockReference) (BlockView, error) {
	return call[BlockView](ctx, c, BlockMethod, ref)
}

// BlockEffects lists the accounts whose state changed in a block.
func (c *Client) BlockEffects(ctx context.Context, ref BlockReference) (StateChangesInBlockResponse, error) {
	return call[StateChangesInBlockResponse](ctx, c, BlockEffectsMethod, ref)
}

// Chunk returns the chunk selected by ref.
func (c *Client) Chunk(ctx context.Context, ref ChunkReference) (ChunkView, error) {
	return call[ChunkView](ctx, c, ChunkMethod, ref)
}

// Changes returns the state changes matching req.
func (c *Client) Changes(ctx context.Context, req StateChangesRequest) (StateChangesResponse, error) {
	return call[StateChangesResponse](ctx, c, ChangesMethod, req)
}

// ExperimentalChanges is the EXPERIMENTAL_ form of Changes.
func (c *Client) ExperimentalChanges(ctx context.Context, req StateChangesRequest) (StateChangesResponse, error) {
	return call[StateChangesResponse](ctx, c, ExperimentalChangesMethod, req)
}

// ExperimentalChangesInBlock is the EXPERIMENTAL_ form of BlockEffects.
func (c *Client) ExperimentalChangesInBlock(ctx context.Context, ref BlockReference) (StateChangesInBlockResponse, error) {
	return call[StateChangesInBlockResponse](ctx, c, ExperimentalChangesInBlockMethod, ref)
}

// GasPrice returns the gas price at a block. A nil id selects the latest block.
func (c *Client) GasPrice(ctx context.Context, id BlockID) (GasPriceView, error) {
	return call[GasPriceView](ctx, c, GasPriceMethod, GasPriceRequest{BlockID: id})
}

// ExperimentalCongestionLevel returns the congestion level of a shard.
func (c *Client) ExperimentalCongestionLevel(ctx context.Context, ref ChunkReference) (CongestionLevel, error) {
	return call[CongestionLevel](ctx, c, ExperimentalCongestionLevelMethod, ref)
}

// ============================================================================
// Queries
// ============================================================================

// Query runs a view request. The concrete response type depends on the
// request: AccountView for ViewAccountRequest, CallResult for
// CallFunctionRequest and so on. Nodes that report query failures inside
// the result produce a QueryErrorResult.
func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	return call[QueryResponse](ctx, c, QueryMethod, req)
}

// ViewAccount returns the account record of accountID.
func (c *Client) ViewAccount(ctx context.Context, accountID string, ref BlockReference) (AccountView, error) {
	return queryAs[AccountView](ctx, c, ViewAccountRequest{Reference: ref, AccountID: accountID})
}

// ViewAccessKeyList returns every access key of accountID.
func (c *Client) ViewAccessKeyList(ctx context.Context, accountID string, ref BlockReference) (AccessKeyList, error) {
	return queryAs[AccessKeyList](ctx, c, ViewAccessKeyListRequest{Reference: ref, AccountID: accountID})
}

// ViewAccessKey returns one access key of accountID.
func (c *Client) ViewAccessKey(ctx context.Context, accountID, publicKey string, ref BlockReference) (AccessKeyView, error) {
	return queryAs[AccessKeyView](ctx, c, ViewAccessKeyRequest{Reference: ref, AccountID: accountID, PublicKey: publicKey})
}

// ViewCode returns the contract deployed on accountID.
func (c *Client) ViewCode(ctx context.Context, accountID string, ref BlockReference) (ContractCodeView, error) {
	return queryAs[ContractCodeView](ctx, c, ViewCodeRequest{Reference: ref, AccountID: accountID})
}

// ViewGlobalContractCode returns a global contract by code hash or by
// deploying account, depending on the variant of id.
func (c *Client) ViewGlobalContractCode(ctx context.Context, id GlobalContractIdentifier, ref BlockReference) (ContractCodeView, error) {
	return queryAs[ContractCodeView](ctx, c, globalCodeQuery(ref, id))
}

// CallFunction runs the view method of contractID with args, which are
// usually JSON, and returns what the contract returned.
//
// Example:
//
//	res, err := client.CallFunction(ctx, "wrap.near", "ft_balance_of",
//	    []byte(`{"account_id":"alice.near"}`), rpc.Final())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(string(res.Result))
func (c *Client) CallFunction(ctx context.Context, contractID, method string, args []byte, ref BlockReference) (CallResult, error) {
	return queryAs[CallResult](ctx, c, CallFunctionRequest{
		Reference:  ref,
		AccountID:  contractID,
		MethodName: method,
		ArgsBase64: base64.StdEncoding.EncodeToString(args),
	})
}

// queryAs runs a query and narrows the response to the variant T.
func queryAs[T QueryResponse](ctx context.Context, c *Client, req QueryRequest) (T, error) {
	var zero T
	res, err := c.Query(ctx, req)
	if err != nil {
		return zero, err
	}

	switch res := res.(type) {
	case T:
		return res, nil
	case QueryErrorResult:
		return zero, fmt.Errorf("%w: %s", ErrQueryFailed, res.Error)
	default:
		return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedResult, res, zero)
	}
}

// ============================================================================
// Transactions
// ============================================================================

// SendTx submits a signed transaction and waits until req.WaitUntil.
func (c *Client) SendTx(ctx context.Context, req SendTxRequest) (TxResponse, error) {
	return call[TxResponse](ctx, c, SendTxMethod, req)
}

// BroadcastTxAsync submits a signed transaction without waiting and returns
// its hash.
func (c *Client) BroadcastTxAsync(ctx context.Context, signedTxBase64 string) (string, error) {
	return call[string](ctx, c, BroadcastTxAsyncMethod, SendTxRequest{SignedTxBase64: signedTxBase64})
}

// BroadcastTxCommit submits a signed transaction and waits for its execution.
func (c *Client) BroadcastTxCommit(ctx context.Context, signedTxBase64 string) (TxResponse, error) {
	return call[TxResponse](ctx, c, BroadcastTxCommitMethod, SendTxRequest{SignedTxBase64: signedTxBase64})
}

// Tx returns the status of a transaction.
func (c *Client) Tx(ctx context.Context, req TxStatusRequest) (TxResponse, error) {
	return call[TxResponse](ctx, c, TxMethod, req)
}

// ExperimentalTxStatus is Tx with the receipts included in the response.
func (c *Client) ExperimentalTxStatus(ctx context.Context, req TxStatusRequest) (TxResponse, error) {
	return call[TxResponse](ctx, c, ExperimentalTxStatusMethod, req)
}

// ExperimentalReceipt returns a receipt by id.
func (c *Client) ExperimentalReceipt(ctx context.Context, receiptID string) (ReceiptView, error) {
	return call[ReceiptView](ctx, c, ExperimentalReceiptMethod, ReceiptRequest{ReceiptID: receiptID})
}

// ============================================================================
// Network and Node
// ============================================================================

// Status returns the node status.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	return call[StatusResponse](ctx, c, StatusMethod, nil)
}

// Health returns nil when the node considers itself healthy.
func (c *Client) Health(ctx context.Context) error {
	_, err := call[value.Value](ctx, c, HealthMethod, nil)
	return err
}

// NetworkInfo returns the peers of the node.
func (c *Client) NetworkInfo(ctx context.Context) (NetworkInfoResponse, error) {
	return call[NetworkInfoResponse](ctx, c, NetworkInfoMethod, nil)
}

// ClientConfig returns the node's client configuration as sent.
func (c *Client) ClientConfig(ctx context.Context) (value.Value, error) {
	return call[value.Value](ctx, c, ClientConfigMethod, nil)
}

// ExperimentalSplitStorageInfo reports the hot and cold storage heads of an
// archival node.
func (c *Client) ExperimentalSplitStorageInfo(ctx context.Context) (SplitStorageInfo, error) {
	return call[SplitStorageInfo](ctx, c, ExperimentalSplitStorageInfoMethod, struct{}{})
}

// ============================================================================
// Validators
// ============================================================================

// Validators returns the validators of an epoch. A nil req selects the
// current epoch.
func (c *Client) Validators(ctx context.Context, req ValidatorsRequest) (EpochValidatorInfo, error) {
	if req == nil {
		req = Latest
	}
	return call[EpochValidatorInfo](ctx, c, ValidatorsMethod, req)
}

// ExperimentalValidatorsOrdered returns the block producers of the epoch
// containing id, in order. A nil id selects the latest block.
func (c *Client) ExperimentalValidatorsOrdered(ctx context.Context, id BlockID) ([]ValidatorStakeView, error) {
	return call[[]ValidatorStakeView](ctx, c, ExperimentalValidatorsOrderedMethod, ValidatorsOrderedRequest{BlockID: id})
}

// MaintenanceWindows returns the block ranges in the current epoch during
// which accountID has no block or chunk to produce.
func (c *Client) MaintenanceWindows(ctx context.Context, accountID string) ([]BlockRange, error) {
	return call[[]BlockRange](ctx, c, MaintenanceWindowsMethod, MaintenanceWindowsRequest{AccountID: accountID})
}

// ExperimentalMaintenanceWindows is the EXPERIMENTAL_ form of MaintenanceWindows.
func (c *Client) ExperimentalMaintenanceWindows(ctx context.Context, accountID string) ([]BlockRange, error) {
	return call[[]BlockRange](ctx, c, ExperimentalMaintenanceWindowsMethod, MaintenanceWindowsRequest{AccountID: accountID})
}

// ============================================================================
// Protocol and Genesis
// ============================================================================

// GenesisConfig returns the genesis configuration.
func (c *Client) GenesisConfig(ctx context.Context) (GenesisConfig, error) {
	return call[GenesisConfig](ctx, c, GenesisConfigMethod, nil)
}

// ExperimentalGenesisConfig is the EXPERIMENTAL_ form of GenesisConfig.
func (c *Client) ExperimentalGenesisConfig(ctx context.Context) (GenesisConfig, error) {
	return call[GenesisConfig](ctx, c, ExperimentalGenesisConfigMethod, nil)
}

// ExperimentalProtocolConfig returns the protocol configuration in effect at ref.
func (c *Client) ExperimentalProtocolConfig(ctx context.Context, ref BlockReference) (ProtocolConfigView, error) {
	return call[ProtocolConfigView](ctx, c, ExperimentalProtocolConfigMethod, ref)
}

// ============================================================================
// Light Client
// ============================================================================

// LightClientProof returns a proof of a transaction or receipt outcome.
func (c *Client) LightClientProof(ctx context.Context, req LightClientProofRequest) (LightClientProofResponse, error) {
	return call[LightClientProofResponse](ctx, c, LightClientProofMethod, req)
}

// ExperimentalLightClientProof is the EXPERIMENTAL_ form of LightClientProof.
func (c *Client) ExperimentalLightClientProof(ctx context.Context, req LightClientProofRequest) (LightClientProofResponse, error) {
	return call[LightClientProofResponse](ctx, c, ExperimentalLightClientProofMethod, req)
}

// ExperimentalLightClientBlockProof proves that a block belongs to the chain
// known to a light client.
func (c *Client) ExperimentalLightClientBlockProof(ctx context.Context, req LightClientBlockProofRequest) (LightClientBlockProofResponse, error) {
	return call[LightClientBlockProofResponse](ctx, c, ExperimentalLightClientBlockProofMethod, req)
}

// NextLightClientBlock returns the next light client block after
// lastBlockHash. The result is empty when there is none yet.
func (c *Client) NextLightClientBlock(ctx context.Context, lastBlockHash string) (LightClientBlockView, error) {
	return call[LightClientBlockView](ctx, c, NextLightClientBlockMethod, NextLightClientBlockRequest{LastBlockHash: lastBlockHash})
}

// IsRPCError reports whether err is, or wraps, a JSON-RPC error response.
func IsRPCError(err error) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr)
}
