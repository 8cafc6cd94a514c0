package rpc

import (
	"context"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Cache stores results of calls whose answer can never change.
// The client only consults it for such calls; see cacheKey.
type Cache interface {
	// Get returns the stored result for method and key, if any.
	Get(ctx context.Context, method, key string) (value.Value, bool, error)
	// Put stores result under method and key, replacing any previous entry.
	Put(ctx context.Context, method, key string, result value.Value) error
}

// cacheKey reports whether a call may be served from the cache and returns
// the key to use. Blocks and chunks are immutable only when addressed by
// hash; transactions and receipts are looked up by identity.
func cacheKey(method Method, params value.Value) (string, bool) {
	switch method {
	case BlockMethod, BlockEffectsMethod, ExperimentalChangesInBlockMethod:
		if isHash(params, "block_id") {
			return params.String(), true
		}
	case ChunkMethod:
		if params.Has("chunk_id") || (isHash(params, "block_id") && params.Has("shard_id")) {
			return params.String(), true
		}
	case TxMethod, ExperimentalTxStatusMethod:
		if params.Kind() == value.KindObject {
			return params.Without("wait_until").String(), true
		}
	case ExperimentalReceiptMethod:
		if params.Has("receipt_id") {
			return params.String(), true
		}
	}
	return "", false
}

// cacheable reports whether a fresh result may be stored. Transaction
// results are stored only once their outcome is final.
func cacheable(method Method, result value.Value) bool {
	if result.Kind() != value.KindObject {
		return false
	}
	switch method {
	case TxMethod, ExperimentalTxStatusMethod:
		status, _ := result.Get("final_execution_status")
		s, _ := status.AsString()
		return TxExecutionStatus(s) == TxFinal
	default:
		return true
	}
}

func isHash(params value.Value, key string) bool {
	v, ok := params.Get(key)
	return ok && v.Kind() == value.KindString
}
