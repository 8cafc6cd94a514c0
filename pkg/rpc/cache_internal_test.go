package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

func TestCacheKey(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name   string
		method Method
		params string
		key    string
		ok     bool
	}{
		{"block by hash", BlockMethod, `{"block_id":"8cXk"}`, `{"block_id":"8cXk"}`, true},
		{"block by height", BlockMethod, `{"block_id":100}`, "", false},
		{"block by finality", BlockMethod, `{"finality":"final"}`, "", false},
		{"chunk by hash", ChunkMethod, `{"chunk_id":"c1"}`, `{"chunk_id":"c1"}`, true},
		{"chunk in block hash", ChunkMethod, `{"block_id":"b","shard_id":0}`, `{"block_id":"b","shard_id":0}`, true},
		{"chunk in block height", ChunkMethod, `{"block_id":5,"shard_id":0}`, "", false},
		{"tx drops wait_until", TxMethod, `{"tx_hash":"h","sender_account_id":"a.near","wait_until":"FINAL"}`, `{"tx_hash":"h","sender_account_id":"a.near"}`, true},
		{"receipt", ExperimentalReceiptMethod, `{"receipt_id":"r"}`, `{"receipt_id":"r"}`, true},
		{"query never", QueryMethod, `{"request_type":"view_account","block_id":"b","account_id":"a"}`, "", false},
		{"status never", StatusMethod, `null`, "", false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			key, ok := cacheKey(tc.method, value.MustParse(tc.params))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.key, key)
		})
	}
}

func TestCacheable(t *testing.T) {
	t.Parallel()

	assert.True(t, cacheable(BlockMethod, value.MustParse(`{"author":"a"}`)))
	assert.False(t, cacheable(BlockMethod, value.Null()))
	assert.True(t, cacheable(TxMethod, value.MustParse(`{"final_execution_status":"FINAL"}`)))
	assert.False(t, cacheable(TxMethod, value.MustParse(`{"final_execution_status":"EXECUTED_OPTIMISTIC"}`)))
}

func TestDecodeErrorKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "other", decodeErrorKind(ErrInvalidResponse))
	assert.Equal(t, "unknown_variant", decodeErrorKind(&codec.UnknownVariantError{Type: "ActionView", Observed: `"Teleport"`}))
}
