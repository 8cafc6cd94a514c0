package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	container "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/near/near-jsonrpc-go/pkg/cache"
	"github.com/near/near-jsonrpc-go/pkg/log"
	"github.com/near/near-jsonrpc-go/pkg/rpc"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

var testCtx = context.Background()

// setupTestPostgres starts a PostgreSQL container and opens a store in a
// dedicated schema, exercising schema creation and migrations.
func setupTestPostgres(t *testing.T) *cache.Store {
	t.Helper()

	pg, err := container.Run(testCtx,
		"postgres:16-alpine",
		container.WithDatabase("postgres"),
		container.WithUsername("postgres"),
		container.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			)))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(testCtx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	url, err := pg.ConnectionString(testCtx, "sslmode=disable")
	require.NoError(t, err)

	store, err := cache.Open(cache.Config{Driver: "postgres", URL: url, Schema: "nearcache"}, log.NewNoopLogger())
	require.NoError(t, err)
	return store
}

// setupTestStore chooses SQLite or Postgres based on TEST_DB_DRIVER
func setupTestStore(t *testing.T) *cache.Store {
	t.Helper()

	var store *cache.Store
	switch os.Getenv("TEST_DB_DRIVER") {
	case "postgres":
		store = setupTestPostgres(t)
	default:
		var err error
		store, err = cache.Open(cache.Config{Driver: "sqlite"}, nil)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_GetPut(t *testing.T) {
	store := setupTestStore(t)

	_, ok, err := store.Get(testCtx, "block", `{"block_id":"h"}`)
	require.NoError(t, err)
	assert.False(t, ok)

	block := value.MustParse(`{"author":"node0","header":{"height":7,"total_supply":"340282366920938463463374607431768211455"}}`)
	require.NoError(t, store.Put(testCtx, "block", `{"block_id":"h"}`, block))

	got, ok, err := store.Get(testCtx, "block", `{"block_id":"h"}`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, block.Equal(got), "got %s", got)
	assert.Equal(t, block.String(), got.String())

	// Same key under another method is a different entry.
	_, ok, err = store.Get(testCtx, "chunk", `{"block_id":"h"}`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PutReplaces(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Put(testCtx, "EXPERIMENTAL_receipt", `{"receipt_id":"r"}`, value.MustParse(`{"v":1}`)))
	require.NoError(t, store.Put(testCtx, "EXPERIMENTAL_receipt", `{"receipt_id":"r"}`, value.MustParse(`{"v":2}`)))

	got, ok, err := store.Get(testCtx, "EXPERIMENTAL_receipt", `{"receipt_id":"r"}`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"v":2}`, got.String())

	n, err := store.Count(testCtx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStore_Purge(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Put(testCtx, "block", "a", value.MustParse(`{}`)))
	require.NoError(t, store.Put(testCtx, "block", "b", value.MustParse(`{}`)))

	removed, err := store.Purge(testCtx, time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)

	removed, err = store.Purge(testCtx, -time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	n, err := store.Count(testCtx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_SqliteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "near.db")
	store, err := cache.Open(cache.Config{Driver: "sqlite", Name: path}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(testCtx, "block", "k", value.MustParse(`[1,2,3]`)))
	require.NoError(t, store.Close())

	store, err = cache.Open(cache.Config{Driver: "sqlite", Name: path}, nil)
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := store.Get(testCtx, "block", "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1,2,3]`, got.String())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := cache.Open(cache.Config{Driver: "mysql"}, nil)
	require.ErrorContains(t, err, "unsupported driver: mysql")
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := cache.Open(cache.Config{Driver: "postgres"}, nil)
	require.ErrorContains(t, err, "connection url")
}

// stubDialer answers every call with the same block.
type stubDialer struct {
	calls int
}

func (d *stubDialer) Call(_ context.Context, req value.Value) (value.Value, error) {
	d.calls++
	id, _ := req.Get("id")
	return value.Object(
		value.Field("jsonrpc", value.String(rpc.Version)),
		value.Field("id", id),
		value.Field("result", value.MustParse(`{"author":"node0","header":{"height":9,"hash":"h9"},"chunks":[]}`)),
	), nil
}

func TestStore_AsClientCache(t *testing.T) {
	store := setupTestStore(t)
	dialer := &stubDialer{}

	client, err := rpc.NewClient(dialer, rpc.WithCache(store))
	require.NoError(t, err)

	for range 2 {
		block, err := client.Block(testCtx, rpc.AtHash("h9"))
		require.NoError(t, err)
		assert.EqualValues(t, 9, block.Header.Height)
	}
	assert.Equal(t, 1, dialer.calls)

	n, err := store.Count(testCtx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
