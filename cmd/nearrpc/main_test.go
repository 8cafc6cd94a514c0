package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/near/near-jsonrpc-go/pkg/cache"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// fakeNode answers every request with the same response body and keeps the
// requests it saw.
type fakeNode struct {
	mu       sync.Mutex
	response string
	requests []value.Value
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req, err := value.Parse(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.requests = append(n.requests, req)
	n.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, n.response)
}

func (n *fakeNode) lastRequest(t *testing.T) value.Value {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.requests)
	return n.requests[len(n.requests)-1]
}

func (n *fakeNode) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.requests)
}

func startNode(t *testing.T, response string) (*fakeNode, string) {
	t.Helper()
	node := &fakeNode{response: response}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return node, srv.URL
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--env-dir", t.TempDir()}, args...)
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const blockResponse = `{"jsonrpc":"2.0","id":"x","result":{"author":"node0","header":{"height":7,"hash":"h7"},"chunks":[]}}`

func TestRun_Block(t *testing.T) {
	node, url := startNode(t, blockResponse)

	code, stdout, stderr := runCLI(t, "", "--url", url, "block", `{"finality":"final"}`)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `"author": "node0"`)
	assert.Contains(t, stdout, `"height": 7`)

	req := node.lastRequest(t)
	method, _ := req.Get("method")
	assert.Equal(t, `"block"`, method.String())
	params, _ := req.Get("params")
	assert.Equal(t, `{"finality":"final"}`, params.String())
}

func TestRun_ParamsWithComments(t *testing.T) {
	node, url := startNode(t, blockResponse)

	params := `{
		// latest final block
		"finality": "final",
	}`
	code, _, stderr := runCLI(t, params, "--url", url, "block", "-")
	require.Equal(t, exitOK, code, stderr)

	got, _ := node.lastRequest(t).Get("params")
	assert.Equal(t, `{"finality":"final"}`, got.String())
}

func TestRun_YAMLOutput(t *testing.T) {
	_, url := startNode(t, blockResponse)

	code, stdout, stderr := runCLI(t, "", "--url", url, "-o", "yaml", "block", `{"block_id":7}`)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "author: node0")
	assert.Contains(t, stdout, "height: 7")
}

func TestRun_UnitMethod(t *testing.T) {
	node, url := startNode(t, `{"jsonrpc":"2.0","id":"x","result":null}`)

	code, stdout, stderr := runCLI(t, "", "--url", url, "health")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "null\n", stdout)

	params, _ := node.lastRequest(t).Get("params")
	assert.Equal(t, "null", params.String())
}

func TestRun_RPCError(t *testing.T) {
	_, url := startNode(t, `{"jsonrpc":"2.0","id":"x","error":{"name":"HANDLER_ERROR","cause":{"name":"UNKNOWN_BLOCK","info":{}},"code":-32000,"message":"Server error","data":"DB Not Found Error"}}`)

	code, stdout, stderr := runCLI(t, "", "--url", url, "block", `{"block_id":1}`)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "JSON-RPC error -32000: Server error (UNKNOWN_BLOCK)")
	assert.Contains(t, stderr, `data: "DB Not Found Error"`)
}

func TestRun_InvalidParamsAreNotSent(t *testing.T) {
	node, url := startNode(t, blockResponse)

	code, _, stderr := runCLI(t, "", "--url", url, "query", `{"request_type":"view_everything","finality":"final"}`)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "invalid params for query")
	assert.Zero(t, node.count())
}

func TestRun_MissingParams(t *testing.T) {
	node, url := startNode(t, blockResponse)

	code, _, stderr := runCLI(t, "", "--url", url, "chunk")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "chunk requires params")
	assert.Zero(t, node.count())
}

func TestRun_UsageErrors(t *testing.T) {
	tcs := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no method", args: []string{}, wantErr: "Usage: nearrpc"},
		{name: "unknown method", args: []string{"view_everything"}, wantErr: "unknown method 'view_everything'"},
		{name: "bad output", args: []string{"-o", "xml", "status"}, wantErr: "invalid configuration"},
		{name: "unknown network", args: []string{"-n", "localnet", "status"}, wantErr: "unknown network 'localnet'"},
		{name: "unknown flag", args: []string{"--bogus", "status"}, wantErr: "unknown flag"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tc.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, tc.wantErr)
		})
	}
}

func TestRun_List(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "--list")
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Contains(t, lines, "block")
	assert.Contains(t, lines, "EXPERIMENTAL_tx_status")
}

// seedCache creates a sqlite cache file holding n entries and points the CLI
// at it through a .env file in the returned directory.
func seedCache(t *testing.T, n int) (envDir, dbPath string) {
	t.Helper()
	envDir = t.TempDir()
	dbPath = filepath.Join(t.TempDir(), "near.db")

	store, err := cache.Open(cache.Config{Driver: "sqlite", Name: dbPath}, nil)
	require.NoError(t, err)
	for i := range n {
		require.NoError(t, store.Put(context.Background(), "block", string(rune('a'+i)), value.MustParse(`{}`)))
	}
	require.NoError(t, store.Close())

	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte("NEAR_RPC_CACHE_NAME="+dbPath+"\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("NEAR_RPC_CACHE_NAME") })
	return envDir, dbPath
}

func countCache(t *testing.T, dbPath string) int64 {
	t.Helper()
	store, err := cache.Open(cache.Config{Driver: "sqlite", Name: dbPath}, nil)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestRun_CachePurge(t *testing.T) {
	envDir, dbPath := seedCache(t, 2)

	code, stdout, stderr := runCLI(t, "", "--env-dir", envDir, "--cache-purge", "1h")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "purged 0 cache entries, 2 remaining\n", stdout)

	code, stdout, stderr = runCLI(t, "", "--env-dir", envDir, "--cache-purge", "0s")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "purged 2 cache entries, 0 remaining\n", stdout)
	assert.Zero(t, countCache(t, dbPath))
}

func TestRun_CachePurgeBeforeCall(t *testing.T) {
	node, url := startNode(t, blockResponse)
	envDir, dbPath := seedCache(t, 1)

	code, stdout, stderr := runCLI(t, "", "--env-dir", envDir, "--url", url, "--cache-purge", "0s", "block", `{"finality":"final"}`)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stderr, "purged 1 cache entries, 0 remaining")
	assert.Contains(t, stdout, `"author": "node0"`)
	assert.Equal(t, 1, node.count())
	assert.Zero(t, countCache(t, dbPath))
}

func TestRun_CachePurgeUsageErrors(t *testing.T) {
	envDir, dbPath := seedCache(t, 1)

	code, _, stderr := runCLI(t, "", "--env-dir", envDir, "--cache-purge", "-1h")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "--cache-purge must not be negative")

	code, _, stderr = runCLI(t, "", "--env-dir", envDir, "--cache-purge", "0s", "view_everything")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "unknown method 'view_everything'")

	assert.EqualValues(t, 1, countCache(t, dbPath))
}
